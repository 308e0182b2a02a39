package diagnostics

import (
	"fmt"
	"io"
	"os"

	"csr/colors"
)

const (
	compileFailedMsg          = "Compilation failed with %d error(s)"
	andWarningMsg             = " and %d warning(s)"
	compileSuccessWithWarning = "Compilation succeeded with %d warning(s)\n"
)

// Emitter renders diagnostics one per line:
//
//	-- line L col C: <text>
type Emitter struct {
	writer io.Writer
	color  bool
}

// NewEmitter creates an emitter that writes to a specific writer.
// Color is applied only when writing to stderr.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{writer: w, color: w == os.Stderr}
}

// Emit renders a single diagnostic.
func (e *Emitter) Emit(diag *Diagnostic) {
	line, col := 0, 0
	if diag.Location != nil {
		line = diag.Location.Pos.Line
		col = diag.Location.Pos.Column
	}

	text := diag.Message
	if diag.Severity == Warning {
		text = "warning: " + text
	}

	msg := fmt.Sprintf("-- line %d col %d: %s\n", line, col, text)
	if e.color {
		switch diag.Severity {
		case Fatal, Error:
			colors.RED.Fprint(e.writer, msg)
		case Warning:
			colors.ORANGE.Fprint(e.writer, msg)
		}
	} else {
		fmt.Fprint(e.writer, msg)
	}

	for _, note := range diag.Notes {
		fmt.Fprintf(e.writer, "   note: %s\n", note.Message)
	}
}

// Summary prints the end-of-compile error/warning tally.
func (e *Emitter) Summary(errorCount, warnCount int) {
	if errorCount > 0 {
		msg := fmt.Sprintf(compileFailedMsg, errorCount)
		if warnCount > 0 {
			msg += fmt.Sprintf(andWarningMsg, warnCount)
		}
		if e.color {
			colors.RED.Fprintln(e.writer, msg)
		} else {
			fmt.Fprintln(e.writer, msg)
		}
	} else if warnCount > 0 {
		if e.color {
			colors.ORANGE.Fprintf(e.writer, compileSuccessWithWarning, warnCount)
		} else {
			fmt.Fprintf(e.writer, compileSuccessWithWarning, warnCount)
		}
	}
}
