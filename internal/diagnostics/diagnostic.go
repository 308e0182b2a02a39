package diagnostics

import (
	"fmt"

	"csr/internal/source"
)

// Severity represents the severity level of a diagnostic
type Severity int

const (
	Fatal Severity = iota
	Error
	Warning
)

func (s Severity) String() string {
	switch s {
	case Fatal:
		return "fatal"
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Note represents additional information attached to a diagnostic
type Note struct {
	Message string
}

// Diagnostic represents a compiler diagnostic (error, warning, etc.)
type Diagnostic struct {
	Severity Severity
	Message  string
	Code     string // Error code like "P0001"
	Location *source.Location
	Notes    []Note
}

// NewFatal creates a fatal diagnostic. Fatal diagnostics abort the pipeline.
func NewFatal(format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: Fatal, Message: sprintf(format, args)}
}

// NewError creates a new error diagnostic
func NewError(format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: Error, Message: sprintf(format, args)}
}

// NewWarning creates a new warning diagnostic
func NewWarning(format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: Warning, Message: sprintf(format, args)}
}

func sprintf(format string, args []any) string {
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}

// WithCode sets the error code
func (d *Diagnostic) WithCode(code string) *Diagnostic {
	d.Code = code
	return d
}

// WithLocation attaches the source location the diagnostic points at
func (d *Diagnostic) WithLocation(loc *source.Location) *Diagnostic {
	d.Location = loc
	return d
}

// WithNote adds a note to the diagnostic
func (d *Diagnostic) WithNote(message string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Message: message})
	return d
}
