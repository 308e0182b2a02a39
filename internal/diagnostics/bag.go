package diagnostics

import (
	"bytes"
	"os"
)

// Bag collects diagnostics during compilation. Diagnostics are appended in
// the textual order they are discovered and never thrown; phases keep going
// past errors so that as many problems as possible surface in one run.
type Bag struct {
	diagnostics []*Diagnostic
	errorCount  int
	warnCount   int
	fatal       bool
}

// NewBag creates an empty diagnostic bag.
func NewBag() *Bag {
	return &Bag{diagnostics: make([]*Diagnostic, 0)}
}

// Add appends a diagnostic to the bag.
func (b *Bag) Add(diag *Diagnostic) {
	b.diagnostics = append(b.diagnostics, diag)

	switch diag.Severity {
	case Fatal:
		b.fatal = true
		b.errorCount++
	case Error:
		b.errorCount++
	case Warning:
		b.warnCount++
	}
}

// HasErrors returns true if any error or fatal diagnostic was recorded.
func (b *Bag) HasErrors() bool {
	return b.errorCount > 0
}

// HasFatal returns true if a fatal diagnostic was recorded.
func (b *Bag) HasFatal() bool {
	return b.fatal
}

// ErrorCount returns the number of errors (warnings excluded).
func (b *Bag) ErrorCount() int {
	return b.errorCount
}

// WarningCount returns the number of warnings.
func (b *Bag) WarningCount() int {
	return b.warnCount
}

// Diagnostics returns all recorded diagnostics in discovery order.
func (b *Bag) Diagnostics() []*Diagnostic {
	result := make([]*Diagnostic, len(b.diagnostics))
	copy(result, b.diagnostics)
	return result
}

// EmitAll renders every diagnostic to stderr.
func (b *Bag) EmitAll() {
	emitter := NewEmitter(os.Stderr)
	for _, diag := range b.diagnostics {
		emitter.Emit(diag)
	}
	emitter.Summary(b.errorCount, b.warnCount)
}

// EmitAllToString renders every diagnostic into a plain string.
func (b *Bag) EmitAllToString() string {
	var buf bytes.Buffer
	emitter := NewEmitter(&buf)
	for _, diag := range b.diagnostics {
		emitter.Emit(diag)
	}
	emitter.Summary(b.errorCount, b.warnCount)
	return buf.String()
}
