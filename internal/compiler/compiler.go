// Package compiler is the embedding surface: one call that runs the whole
// pipeline, prints diagnostics, and reports counts back to the host.
package compiler

import (
	"os"

	"csr/internal/codegen"
	"csr/internal/meta"
	"csr/internal/pipeline"
)

type Options struct {
	// Path of the source file. Source, when set, is compiled instead of
	// reading the file.
	Path   string
	Source []byte

	// References are library strong-names beyond the implicit standard
	// library.
	References []string

	// Provider and Assembler override the reflective type provider and
	// the bytecode assembler. Nil selects the defaults.
	Provider  meta.TypeProvider
	Assembler codegen.Assembler

	// Output overrides the artifact path, normally <program>.exe.
	Output string

	Verbose     bool
	DebugTokens bool

	// Quiet suppresses diagnostic printing; counts are still reported.
	Quiet bool
}

type Result struct {
	// Artifact is the path of the produced executable, empty when the
	// compilation aborted.
	Artifact string
	Aborted  bool
	Errors   int
	Warnings int
}

// Compile runs the pipeline over one source file. By historical convention
// a failed compilation is not an error of the compiler process: callers
// that want a non-zero exit inspect the counts.
func Compile(opts Options) Result {
	p := pipeline.New(pipeline.Config{
		Filename:    opts.Path,
		Source:      opts.Source,
		References:  opts.References,
		Provider:    opts.Provider,
		Assembler:   opts.Assembler,
		Output:      opts.Output,
		Verbose:     opts.Verbose,
		DebugTokens: opts.DebugTokens,
	})
	artifact, aborted := p.Run()
	diag := p.Diagnostics()

	if !opts.Quiet {
		diag.EmitAll()
		if aborted {
			os.Stderr.WriteString("Compilation aborted\n")
		}
	}
	return Result{
		Artifact: artifact,
		Aborted:  aborted,
		Errors:   diag.ErrorCount(),
		Warnings: diag.WarningCount(),
	}
}
