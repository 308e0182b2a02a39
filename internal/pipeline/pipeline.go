// Package pipeline sequences the compilation phases and gates each one on
// the error count of the previous: parse, evaluate, generate. Diagnostics
// from all phases accumulate in one chronological bag.
package pipeline

import (
	"os"

	"csr/colors"
	"csr/internal/codegen"
	"csr/internal/diagnostics"
	"csr/internal/frontend/ast"
	"csr/internal/frontend/lexer"
	"csr/internal/frontend/parser"
	"csr/internal/meta"
	"csr/internal/semantics/evaluator"
	"csr/internal/semantics/scope"
	"csr/internal/tokens"
)

type Pipeline struct {
	filename   string
	source     []byte
	references []string
	provider   meta.TypeProvider
	asm        codegen.Assembler
	output     string

	verbose     bool
	debugTokens bool

	diag    *diagnostics.Bag
	prog    *ast.Program
	program *scope.ProgramScope
}

type Config struct {
	Filename    string
	Source      []byte // read from Filename when nil
	References  []string
	Provider    meta.TypeProvider // defaults to the built-in corlib registry
	Assembler   codegen.Assembler // defaults to the container builder
	Output      string            // defaults to <program>.exe
	Verbose     bool
	DebugTokens bool
}

func New(cfg Config) *Pipeline {
	if cfg.Provider == nil {
		cfg.Provider = meta.Corlib()
	}
	if cfg.Assembler == nil {
		cfg.Assembler = codegen.NewBuilder()
	}
	return &Pipeline{
		filename:    cfg.Filename,
		source:      cfg.Source,
		references:  cfg.References,
		provider:    cfg.Provider,
		asm:         cfg.Assembler,
		output:      cfg.Output,
		verbose:     cfg.Verbose,
		debugTokens: cfg.DebugTokens,
		diag:        diagnostics.NewBag(),
	}
}

// Diagnostics exposes the accumulated bag.
func (p *Pipeline) Diagnostics() *diagnostics.Bag { return p.diag }

// Program returns the tree, elaborated as far as the run got.
func (p *Pipeline) Program() *ast.Program { return p.prog }

// Run drives the phases. It returns the artifact path and whether the
// compilation was aborted before emission.
func (p *Pipeline) Run() (string, bool) {
	if !p.parse() {
		return "", true
	}
	if !p.evaluate() {
		return "", true
	}
	return p.generate()
}

func (p *Pipeline) parse() bool {
	p.banner("parse")

	var sc *lexer.Scanner
	if p.source != nil {
		sc = lexer.New(p.filename, p.source, p.diag)
	} else {
		var err error
		sc, err = lexer.Open(p.filename, p.diag)
		if err != nil {
			return false
		}
	}
	if p.debugTokens {
		p.dumpTokens()
	}

	global := scope.NewGlobal(p.provider, meta.CorlibName)
	for _, ref := range p.references {
		global.AddReference(ref)
	}
	ps := parser.New(sc, p.filename, global, p.diag)
	p.prog, p.program = ps.Parse()
	return !p.diag.HasErrors()
}

func (p *Pipeline) evaluate() bool {
	p.banner("evaluate")
	evaluator.New(p.filename, p.program, p.diag).Evaluate(p.prog)
	return !p.diag.HasErrors()
}

func (p *Pipeline) generate() (string, bool) {
	p.banner("generate")
	gen := codegen.New(p.asm, p.program, p.provider)
	if err := gen.Generate(p.prog); err != nil {
		p.diag.Add(diagnostics.NewError("%v", err))
		return "", true
	}
	output := p.output
	if output == "" {
		output = p.prog.Name + ".exe"
	}
	if err := p.asm.Save(output); err != nil {
		p.diag.Add(diagnostics.NewError("cannot write '%s': %v", output, err))
		return "", true
	}
	return output, false
}

// dumpTokens rescans the source and prints every token. Diagnostics from
// the throwaway scan go to a scratch bag so nothing is reported twice.
func (p *Pipeline) dumpTokens() {
	scratch := diagnostics.NewBag()
	var sc *lexer.Scanner
	if p.source != nil {
		sc = lexer.New(p.filename, p.source, scratch)
	} else {
		var err error
		sc, err = lexer.Open(p.filename, scratch)
		if err != nil {
			return
		}
	}
	for {
		tok := sc.Scan()
		tok.Debug(p.filename)
		if tok.Kind == tokens.EOF {
			return
		}
	}
}

func (p *Pipeline) banner(phase string) {
	if p.verbose {
		colors.CYAN.Fprintf(os.Stderr, "========= %s =========\n", phase)
	}
}
