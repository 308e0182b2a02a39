package parser

import (
	"csr/internal/diagnostics"
	"csr/internal/frontend/ast"
	"csr/internal/semantics/scope"
	"csr/internal/tokens"
	"csr/internal/types"
)

// Parse consumes the whole source and returns the program with its scope
// chain. The tree is structurally complete even in the presence of syntax
// errors; callers gate on the error count before evaluating it.
func (p *Parser) Parse() (*ast.Program, *scope.ProgramScope) {
	p.expect(tokens.PROGRAM)
	prog := &ast.Program{Tok: p.t}
	if p.expect(tokens.IDENT) {
		prog.Tok = p.t
		prog.Name = p.t.Text
	}
	p.expectWeak(tokens.SEMICOLON, declFollow)

	for {
		if p.la.Kind == tokens.FUNCTION {
			p.parseFuncDecl()
			continue
		}
		if p.la.Kind == tokens.VAR {
			p.parseVarSection(p.program.DeclareGlobal)
			continue
		}
		if p.la.Kind == tokens.BEGIN || p.la.Kind == tokens.EOF {
			break
		}
		p.errorf(diagnostics.ErrUnexpectedToken, "unexpected '%s'", p.la.Text)
		p.sync(declFollow)
	}

	prog.Main = p.parseMain()
	if p.la.Kind != tokens.EOF {
		p.errorf(diagnostics.ErrUnexpectedToken, "unexpected '%s' after program end", p.la.Text)
	}
	return prog, p.program
}

// parseMain wraps the program body in a synthetic entry function.
func (p *Parser) parseMain() *ast.FuncDecl {
	local := scope.NewLocal(p.program, types.TypeVoid)
	main := &ast.FuncDecl{Name: "Main", Ret: types.TypeVoid, Scope: local}
	main.Tok = p.la
	main.Body = p.parseBlock()
	return main
}

func (p *Parser) parseFuncDecl() {
	p.expect(tokens.FUNCTION)
	p.expect(tokens.IDENT)
	f := &ast.FuncDecl{Tok: p.t, Name: p.t.Text, Ret: types.TypeVoid}

	p.expect(tokens.LPAREN)
	if typeStart.Contains(p.la.Kind) {
		for {
			typ := p.parseType()
			p.expect(tokens.IDENT)
			f.Params = append(f.Params, &ast.VarDecl{
				Tok: p.t, Name: p.t.Text, DeclType: typ,
			})
			if !p.match(tokens.COMMA) {
				break
			}
		}
	}
	p.expect(tokens.RPAREN)
	if p.match(tokens.COLON) {
		f.Ret = p.parseType()
	}

	if err := p.program.DeclareFunc(f); err != nil {
		p.errorf(diagnostics.ErrRedeclaredSymbol, "%v", err)
	}

	local := scope.NewLocal(p.program, f.Ret)
	for _, param := range f.Params {
		if err := local.DeclareParam(param); err != nil {
			p.errorf(diagnostics.ErrRedeclaredSymbol, "%v", err)
		}
	}
	for p.la.Kind == tokens.VAR {
		p.parseVarSection(local.DeclareLocal)
	}
	f.Scope = local
	f.Body = p.parseBlock()
}

// parseVarSection parses one var keyword followed by declaration lines. A
// line declares one or more names of a shared type; further lines continue
// while a type name follows.
func (p *Parser) parseVarSection(declare func(*ast.VarDecl) error) {
	p.expect(tokens.VAR)
	p.parseVarLine(declare)
	for typeStart.Contains(p.la.Kind) {
		p.parseVarLine(declare)
	}
}

func (p *Parser) parseVarLine(declare func(*ast.VarDecl) error) {
	typ := p.parseType()
	for {
		if p.expect(tokens.IDENT) {
			d := &ast.VarDecl{Tok: p.t, Name: p.t.Text, DeclType: typ}
			if err := declare(d); err != nil {
				p.errorf(diagnostics.ErrRedeclaredSymbol, "%v", err)
			}
		}
		if !p.match(tokens.COMMA) {
			break
		}
	}
	p.expectWeak(tokens.SEMICOLON, declFollow)
}
