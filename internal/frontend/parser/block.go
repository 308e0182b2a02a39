package parser

import (
	set "github.com/hashicorp/go-set/v3"

	"csr/internal/diagnostics"
	"csr/internal/frontend/ast"
	"csr/internal/tokens"
)

var stmtSync = stmtStart.Union(set.From([]tokens.Kind{tokens.END}))

func (p *Parser) parseBlock() *ast.Block {
	p.expect(tokens.BEGIN)
	blk := ast.NewBlock(p.t, nil)
	for p.la.Kind != tokens.END && p.la.Kind != tokens.EOF {
		if !stmtStart.Contains(p.la.Kind) {
			p.errorf(diagnostics.ErrUnexpectedToken, "statement expected, found '%s'", p.la.Text)
			p.sync(stmtSync)
			continue
		}
		if s := p.parseStatement(); s != nil {
			blk.Statements = append(blk.Statements, s)
		}
	}
	p.expect(tokens.END)
	return blk
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.la.Kind {
	case tokens.BEGIN:
		return p.parseBlock()
	case tokens.RETURN:
		return p.parseReturn()
	case tokens.IF:
		return p.parseIf()
	case tokens.WHILE:
		return p.parseWhile()
	case tokens.DO:
		return p.parseDoWhile()
	case tokens.FOR:
		return p.parseFor()
	default:
		return p.parseSimpleStatement()
	}
}

func (p *Parser) parseReturn() ast.Statement {
	p.expect(tokens.RETURN)
	s := &ast.Return{}
	s.Tok = p.t
	if exprStart.Contains(p.la.Kind) {
		s.Value = p.parseExpr()
	}
	p.expectWeak(tokens.SEMICOLON, stmtFollow)
	return s
}

func (p *Parser) parseIf() ast.Statement {
	p.expect(tokens.IF)
	s := &ast.If{}
	s.Tok = p.t
	p.expect(tokens.LPAREN)
	s.Cond = p.parseExpr()
	p.expect(tokens.RPAREN)
	s.Then = p.parseStatement()
	if p.match(tokens.ELSE) {
		s.Else = p.parseStatement()
	}
	return s
}

func (p *Parser) parseWhile() ast.Statement {
	p.expect(tokens.WHILE)
	s := &ast.While{}
	s.Tok = p.t
	p.expect(tokens.LPAREN)
	s.Cond = p.parseExpr()
	p.expect(tokens.RPAREN)
	s.Body = p.parseStatement()
	return s
}

func (p *Parser) parseDoWhile() ast.Statement {
	p.expect(tokens.DO)
	s := &ast.DoWhile{}
	s.Tok = p.t
	s.Body = p.parseStatement()
	p.expect(tokens.WHILE)
	p.expect(tokens.LPAREN)
	s.Cond = p.parseExpr()
	p.expect(tokens.RPAREN)
	return s
}

func (p *Parser) parseFor() ast.Statement {
	p.expect(tokens.FOR)
	s := &ast.For{}
	s.Tok = p.t
	s.Iter = p.parseExpr()
	p.expect(tokens.ASSIGN)
	s.From = p.parseExpr()
	switch {
	case p.match(tokens.TO):
		s.Dir = ast.Up
	case p.match(tokens.DOWNTO):
		s.Dir = ast.Down
	default:
		p.errorExpected(tokens.TO)
	}
	s.Limit = p.parseExpr()
	p.expect(tokens.DO)
	s.Body = p.parseStatement()
	return s
}

// parseSimpleStatement parses an expression and turns it into either an
// assignment or a call statement. Anything else on its own is not a
// statement.
func (p *Parser) parseSimpleStatement() ast.Statement {
	expr := p.parseExpr()
	var s ast.Statement
	switch {
	case p.la.Kind == tokens.ASSIGN:
		p.advance()
		a := &ast.Assign{Target: expr, Value: p.parseExpr()}
		a.Tok = *expr.Token()
		s = a
	default:
		if call, ok := expr.(*ast.Call); ok {
			cs := &ast.CallStmt{Call: call}
			cs.Tok = *call.Token()
			s = cs
		} else {
			p.errorf(diagnostics.ErrUnexpectedToken,
				"only calls and assignments can be used as statements")
		}
	}
	p.expectWeak(tokens.SEMICOLON, stmtFollow)
	return s
}
