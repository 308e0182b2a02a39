package parser

import (
	"csr/internal/diagnostics"
	"csr/internal/frontend/ast"
	"csr/internal/tokens"
	"csr/internal/types"
)

// Operator precedence, tightest first: mul, add, logical, equality. Logical
// operators binding tighter than comparisons is a defining quirk of the
// language and must not be "fixed" to the C convention.

var (
	eqOps = map[tokens.Kind]ast.BinaryOp{
		tokens.EQ: ast.Eq, tokens.NEQ: ast.Neq,
		tokens.LT: ast.Lt, tokens.LEQ: ast.Leq,
		tokens.GT: ast.Gt, tokens.GEQ: ast.Geq,
	}
	logOps = map[tokens.Kind]ast.BinaryOp{
		tokens.AND: ast.And, tokens.OR: ast.Or, tokens.XOR: ast.Xor,
	}
	addOps = map[tokens.Kind]ast.BinaryOp{
		tokens.PLUS: ast.Add, tokens.MINUS: ast.Sub,
	}
	mulOps = map[tokens.Kind]ast.BinaryOp{
		tokens.STAR: ast.Mul, tokens.SLASH: ast.Div, tokens.PERCENT: ast.Rem,
	}
)

func (p *Parser) parseExpr() ast.Expression {
	return p.parseEq(p.parseUnary())
}

// parseEq and friends each take the already-parsed left operand, fold in
// the tighter levels, then loop over their own operators.
func (p *Parser) parseEq(left ast.Expression) ast.Expression {
	left = p.parseLog(left)
	for {
		op, ok := eqOps[p.la.Kind]
		if !ok {
			return left
		}
		tok := p.la
		p.advance()
		right := p.parseLog(p.parseUnary())
		left = newBinary(tok, op, left, right)
	}
}

func (p *Parser) parseLog(left ast.Expression) ast.Expression {
	left = p.parseAdd(left)
	for {
		op, ok := logOps[p.la.Kind]
		if !ok {
			return left
		}
		tok := p.la
		p.advance()
		right := p.parseAdd(p.parseUnary())
		left = newBinary(tok, op, left, right)
	}
}

func (p *Parser) parseAdd(left ast.Expression) ast.Expression {
	left = p.parseMul(left)
	for {
		op, ok := addOps[p.la.Kind]
		if !ok {
			return left
		}
		tok := p.la
		p.advance()
		right := p.parseMul(p.parseUnary())
		left = newBinary(tok, op, left, right)
	}
}

func (p *Parser) parseMul(left ast.Expression) ast.Expression {
	for {
		op, ok := mulOps[p.la.Kind]
		if !ok {
			return left
		}
		tok := p.la
		p.advance()
		left = newBinary(tok, op, left, p.parseUnary())
	}
}

func newBinary(tok tokens.Token, op ast.BinaryOp, left, right ast.Expression) *ast.Binary {
	b := &ast.Binary{Op: op, Left: left, Right: right}
	b.Tok = tok
	return b
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.la.Kind {
	case tokens.MINUS:
		p.advance()
		u := &ast.Unary{Op: ast.UMinus, Operand: p.parseUnary()}
		u.Tok = p.t
		return u
	case tokens.NOT:
		p.advance()
		u := &ast.Unary{Op: ast.Not, Operand: p.parseUnary()}
		u.Tok = p.t
		return u
	case tokens.LBRACE:
		return p.parseCast()
	case tokens.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(tokens.RPAREN)
		return e
	case tokens.IDENT:
		return p.parseDesignator()
	case tokens.INT_LIT:
		return p.parseConst(types.Int)
	case tokens.REAL_LIT:
		return p.parseConst(types.Double)
	case tokens.STRING_LIT:
		return p.parseConst(types.String)
	case tokens.TRUE, tokens.FALSE:
		return p.parseConst(types.Bool)
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, "expression expected, found '%s'", p.la.Text)
		p.advance()
		c := &ast.Constant{Kind: types.Int}
		c.Tok = p.t
		return c
	}
}

// parseCast parses the brace cast form applied to a unary operand.
func (p *Parser) parseCast() ast.Expression {
	p.expect(tokens.LBRACE)
	tok := p.t
	kind, ok := primitiveKinds[p.la.Kind]
	if !ok {
		p.errorf(diagnostics.ErrInvalidType, "type expected in cast")
		kind = types.Int
	} else {
		if kind != types.Int && kind != types.Double {
			p.errorf(diagnostics.ErrInvalidType, "cast target must be int or double")
			kind = types.Int
		}
		p.advance()
	}
	p.expect(tokens.RBRACE)
	c := &ast.Cast{Target: kind, Operand: p.parseUnary()}
	c.Tok = tok
	return c
}

// parseConst records the literal; its value is parsed during evaluation.
func (p *Parser) parseConst(kind types.PrimitiveKind) ast.Expression {
	p.advance()
	c := &ast.Constant{Kind: kind}
	c.Tok = p.t
	return c
}

// parseDesignator parses a dotted name and an optional call argument list
// or index list. Chained suffixes are not in the grammar: a[i][j] is
// rejected later, a[i,j] is the accepted form.
func (p *Parser) parseDesignator() ast.Expression {
	p.expect(tokens.IDENT)
	ref := &ast.VariableRef{Parts: []string{p.t.Text}}
	ref.Tok = p.t
	for p.match(tokens.DOT) {
		if !p.expect(tokens.IDENT) {
			break
		}
		ref.Parts = append(ref.Parts, p.t.Text)
	}

	switch p.la.Kind {
	case tokens.LPAREN:
		p.advance()
		call := &ast.Call{Callee: ref}
		call.Tok = ref.Tok
		if exprStart.Contains(p.la.Kind) {
			call.Args = append(call.Args, p.parseExpr())
			for p.match(tokens.COMMA) {
				call.Args = append(call.Args, p.parseExpr())
			}
		}
		p.expect(tokens.RPAREN)
		return call
	case tokens.LBRACKET:
		p.advance()
		idx := &ast.Indexer{Target: ref}
		idx.Tok = ref.Tok
		idx.Indices = append(idx.Indices, p.parseExpr())
		for p.match(tokens.COMMA) {
			idx.Indices = append(idx.Indices, p.parseExpr())
		}
		p.expect(tokens.RBRACKET)
		return idx
	default:
		return ref
	}
}
