package parser

import (
	"csr/internal/diagnostics"
	"csr/internal/tokens"
	"csr/internal/types"
)

var primitiveKinds = map[tokens.Kind]types.PrimitiveKind{
	tokens.INT:    types.Int,
	tokens.DOUBLE: types.Double,
	tokens.STRING: types.String,
	tokens.BOOL:   types.Bool,
}

// parseType parses a primitive type name with an optional rectangular array
// suffix. On a malformed type it reports and returns int so parsing can
// continue with something sensible.
func (p *Parser) parseType() types.Type {
	kind, ok := primitiveKinds[p.la.Kind]
	if !ok {
		p.errorf(diagnostics.ErrInvalidType, "type expected")
		return types.TypeInt
	}
	p.advance()

	if !p.match(tokens.LBRACKET) {
		return types.Primitive(kind)
	}
	var sizes []int
	sizes = append(sizes, p.parseArraySize())
	for p.match(tokens.COMMA) {
		sizes = append(sizes, p.parseArraySize())
	}
	p.expect(tokens.RBRACKET)
	return types.NewArray(kind, sizes)
}

// parseArraySize parses one dimension size, an integer literal.
func (p *Parser) parseArraySize() int {
	if !p.expect(tokens.INT_LIT) {
		return 0
	}
	n, err := tokens.ParseIntLiteral(p.t.Text)
	if err != nil || n < 0 {
		p.errorf(diagnostics.ErrInvalidType, "invalid array size '%s'", p.t.Text)
		return 0
	}
	return int(n)
}
