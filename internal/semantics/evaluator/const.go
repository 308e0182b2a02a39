package evaluator

import (
	"strconv"
	"strings"

	"csr/internal/diagnostics"
	"csr/internal/frontend/ast"
	"csr/internal/tokens"
	"csr/internal/types"
)

// evalConstant parses the literal's lexeme into a typed value. A malformed
// lexeme reports an error and leaves the zero value, so downstream phases
// always see a well-formed constant. Already-typed constants, including the
// ones folding creates, pass through untouched.
func (e *Evaluator) evalConstant(c *ast.Constant) ast.Expression {
	if c.ReturnType() != nil {
		return c
	}
	switch c.Kind {
	case types.Int:
		n, err := tokens.ParseIntLiteral(c.Tok.Text)
		if err != nil {
			e.errorAt(c.Tok, diagnostics.ErrInvalidConstant,
				"invalid integer constant '%s'", c.Tok.Text)
		}
		c.IntVal = n
		c.SetReturnType(types.TypeInt)
	case types.Double:
		f, err := strconv.ParseFloat(c.Tok.Text, 64)
		if err != nil {
			e.errorAt(c.Tok, diagnostics.ErrInvalidConstant,
				"invalid real constant '%s'", c.Tok.Text)
			f = 0
		}
		c.DoubleVal = f
		c.SetReturnType(types.TypeDouble)
	case types.Bool:
		c.BoolVal = c.Tok.Text == "true"
		c.SetReturnType(types.TypeBool)
	case types.String:
		c.StrVal = unescape(c.Tok.Text)
		c.SetReturnType(types.TypeString)
	default:
		c.SetReturnType(types.TypeUnsupported)
	}
	return c
}

var escapes = map[byte]byte{
	'\\': '\\', '"': '"', '\'': '\'', '0': 0,
	'a': '\a', 'b': '\b', 'f': '\f', 'n': '\n',
	'r': '\r', 't': '\t', 'v': '\v',
}

// unescape resolves the escape sequences the scanner has already validated.
func unescape(text string) string {
	if !strings.ContainsRune(text, '\\') {
		return text
	}
	var sb strings.Builder
	sb.Grow(len(text))
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) {
			if b, ok := escapes[text[i+1]]; ok {
				sb.WriteByte(b)
				i++
				continue
			}
		}
		sb.WriteByte(text[i])
	}
	return sb.String()
}
