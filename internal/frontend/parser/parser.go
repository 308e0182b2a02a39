// Package parser builds the syntax tree and the scope chain from the token
// stream. It is an LL(1) recursive-descent parser with precomputed start
// sets and distance-based error suppression.
package parser

import (
	set "github.com/hashicorp/go-set/v3"

	"csr/internal/diagnostics"
	"csr/internal/frontend/lexer"
	"csr/internal/semantics/scope"
	"csr/internal/tokens"
)

// minErrDist is how many tokens must be consumed after a syntax error
// before the next one is reported. Suppressing the follow-on cascade keeps
// one mistake from producing a page of messages.
const minErrDist = 2

var (
	typeStart = set.From([]tokens.Kind{
		tokens.INT, tokens.DOUBLE, tokens.STRING, tokens.BOOL,
	})
	exprStart = set.From([]tokens.Kind{
		tokens.MINUS, tokens.NOT, tokens.LBRACE, tokens.LPAREN,
		tokens.IDENT, tokens.INT_LIT, tokens.REAL_LIT, tokens.STRING_LIT,
		tokens.TRUE, tokens.FALSE,
	})
	stmtStart = exprStart.Union(set.From([]tokens.Kind{
		tokens.BEGIN, tokens.RETURN, tokens.IF, tokens.WHILE,
		tokens.DO, tokens.FOR,
	}))
	stmtFollow = set.From([]tokens.Kind{
		tokens.SEMICOLON, tokens.END, tokens.EOF,
	})
	declFollow = set.From([]tokens.Kind{
		tokens.VAR, tokens.FUNCTION, tokens.BEGIN, tokens.EOF,
	})
)

// Parser consumes the token stream with a single token of lookahead. The
// scope chain is built as declarations are parsed; names are not resolved.
type Parser struct {
	scanner  *lexer.Scanner
	filename string
	diag     *diagnostics.Bag

	t  tokens.Token // last consumed
	la tokens.Token // lookahead

	errDist int

	program *scope.ProgramScope
}

// New creates a parser over the scanner's token stream. The global scope
// carries the library references used later by resolution.
func New(sc *lexer.Scanner, filename string, global *scope.GlobalScope, diag *diagnostics.Bag) *Parser {
	p := &Parser{
		scanner:  sc,
		filename: filename,
		diag:     diag,
		errDist:  minErrDist,
		program:  scope.NewProgram(global),
	}
	p.la = sc.Scan()
	return p
}

func (p *Parser) advance() {
	p.t = p.la
	p.la = p.scanner.Scan()
	p.errDist++
}

// match consumes the lookahead when it has the wanted kind.
func (p *Parser) match(kind tokens.Kind) bool {
	if p.la.Kind == kind {
		p.advance()
		return true
	}
	return false
}

// expect consumes the wanted kind or reports it missing.
func (p *Parser) expect(kind tokens.Kind) bool {
	if p.match(kind) {
		return true
	}
	p.errorExpected(kind)
	return false
}

// expectWeak consumes the wanted kind; on failure it reports the miss and
// skips forward until the lookahead is in the follow set, so one bad token
// does not derail the enclosing production.
func (p *Parser) expectWeak(kind tokens.Kind, follow *set.Set[tokens.Kind]) {
	if p.match(kind) {
		return
	}
	p.errorExpected(kind)
	for p.la.Kind != tokens.EOF && !follow.Contains(p.la.Kind) {
		p.advance()
	}
}

func (p *Parser) errorExpected(kind tokens.Kind) {
	p.errorf(diagnostics.ErrExpectedToken, "'%v' expected", kind)
}

// errorf records a syntax error at the lookahead unless one was reported
// within the last minErrDist tokens.
func (p *Parser) errorf(code, format string, args ...any) {
	if p.errDist >= minErrDist {
		p.diag.Add(diagnostics.NewError(format, args...).
			WithCode(code).
			WithLocation(p.la.Location(p.filename)))
	}
	p.errDist = 0
}

// sync skips tokens until the lookahead is in the given set or at EOF.
func (p *Parser) sync(to *set.Set[tokens.Kind]) {
	for p.la.Kind != tokens.EOF && !to.Contains(p.la.Kind) {
		p.advance()
	}
}
