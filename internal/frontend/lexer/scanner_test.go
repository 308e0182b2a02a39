package lexer

import (
	"testing"

	"csr/internal/diagnostics"
	"csr/internal/tokens"
)

func scanAll(t *testing.T, src string) ([]tokens.Token, *diagnostics.Bag) {
	t.Helper()
	diag := diagnostics.NewBag()
	sc := New("test.v", []byte(src), diag)
	var out []tokens.Token
	for {
		tok := sc.Scan()
		if tok.Kind == tokens.EOF {
			return out, diag
		}
		out = append(out, tok)
	}
}

func expectKinds(t *testing.T, got []tokens.Token, want ...tokens.Kind) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i, k := range want {
		if got[i].Kind != k {
			t.Errorf("token %d: got %v (%q), want %v", i, got[i].Kind, got[i].Text, k)
		}
	}
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, diag := scanAll(t, "program demo begin end foo Foo _x x1")
	if diag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diag.EmitAllToString())
	}
	expectKinds(t, toks,
		tokens.PROGRAM, tokens.IDENT, tokens.BEGIN, tokens.END,
		tokens.IDENT, tokens.IDENT, tokens.IDENT, tokens.IDENT)
	if toks[1].Text != "demo" {
		t.Errorf("got %q, want %q", toks[1].Text, "demo")
	}
	// keywords are case sensitive
	toks, _ = scanAll(t, "Program BEGIN")
	expectKinds(t, toks, tokens.IDENT, tokens.IDENT)
}

func TestScanOperators(t *testing.T) {
	tests := []struct {
		src  string
		kind tokens.Kind
	}{
		{"==", tokens.EQ},
		{"!=", tokens.NEQ},
		{"<=", tokens.LEQ},
		{">=", tokens.GEQ},
		{"=", tokens.ASSIGN},
		{"!", tokens.NOT},
		{"<", tokens.LT},
		{">", tokens.GT},
		{"+", tokens.PLUS},
		{"-", tokens.MINUS},
		{"*", tokens.STAR},
		{"/", tokens.SLASH},
		{"%", tokens.PERCENT},
		{";", tokens.SEMICOLON},
		{"{", tokens.LBRACE},
		{"}", tokens.RBRACE},
		{"[", tokens.LBRACKET},
		{"]", tokens.RBRACKET},
	}
	for _, tc := range tests {
		toks, _ := scanAll(t, tc.src)
		if len(toks) != 1 || toks[0].Kind != tc.kind {
			t.Errorf("%q: got %v, want %v", tc.src, toks, tc.kind)
		}
	}
}

func TestScanNumbers(t *testing.T) {
	tests := []struct {
		src  string
		kind tokens.Kind
		text string
	}{
		{"0", tokens.INT_LIT, "0"},
		{"42", tokens.INT_LIT, "42"},
		{"0x1F", tokens.INT_LIT, "0x1F"},
		{"0XAB", tokens.INT_LIT, "0XAB"},
		{"3.14", tokens.REAL_LIT, "3.14"},
		{".5", tokens.REAL_LIT, ".5"},
		{"1.5e10", tokens.REAL_LIT, "1.5e10"},
		{"1.5E-3", tokens.REAL_LIT, "1.5E-3"},
		{"2.5d", tokens.REAL_LIT, "2.5"},
		{"2.5D", tokens.REAL_LIT, "2.5"},
	}
	for _, tc := range tests {
		toks, diag := scanAll(t, tc.src)
		if diag.HasErrors() {
			t.Errorf("%q: unexpected errors", tc.src)
			continue
		}
		if len(toks) != 1 {
			t.Errorf("%q: got %d tokens, want 1", tc.src, len(toks))
			continue
		}
		if toks[0].Kind != tc.kind || toks[0].Text != tc.text {
			t.Errorf("%q: got %v %q, want %v %q", tc.src, toks[0].Kind, toks[0].Text, tc.kind, tc.text)
		}
	}
}

func TestScanIntegerDotStaysSeparate(t *testing.T) {
	// a dot not followed by a digit belongs to the next token
	toks, _ := scanAll(t, "2.foo")
	expectKinds(t, toks, tokens.INT_LIT, tokens.DOT, tokens.IDENT)
	if toks[0].Text != "2" {
		t.Errorf("got %q, want %q", toks[0].Text, "2")
	}
}

func TestScanStrings(t *testing.T) {
	tests := []struct {
		src  string
		text string
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\nb"`, `a\nb`},
		{`"say \"hi\""`, `say \"hi\"`},
		{`"tab\there"`, `tab\there`},
	}
	for _, tc := range tests {
		toks, diag := scanAll(t, tc.src)
		if diag.HasErrors() {
			t.Errorf("%q: unexpected errors", tc.src)
			continue
		}
		if len(toks) != 1 || toks[0].Kind != tokens.STRING_LIT {
			t.Errorf("%q: got %v, want one string literal", tc.src, toks)
			continue
		}
		if toks[0].Text != tc.text {
			t.Errorf("%q: got text %q, want %q", tc.src, toks[0].Text, tc.text)
		}
	}
}

func TestScanStringErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code string
	}{
		{"newline", "\"abc\ndef\"", diagnostics.ErrUnterminatedString},
		{"eof", `"abc`, diagnostics.ErrUnterminatedString},
		{"bad_escape", `"a\qb"`, diagnostics.ErrBadEscape},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			diag := diagnostics.NewBag()
			sc := New("test.v", []byte(tc.src), diag)
			tok := sc.Scan()
			if !diag.HasFatal() {
				t.Fatal("expected a fatal diagnostic")
			}
			if tok.Kind != tokens.EOF {
				t.Errorf("got %v, want EOF after fatal error", tok.Kind)
			}
			if got := diag.Diagnostics()[0].Code; got != tc.code {
				t.Errorf("got code %s, want %s", got, tc.code)
			}
			// the scanner stays at EOF afterwards
			if tok := sc.Scan(); tok.Kind != tokens.EOF {
				t.Errorf("got %v after fatal, want EOF", tok.Kind)
			}
		})
	}
}

func TestScanComments(t *testing.T) {
	toks, diag := scanAll(t, "a // line comment\nb /* block */ c /* outer /* inner */ still outer */ d")
	if diag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diag.EmitAllToString())
	}
	expectKinds(t, toks, tokens.IDENT, tokens.IDENT, tokens.IDENT, tokens.IDENT)
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	_, diag := scanAll(t, "a /* never closed")
	if !diag.HasFatal() {
		t.Fatal("expected a fatal diagnostic")
	}
	if got := diag.Diagnostics()[0].Code; got != diagnostics.ErrUnterminatedBlock {
		t.Errorf("got code %s, want %s", got, diagnostics.ErrUnterminatedBlock)
	}
}

func TestScanBOM(t *testing.T) {
	diag := diagnostics.NewBag()
	sc := New("test.v", []byte{0xEF, 0xBB, 0xBF, 'a', 'b'}, diag)
	tok := sc.Scan()
	if diag.HasErrors() {
		t.Fatal("BOM should be skipped silently")
	}
	if tok.Kind != tokens.IDENT || tok.Text != "ab" {
		t.Errorf("got %v %q, want identifier %q", tok.Kind, tok.Text, "ab")
	}

	diag = diagnostics.NewBag()
	sc = New("test.v", []byte{0xEF, 0x00, 'a'}, diag)
	if !diag.HasFatal() {
		t.Fatal("expected fatal diagnostic for a bad byte order mark")
	}
	if tok := sc.Scan(); tok.Kind != tokens.EOF {
		t.Errorf("got %v, want EOF after invalid BOM", tok.Kind)
	}
}

func TestScanIdentifierEscapes(t *testing.T) {
	toks, diag := scanAll(t, `\u0041bc`)
	if diag.HasErrors() {
		t.Fatalf("unexpected errors: %s", diag.EmitAllToString())
	}
	if len(toks) != 1 || toks[0].Kind != tokens.IDENT || toks[0].Text != "Abc" {
		t.Fatalf("got %v, want single identifier %q", toks, "Abc")
	}

	_, diag = scanAll(t, `a\x62`)
	if !diag.HasFatal() {
		t.Fatal("expected fatal diagnostic for invalid identifier escape")
	}
}

func TestScanPositions(t *testing.T) {
	toks, _ := scanAll(t, "a\nbb\r\nccc")
	expectKinds(t, toks, tokens.IDENT, tokens.IDENT, tokens.IDENT)
	wantLines := []int{1, 2, 3}
	wantCols := []int{1, 1, 1}
	for i, tok := range toks {
		if tok.Pos.Line != wantLines[i] || tok.Pos.Column != wantCols[i] {
			t.Errorf("token %d: at %d:%d, want %d:%d",
				i, tok.Pos.Line, tok.Pos.Column, wantLines[i], wantCols[i])
		}
	}

	// bare carriage return also ends a line
	toks, _ = scanAll(t, "a\rb")
	if toks[1].Pos.Line != 2 {
		t.Errorf("token after bare CR at line %d, want 2", toks[1].Pos.Line)
	}
}

func TestPeekAndResetPeek(t *testing.T) {
	diag := diagnostics.NewBag()
	sc := New("test.v", []byte("a b c"), diag)

	if tok := sc.Peek(); tok.Text != "a" {
		t.Fatalf("first peek got %q, want %q", tok.Text, "a")
	}
	if tok := sc.Peek(); tok.Text != "b" {
		t.Fatalf("second peek got %q, want %q", tok.Text, "b")
	}
	sc.ResetPeek()
	if tok := sc.Peek(); tok.Text != "a" {
		t.Fatalf("peek after reset got %q, want %q", tok.Text, "a")
	}

	// Scan consumes queued tokens in order and rewinds the peek cursor
	for _, want := range []string{"a", "b", "c"} {
		if tok := sc.Scan(); tok.Text != want {
			t.Fatalf("scan got %q, want %q", tok.Text, want)
		}
	}
	if tok := sc.Scan(); tok.Kind != tokens.EOF {
		t.Fatalf("got %v, want EOF", tok.Kind)
	}
	// peeking past the end keeps returning EOF
	if tok := sc.Peek(); tok.Kind != tokens.EOF {
		t.Fatalf("peek past end got %v, want EOF", tok.Kind)
	}
}

func TestScanUnknownBytes(t *testing.T) {
	toks, _ := scanAll(t, "a @ b")
	expectKinds(t, toks, tokens.IDENT, tokens.UNKNOWN, tokens.IDENT)
}
