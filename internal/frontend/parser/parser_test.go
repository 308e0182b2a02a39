package parser_test

import (
	"testing"

	"csr/internal/diagnostics"
	"csr/internal/frontend/ast"
	"csr/internal/frontend/lexer"
	"csr/internal/frontend/parser"
	"csr/internal/meta"
	"csr/internal/semantics/scope"
	"csr/internal/types"
)

func parseSource(t *testing.T, src string) (*ast.Program, *scope.ProgramScope, *diagnostics.Bag) {
	t.Helper()
	diag := diagnostics.NewBag()
	sc := lexer.New("test.v", []byte(src), diag)
	global := scope.NewGlobal(meta.Corlib(), meta.CorlibName)
	p := parser.New(sc, "test.v", global, diag)
	prog, ps := p.Parse()
	return prog, ps, diag
}

func parseClean(t *testing.T, src string) (*ast.Program, *scope.ProgramScope) {
	t.Helper()
	prog, ps, diag := parseSource(t, src)
	if diag.HasErrors() {
		t.Fatalf("unexpected errors:\n%s", diag.EmitAllToString())
	}
	return prog, ps
}

// mainStmt parses a program whose body is the single given statement.
func mainStmt(t *testing.T, stmt string) ast.Statement {
	t.Helper()
	prog, _ := parseClean(t, "program p;\nbegin\n"+stmt+"\nend")
	if n := len(prog.Main.Body.Statements); n != 1 {
		t.Fatalf("got %d statements, want 1", n)
	}
	return prog.Main.Body.Statements[0]
}

func assignValue(t *testing.T, stmt string) ast.Expression {
	t.Helper()
	a, ok := mainStmt(t, stmt).(*ast.Assign)
	if !ok {
		t.Fatalf("got %T, want assignment", mainStmt(t, stmt))
	}
	return a.Value
}

func TestParseMinimalProgram(t *testing.T) {
	prog, ps := parseClean(t, "program demo;\nbegin\nend")
	if prog.Name != "demo" {
		t.Errorf("got name %q, want %q", prog.Name, "demo")
	}
	if prog.Main == nil || prog.Main.Name != "Main" {
		t.Fatal("program body should be wrapped in the synthetic entry function")
	}
	if len(prog.Main.Body.Statements) != 0 {
		t.Error("empty body expected")
	}
	if len(ps.Globals()) != 0 || len(ps.Funcs()) != 0 {
		t.Error("no declarations expected")
	}
}

func TestParseDeclarations(t *testing.T) {
	_, ps := parseClean(t, `program p;
var int x, y;
    double d;
var int[2,3] m;
function add(int a, int b) : int
begin
  return a + b;
end
function show()
var int t;
begin
  Console.WriteLine(t);
end
begin
end`)

	globals := ps.Globals()
	if len(globals) != 4 {
		t.Fatalf("got %d globals, want 4", len(globals))
	}
	if globals[0].Name != "x" || !globals[0].DeclType.Equals(types.TypeInt) {
		t.Error("first global should be int x")
	}
	if globals[2].Name != "d" || !globals[2].DeclType.Equals(types.TypeDouble) {
		t.Error("third global should be double d")
	}
	arr, ok := globals[3].DeclType.(*types.ArrayType)
	if !ok || arr.Element != types.Int || len(arr.Sizes) != 2 || arr.Sizes[0] != 2 || arr.Sizes[1] != 3 {
		t.Errorf("got %v, want int[2,3]", globals[3].DeclType)
	}

	funcs := ps.Funcs()
	if len(funcs) != 2 {
		t.Fatalf("got %d functions, want 2", len(funcs))
	}
	add := funcs[0]
	if add.Name != "add" || len(add.Params) != 2 || !add.Ret.Equals(types.TypeInt) {
		t.Error("add signature wrong")
	}
	if add.Params[0].Storage != ast.StorageArg || add.Params[1].Index != 1 {
		t.Error("parameter slots not assigned")
	}
	show := funcs[1]
	if !show.Ret.Equals(types.TypeVoid) {
		t.Error("a function without a result type returns void")
	}
	local := show.Scope.(*scope.LocalScope)
	if len(local.Locals()) != 1 || local.Locals()[0].Name != "t" {
		t.Error("function locals not declared")
	}
}

func TestParsePrecedence(t *testing.T) {
	// multiplication binds tighter than addition
	b := assignValue(t, "r = 1 + 2 * 3;").(*ast.Binary)
	if b.Op != ast.Add {
		t.Fatalf("got %v at the top, want +", b.Op)
	}
	if inner, ok := b.Right.(*ast.Binary); !ok || inner.Op != ast.Mul {
		t.Error("right operand should be the multiplication")
	}

	// logical operators bind tighter than comparisons
	b = assignValue(t, "r = a == b and c;").(*ast.Binary)
	if b.Op != ast.Eq {
		t.Fatalf("got %v at the top, want ==", b.Op)
	}
	if inner, ok := b.Right.(*ast.Binary); !ok || inner.Op != ast.And {
		t.Error("b and c should group under the comparison")
	}

	b = assignValue(t, "r = a and b == c;").(*ast.Binary)
	if b.Op != ast.Eq {
		t.Fatalf("got %v at the top, want ==", b.Op)
	}
	if inner, ok := b.Left.(*ast.Binary); !ok || inner.Op != ast.And {
		t.Error("a and b should group under the comparison")
	}

	// parentheses override
	b = assignValue(t, "r = (1 + 2) * 3;").(*ast.Binary)
	if b.Op != ast.Mul {
		t.Fatalf("got %v at the top, want *", b.Op)
	}
}

func TestParseUnaryAndCast(t *testing.T) {
	u := assignValue(t, "r = -x + 1;").(*ast.Binary).Left.(*ast.Unary)
	if u.Op != ast.UMinus {
		t.Errorf("got %v, want unary minus", u.Op)
	}

	c := assignValue(t, "r = {int} 2.5;").(*ast.Cast)
	if c.Target != types.Int {
		t.Errorf("got cast to %v, want int", c.Target)
	}
	c = assignValue(t, "r = {double} x;").(*ast.Cast)
	if c.Target != types.Double {
		t.Errorf("got cast to %v, want double", c.Target)
	}
	// the cast binds to the unary operand only
	b := assignValue(t, "r = {double} x + y;").(*ast.Binary)
	if _, ok := b.Left.(*ast.Cast); !ok || b.Op != ast.Add {
		t.Error("cast should apply to x, not to the sum")
	}
}

func TestParseDesignators(t *testing.T) {
	cs, ok := mainStmt(t, `Console.WriteLine("hi");`).(*ast.CallStmt)
	if !ok {
		t.Fatal("expected a call statement")
	}
	call := cs.Call
	if len(call.Callee.Parts) != 2 || call.Callee.Name() != "Console.WriteLine" {
		t.Errorf("got callee %q", call.Callee.Name())
	}
	if len(call.Args) != 1 {
		t.Errorf("got %d args, want 1", len(call.Args))
	}

	a := mainStmt(t, "m[1, 2] = 3;").(*ast.Assign)
	idx, ok := a.Target.(*ast.Indexer)
	if !ok || len(idx.Indices) != 2 || idx.Target.Name() != "m" {
		t.Errorf("got target %#v, want two-index access on m", a.Target)
	}

	v := assignValue(t, "r = f();")
	if call, ok := v.(*ast.Call); !ok || len(call.Args) != 0 {
		t.Error("nullary call expected")
	}
}

func TestParseControlFlow(t *testing.T) {
	s := mainStmt(t, "if (a) x = 1; else x = 2;").(*ast.If)
	if s.Else == nil {
		t.Error("else branch lost")
	}
	if _, ok := mainStmt(t, "if (a) x = 1;").(*ast.If); !ok {
		t.Error("if without else")
	}

	w := mainStmt(t, "while (a) begin x = 1; end").(*ast.While)
	if _, ok := w.Body.(*ast.Block); !ok {
		t.Error("while body should be the block")
	}

	d := mainStmt(t, "do x = x + 1; while (a)").(*ast.DoWhile)
	if d.Body == nil || d.Cond == nil {
		t.Error("do-while parts missing")
	}

	f := mainStmt(t, "for i = 1 to 10 do x = i;").(*ast.For)
	if f.Dir != ast.Up {
		t.Errorf("got %v, want upward direction", f.Dir)
	}
	f = mainStmt(t, "for i = 10 downto 1 do x = i;").(*ast.For)
	if f.Dir != ast.Down {
		t.Errorf("got %v, want downward direction", f.Dir)
	}

	r := mainStmt(t, "return;").(*ast.Return)
	if r.Value != nil || r.Synthetic {
		t.Error("bare return should carry no value")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		errors int
	}{
		{"expression_statement", "program p; begin 1 + 2; end", 1},
		{"missing_value_suppressed_cascade", "program p; begin x = ; end", 1},
		{"trailing_tokens", "program p; begin end x", 1},
		{"redeclared_global", "program p; var int x; var double x; begin end", 1},
		{"duplicate_function", "program p; function f() begin end function f() begin end begin end", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, diag := parseSource(t, tc.src)
			if got := diag.ErrorCount(); got != tc.errors {
				t.Errorf("got %d errors, want %d:\n%s",
					got, tc.errors, diag.EmitAllToString())
			}
		})
	}
}

func TestParseRecoversStructure(t *testing.T) {
	// a junk declaration is skipped and the rest still parses
	prog, ps, diag := parseSource(t, `program p;
+ + +
var int x;
begin
x = 1;
end`)
	if !diag.HasErrors() {
		t.Fatal("expected a syntax error")
	}
	if len(ps.Globals()) != 1 {
		t.Errorf("got %d globals after recovery, want 1", len(ps.Globals()))
	}
	if len(prog.Main.Body.Statements) != 1 {
		t.Errorf("got %d statements after recovery, want 1", len(prog.Main.Body.Statements))
	}
}
