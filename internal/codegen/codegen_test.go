package codegen_test

import (
	"strings"
	"testing"

	"csr/internal/codegen"
	"csr/internal/diagnostics"
	"csr/internal/frontend/lexer"
	"csr/internal/frontend/parser"
	"csr/internal/meta"
	"csr/internal/semantics/evaluator"
	"csr/internal/semantics/scope"
	"csr/internal/types"
)

func compile(t *testing.T, src string) *codegen.Recorder {
	t.Helper()
	diag := diagnostics.NewBag()
	sc := lexer.New("test.v", []byte(src), diag)
	global := scope.NewGlobal(meta.Corlib(), meta.CorlibName)
	p := parser.New(sc, "test.v", global, diag)
	prog, ps := p.Parse()
	evaluator.New("test.v", ps, diag).Evaluate(prog)
	if diag.HasErrors() {
		t.Fatalf("frontend failed:\n%s", diag.EmitAllToString())
	}
	rec := codegen.NewRecorder()
	if err := codegen.New(rec, ps, meta.Corlib()).Generate(prog); err != nil {
		t.Fatal(err)
	}
	return rec
}

// mainCode compiles a program whose only content is the given body and
// returns the entry function's listing.
func mainCode(t *testing.T, decls, body string) []string {
	t.Helper()
	rec := compile(t, "program demo;\n"+decls+"\nbegin\n"+body+"\nend")
	if rec.Entry == nil {
		t.Fatal("entry point not set")
	}
	return rec.Entry.Code
}

func wantCode(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d instructions, want %d:\n%s",
			len(got), len(want), strings.Join(got, "\n"))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("instruction %d: got %q, want %q; full listing:\n%s",
				i, got[i], want[i], strings.Join(got, "\n"))
		}
	}
}

func TestGenerateForLoop(t *testing.T) {
	code := mainCode(t, "var int i, x;", "for i = 1 to 3 do x = i;")
	wantCode(t, code, []string{
		"ldc.i4.1",
		"stsfld i",
		"L1:",
		"ldsfld i",
		"ldc.i4.3",
		"bgt L2",
		"ldsfld i",
		"stsfld x",
		"ldsfld i",
		"ldc.i4.1",
		"add",
		"stsfld i",
		"br L1",
		"L2:",
		"ret",
	})
}

func TestGenerateForDownto(t *testing.T) {
	code := mainCode(t, "var int i, x;", "for i = 3 downto 1 do x = i;")
	wantCode(t, code, []string{
		"ldc.i4.3",
		"stsfld i",
		"L1:",
		"ldsfld i",
		"ldc.i4.1",
		"blt L2",
		"ldsfld i",
		"stsfld x",
		"ldsfld i",
		"ldc.i4.1",
		"sub",
		"stsfld i",
		"br L1",
		"L2:",
		"ret",
	})
}

func TestGenerateShortCircuit(t *testing.T) {
	code := mainCode(t, "var bool a, b, r;", "r = a and b;")
	wantCode(t, code, []string{
		"ldsfld a",
		"brfalse L1",
		"ldsfld b",
		"br L2",
		"L1:",
		"ldc.i4.0",
		"L2:",
		"stsfld r",
		"ret",
	})

	code = mainCode(t, "var bool a, b, r;", "r = a or b;")
	wantCode(t, code, []string{
		"ldsfld a",
		"brtrue L1",
		"ldsfld b",
		"br L2",
		"L1:",
		"ldc.i4.1",
		"L2:",
		"stsfld r",
		"ret",
	})
}

func TestGenerateSynthesizedComparisons(t *testing.T) {
	code := mainCode(t, "var int x, y;\nvar bool r;", "r = x != y;")
	wantCode(t, code, []string{
		"ldsfld x", "ldsfld y", "ceq", "ldc.i4.0", "ceq", "stsfld r", "ret",
	})
	code = mainCode(t, "var int x, y;\nvar bool r;", "r = x <= y;")
	wantCode(t, code, []string{
		"ldsfld x", "ldsfld y", "cgt", "ldc.i4.0", "ceq", "stsfld r", "ret",
	})
	code = mainCode(t, "var int x, y;\nvar bool r;", "r = x >= y;")
	wantCode(t, code, []string{
		"ldsfld x", "ldsfld y", "clt", "ldc.i4.0", "ceq", "stsfld r", "ret",
	})
}

func TestGenerateIfElse(t *testing.T) {
	code := mainCode(t, "var bool b;\nvar int x;", "if (b) x = 1; else x = 2;")
	wantCode(t, code, []string{
		"ldsfld b",
		"brfalse L2",
		"ldc.i4.1",
		"stsfld x",
		"br L1",
		"L2:",
		"ldc.i4.2",
		"stsfld x",
		"L1:",
		"ret",
	})

	code = mainCode(t, "var bool b;\nvar int x;", "if (b) x = 1;")
	wantCode(t, code, []string{
		"ldsfld b", "brfalse L1", "ldc.i4.1", "stsfld x", "L1:", "ret",
	})
}

func TestGenerateLoops(t *testing.T) {
	code := mainCode(t, "var bool b;\nvar int x;", "while (b) x = 1;")
	wantCode(t, code, []string{
		"L1:", "ldsfld b", "brfalse L2", "ldc.i4.1", "stsfld x", "br L1", "L2:", "ret",
	})

	code = mainCode(t, "var bool b;\nvar int x;", "do x = 1; while (b)")
	wantCode(t, code, []string{
		"L1:", "ldc.i4.1", "stsfld x", "ldsfld b", "brtrue L1", "ret",
	})
}

func TestGenerateDiscardedResult(t *testing.T) {
	code := mainCode(t, "", "Console.ReadInt();")
	wantCode(t, code, []string{"call Console.ReadInt()", "pop", "ret"})

	// void calls leave nothing to pop
	code = mainCode(t, "", "Console.WriteLine();")
	wantCode(t, code, []string{"call Console.WriteLine()", "ret"})
}

func TestGenerateIntConstants(t *testing.T) {
	code := mainCode(t, "var int x;", "x = 5;")
	wantCode(t, code, []string{"ldc.i4.5", "stsfld x", "ret"})

	code = mainCode(t, "var int x;", "x = 100;")
	wantCode(t, code, []string{"ldc.i4 100", "stsfld x", "ret"})

	code = mainCode(t, "var int x;", "x = -1;")
	wantCode(t, code, []string{"ldc.i4 -1", "stsfld x", "ret"})
}

func TestGenerateOtherConstants(t *testing.T) {
	code := mainCode(t, "var double d;", "d = 3.14;")
	wantCode(t, code, []string{"ldc.r8 3.14", "stsfld d", "ret"})

	code = mainCode(t, "var bool b;", "b = true;")
	wantCode(t, code, []string{"ldc.i4.1", "stsfld b", "ret"})

	code = mainCode(t, "var string s;", `s = "hi";`)
	wantCode(t, code, []string{`ldstr "hi"`, "stsfld s", "ret"})
}

func TestGenerateStringConcat(t *testing.T) {
	code := mainCode(t, "var string s;", `s = s + "!";`)
	wantCode(t, code, []string{
		"ldsfld s",
		`ldstr "!"`,
		"call String.Concat(string, string)",
		"stsfld s",
		"ret",
	})
}

func TestGenerateCasts(t *testing.T) {
	code := mainCode(t, "var int x;\nvar double d;", "x = {int} d;")
	wantCode(t, code, []string{"ldsfld d", "conv.i4", "stsfld x", "ret"})

	// the implicit widening the analyzer inserts
	code = mainCode(t, "var int x;\nvar double d;", "d = d + x;")
	wantCode(t, code, []string{
		"ldsfld d", "ldsfld x", "conv.r8", "add", "stsfld d", "ret",
	})
}

func TestGenerateUnary(t *testing.T) {
	code := mainCode(t, "var int x, y;", "x = -y;")
	wantCode(t, code, []string{"ldsfld y", "neg", "stsfld x", "ret"})

	code = mainCode(t, "var bool a, b;", "a = !b;")
	wantCode(t, code, []string{"ldsfld b", "ldc.i4.0", "ceq", "stsfld a", "ret"})
}

func TestGenerateFieldLoad(t *testing.T) {
	code := mainCode(t, "var double d;", "d = Math.PI;")
	wantCode(t, code, []string{"ldsfld Math.PI", "stsfld d", "ret"})
}

func TestGenerateInitializer(t *testing.T) {
	rec := compile(t, "program demo;\nvar int[2,3] m;\nvar int x;\nbegin\nend")
	cctor := rec.Method(".cctor")
	if cctor == nil {
		t.Fatal("static initializer missing")
	}
	wantCode(t, cctor.Code, []string{"newobj int[2,3]", "stsfld m", "ret"})
	if len(rec.Fields) != 2 || rec.Fields[0].Name != "m" || rec.Fields[1].Name != "x" {
		t.Errorf("fields not declared: %v", rec.Fields)
	}
}

func TestGenerateArrayAccess(t *testing.T) {
	rec := compile(t, `program demo;
function f(int a) : int
var int[4] t;
begin
  t[0] = a;
  return t[0];
end
begin
end`)
	f := rec.Method("f")
	if f == nil {
		t.Fatal("function not declared")
	}
	if len(f.Params) != 1 || !f.Params[0].Equals(types.TypeInt) || !f.Ret.Equals(types.TypeInt) {
		t.Error("signature not recorded")
	}
	if len(f.Locals) != 1 {
		t.Fatalf("got %d locals, want 1", len(f.Locals))
	}
	wantCode(t, f.Code, []string{
		"newobj int[4]",
		"stloc 0",
		"ldloc 0",
		"ldc.i4.0",
		"ldarg 0",
		"call int[1].Set",
		"ldloc 0",
		"ldc.i4.0",
		"call int[1].Get",
		"ret",
	})
}

func TestGenerateUserCall(t *testing.T) {
	rec := compile(t, `program demo;
var int r;
function add(int a, int b) : int
begin
  return a + b;
end
begin
  r = add(1, 2);
end`)
	wantCode(t, rec.Method("add").Code, []string{"ldarg 0", "ldarg 1", "add", "ret"})
	wantCode(t, rec.Entry.Code, []string{
		"ldc.i4.1", "ldc.i4.2", "call add", "stsfld r", "ret",
	})
}

func TestGenerateAssembly(t *testing.T) {
	rec := compile(t, "program demo;\nbegin\nend")
	if rec.Assembly != "demo" {
		t.Errorf("got assembly %q, want %q", rec.Assembly, "demo")
	}
	if rec.Entry == nil || rec.Entry.Name != "Main" {
		t.Error("entry point should be the synthetic Main")
	}
	wantCode(t, rec.Entry.Code, []string{"ret"})
}
