// Package codegen walks the elaborated tree and drives an Assembler. It
// runs two passes: declare every method and global first, then emit bodies,
// so forward references resolve without ordering constraints.
package codegen

import (
	"fmt"

	"csr/internal/frontend/ast"
	"csr/internal/meta"
	"csr/internal/semantics/scope"
	"csr/internal/types"
)

type Generator struct {
	asm     Assembler
	program *scope.ProgramScope
	concat  *meta.MethodDescriptor
}

// New creates a generator. The provider supplies the runtime helpers some
// operators lower to.
func New(asm Assembler, program *scope.ProgramScope, provider meta.TypeProvider) *Generator {
	g := &Generator{asm: asm, program: program}
	g.concat, _ = meta.Concat(provider)
	return g
}

// Generate declares and emits the whole program and sets the entry point.
func (g *Generator) Generate(prog *ast.Program) error {
	g.asm.Begin(prog.Name)

	for _, f := range g.program.Funcs() {
		f.Handle = g.asm.DeclareMethod(f.Name, funcParams(f), f.Ret)
	}
	main := prog.Main
	main.Handle = g.asm.DeclareMethod(main.Name, nil, main.Ret)

	var arrayGlobals []*ast.VarDecl
	for _, d := range g.program.Globals() {
		d.Handle = g.asm.DeclareStaticField(d.Name, d.DeclType)
		if _, ok := d.DeclType.(*types.ArrayType); ok {
			arrayGlobals = append(arrayGlobals, d)
		}
	}
	if len(arrayGlobals) > 0 {
		g.emitInitializer(arrayGlobals)
	}

	for _, f := range g.program.Funcs() {
		if err := g.emitFunc(f); err != nil {
			return err
		}
	}
	if err := g.emitFunc(main); err != nil {
		return err
	}
	g.asm.SetEntryPoint(main.Handle)
	return nil
}

// emitInitializer fills the static initializer that instantiates
// array-typed globals.
func (g *Generator) emitInitializer(globals []*ast.VarDecl) {
	handle := g.asm.DeclareInitializer()
	g.asm.BeginMethod(handle, nil)
	for _, d := range globals {
		arr := d.DeclType.(*types.ArrayType)
		g.asm.EmitNewArray(arr.Element, arr.Sizes)
		g.asm.EmitField(Stsfld, d.Handle)
	}
	g.asm.Emit(Ret)
	g.asm.EndMethod()
}

func (g *Generator) emitFunc(f *ast.FuncDecl) error {
	local, ok := f.Scope.(*scope.LocalScope)
	if !ok {
		return fmt.Errorf("function '%s' has no local scope", f.Name)
	}
	locals := local.Locals()
	localTypes := make([]types.Type, len(locals))
	for i, d := range locals {
		localTypes[i] = d.DeclType
	}

	g.asm.BeginMethod(f.Handle, localTypes)
	for _, d := range locals {
		if arr, ok := d.DeclType.(*types.ArrayType); ok {
			g.asm.EmitNewArray(arr.Element, arr.Sizes)
			g.asm.EmitInt(Stloc, int32(d.Index))
		}
	}
	g.emitStmt(f.Body)
	g.asm.EndMethod()
	return nil
}

func funcParams(f *ast.FuncDecl) []types.Type {
	out := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.DeclType
	}
	return out
}

func (g *Generator) emitStmt(s ast.Statement) {
	switch s := s.(type) {
	case *ast.Block:
		for _, inner := range s.Statements {
			g.emitStmt(inner)
		}
	case *ast.Assign:
		g.emitAssign(s)
	case *ast.CallStmt:
		g.emitExpr(s.Call)
		if !types.IsKind(s.Call.ReturnType(), types.Void) {
			g.asm.Emit(Pop)
		}
	case *ast.Return:
		if s.Value != nil {
			g.emitExpr(s.Value)
		}
		g.asm.Emit(Ret)
	case *ast.If:
		g.emitIf(s)
	case *ast.While:
		g.emitWhile(s)
	case *ast.DoWhile:
		g.emitDoWhile(s)
	case *ast.For:
		g.emitFor(s)
	}
}

func (g *Generator) emitAssign(s *ast.Assign) {
	switch target := s.Target.(type) {
	case *ast.VariableRef:
		g.emitExpr(s.Value)
		g.emitStore(target)
	case *ast.Indexer:
		arr := target.Target.ReturnType().(*types.ArrayType)
		g.emitLoad(target.Target)
		for _, index := range target.Indices {
			g.emitExpr(index)
		}
		g.emitExpr(s.Value)
		g.asm.EmitArraySet(arr.Element, arr.Rank())
	}
}

func (g *Generator) emitIf(s *ast.If) {
	g.emitExpr(s.Cond)
	end := g.asm.NewLabel()
	if s.Else == nil {
		g.asm.EmitBranch(Brfalse, end)
		g.emitStmt(s.Then)
		g.asm.MarkLabel(end)
		return
	}
	elseL := g.asm.NewLabel()
	g.asm.EmitBranch(Brfalse, elseL)
	g.emitStmt(s.Then)
	g.asm.EmitBranch(Br, end)
	g.asm.MarkLabel(elseL)
	g.emitStmt(s.Else)
	g.asm.MarkLabel(end)
}

func (g *Generator) emitWhile(s *ast.While) {
	loop := g.asm.NewLabel()
	end := g.asm.NewLabel()
	g.asm.MarkLabel(loop)
	g.emitExpr(s.Cond)
	g.asm.EmitBranch(Brfalse, end)
	g.emitStmt(s.Body)
	g.asm.EmitBranch(Br, loop)
	g.asm.MarkLabel(end)
}

func (g *Generator) emitDoWhile(s *ast.DoWhile) {
	loop := g.asm.NewLabel()
	g.asm.MarkLabel(loop)
	g.emitStmt(s.Body)
	g.emitExpr(s.Cond)
	g.asm.EmitBranch(Brtrue, loop)
}

// emitFor lowers the counted loop: store the initial value, then on each
// iteration compare the variable against the bound, run the body, and step
// by one in the loop's direction. Bounds are inclusive.
func (g *Generator) emitFor(s *ast.For) {
	v := s.Iter.(*ast.VariableRef)
	g.emitExpr(s.From)
	g.emitStore(v)

	loop := g.asm.NewLabel()
	end := g.asm.NewLabel()
	g.asm.MarkLabel(loop)
	g.emitLoad(v)
	g.emitExpr(s.Limit)
	if s.Dir == ast.Up {
		g.asm.EmitBranch(Bgt, end)
	} else {
		g.asm.EmitBranch(Blt, end)
	}
	g.emitStmt(s.Body)

	g.emitLoad(v)
	g.asm.Emit(Ldc_I4_1)
	if s.Dir == ast.Up {
		g.asm.Emit(Add)
	} else {
		g.asm.Emit(Sub)
	}
	g.emitStore(v)
	g.asm.EmitBranch(Br, loop)
	g.asm.MarkLabel(end)
}

func (g *Generator) emitLoad(ref *ast.VariableRef) {
	if ref.Field != nil {
		g.asm.EmitField(Ldsfld, ref.Field)
		return
	}
	switch ref.Decl.Storage {
	case ast.StorageGlobal:
		g.asm.EmitField(Ldsfld, ref.Decl.Handle)
	case ast.StorageLocal:
		g.asm.EmitInt(Ldloc, int32(ref.Decl.Index))
	case ast.StorageArg:
		g.asm.EmitInt(Ldarg, int32(ref.Decl.Index))
	}
}

func (g *Generator) emitStore(ref *ast.VariableRef) {
	if ref.Field != nil {
		g.asm.EmitField(Stsfld, ref.Field)
		return
	}
	switch ref.Decl.Storage {
	case ast.StorageGlobal:
		g.asm.EmitField(Stsfld, ref.Decl.Handle)
	case ast.StorageLocal:
		g.asm.EmitInt(Stloc, int32(ref.Decl.Index))
	case ast.StorageArg:
		g.asm.EmitInt(Starg, int32(ref.Decl.Index))
	}
}
