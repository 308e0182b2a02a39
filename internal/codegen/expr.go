package codegen

import (
	"csr/internal/frontend/ast"
	"csr/internal/types"
)

func (g *Generator) emitExpr(expr ast.Expression) {
	switch expr := expr.(type) {
	case *ast.Constant:
		g.emitConstant(expr)
	case *ast.VariableRef:
		g.emitLoad(expr)
	case *ast.Indexer:
		g.emitIndexer(expr)
	case *ast.Call:
		g.emitCall(expr)
	case *ast.Unary:
		g.emitUnary(expr)
	case *ast.Cast:
		g.emitCast(expr)
	case *ast.Binary:
		g.emitBinary(expr)
	}
}

func (g *Generator) emitConstant(c *ast.Constant) {
	switch c.Kind {
	case types.Int:
		g.emitIntConst(c.IntVal)
	case types.Double:
		g.asm.EmitDouble(Ldc_R8, c.DoubleVal)
	case types.String:
		g.asm.EmitString(Ldstr, c.StrVal)
	case types.Bool:
		if c.BoolVal {
			g.asm.Emit(Ldc_I4_1)
		} else {
			g.asm.Emit(Ldc_I4_0)
		}
	}
}

// emitIntConst prefers the single-byte forms for 0 through 8.
func (g *Generator) emitIntConst(v int32) {
	if v >= 0 && int(v) < len(shortIntLoads) {
		g.asm.Emit(shortIntLoads[v])
		return
	}
	g.asm.EmitInt(Ldc_I4, v)
}

func (g *Generator) emitIndexer(idx *ast.Indexer) {
	arr := idx.Target.ReturnType().(*types.ArrayType)
	g.emitLoad(idx.Target)
	for _, index := range idx.Indices {
		g.emitExpr(index)
	}
	g.asm.EmitArrayGet(arr.Element, arr.Rank())
}

func (g *Generator) emitCall(call *ast.Call) {
	for _, arg := range call.Args {
		g.emitExpr(arg)
	}
	if call.Func != nil {
		g.asm.EmitCall(call.Func.Handle)
		return
	}
	g.asm.EmitCall(call.Method)
}

func (g *Generator) emitUnary(u *ast.Unary) {
	g.emitExpr(u.Operand)
	if u.Op == ast.UMinus {
		g.asm.Emit(Neg)
		return
	}
	g.asm.Emit(Ldc_I4_0)
	g.asm.Emit(Ceq)
}

func (g *Generator) emitCast(c *ast.Cast) {
	g.emitExpr(c.Operand)
	if c.Target == types.Double {
		g.asm.Emit(Conv_R8)
	} else {
		g.asm.Emit(Conv_I4)
	}
}

func (g *Generator) emitBinary(b *ast.Binary) {
	switch b.Op {
	case ast.And:
		g.emitShortCircuit(b, Brfalse, Ldc_I4_0)
		return
	case ast.Or:
		g.emitShortCircuit(b, Brtrue, Ldc_I4_1)
		return
	}

	g.emitExpr(b.Left)
	g.emitExpr(b.Right)
	operand := b.Left.ReturnType()

	switch b.Op {
	case ast.Add:
		if types.IsKind(operand, types.String) {
			g.asm.EmitCall(g.concat)
			return
		}
		g.asm.Emit(Add)
	case ast.Sub:
		g.asm.Emit(Sub)
	case ast.Mul:
		g.asm.Emit(Mul)
	case ast.Div:
		g.asm.Emit(Div)
	case ast.Rem:
		g.asm.Emit(Rem)
	case ast.Xor:
		g.asm.Emit(Xor)
	case ast.Eq:
		g.asm.Emit(Ceq)
	case ast.Lt:
		g.asm.Emit(Clt)
	case ast.Gt:
		g.asm.Emit(Cgt)
	case ast.Neq:
		g.emitNegated(Ceq)
	case ast.Leq:
		g.emitNegated(Cgt)
	case ast.Geq:
		g.emitNegated(Clt)
	}
}

// emitNegated compares and inverts the result, synthesizing the operators
// the instruction set has no direct form for.
func (g *Generator) emitNegated(compare Opcode) {
	g.asm.Emit(compare)
	g.asm.Emit(Ldc_I4_0)
	g.asm.Emit(Ceq)
}

// emitShortCircuit lowers and/or without evaluating the right side when the
// left already decides the result.
func (g *Generator) emitShortCircuit(b *ast.Binary, skip Opcode, shortValue Opcode) {
	short := g.asm.NewLabel()
	end := g.asm.NewLabel()
	g.emitExpr(b.Left)
	g.asm.EmitBranch(skip, short)
	g.emitExpr(b.Right)
	g.asm.EmitBranch(Br, end)
	g.asm.MarkLabel(short)
	g.asm.Emit(shortValue)
	g.asm.MarkLabel(end)
}
