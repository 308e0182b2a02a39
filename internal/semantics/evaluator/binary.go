package evaluator

import (
	"csr/internal/diagnostics"
	"csr/internal/frontend/ast"
	"csr/internal/semantics/scope"
	"csr/internal/types"
)

func (e *Evaluator) evalBinary(b *ast.Binary, sc *scope.LocalScope) ast.Expression {
	b.Left = e.evalExpr(b.Left, sc)
	b.Right = e.evalExpr(b.Right, sc)
	lt := b.Left.ReturnType()
	rt := b.Right.ReturnType()
	if types.IsUnsupported(lt) || types.IsUnsupported(rt) {
		b.SetReturnType(types.TypeUnsupported)
		return b
	}

	// unify operand types, widening the narrower side
	if !lt.Equals(rt) {
		switch {
		case types.ImplicitlyConvertible(lt, rt):
			b.Left = e.coerce(b.Left, rt)
			lt = rt
		case types.ImplicitlyConvertible(rt, lt):
			b.Right = e.coerce(b.Right, lt)
		default:
			e.errorAt(b.Tok, diagnostics.ErrTypeMismatch,
				"incompatible types %v and %v", lt, rt)
			b.SetReturnType(types.TypeUnsupported)
			return b
		}
	}

	prim, isPrim := lt.(*types.PrimitiveType)
	admissible := false
	switch b.Op {
	case ast.Add:
		admissible = types.IsNumeric(lt) || types.IsKind(lt, types.String)
	case ast.Sub, ast.Mul, ast.Div, ast.Lt, ast.Leq, ast.Gt, ast.Geq:
		admissible = types.IsNumeric(lt)
	case ast.Rem:
		admissible = types.IsKind(lt, types.Int)
	case ast.Eq, ast.Neq:
		admissible = isPrim && prim.Kind != types.Void
	case ast.And, ast.Or, ast.Xor:
		admissible = types.IsKind(lt, types.Bool)
	}
	if !admissible {
		e.errorAt(b.Tok, diagnostics.ErrInvalidOperation,
			"operator '%v' cannot be applied to %v", b.Op, lt)
		b.SetReturnType(types.TypeUnsupported)
		return b
	}

	result := lt
	if b.Op.IsRelational() {
		result = types.TypeBool
	}

	lc, lok := b.Left.(*ast.Constant)
	rc, rok := b.Right.(*ast.Constant)
	if lok && rok {
		if folded := e.fold(b, lc, rc, prim.Kind); folded != nil {
			return folded
		}
	}
	b.SetReturnType(result)
	return b
}

// fold computes a constant operation with the host's semantics: integer
// division truncates toward zero, doubles follow IEEE 754, strings compare
// by contents. A constant integer zero divisor is reported and left unfolded;
// a double zero divisor folds to the IEEE 754 result.
func (e *Evaluator) fold(b *ast.Binary, l, r *ast.Constant, kind types.PrimitiveKind) ast.Expression {
	switch kind {
	case types.Int:
		return e.foldInt(b, l.IntVal, r.IntVal)
	case types.Double:
		return foldDouble(b, l.DoubleVal, r.DoubleVal)
	case types.String:
		return foldString(b, l.StrVal, r.StrVal)
	case types.Bool:
		return foldBool(b, l.BoolVal, r.BoolVal)
	}
	return nil
}

func (e *Evaluator) foldInt(b *ast.Binary, l, r int32) ast.Expression {
	if (b.Op == ast.Div || b.Op == ast.Rem) && r == 0 {
		e.errorAt(b.Tok, diagnostics.ErrInvalidConstant, "division by zero")
		return nil
	}
	switch b.Op {
	case ast.Add:
		return ast.NewIntConstant(b.Tok, l+r)
	case ast.Sub:
		return ast.NewIntConstant(b.Tok, l-r)
	case ast.Mul:
		return ast.NewIntConstant(b.Tok, l*r)
	case ast.Div:
		return ast.NewIntConstant(b.Tok, l/r)
	case ast.Rem:
		return ast.NewIntConstant(b.Tok, l%r)
	case ast.Eq:
		return ast.NewBoolConstant(b.Tok, l == r)
	case ast.Neq:
		return ast.NewBoolConstant(b.Tok, l != r)
	case ast.Lt:
		return ast.NewBoolConstant(b.Tok, l < r)
	case ast.Leq:
		return ast.NewBoolConstant(b.Tok, l <= r)
	case ast.Gt:
		return ast.NewBoolConstant(b.Tok, l > r)
	case ast.Geq:
		return ast.NewBoolConstant(b.Tok, l >= r)
	}
	return nil
}

func foldDouble(b *ast.Binary, l, r float64) ast.Expression {
	switch b.Op {
	case ast.Add:
		return ast.NewDoubleConstant(b.Tok, l+r)
	case ast.Sub:
		return ast.NewDoubleConstant(b.Tok, l-r)
	case ast.Mul:
		return ast.NewDoubleConstant(b.Tok, l*r)
	case ast.Div:
		return ast.NewDoubleConstant(b.Tok, l/r)
	case ast.Eq:
		return ast.NewBoolConstant(b.Tok, l == r)
	case ast.Neq:
		return ast.NewBoolConstant(b.Tok, l != r)
	case ast.Lt:
		return ast.NewBoolConstant(b.Tok, l < r)
	case ast.Leq:
		return ast.NewBoolConstant(b.Tok, l <= r)
	case ast.Gt:
		return ast.NewBoolConstant(b.Tok, l > r)
	case ast.Geq:
		return ast.NewBoolConstant(b.Tok, l >= r)
	}
	return nil
}

func foldString(b *ast.Binary, l, r string) ast.Expression {
	switch b.Op {
	case ast.Add:
		return ast.NewStringConstant(b.Tok, l+r)
	case ast.Eq:
		return ast.NewBoolConstant(b.Tok, l == r)
	case ast.Neq:
		return ast.NewBoolConstant(b.Tok, l != r)
	}
	return nil
}

func foldBool(b *ast.Binary, l, r bool) ast.Expression {
	switch b.Op {
	case ast.And:
		return ast.NewBoolConstant(b.Tok, l && r)
	case ast.Or:
		return ast.NewBoolConstant(b.Tok, l || r)
	case ast.Xor, ast.Neq:
		return ast.NewBoolConstant(b.Tok, l != r)
	case ast.Eq:
		return ast.NewBoolConstant(b.Tok, l == r)
	}
	return nil
}
