package evaluator

import (
	"csr/internal/diagnostics"
	"csr/internal/frontend/ast"
	"csr/internal/semantics/scope"
	"csr/internal/types"
)

// evalExpr elaborates an expression and returns its replacement, which is
// the same node, a folded constant, or the operand of an elided cast. The
// result always carries a return type, possibly the unsupported sentinel.
func (e *Evaluator) evalExpr(expr ast.Expression, sc *scope.LocalScope) ast.Expression {
	switch expr := expr.(type) {
	case *ast.Constant:
		return e.evalConstant(expr)
	case *ast.VariableRef:
		return e.evalVariableRef(expr, sc)
	case *ast.Indexer:
		return e.evalIndexer(expr, sc)
	case *ast.Call:
		return e.evalCall(expr, sc)
	case *ast.Unary:
		return e.evalUnary(expr, sc)
	case *ast.Cast:
		return e.evalCast(expr, sc)
	case *ast.Binary:
		return e.evalBinary(expr, sc)
	default:
		expr.SetReturnType(types.TypeUnsupported)
		return expr
	}
}

func (e *Evaluator) evalVariableRef(ref *ast.VariableRef, sc *scope.LocalScope) ast.Expression {
	if ref.ReturnType() != nil {
		return ref
	}
	v, ok := sc.ResolveVariable(ref.Parts)
	if !ok {
		e.errorAt(ref.Tok, diagnostics.ErrUndefinedSymbol,
			"undefined symbol '%s'", ref.Name())
		ref.SetReturnType(types.TypeUnsupported)
		return ref
	}
	ref.Decl = v.Decl
	ref.Field = v.Field
	ref.SetReturnType(v.Type)
	return ref
}

func (e *Evaluator) evalIndexer(idx *ast.Indexer, sc *scope.LocalScope) ast.Expression {
	e.evalVariableRef(idx.Target, sc)
	for i, index := range idx.Indices {
		index = e.evalExpr(index, sc)
		idx.Indices[i] = index
		t := index.ReturnType()
		if !types.IsUnsupported(t) && !types.IsKind(t, types.Int) {
			e.errorAt(*index.Token(), diagnostics.ErrIndexNotInt,
				"array index must be int, found %v", t)
		}
	}

	base := idx.Target.ReturnType()
	if types.IsUnsupported(base) {
		idx.SetReturnType(types.TypeUnsupported)
		return idx
	}
	arr, ok := base.(*types.ArrayType)
	if !ok {
		e.errorAt(idx.Tok, diagnostics.ErrNotIndexable,
			"'%s' is not an array", idx.Target.Name())
		idx.SetReturnType(types.TypeUnsupported)
		return idx
	}
	if arr.Rank() != len(idx.Indices) {
		e.errorAt(idx.Tok, diagnostics.ErrWrongRank,
			"array '%s' has %d dimension(s), %d index(es) given",
			idx.Target.Name(), arr.Rank(), len(idx.Indices))
		idx.SetReturnType(types.TypeUnsupported)
		return idx
	}
	idx.SetReturnType(types.Primitive(arr.Element))
	return idx
}

func (e *Evaluator) evalCall(call *ast.Call, sc *scope.LocalScope) ast.Expression {
	args := make([]types.Type, len(call.Args))
	poisoned := false
	for i, arg := range call.Args {
		arg = e.evalExpr(arg, sc)
		call.Args[i] = arg
		args[i] = arg.ReturnType()
		if types.IsUnsupported(args[i]) {
			poisoned = true
		}
	}
	if poisoned {
		call.SetReturnType(types.TypeUnsupported)
		return call
	}

	callable, status := sc.ResolveCall(call.Callee.Parts, args)
	switch status {
	case scope.Ambiguous:
		e.errorAt(call.Tok, diagnostics.ErrAmbiguousCall,
			"ambiguous call to '%s'", call.Callee.Name())
		call.SetReturnType(types.TypeUnsupported)
		return call
	case scope.NotFound:
		e.errorAt(call.Tok, diagnostics.ErrUnresolvedCall,
			"cannot resolve call to '%s'", call.Callee.Name())
		call.SetReturnType(types.TypeUnsupported)
		return call
	}

	for i, arg := range call.Args {
		call.Args[i] = e.coerce(arg, callable.Params[i])
	}
	call.Func = callable.Func
	call.Method = callable.Method
	call.SetReturnType(callable.Ret)
	return call
}

func (e *Evaluator) evalUnary(u *ast.Unary, sc *scope.LocalScope) ast.Expression {
	u.Operand = e.evalExpr(u.Operand, sc)
	t := u.Operand.ReturnType()
	if types.IsUnsupported(t) {
		u.SetReturnType(types.TypeUnsupported)
		return u
	}

	switch u.Op {
	case ast.UMinus:
		if !types.IsNumeric(t) {
			e.errorAt(u.Tok, diagnostics.ErrInvalidOperation,
				"operator '-' cannot be applied to %v", t)
			u.SetReturnType(types.TypeUnsupported)
			return u
		}
		if c, ok := u.Operand.(*ast.Constant); ok {
			if c.Kind == types.Int {
				return ast.NewIntConstant(u.Tok, -c.IntVal)
			}
			return ast.NewDoubleConstant(u.Tok, -c.DoubleVal)
		}
	case ast.Not:
		if !types.IsKind(t, types.Bool) {
			e.errorAt(u.Tok, diagnostics.ErrInvalidOperation,
				"operator '!' cannot be applied to %v", t)
			u.SetReturnType(types.TypeUnsupported)
			return u
		}
		if c, ok := u.Operand.(*ast.Constant); ok {
			return ast.NewBoolConstant(u.Tok, !c.BoolVal)
		}
	}
	u.SetReturnType(t)
	return u
}

func (e *Evaluator) evalCast(cast *ast.Cast, sc *scope.LocalScope) ast.Expression {
	cast.Operand = e.evalExpr(cast.Operand, sc)
	from := cast.Operand.ReturnType()
	if types.IsUnsupported(from) {
		cast.SetReturnType(types.TypeUnsupported)
		return cast
	}
	to := types.Primitive(cast.Target)

	if from.Equals(to) {
		e.warnAt(cast.Tok, diagnostics.WarnRedundantCast,
			"redundant cast to %v", to)
		return cast.Operand
	}
	if !types.ExplicitlyConvertible(from, to) {
		e.errorAt(cast.Tok, diagnostics.ErrInvalidCast,
			"cannot cast %v to %v", from, to)
		cast.SetReturnType(types.TypeUnsupported)
		return cast
	}
	if c, ok := cast.Operand.(*ast.Constant); ok {
		if cast.Target == types.Double {
			return ast.NewDoubleConstant(cast.Tok, float64(c.IntVal))
		}
		return ast.NewIntConstant(cast.Tok, int32(c.DoubleVal))
	}
	cast.SetReturnType(to)
	return cast
}

// coerce adjusts an expression known to be implicitly convertible to the
// wanted type: identity passes through, constant ints fold to doubles, and
// everything else gains a widening cast.
func (e *Evaluator) coerce(expr ast.Expression, to types.Type) ast.Expression {
	from := expr.ReturnType()
	if from.Equals(to) {
		return expr
	}
	if c, ok := expr.(*ast.Constant); ok && c.Kind == types.Int {
		return ast.NewDoubleConstant(c.Tok, float64(c.IntVal))
	}
	return ast.NewImplicitCast(expr)
}
