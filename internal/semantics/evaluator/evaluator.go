// Package evaluator is the semantic analyzer. It rewrites the tree in
// place: names are resolved, types checked, implicit casts inserted,
// constants folded, and dead code removed.
package evaluator

import (
	"csr/internal/diagnostics"
	"csr/internal/frontend/ast"
	"csr/internal/semantics/scope"
	"csr/internal/source"
	"csr/internal/tokens"
	"csr/internal/types"
)

type Evaluator struct {
	filename string
	diag     *diagnostics.Bag
	program  *scope.ProgramScope
}

func New(filename string, program *scope.ProgramScope, diag *diagnostics.Bag) *Evaluator {
	return &Evaluator{filename: filename, diag: diag, program: program}
}

// Evaluate elaborates every user function and then the entry function.
// Errors accumulate in the bag; the tree is left in its rewritten form
// either way.
func (e *Evaluator) Evaluate(prog *ast.Program) {
	for _, f := range e.program.Funcs() {
		e.evalFunc(f)
	}
	e.evalFunc(prog.Main)
}

func (e *Evaluator) evalFunc(f *ast.FuncDecl) {
	local := f.Scope.(*scope.LocalScope)
	e.evalBlock(f.Body, local)
	if f.Body.Returns() {
		return
	}
	if types.IsKind(f.Ret, types.Void) {
		r := &ast.Return{Synthetic: true}
		r.Tok = f.Body.Tok
		r.SetReturns(true)
		f.Body.Statements = append(f.Body.Statements, r)
		f.Body.SetReturns(true)
		return
	}
	e.errorAt(f.Tok, diagnostics.ErrMissingReturn,
		"function '%s': not all code paths return a value", f.Name)
}

// evalStmt elaborates one statement and returns its replacement: the same
// node, a folded substitute, or nil when the statement is removed.
func (e *Evaluator) evalStmt(s ast.Statement, sc *scope.LocalScope) ast.Statement {
	switch s := s.(type) {
	case *ast.Block:
		e.evalBlock(s, sc)
		return s
	case *ast.Assign:
		return e.evalAssign(s, sc)
	case *ast.CallStmt:
		s.Call = e.evalExpr(s.Call, sc).(*ast.Call)
		return s
	case *ast.Return:
		return e.evalReturn(s, sc)
	case *ast.If:
		return e.evalIf(s, sc)
	case *ast.While:
		return e.evalWhile(s, sc)
	case *ast.DoWhile:
		return e.evalDoWhile(s, sc)
	case *ast.For:
		return e.evalFor(s, sc)
	default:
		return s
	}
}

// evalBlock elaborates the statement list. Once a statement returns on
// every path, the remainder of the list is unreachable and is removed.
func (e *Evaluator) evalBlock(b *ast.Block, sc *scope.LocalScope) {
	var kept []ast.Statement
	for i, s := range b.Statements {
		rs := e.evalStmt(s, sc)
		if rs == nil {
			continue
		}
		kept = append(kept, rs)
		if rs.Returns() {
			b.SetReturns(true)
			if i+1 < len(b.Statements) {
				e.warnAt(*b.Statements[i+1].Token(),
					diagnostics.WarnUnreachableCode, "unreachable code")
			}
			break
		}
	}
	b.Statements = kept
}

func (e *Evaluator) evalAssign(s *ast.Assign, sc *scope.LocalScope) ast.Statement {
	s.Target = e.evalExpr(s.Target, sc)
	s.Value = e.evalExpr(s.Value, sc)

	switch s.Target.(type) {
	case *ast.VariableRef, *ast.Indexer:
	default:
		e.errorAt(s.Tok, diagnostics.ErrInvalidAssignment,
			"left side of assignment is not assignable")
		return s
	}
	target := s.Target.ReturnType()
	value := s.Value.ReturnType()
	if types.IsUnsupported(target) || types.IsUnsupported(value) {
		return s
	}
	if !types.ImplicitlyConvertible(value, target) {
		e.errorAt(s.Tok, diagnostics.ErrTypeMismatch,
			"cannot assign %v to %v", value, target)
		return s
	}
	s.Value = e.coerce(s.Value, target)
	return s
}

func (e *Evaluator) evalReturn(s *ast.Return, sc *scope.LocalScope) ast.Statement {
	s.SetReturns(true)
	ret := sc.Return()
	if s.Value == nil {
		if !types.IsKind(ret, types.Void) {
			e.errorAt(s.Tok, diagnostics.ErrInvalidReturn,
				"return value of type %v expected", ret)
		}
		return s
	}
	s.Value = e.evalExpr(s.Value, sc)
	if types.IsKind(ret, types.Void) {
		e.errorAt(s.Tok, diagnostics.ErrInvalidReturn,
			"function does not return a value")
		return s
	}
	value := s.Value.ReturnType()
	if types.IsUnsupported(value) {
		return s
	}
	if !types.ImplicitlyConvertible(value, ret) {
		e.errorAt(s.Tok, diagnostics.ErrTypeMismatch,
			"cannot return %v from a function returning %v", value, ret)
		return s
	}
	s.Value = e.coerce(s.Value, ret)
	return s
}

func (e *Evaluator) evalIf(s *ast.If, sc *scope.LocalScope) ast.Statement {
	s.Cond = e.evalBoolCond(s.Cond, sc)
	s.Then = e.evalStmt(s.Then, sc)
	if s.Else != nil {
		s.Else = e.evalStmt(s.Else, sc)
	}

	if c, ok := constBool(s.Cond); ok {
		if c {
			return s.Then
		}
		return s.Else
	}
	s.SetReturns(s.Then != nil && s.Then.Returns() &&
		s.Else != nil && s.Else.Returns())
	return s
}

func (e *Evaluator) evalWhile(s *ast.While, sc *scope.LocalScope) ast.Statement {
	s.Cond = e.evalBoolCond(s.Cond, sc)
	s.Body = e.evalStmt(s.Body, sc)
	if c, ok := constBool(s.Cond); ok && !c {
		return nil
	}
	return s
}

func (e *Evaluator) evalDoWhile(s *ast.DoWhile, sc *scope.LocalScope) ast.Statement {
	s.Body = e.evalStmt(s.Body, sc)
	s.Cond = e.evalBoolCond(s.Cond, sc)
	if s.Body != nil {
		s.SetReturns(s.Body.Returns())
	}
	if c, ok := constBool(s.Cond); ok && !c {
		// the body still runs exactly once
		return s.Body
	}
	return s
}

func (e *Evaluator) evalFor(s *ast.For, sc *scope.LocalScope) ast.Statement {
	s.Iter = e.evalExpr(s.Iter, sc)
	if ref, ok := s.Iter.(*ast.VariableRef); !ok || ref.Field != nil {
		e.errorAt(s.Tok, diagnostics.ErrInvalidAssignment,
			"loop variable must be an assignable variable")
	} else if !types.IsUnsupported(ref.ReturnType()) && !types.IsKind(ref.ReturnType(), types.Int) {
		e.errorAt(s.Tok, diagnostics.ErrTypeMismatch, "loop variable must be int")
	}
	s.From = e.evalIntBound(s.From, sc)
	s.Limit = e.evalIntBound(s.Limit, sc)
	s.Body = e.evalStmt(s.Body, sc)
	return s
}

func (e *Evaluator) evalBoolCond(cond ast.Expression, sc *scope.LocalScope) ast.Expression {
	cond = e.evalExpr(cond, sc)
	t := cond.ReturnType()
	if !types.IsUnsupported(t) && !types.IsKind(t, types.Bool) {
		e.errorAt(*cond.Token(), diagnostics.ErrTypeMismatch,
			"boolean expression expected, found %v", t)
	}
	return cond
}

func (e *Evaluator) evalIntBound(expr ast.Expression, sc *scope.LocalScope) ast.Expression {
	expr = e.evalExpr(expr, sc)
	t := expr.ReturnType()
	if !types.IsUnsupported(t) && !types.IsKind(t, types.Int) {
		e.errorAt(*expr.Token(), diagnostics.ErrTypeMismatch,
			"loop bound must be int, found %v", t)
	}
	return expr
}

func constBool(expr ast.Expression) (bool, bool) {
	if c, ok := expr.(*ast.Constant); ok && c.Kind == types.Bool {
		return c.BoolVal, true
	}
	return false, false
}

func (e *Evaluator) errorAt(tok tokens.Token, code, format string, args ...any) {
	e.diag.Add(diagnostics.NewError(format, args...).
		WithCode(code).
		WithLocation(source.NewLocation(e.filename, tok.Pos)))
}

func (e *Evaluator) warnAt(tok tokens.Token, code, format string, args ...any) {
	e.diag.Add(diagnostics.NewWarning(format, args...).
		WithCode(code).
		WithLocation(source.NewLocation(e.filename, tok.Pos)))
}
