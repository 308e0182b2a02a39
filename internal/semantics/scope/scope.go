// Package scope implements the layered name-resolution chain: a global
// scope over external libraries, a program scope for user declarations, and
// per-function local scopes.
package scope

import (
	"csr/internal/frontend/ast"
	"csr/internal/meta"
	"csr/internal/types"
)

// Variable is a resolved variable reference. Exactly one of Decl and Field
// is set: Decl for user variables, Field for external static fields.
type Variable struct {
	Decl  *ast.VarDecl
	Field *meta.FieldDescriptor
	Type  types.Type
}

// Callable is a resolved call target. Exactly one of Func and Method is
// set: Func for user functions, Method for external methods.
type Callable struct {
	Func   *ast.FuncDecl
	Method *meta.MethodDescriptor
	Params []types.Type
	Ret    types.Type
}

// Status is the outcome of a call resolution at one scope level.
type Status int

const (
	// Found selects a single best candidate.
	Found Status = iota
	// NotFound means no candidate matched; the search continues outward.
	NotFound
	// Ambiguous means several candidates survive pointwise comparison.
	Ambiguous
)

// Scope resolves names, walking from innermost to outermost.
type Scope interface {
	Parent() Scope

	// ResolveVariable resolves a dotted variable name.
	ResolveVariable(parts []string) (Variable, bool)

	// ResolveCall resolves a dotted callee against the actual argument
	// types, applying overload resolution at each level.
	ResolveCall(parts []string, args []types.Type) (Callable, Status)
}
