package scope

import (
	"fmt"

	"csr/internal/frontend/ast"
	"csr/internal/types"
)

// LocalScope holds one function's parameters and locals plus its declared
// return type. It attaches to the function declaration through the tree's
// FuncScope marker.
type LocalScope struct {
	parent *ProgramScope
	vars   map[string]*ast.VarDecl
	params []*ast.VarDecl
	locals []*ast.VarDecl
	ret    types.Type
}

func NewLocal(parent *ProgramScope, ret types.Type) *LocalScope {
	return &LocalScope{
		parent: parent,
		vars:   make(map[string]*ast.VarDecl),
		ret:    ret,
	}
}

// FuncScope marks the scope as attachable to a function declaration.
func (l *LocalScope) FuncScope() {}

func (l *LocalScope) Parent() Scope { return l.parent }

// Return is the declared return type of the enclosing function.
func (l *LocalScope) Return() types.Type { return l.ret }

// Params returns the parameters in declaration order.
func (l *LocalScope) Params() []*ast.VarDecl { return l.params }

// Locals returns the local variables in declaration order.
func (l *LocalScope) Locals() []*ast.VarDecl { return l.locals }

// DeclareParam inserts a parameter, assigning its argument slot.
func (l *LocalScope) DeclareParam(d *ast.VarDecl) error {
	if err := l.declare(d); err != nil {
		return err
	}
	d.Storage = ast.StorageArg
	d.Index = len(l.params)
	l.params = append(l.params, d)
	return nil
}

// DeclareLocal inserts a local variable, assigning its slot.
func (l *LocalScope) DeclareLocal(d *ast.VarDecl) error {
	if err := l.declare(d); err != nil {
		return err
	}
	d.Storage = ast.StorageLocal
	d.Index = len(l.locals)
	l.locals = append(l.locals, d)
	return nil
}

func (l *LocalScope) declare(d *ast.VarDecl) error {
	if _, ok := l.vars[d.Name]; ok {
		return fmt.Errorf("symbol '%s' already declared", d.Name)
	}
	l.vars[d.Name] = d
	return nil
}

func (l *LocalScope) ResolveVariable(parts []string) (Variable, bool) {
	if len(parts) == 1 {
		if d, ok := l.vars[parts[0]]; ok {
			return Variable{Decl: d, Type: d.DeclType}, true
		}
	}
	return l.parent.ResolveVariable(parts)
}

func (l *LocalScope) ResolveCall(parts []string, args []types.Type) (Callable, Status) {
	return l.parent.ResolveCall(parts, args)
}
