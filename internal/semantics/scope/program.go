package scope

import (
	"fmt"

	"csr/internal/frontend/ast"
	"csr/internal/types"
)

// ProgramScope holds the program's global variables and user functions.
// Unresolved names fall through to the global scope.
type ProgramScope struct {
	parent  *GlobalScope
	globals map[string]*ast.VarDecl
	ordered []*ast.VarDecl
	funcs   []*ast.FuncDecl
}

func NewProgram(parent *GlobalScope) *ProgramScope {
	return &ProgramScope{
		parent:  parent,
		globals: make(map[string]*ast.VarDecl),
	}
}

func (p *ProgramScope) Parent() Scope { return p.parent }

// Globals returns the global variables in declaration order.
func (p *ProgramScope) Globals() []*ast.VarDecl { return p.ordered }

// Funcs returns the user functions in declaration order.
func (p *ProgramScope) Funcs() []*ast.FuncDecl { return p.funcs }

// DeclareGlobal inserts a global variable, assigning its storage slot.
func (p *ProgramScope) DeclareGlobal(d *ast.VarDecl) error {
	if _, ok := p.globals[d.Name]; ok {
		return fmt.Errorf("symbol '%s' already declared", d.Name)
	}
	d.Storage = ast.StorageGlobal
	d.Index = len(p.ordered)
	p.globals[d.Name] = d
	p.ordered = append(p.ordered, d)
	return nil
}

// DeclareFunc inserts a user function. Two functions may share a name when
// their parameter types differ; an exact signature duplicate is an error.
func (p *ProgramScope) DeclareFunc(f *ast.FuncDecl) error {
	params := paramTypes(f)
	for _, existing := range p.funcs {
		if existing.Name != f.Name {
			continue
		}
		if exact(paramTypes(existing), params) {
			return fmt.Errorf("function '%s' already declared", f.Name)
		}
	}
	p.funcs = append(p.funcs, f)
	return nil
}

func (p *ProgramScope) ResolveVariable(parts []string) (Variable, bool) {
	if len(parts) == 1 {
		if d, ok := p.globals[parts[0]]; ok {
			return Variable{Decl: d, Type: d.DeclType}, true
		}
	}
	return p.parent.ResolveVariable(parts)
}

func (p *ProgramScope) ResolveCall(parts []string, args []types.Type) (Callable, Status) {
	if len(parts) == 1 {
		var candidates []*ast.FuncDecl
		for _, f := range p.funcs {
			if f.Name == parts[0] {
				candidates = append(candidates, f)
			}
		}
		if len(candidates) > 0 {
			signatures := make([][]types.Type, len(candidates))
			for i, f := range candidates {
				signatures[i] = paramTypes(f)
			}
			idx, status := selectOverload(signatures, args)
			if status == Ambiguous {
				return Callable{}, Ambiguous
			}
			if status == Found {
				f := candidates[idx]
				return Callable{Func: f, Params: signatures[idx], Ret: f.Ret}, Found
			}
		}
	}
	return p.parent.ResolveCall(parts, args)
}

func paramTypes(f *ast.FuncDecl) []types.Type {
	out := make([]types.Type, len(f.Params))
	for i, p := range f.Params {
		out[i] = p.DeclType
	}
	return out
}
