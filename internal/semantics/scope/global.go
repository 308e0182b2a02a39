package scope

import (
	"strings"

	"csr/internal/meta"
	"csr/internal/types"
)

// GlobalScope is the outermost scope. It resolves fully-qualified names
// (Type.Member) through the reflective type provider across the referenced
// libraries, and memoizes successful lookups so emission never repeats a
// reflection walk.
type GlobalScope struct {
	provider   meta.TypeProvider
	references []string

	fieldMemo  map[string]*meta.FieldDescriptor
	methodMemo map[string]*meta.MethodDescriptor
}

// NewGlobal creates a global scope over the given provider and library
// references. The implicit standard-library reference is the caller's
// responsibility.
func NewGlobal(provider meta.TypeProvider, references ...string) *GlobalScope {
	return &GlobalScope{
		provider:   provider,
		references: references,
		fieldMemo:  make(map[string]*meta.FieldDescriptor),
		methodMemo: make(map[string]*meta.MethodDescriptor),
	}
}

// AddReference appends a library reference unless already present.
func (g *GlobalScope) AddReference(ref string) {
	for _, r := range g.references {
		if r == ref {
			return
		}
	}
	g.references = append(g.references, ref)
}

// References returns the library references in resolution order.
func (g *GlobalScope) References() []string { return g.references }

func (g *GlobalScope) Parent() Scope { return nil }

func (g *GlobalScope) ResolveVariable(parts []string) (Variable, bool) {
	if len(parts) < 2 {
		return Variable{}, false
	}
	key := strings.Join(parts, ".")
	if f, ok := g.fieldMemo[key]; ok {
		return Variable{Field: f, Type: f.Type}, true
	}
	typeName := strings.Join(parts[:len(parts)-1], ".")
	member := parts[len(parts)-1]
	for _, ref := range g.references {
		t, ok := g.provider.FindType(ref, typeName)
		if !ok {
			continue
		}
		if f, ok := t.Field(member); ok {
			g.fieldMemo[key] = f
			return Variable{Field: f, Type: f.Type}, true
		}
	}
	return Variable{}, false
}

func (g *GlobalScope) ResolveCall(parts []string, args []types.Type) (Callable, Status) {
	if len(parts) < 2 {
		return Callable{}, NotFound
	}
	key := callKey(parts, args)
	if m, ok := g.methodMemo[key]; ok {
		return Callable{Method: m, Params: m.Params, Ret: m.Ret}, Found
	}
	typeName := strings.Join(parts[:len(parts)-1], ".")
	member := parts[len(parts)-1]

	var candidates []*meta.MethodDescriptor
	for _, ref := range g.references {
		t, ok := g.provider.FindType(ref, typeName)
		if !ok {
			continue
		}
		for _, m := range t.MethodsNamed(member) {
			if m.HasUnsupported() {
				continue
			}
			candidates = append(candidates, m)
		}
	}
	if len(candidates) == 0 {
		return Callable{}, NotFound
	}

	signatures := make([][]types.Type, len(candidates))
	for i, m := range candidates {
		signatures[i] = m.Params
	}
	idx, status := selectOverload(signatures, args)
	if status != Found {
		return Callable{}, status
	}
	m := candidates[idx]
	g.methodMemo[key] = m
	return Callable{Method: m, Params: m.Params, Ret: m.Ret}, Found
}

// callKey builds the memo key for a call site: the dotted name plus the
// actual argument types.
func callKey(parts []string, args []types.Type) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(parts, "."))
	sb.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.String())
	}
	sb.WriteByte(')')
	return sb.String()
}
