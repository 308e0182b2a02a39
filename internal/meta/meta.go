// Package meta models the reflective view of external libraries: type,
// field, and method descriptors looked up by fully-qualified name. The
// compiler core consumes the TypeProvider capability; hosts may plug in a
// real reflection backend or the built-in registry.
package meta

import (
	"strings"

	"csr/internal/types"
)

// TypeProvider resolves a type by full name within a named library.
type TypeProvider interface {
	FindType(library, fullName string) (*TypeDescriptor, bool)
}

// TypeDescriptor describes an external type with its public static members.
type TypeDescriptor struct {
	Library  string
	FullName string
	Fields   []*FieldDescriptor
	Methods  []*MethodDescriptor
}

// Field returns the public static field with the given name.
func (t *TypeDescriptor) Field(name string) (*FieldDescriptor, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// MethodsNamed returns every public static method with the given name.
func (t *TypeDescriptor) MethodsNamed(name string) []*MethodDescriptor {
	var out []*MethodDescriptor
	for _, m := range t.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// FieldDescriptor is a public static field of an external type. The
// descriptor doubles as the backend handle for field access.
type FieldDescriptor struct {
	Declaring *TypeDescriptor
	Name      string
	Type      types.Type
}

func (f *FieldDescriptor) String() string {
	return f.Declaring.FullName + "." + f.Name
}

// MethodDescriptor is a public static method of an external type. A
// parameter or return type the compiler does not model is the unsupported
// sentinel; overload resolution skips methods with an unsupported parameter
// type (see HasUnsupported). The descriptor doubles
// as the backend handle for calls.
type MethodDescriptor struct {
	Declaring *TypeDescriptor
	Name      string
	Params    []types.Type
	Ret       types.Type
}

// HasUnsupported reports whether any parameter type is outside the
// compiler's type model.
func (m *MethodDescriptor) HasUnsupported() bool {
	for _, p := range m.Params {
		if types.IsUnsupported(p) {
			return true
		}
	}
	return false
}

func (m *MethodDescriptor) String() string {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.String()
	}
	name := m.Name
	if m.Declaring != nil {
		name = m.Declaring.FullName + "." + m.Name
	}
	return name + "(" + strings.Join(params, ", ") + ")"
}

// Registry is an in-process TypeProvider backed by registered descriptors.
type Registry struct {
	libraries map[string]map[string]*TypeDescriptor
}

func NewRegistry() *Registry {
	return &Registry{libraries: make(map[string]map[string]*TypeDescriptor)}
}

// AddType registers a descriptor under its library and full name, creating
// the library on first use.
func (r *Registry) AddType(t *TypeDescriptor) {
	lib, ok := r.libraries[t.Library]
	if !ok {
		lib = make(map[string]*TypeDescriptor)
		r.libraries[t.Library] = lib
	}
	lib[t.FullName] = t
}

func (r *Registry) FindType(library, fullName string) (*TypeDescriptor, bool) {
	lib, ok := r.libraries[library]
	if !ok {
		return nil, false
	}
	t, ok := lib[fullName]
	return t, ok
}
