package meta

import "csr/internal/types"

// CorlibName is the library reference added implicitly to every compilation.
const CorlibName = "corlib"

// Corlib builds the registry for the runtime's standard library: console
// I/O, math, and the string helpers the backend lowers to.
func Corlib() *Registry {
	r := NewRegistry()
	r.AddType(corlibConsole())
	r.AddType(corlibMath())
	r.AddType(corlibString())
	return r
}

func method(t *TypeDescriptor, name string, ret types.Type, params ...types.Type) {
	t.Methods = append(t.Methods, &MethodDescriptor{
		Declaring: t, Name: name, Params: params, Ret: ret,
	})
}

func field(t *TypeDescriptor, name string, typ types.Type) {
	t.Fields = append(t.Fields, &FieldDescriptor{Declaring: t, Name: name, Type: typ})
}

func corlibConsole() *TypeDescriptor {
	t := &TypeDescriptor{Library: CorlibName, FullName: "Console"}
	for _, arg := range []types.Type{
		types.TypeString, types.TypeInt, types.TypeDouble, types.TypeBool,
	} {
		method(t, "Write", types.TypeVoid, arg)
		method(t, "WriteLine", types.TypeVoid, arg)
	}
	method(t, "WriteLine", types.TypeVoid)
	method(t, "ReadLine", types.TypeString)
	method(t, "ReadInt", types.TypeInt)
	method(t, "ReadDouble", types.TypeDouble)
	return t
}

func corlibMath() *TypeDescriptor {
	t := &TypeDescriptor{Library: CorlibName, FullName: "Math"}
	field(t, "PI", types.TypeDouble)
	field(t, "E", types.TypeDouble)
	method(t, "Sqrt", types.TypeDouble, types.TypeDouble)
	method(t, "Pow", types.TypeDouble, types.TypeDouble, types.TypeDouble)
	method(t, "Abs", types.TypeInt, types.TypeInt)
	method(t, "Abs", types.TypeDouble, types.TypeDouble)
	method(t, "Min", types.TypeInt, types.TypeInt, types.TypeInt)
	method(t, "Min", types.TypeDouble, types.TypeDouble, types.TypeDouble)
	method(t, "Max", types.TypeInt, types.TypeInt, types.TypeInt)
	method(t, "Max", types.TypeDouble, types.TypeDouble, types.TypeDouble)
	method(t, "Floor", types.TypeDouble, types.TypeDouble)
	method(t, "Ceiling", types.TypeDouble, types.TypeDouble)
	return t
}

func corlibString() *TypeDescriptor {
	t := &TypeDescriptor{Library: CorlibName, FullName: "String"}
	method(t, "Concat", types.TypeString, types.TypeString, types.TypeString)
	method(t, "Length", types.TypeInt, types.TypeString)
	method(t, "Compare", types.TypeInt, types.TypeString, types.TypeString)
	return t
}

// Concat returns the runtime string-concatenation method, which string +
// lowers to.
func Concat(p TypeProvider) (*MethodDescriptor, bool) {
	t, ok := p.FindType(CorlibName, "String")
	if !ok {
		return nil, false
	}
	for _, m := range t.MethodsNamed("Concat") {
		if len(m.Params) == 2 {
			return m, true
		}
	}
	return nil, false
}
