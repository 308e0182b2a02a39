package types

import (
	"fmt"
	"strings"
)

// PrimitiveKind enumerates the scalar types of the language plus two
// sentinels: Void for value-less positions and Unsupported for members of
// external libraries whose types the compiler does not model.
type PrimitiveKind int

const (
	Bool PrimitiveKind = iota
	Int
	Double
	String
	Void
	Unsupported
)

func (k PrimitiveKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Double:
		return "double"
	case String:
		return "string"
	case Void:
		return "void"
	case Unsupported:
		return "<unsupported>"
	default:
		return "<unknown>"
	}
}

// Type is the semantic representation of types.
//
// Types are immutable after creation and compared structurally, with one
// deliberate exception: arrays compare by rank alone, so two arrays with the
// same number of dimensions are interchangeable regardless of their sizes.
type Type interface {
	String() string
	Equals(other Type) bool
	isType()
}

// PrimitiveType represents one of the built-in scalar types.
type PrimitiveType struct {
	Kind PrimitiveKind
}

// Predeclared primitive singletons.
var (
	TypeBool        = &PrimitiveType{Kind: Bool}
	TypeInt         = &PrimitiveType{Kind: Int}
	TypeDouble      = &PrimitiveType{Kind: Double}
	TypeString      = &PrimitiveType{Kind: String}
	TypeVoid        = &PrimitiveType{Kind: Void}
	TypeUnsupported = &PrimitiveType{Kind: Unsupported}
)

// Primitive returns the predeclared singleton for a kind.
func Primitive(kind PrimitiveKind) *PrimitiveType {
	switch kind {
	case Bool:
		return TypeBool
	case Int:
		return TypeInt
	case Double:
		return TypeDouble
	case String:
		return TypeString
	case Void:
		return TypeVoid
	default:
		return TypeUnsupported
	}
}

func (p *PrimitiveType) String() string { return p.Kind.String() }
func (p *PrimitiveType) isType()        {}

func (p *PrimitiveType) Equals(other Type) bool {
	if o, ok := other.(*PrimitiveType); ok {
		return p.Kind == o.Kind
	}
	return false
}

// ArrayType represents a rectangular, fixed-size array of a primitive
// element type. Jagged arrays cannot be expressed.
type ArrayType struct {
	Element PrimitiveKind
	Sizes   []int
}

// NewArray creates an array type with one size per dimension.
func NewArray(element PrimitiveKind, sizes []int) *ArrayType {
	return &ArrayType{Element: element, Sizes: sizes}
}

// Rank returns the number of dimensions.
func (a *ArrayType) Rank() int { return len(a.Sizes) }

func (a *ArrayType) String() string {
	dims := make([]string, len(a.Sizes))
	for i, s := range a.Sizes {
		dims[i] = fmt.Sprintf("%d", s)
	}
	return fmt.Sprintf("%s[%s]", a.Element, strings.Join(dims, ","))
}

func (a *ArrayType) isType() {}

// Equals compares arrays by rank only. Element types and dimension sizes do
// not participate, which makes same-rank arrays interchangeable as function
// arguments.
func (a *ArrayType) Equals(other Type) bool {
	if o, ok := other.(*ArrayType); ok {
		return a.Rank() == o.Rank()
	}
	return false
}
