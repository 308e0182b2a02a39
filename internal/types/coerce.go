package types

// The implicit coercion lattice has a single widening edge, int -> double.
// One explicit narrowing, double -> int, is recognized by the cast form of
// the grammar. Everything else is an error.

// ImplicitlyConvertible reports whether a value of type from may be used
// where type to is expected without an explicit cast.
func ImplicitlyConvertible(from, to Type) bool {
	if from.Equals(to) {
		return true
	}
	return IsKind(from, Int) && IsKind(to, Double)
}

// ExplicitlyConvertible reports whether the cast form of the grammar accepts
// a conversion from from to to.
func ExplicitlyConvertible(from, to Type) bool {
	if ImplicitlyConvertible(from, to) {
		return true
	}
	return IsKind(from, Double) && IsKind(to, Int)
}

// IsKind reports whether t is the primitive of the given kind.
func IsKind(t Type, kind PrimitiveKind) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.Kind == kind
}

// IsNumeric reports whether t is int or double.
func IsNumeric(t Type) bool {
	return IsKind(t, Int) || IsKind(t, Double)
}

// IsUnsupported reports whether t is the unsupported sentinel. Expressions
// with unsupported type must not drive further type-directed decisions.
func IsUnsupported(t Type) bool {
	return IsKind(t, Unsupported)
}
