package scope

import "csr/internal/types"

// compatible reports whether every actual type can be passed where the
// candidate's parameters expect, by equality or implicit widening.
func compatible(params, args []types.Type) bool {
	if len(params) != len(args) {
		return false
	}
	for i, p := range params {
		if !types.ImplicitlyConvertible(args[i], p) {
			return false
		}
	}
	return true
}

// exact reports whether every actual type equals the candidate's parameter.
func exact(params, args []types.Type) bool {
	if len(params) != len(args) {
		return false
	}
	for i, p := range params {
		if !args[i].Equals(p) {
			return false
		}
	}
	return true
}

// preference is the outcome of a pointwise comparison of two candidates.
type preference int

const (
	neither preference = iota
	left
	right
	conflicted
)

// compare votes argument by argument: a position where one candidate's
// parameter exactly matches the actual and the other's does not votes for
// the former. Opposing votes conflict.
func compare(a, b, args []types.Type) preference {
	pref := neither
	for i := range args {
		aExact := args[i].Equals(a[i])
		bExact := args[i].Equals(b[i])
		switch {
		case aExact == bExact:
		case aExact:
			if pref == right {
				return conflicted
			}
			pref = left
		default:
			if pref == left {
				return conflicted
			}
			pref = right
		}
	}
	return pref
}

// selectOverload picks the best candidate for the actual argument types.
// It returns the winning index when Status is Found, otherwise -1.
//
// An exact match wins immediately. Otherwise candidates are sifted through
// a working set of best-so-far: a candidate that strictly dominates an
// incumbent evicts it, a dominated candidate is discarded, and conflicted
// pairs coexist. A working set with more than one survivor is ambiguous.
func selectOverload(candidates [][]types.Type, args []types.Type) (int, Status) {
	var viable []int
	for i, params := range candidates {
		if !compatible(params, args) {
			continue
		}
		if exact(params, args) {
			return i, Found
		}
		viable = append(viable, i)
	}
	if len(viable) == 0 {
		return -1, NotFound
	}

	best := []int{viable[0]}
	for _, c := range viable[1:] {
		dominated := false
		kept := best[:0]
		for _, b := range best {
			switch compare(candidates[c], candidates[b], args) {
			case left:
				// c evicts b
			case right:
				dominated = true
				kept = append(kept, b)
			default:
				kept = append(kept, b)
			}
		}
		best = kept
		if !dominated {
			best = append(best, c)
		}
	}
	if len(best) == 1 {
		return best[0], Found
	}
	return -1, Ambiguous
}
