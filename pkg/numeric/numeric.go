// Package numeric implements the dual float/integer value carrier used by
// pkg/constfold while folding literal arithmetic. Both views stay populated
// at all times so comparators and arithmetic helpers can pick whichever view
// an operator needs without a branch at every call site.
package numeric

import "math"

// Numeric carries both an integer and a floating-point view of a literal
// value. IsFloat records which view is authoritative for the value's
// declared type; both fields are always populated so promotion never needs
// a recomputation step.
type Numeric struct {
	IsFloat bool
	F       float64
	I       int64
}

// FromInt constructs an integer-typed Numeric.
func FromInt(i int64) Numeric {
	return Numeric{IsFloat: false, F: float64(i), I: i}
}

// FromFloat constructs a float-typed Numeric.
func FromFloat(f float64) Numeric {
	return Numeric{IsFloat: true, F: f, I: int64(f)}
}

// Promote widens a and b to a common representation: if either operand is
// float, both results are float; otherwise both remain 64-bit integers.
func Promote(a, b Numeric) (Numeric, Numeric) {
	if a.IsFloat || b.IsFloat {
		return FromFloat(a.F), FromFloat(b.F)
	}

	return a, b
}

// FitsInt16Range reports whether n's integer view fits in a signed 16-bit
// range. Used by the Add overflow guard (wrap-around is otherwise silent).
func FitsInt16Range(n Numeric) bool {
	return n.I >= math.MinInt16 && n.I <= math.MaxInt16
}

// WrapAdd computes a 64-bit wrap-around sum.
func WrapAdd(a, b int64) int64 { return a + b }

// WrapSub computes a 64-bit wrap-around difference.
func WrapSub(a, b int64) int64 { return a - b }

// WrapMul computes a 64-bit wrap-around product.
func WrapMul(a, b int64) int64 { return a * b }

// WrapNegate computes a 64-bit wrap-around negation via 0 - x, matching the
// runtime's own negation semantics exactly.
func WrapNegate(x int64) int64 { return WrapSub(0, x) }

// CompareOrdered reports the three-way ordering of a and b, which must
// already share a representation (call Promote first). For float operands,
// ok is false when either value is NaN (an "unordered" comparison).
func CompareOrdered(a, b Numeric) (cmp int, ok bool) {
	if a.IsFloat {
		if math.IsNaN(a.F) || math.IsNaN(b.F) {
			return 0, false
		}

		switch {
		case a.F < b.F:
			return -1, true
		case a.F > b.F:
			return 1, true
		default:
			return 0, true
		}
	}

	switch {
	case a.I < b.I:
		return -1, true
	case a.I > b.I:
		return 1, true
	default:
		return 0, true
	}
}

// Equal reports whether a and b (already promoted) compare equal. NaN never
// equals anything, including itself.
func Equal(a, b Numeric) bool {
	cmp, ok := CompareOrdered(a, b)
	return ok && cmp == 0
}
