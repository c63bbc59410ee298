// Package numeric provides the interchangeable numeric kernel for the
// simulator: Float, Double, Fixed and FastFixed all implement Number, so
// the tick engine can be instantiated over any of the four without
// knowing which one it got.
package numeric

import "fmt"

// Number is satisfied by every numeric kind the engine can be specialized
// over. Implementations are value types; arithmetic never mutates the
// receiver.
type Number interface {
	Add(Number) Number
	Sub(Number) Number
	Mul(Number) Number
	Div(Number) Number
	Neg() Number
	Abs() Number

	// Less reports whether the receiver is strictly less than other.
	// Comparison is always mathematical, never a raw bit-pattern compare.
	Less(other Number) bool
	Equal(other Number) bool

	// Float64 converts to a double for output/rendering and for mixing
	// with other numeric kinds (Convert's cross-kind path, and the
	// engine's sign and saturation checks).
	Float64() float64

	// Same returns a Number of the receiver's concrete kind constructed
	// from an int64 literal, used to build zero values and small
	// constants without the caller needing to know the concrete type.
	Same(i int64) Number

	// SameFloat is Same but from a float64 literal.
	SameFloat(f float64) Number

	String() string
}

// Kind tags one of the four numeric families, used by the factory and by
// CLI/config type-tag parsing.
type Kind int

const (
	KindFloat Kind = iota
	KindDouble
	KindFixed
	KindFastFixed
)

func (k Kind) String() string {
	switch k {
	case KindFloat:
		return "FLOAT"
	case KindDouble:
		return "DOUBLE"
	case KindFixed:
		return "FIXED"
	case KindFastFixed:
		return "FAST_FIXED"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Zero builds the zero value of the numeric kind described by kind/n/k.
// n and k are only meaningful for KindFixed and KindFastFixed (total bits,
// fractional bits); they are ignored otherwise.
func Zero(kind Kind, n, k int) (Number, error) {
	switch kind {
	case KindFloat:
		return Float(0), nil
	case KindDouble:
		return Double(0), nil
	case KindFixed:
		if err := validateNK(n, k); err != nil {
			return nil, err
		}
		return Fixed{n: n, k: k}, nil
	case KindFastFixed:
		if err := validateNK(n, k); err != nil {
			return nil, err
		}
		return FastFixed{n: n, k: k}, nil
	default:
		return nil, fmt.Errorf("numeric: unknown kind %v", kind)
	}
}

func validateNK(n, k int) error {
	if n <= 0 || n > 64 {
		return fmt.Errorf("numeric: bit width N=%d out of range (1..64)", n)
	}
	if k < 0 || k > n-1 {
		return fmt.Errorf("numeric: fractional bits K=%d out of range (0..%d)", k, n-1)
	}
	return nil
}

// Min returns the lesser of two Numbers of identical concrete kind.
func Min(a, b Number) Number {
	if a.Less(b) {
		return a
	}
	return b
}

// Convert converts src to targetZero's concrete numeric kind, mirroring
// the original's implicit PType(...)/VType(...) casts wherever a value
// computed in one of P/V/VF crosses into a field of another. Conversions
// between any two Fixed/FastFixed values shift the raw representation per
// their (n,k) parameters; any conversion involving Float or Double
// round-trips through float64, matching the contract that every numeric
// kind is constructible from Float/Double.
func Convert(targetZero, src Number) Number {
	switch t := targetZero.(type) {
	case Fixed:
		switch s := src.(type) {
		case Fixed:
			return ConvertFixed(t.n, t.k, s)
		case FastFixed:
			return ConvertFixed(t.n, t.k, Fixed{raw: s.raw, n: s.n, k: s.k})
		}
	case FastFixed:
		switch s := src.(type) {
		case FastFixed:
			return ConvertFastFixed(t.n, t.k, s)
		case Fixed:
			return ConvertFastFixed(t.n, t.k, FastFixed{raw: s.raw, n: s.n, k: s.k})
		}
	}
	return targetZero.SameFloat(src.Float64())
}
