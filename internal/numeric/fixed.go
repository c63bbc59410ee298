package numeric

import (
	"fmt"
	"math/big"
)

// Fixed is a signed two's-complement fixed-point number with exactly n
// bits of storage and k fractional bits. Every arithmetic result is
// truncated back to n bits, emulating a backing integer whose width is
// exactly n (the "strict width" member of the family).
type Fixed struct {
	raw int64
	n   int
	k   int
}

// NewFixed builds a Fixed from an integer literal: raw = i << k.
func NewFixed(n, k int, i int64) Fixed {
	return Fixed{raw: maskToN(i<<uint(k), n), n: n, k: k}
}

// NewFixedFromFloat builds a Fixed from a floating-point literal.
func NewFixedFromFloat(n, k int, f float64) Fixed {
	scale := float64(int64(1) << uint(k))
	return Fixed{raw: maskToN(int64(f*scale), n), n: n, k: k}
}

// FixedFromRaw builds a Fixed directly from its raw representation,
// mirroring the original's `from_raw`.
func FixedFromRaw(n, k int, raw int64) Fixed {
	return Fixed{raw: maskToN(raw, n), n: n, k: k}
}

// ConvertFixed converts a Fixed of different (n,k) parameters by shifting
// the raw representation: right-shift to lose fractional bits, left-shift
// to gain them.
func ConvertFixed(n, k int, src Fixed) Fixed {
	return FixedFromRaw(n, k, shiftForConversion(src.raw, src.k, k))
}

func shiftForConversion(raw int64, fromK, toK int) int64 {
	if fromK > toK {
		return raw >> uint(fromK-toK)
	}
	return raw << uint(toK-fromK)
}

func maskToN(v int64, n int) int64 {
	if n >= 64 {
		return v
	}
	bits := uint(n)
	mask := (int64(1) << bits) - 1
	v &= mask
	signBit := int64(1) << (bits - 1)
	if v&signBit != 0 {
		v -= int64(1) << bits
	}
	return v
}

func (f Fixed) other(o Number) Fixed {
	ff, ok := o.(Fixed)
	if !ok {
		panic(fmt.Sprintf("numeric: mixed Fixed arithmetic with %T", o))
	}
	return ff
}

func (f Fixed) Add(o Number) Number {
	g := f.other(o)
	return FixedFromRaw(f.n, f.k, f.raw+g.raw)
}

func (f Fixed) Sub(o Number) Number {
	g := f.other(o)
	return FixedFromRaw(f.n, f.k, f.raw-g.raw)
}

func (f Fixed) Mul(o Number) Number {
	g := f.other(o)
	prod := new(big.Int).Mul(big.NewInt(f.raw), big.NewInt(g.raw))
	prod.Rsh(prod, uint(f.k))
	return FixedFromRaw(f.n, f.k, prod.Int64())
}

func (f Fixed) Div(o Number) Number {
	g := f.other(o)
	num := new(big.Int).Lsh(big.NewInt(f.raw), uint(f.k))
	den := big.NewInt(g.raw)
	q := new(big.Int).Quo(num, den)
	return FixedFromRaw(f.n, f.k, q.Int64())
}

func (f Fixed) Neg() Number {
	return FixedFromRaw(f.n, f.k, -f.raw)
}

func (f Fixed) Abs() Number {
	if f.raw < 0 {
		return FixedFromRaw(f.n, f.k, -f.raw)
	}
	return f
}

func (f Fixed) Less(o Number) bool  { return f.raw < f.other(o).raw }
func (f Fixed) Equal(o Number) bool { return f.raw == f.other(o).raw }
func (f Fixed) Float64() float64 {
	return float64(f.raw) / float64(int64(1)<<uint(f.k))
}
func (f Fixed) Same(i int64) Number        { return NewFixed(f.n, f.k, i) }
func (f Fixed) SameFloat(v float64) Number { return NewFixedFromFloat(f.n, f.k, v) }
func (f Fixed) String() string {
	return fmt.Sprintf("%g", f.Float64())
}

// FastFixed has the same semantics as Fixed but its backing integer is
// allowed to use any width >= n (here: a native int64), trading strict
// n-bit overflow behaviour for speed. It never masks intermediate or
// final results to n bits.
type FastFixed struct {
	raw int64
	n   int
	k   int
}

func NewFastFixed(n, k int, i int64) FastFixed {
	return FastFixed{raw: i << uint(k), n: n, k: k}
}

func NewFastFixedFromFloat(n, k int, f float64) FastFixed {
	scale := float64(int64(1) << uint(k))
	return FastFixed{raw: int64(f * scale), n: n, k: k}
}

func FastFixedFromRaw(n, k int, raw int64) FastFixed {
	return FastFixed{raw: raw, n: n, k: k}
}

func ConvertFastFixed(n, k int, src FastFixed) FastFixed {
	return FastFixedFromRaw(n, k, shiftForConversion(src.raw, src.k, k))
}

func (f FastFixed) other(o Number) FastFixed {
	ff, ok := o.(FastFixed)
	if !ok {
		panic(fmt.Sprintf("numeric: mixed FastFixed arithmetic with %T", o))
	}
	return ff
}

func (f FastFixed) Add(o Number) Number {
	return FastFixedFromRaw(f.n, f.k, f.raw+f.other(o).raw)
}

func (f FastFixed) Sub(o Number) Number {
	return FastFixedFromRaw(f.n, f.k, f.raw-f.other(o).raw)
}

func (f FastFixed) Mul(o Number) Number {
	g := f.other(o)
	prod := new(big.Int).Mul(big.NewInt(f.raw), big.NewInt(g.raw))
	prod.Rsh(prod, uint(f.k))
	return FastFixedFromRaw(f.n, f.k, prod.Int64())
}

func (f FastFixed) Div(o Number) Number {
	g := f.other(o)
	num := new(big.Int).Lsh(big.NewInt(f.raw), uint(f.k))
	den := big.NewInt(g.raw)
	q := new(big.Int).Quo(num, den)
	return FastFixedFromRaw(f.n, f.k, q.Int64())
}

func (f FastFixed) Neg() Number {
	return FastFixedFromRaw(f.n, f.k, -f.raw)
}

func (f FastFixed) Abs() Number {
	if f.raw < 0 {
		return FastFixedFromRaw(f.n, f.k, -f.raw)
	}
	return f
}

func (f FastFixed) Less(o Number) bool  { return f.raw < f.other(o).raw }
func (f FastFixed) Equal(o Number) bool { return f.raw == f.other(o).raw }
func (f FastFixed) Float64() float64 {
	return float64(f.raw) / float64(int64(1)<<uint(f.k))
}
func (f FastFixed) Same(i int64) Number        { return NewFastFixed(f.n, f.k, i) }
func (f FastFixed) SameFloat(v float64) Number { return NewFastFixedFromFloat(f.n, f.k, v) }
func (f FastFixed) String() string {
	return fmt.Sprintf("%g", f.Float64())
}
