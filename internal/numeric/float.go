package numeric

import (
	"math"
	"strconv"
)

// Float is the IEEE-754 binary32 numeric kind.
type Float float32

func (f Float) Add(o Number) Number { return f + o.(Float) }
func (f Float) Sub(o Number) Number { return f - o.(Float) }
func (f Float) Mul(o Number) Number { return f * o.(Float) }
func (f Float) Div(o Number) Number { return f / o.(Float) }
func (f Float) Neg() Number         { return -f }

func (f Float) Abs() Number {
	return Float(math.Abs(float64(f)))
}

func (f Float) Less(o Number) bool  { return f < o.(Float) }
func (f Float) Equal(o Number) bool { return f == o.(Float) }
func (f Float) Float64() float64    { return float64(f) }
func (f Float) Same(i int64) Number {
	return Float(i)
}
func (f Float) SameFloat(v float64) Number {
	return Float(v)
}
func (f Float) String() string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

// Double is the IEEE-754 binary64 numeric kind.
type Double float64

func (d Double) Add(o Number) Number { return d + o.(Double) }
func (d Double) Sub(o Number) Number { return d - o.(Double) }
func (d Double) Mul(o Number) Number { return d * o.(Double) }
func (d Double) Div(o Number) Number { return d / o.(Double) }
func (d Double) Neg() Number         { return -d }

func (d Double) Abs() Number {
	return Double(math.Abs(float64(d)))
}

func (d Double) Less(o Number) bool  { return d < o.(Double) }
func (d Double) Equal(o Number) bool { return d == o.(Double) }
func (d Double) Float64() float64    { return float64(d) }
func (d Double) Same(i int64) Number {
	return Double(i)
}
func (d Double) SameFloat(v float64) Number {
	return Double(v)
}
func (d Double) String() string {
	return strconv.FormatFloat(float64(d), 'g', -1, 64)
}
