package numeric

import (
	"math"
	"testing"
)

func TestFloatArithmetic(t *testing.T) {
	a := Float(1.5)
	b := Float(0.25)
	if got := a.Add(b).(Float); math.Abs(float64(got)-1.75) > 1e-6 {
		t.Errorf("Add = %v, want 1.75", got)
	}
	if got := a.Mul(b).(Float); math.Abs(float64(got)-0.375) > 1e-6 {
		t.Errorf("Mul = %v, want 0.375", got)
	}
	if got := a.Div(b).(Float); math.Abs(float64(got)-6.0) > 1e-6 {
		t.Errorf("Div = %v, want 6.0", got)
	}
	if !Float(-2).Abs().Equal(Float(2)) {
		t.Errorf("Abs(-2) != 2")
	}
}

func TestFixedLiteralAndShift(t *testing.T) {
	f := NewFixed(32, 16, 3)
	if got := f.Float64(); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("NewFixed(32,16,3).Float64() = %v, want 3.0", got)
	}

	// Conversion by shift: more fractional bits, more precision, same value.
	wider := ConvertFixed(32, 24, f)
	if got := wider.Float64(); math.Abs(got-3.0) > 1e-9 {
		t.Errorf("ConvertFixed to K=24 = %v, want 3.0", got)
	}

	// Conversion to fewer fractional bits loses precision by truncation.
	half := NewFixedFromFloat(32, 16, 1.0/3)
	narrower := ConvertFixed(32, 4, half)
	if narrower.Float64() >= 1.0/3 {
		t.Errorf("narrowing conversion should truncate, got %v", narrower.Float64())
	}
}

func TestFixedArithmetic(t *testing.T) {
	a := NewFixedFromFloat(32, 16, 2.5)
	b := NewFixedFromFloat(32, 16, 1.5)

	sum := a.Add(b).(Fixed)
	if math.Abs(sum.Float64()-4.0) > 1e-4 {
		t.Errorf("Add = %v, want 4.0", sum.Float64())
	}

	diff := a.Sub(b).(Fixed)
	if math.Abs(diff.Float64()-1.0) > 1e-4 {
		t.Errorf("Sub = %v, want 1.0", diff.Float64())
	}

	prod := a.Mul(b).(Fixed)
	if math.Abs(prod.Float64()-3.75) > 1e-3 {
		t.Errorf("Mul = %v, want 3.75", prod.Float64())
	}

	quot := a.Div(b).(Fixed)
	want := 2.5 / 1.5
	if math.Abs(quot.Float64()-want) > 1e-3 {
		t.Errorf("Div = %v, want %v", quot.Float64(), want)
	}

	if !NewFixedFromFloat(32, 16, -1.5).Abs().Equal(NewFixedFromFloat(32, 16, 1.5)) {
		t.Errorf("Abs(-1.5) != 1.5")
	}
}

func TestFixedOrderIsMathematical(t *testing.T) {
	a := NewFixedFromFloat(16, 8, -0.5)
	b := NewFixedFromFloat(16, 8, 0.5)
	if !a.Less(b) {
		t.Errorf("expected -0.5 < 0.5")
	}
	if b.Less(a) {
		t.Errorf("expected 0.5 not< -0.5")
	}
}

func TestFixedOverflowWrapsAtN(t *testing.T) {
	// N=8, K=0: raw range is [-128, 127]. 127 + 1 must wrap to -128.
	a := NewFixed(8, 0, 127)
	one := NewFixed(8, 0, 1)
	wrapped := a.Add(one).(Fixed)
	if wrapped.raw != -128 {
		t.Errorf("Fixed(8,0) overflow: got raw %d, want -128", wrapped.raw)
	}
}

func TestFastFixedDoesNotMaskNarrowWidth(t *testing.T) {
	// FastFixed(8,0) backs with int64, so it must NOT wrap where Fixed(8,0) would.
	a := NewFastFixed(8, 0, 127)
	one := NewFastFixed(8, 0, 1)
	sum := a.Add(one).(FastFixed)
	if sum.raw != 128 {
		t.Errorf("FastFixed(8,0) should not wrap: got raw %d, want 128", sum.raw)
	}
}

func TestParseTag(t *testing.T) {
	cases := []struct {
		tag      string
		wantKind Kind
		wantN    int
		wantK    int
	}{
		{"FLOAT", KindFloat, 0, 0},
		{"DOUBLE", KindDouble, 0, 0},
		{"FIXED(32,16)", KindFixed, 32, 16},
		{"FAST_FIXED(64,32)", KindFastFixed, 64, 32},
	}
	for _, c := range cases {
		t.Run(c.tag, func(t *testing.T) {
			kind, n, k, err := ParseTag(c.tag)
			if err != nil {
				t.Fatalf("ParseTag(%q) error: %v", c.tag, err)
			}
			if kind != c.wantKind || n != c.wantN || k != c.wantK {
				t.Errorf("ParseTag(%q) = (%v,%d,%d), want (%v,%d,%d)", c.tag, kind, n, k, c.wantKind, c.wantN, c.wantK)
			}
		})
	}
}

func TestParseTagInvalid(t *testing.T) {
	if _, _, _, err := ParseTag("NOT_A_TYPE"); err == nil {
		t.Errorf("expected error for unknown tag")
	}
	if _, err := Zero(KindFixed, 1, 2); err == nil {
		t.Errorf("expected error for K > N-1")
	}
}

func TestMin(t *testing.T) {
	a := Double(1.0)
	b := Double(2.0)
	if Min(a, b).(Double) != a {
		t.Errorf("Min(1,2) != 1")
	}
	if Min(b, a).(Double) != a {
		t.Errorf("Min(2,1) != 1")
	}
}
