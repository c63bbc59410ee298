package grid

import "testing"

func TestInitAndClear(t *testing.T) {
	g := New[int](3, 4)
	if g.Rows() != 3 || g.Cols() != 4 {
		t.Fatalf("shape = (%d,%d), want (3,4)", g.Rows(), g.Cols())
	}
	g.Set(1, 2, 7)
	if got := g.At(1, 2); got != 7 {
		t.Errorf("At(1,2) = %d, want 7", got)
	}
	g.Clear()
	if got := g.At(1, 2); got != 0 {
		t.Errorf("after Clear, At(1,2) = %d, want 0", got)
	}
}

func TestInBounds(t *testing.T) {
	g := New[byte](2, 2)
	if !g.InBounds(0, 0) || !g.InBounds(1, 1) {
		t.Errorf("expected corners in bounds")
	}
	if g.InBounds(-1, 0) || g.InBounds(2, 0) || g.InBounds(0, 2) {
		t.Errorf("expected out-of-range cells to be out of bounds")
	}
}

func TestPtrMutatesInPlace(t *testing.T) {
	g := New[int](2, 2)
	p := g.Ptr(0, 1)
	*p = 42
	if got := g.At(0, 1); got != 42 {
		t.Errorf("At(0,1) = %d, want 42", got)
	}
}

func TestRowSharesBacking(t *testing.T) {
	g := New[int](2, 3)
	row := g.Row(1)
	row[0] = 9
	if got := g.At(1, 0); got != 9 {
		t.Errorf("At(1,0) = %d, want 9", got)
	}
}

func TestCopyFromAndClone(t *testing.T) {
	a := New[int](2, 2)
	a.Set(0, 0, 5)
	b := New[int](2, 2)
	b.CopyFrom(a)
	b.Set(0, 0, 99)
	if got := a.At(0, 0); got != 5 {
		t.Errorf("CopyFrom should not alias: a.At(0,0) = %d, want 5", got)
	}

	c := a.Clone()
	c.Set(0, 0, -1)
	if got := a.At(0, 0); got != 5 {
		t.Errorf("Clone should not alias: a.At(0,0) = %d, want 5", got)
	}
}
