package fft

import (
	"math"
	"testing"
)

func TestComplexArithmetic(t *testing.T) {
	a := Complex{Re: 1, Im: 2}
	b := Complex{Re: 3, Im: -1}

	if got := a.Add(b); got != (Complex{Re: 4, Im: 1}) {
		t.Fatalf("Add = %v", got)
	}
	if got := a.Sub(b); got != (Complex{Re: -2, Im: 3}) {
		t.Fatalf("Sub = %v", got)
	}
	// (1+2i)(3-i) = 3 - i + 6i - 2i^2 = 5 + 5i
	if got := a.Mul(b); got != (Complex{Re: 5, Im: 5}) {
		t.Fatalf("Mul = %v", got)
	}
	if got := a.Conj(); got != (Complex{Re: 1, Im: -2}) {
		t.Fatalf("Conj = %v", got)
	}
}

func TestTwiddle(t *testing.T) {
	tests := []struct {
		k, n   int
		re, im float64
	}{
		{0, 8, 1, 0},
		{1, 4, 0, -1},
		{2, 4, -1, 0},
		{3, 4, 0, 1},
		{1, 8, math.Sqrt2 / 2, -math.Sqrt2 / 2},
	}

	for _, tt := range tests {
		w := Twiddle(tt.k, tt.n)
		if math.Abs(w.Re-tt.re) > 1e-15 || math.Abs(w.Im-tt.im) > 1e-15 {
			t.Errorf("Twiddle(%d, %d) = %v, want (%v, %v)", tt.k, tt.n, w, tt.re, tt.im)
		}
	}
}

func TestTwiddleUnitMagnitude(t *testing.T) {
	for k := 0; k < 64; k++ {
		w := Twiddle(k, 64)
		if mag := math.Hypot(w.Re, w.Im); math.Abs(mag-1) > 1e-15 {
			t.Fatalf("|Twiddle(%d, 64)| = %v", k, mag)
		}
	}
}
