package dither

import (
	"math"
	"testing"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
		ok   bool
	}{
		{"none", None, true},
		{"Rectangular", Rectangular, true},
		{" triangular ", Triangular, true},
		{"tpdf", Triangular, true},
		{"gaussian", None, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseType(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("ParseType(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
	if Type(9).Valid() || Type(9).String() != "Type(9)" {
		t.Fatal("out-of-range type should be invalid")
	}
}

func TestNewQuantizerValidation(t *testing.T) {
	if _, err := NewQuantizer(1); err == nil {
		t.Fatal("expected error for 1-bit")
	}
	if _, err := NewQuantizer(33); err == nil {
		t.Fatal("expected error for 33-bit")
	}
	if _, err := NewQuantizer(16, WithType(Type(7))); err == nil {
		t.Fatal("expected error for invalid type")
	}

	q, err := NewQuantizer(24, nil)
	if err != nil {
		t.Fatalf("NewQuantizer() error = %v", err)
	}
	if q.BitDepth() != 24 || q.Type() != Triangular {
		t.Fatalf("defaults: %d bit %v", q.BitDepth(), q.Type())
	}
}

func TestNoDitherRounds(t *testing.T) {
	q, err := NewQuantizer(16, WithType(None))
	if err != nil {
		t.Fatalf("NewQuantizer() error = %v", err)
	}

	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1, 32767},
		{-1, -32767},
		{2, 32767},
		{-2, -32767},
		{math.NaN(), 0},
		{0.5, 16384},
	}
	for _, tt := range tests {
		if got := q.ProcessInteger(tt.in); got != tt.want {
			t.Fatalf("ProcessInteger(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDitherStaysWithinLimits(t *testing.T) {
	for _, kind := range []Type{Rectangular, Triangular} {
		t.Run(kind.String(), func(t *testing.T) {
			q, err := NewQuantizer(8, WithType(kind), WithSeed(3), WithNoiseShaping(true))
			if err != nil {
				t.Fatalf("NewQuantizer() error = %v", err)
			}
			for i := range 10000 {
				x := math.Sin(float64(i) * 0.01)
				v := q.ProcessInteger(x)
				if v < -128 || v > 127 {
					t.Fatalf("sample %d = %d out of 8-bit range", i, v)
				}
				if math.Abs(float64(v)-127*x) > 3.5 {
					t.Fatalf("sample %d = %d too far from %v", i, v, 127*x)
				}
			}
		})
	}
}

func TestTriangularDitherIsUnbiased(t *testing.T) {
	q, err := NewQuantizer(16, WithSeed(1))
	if err != nil {
		t.Fatalf("NewQuantizer() error = %v", err)
	}

	// A constant a quarter LSB above zero averages to 0.25 LSB with dither
	// but always rounds to zero without it.
	x := 0.25 / 32767
	const n = 200000
	sum := 0
	for range n {
		sum += q.ProcessInteger(x)
	}
	if mean := float64(sum) / n; math.Abs(mean-0.25) > 0.02 {
		t.Fatalf("mean = %v, want about 0.25", mean)
	}
}

func TestSeedIsReproducible(t *testing.T) {
	src := make([]float64, 256)
	for i := range src {
		src[i] = 0.3 * math.Sin(float64(i)*0.1)
	}

	run := func() []int {
		q, err := NewQuantizer(16, WithSeed(42), WithNoiseShaping(true))
		if err != nil {
			t.Fatalf("NewQuantizer() error = %v", err)
		}
		dst := make([]int, len(src))
		if n := q.Quantize(dst, src); n != len(src) {
			t.Fatalf("Quantize wrote %d", n)
		}
		return dst
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("run differs at %d: %d vs %d", i, a[i], b[i])
		}
	}
}
