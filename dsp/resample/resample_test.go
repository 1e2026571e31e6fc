package resample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/spectral-eq/internal/testutil"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		in, out  float64
		up, down int
	}{
		{44100, 48000, 160, 147},
		{48000, 44100, 147, 160},
		{48000, 96000, 2, 1},
		{48000, 8000, 1, 6},
		{22050, 22050, 1, 1},
	}

	for _, tt := range tests {
		c, err := New(tt.in, tt.out)
		if err != nil {
			t.Fatalf("New(%v,%v): %v", tt.in, tt.out, err)
		}
		up, down := c.Ratio()
		if up != tt.up || down != tt.down {
			t.Fatalf("%v->%v ratio=%d/%d want %d/%d", tt.in, tt.out, up, down, tt.up, tt.down)
		}
	}
}

func TestInvalidRates(t *testing.T) {
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := New(r, 48000); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("New(%v): err=%v", r, err)
		}
		if _, err := Convert([]float64{1}, 48000, r); !errors.Is(err, ErrInvalidRate) {
			t.Fatalf("Convert(%v): err=%v", r, err)
		}
	}
}

func TestOutputLen(t *testing.T) {
	for _, tc := range []struct{ in, out float64 }{
		{44100, 48000}, {48000, 44100}, {48000, 96000}, {96000, 48000},
	} {
		c, err := New(tc.in, tc.out)
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		got := len(c.Convert(make([]float64, 4096)))
		if got != c.OutputLen(4096) {
			t.Fatalf("len=%d OutputLen=%d", got, c.OutputLen(4096))
		}
		want := int(math.Round(4096 * tc.out / tc.in))
		if d := got - want; d < -1 || d > 1 {
			t.Fatalf("%v->%v len=%d want ~%d", tc.in, tc.out, got, want)
		}
	}

	c, _ := New(1, 2)
	if c.OutputLen(0) != 0 || len(c.Convert(nil)) != 0 {
		t.Fatal("empty input should give empty output")
	}
}

func TestPreservesDC(t *testing.T) {
	c, err := New(44100, 48000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	out := c.Convert(testutil.DC(1, 4000))

	// Skip the edges where the filter reaches past the buffer.
	for i := 200; i < len(out)-200; i++ {
		if math.Abs(out[i]-1) > 5e-3 {
			t.Fatalf("out[%d]=%g want 1", i, out[i])
		}
	}
}

func TestPreservesPassbandToneWithoutDelay(t *testing.T) {
	for _, tc := range []struct{ in, out float64 }{
		{44100, 48000}, {48000, 44100}, {16000, 48000}, {48000, 16000},
	} {
		in := testutil.DeterministicSine(1000, tc.in, 1, 8000)
		out, err := Convert(in, tc.in, tc.out)
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		want := testutil.DeterministicSine(1000, tc.out, 1, len(out))

		for i := 300; i < len(out)-300; i++ {
			if math.Abs(out[i]-want[i]) > 1e-2 {
				t.Fatalf("%v->%v out[%d]=%g want %g", tc.in, tc.out, i, out[i], want[i])
			}
		}
	}
}

func TestRejectsAliases(t *testing.T) {
	// 6 kHz cannot be represented at 8 kHz.
	in := testutil.DeterministicSine(6000, 48000, 1, 48000)
	out, err := Convert(in, 48000, 8000)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	var sum float64
	mid := out[100 : len(out)-100]
	for _, v := range mid {
		sum += v * v
	}
	if rms := math.Sqrt(sum / float64(len(mid))); rms > 0.01 {
		t.Fatalf("alias rms=%g", rms)
	}
}

func TestConvertEqualRatesCopies(t *testing.T) {
	in := []float64{1, 2, 3}
	out, err := Convert(in, 44100, 44100)
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, out, in, 0)
	out[0] = 9
	if in[0] != 1 {
		t.Fatal("Convert aliases its input")
	}
}

func TestApproximateRatio(t *testing.T) {
	if n, d := approximateRatio(math.Pi, 1000); n != 355 || d != 113 {
		t.Fatalf("pi ~ %d/%d want 355/113", n, d)
	}
	if n, d := approximateRatio(-1, 10); n != 1 || d != 1 {
		t.Fatalf("invalid ratio gave %d/%d", n, d)
	}
}
