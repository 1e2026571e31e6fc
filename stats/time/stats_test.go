package time

import (
	"math"
	"strconv"
	"testing"

	"github.com/cwbudde/spectral-eq/internal/testutil"
)

const tolerance = 1e-10

func almostEqual(a, b, tol float64) bool {
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return true
	}
	if math.IsInf(a, 1) && math.IsInf(b, 1) {
		return true
	}
	return math.Abs(a-b) <= tol
}

func itoa(n int) string { return strconv.Itoa(n) }

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		signal  []float64
		rms     float64
		peak    float64
		energy  float64
		clipped int
	}{
		{"dc", testutil.DC(0.5, 100), 0.5, 0.5, 25, 0},
		{"square", []float64{1, -1, 1, -1}, 1, 1, 4, 0},
		{"single negative", []float64{-2}, 2, 2, 4, 1},
		{"clipping", []float64{1.5, -1.2, 0.3, 1}, math.Sqrt((2.25 + 1.44 + 0.09 + 1) / 4), 1.5, 4.78, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Calculate(tt.signal)
			if s.Length != len(tt.signal) {
				t.Fatalf("Length=%d want %d", s.Length, len(tt.signal))
			}
			if !almostEqual(s.RMS, tt.rms, tolerance) {
				t.Fatalf("RMS=%g want %g", s.RMS, tt.rms)
			}
			if !almostEqual(s.Peak, tt.peak, tolerance) {
				t.Fatalf("Peak=%g want %g", s.Peak, tt.peak)
			}
			if !almostEqual(s.Energy, tt.energy, tolerance) {
				t.Fatalf("Energy=%g want %g", s.Energy, tt.energy)
			}
			if s.Clipped != tt.clipped {
				t.Fatalf("Clipped=%d want %d", s.Clipped, tt.clipped)
			}
			if !almostEqual(s.RMS_dB, 20*math.Log10(tt.rms), tolerance) {
				t.Fatalf("RMS_dB=%g", s.RMS_dB)
			}
		})
	}
}

func TestCalculateSine(t *testing.T) {
	signal := testutil.DeterministicSine(100, 10000, 1, 10000)
	s := Calculate(signal)

	if !almostEqual(s.RMS, 1/math.Sqrt2, 1e-9) {
		t.Fatalf("RMS=%g want %g", s.RMS, 1/math.Sqrt2)
	}
	if !almostEqual(s.CrestFactor_dB, 20*math.Log10(math.Sqrt2), 1e-6) {
		t.Fatalf("CrestFactor_dB=%g", s.CrestFactor_dB)
	}
}

func TestCalculateEmptyAndSilent(t *testing.T) {
	for _, signal := range [][]float64{nil, make([]float64, 16)} {
		s := Calculate(signal)
		if !math.IsInf(s.RMS_dB, -1) || !math.IsInf(s.Peak_dB, -1) {
			t.Fatalf("len=%d: dB fields=%g/%g want -Inf", len(signal), s.RMS_dB, s.Peak_dB)
		}
		if s.CrestFactor_dB != 0 {
			t.Fatalf("len=%d: CrestFactor_dB=%g want 0", len(signal), s.CrestFactor_dB)
		}
		if s.Length != len(signal) {
			t.Fatalf("Length=%d", s.Length)
		}
	}
}

func TestHelpersMatchCalculate(t *testing.T) {
	for _, n := range []int{1, 7, 256} {
		t.Run(itoa(n), func(t *testing.T) {
			signal := testutil.DeterministicNoise(int64(n), 1.3, n)
			s := Calculate(signal)
			if !almostEqual(RMS(signal), s.RMS, tolerance) {
				t.Fatalf("RMS=%g want %g", RMS(signal), s.RMS)
			}
			if Peak(signal) != s.Peak {
				t.Fatalf("Peak=%g want %g", Peak(signal), s.Peak)
			}
			if !almostEqual(Energy(signal), s.Energy, tolerance) {
				t.Fatalf("Energy=%g want %g", Energy(signal), s.Energy)
			}
		})
	}

	if RMS(nil) != 0 || Peak(nil) != 0 || Energy(nil) != 0 {
		t.Fatal("empty helpers should return 0")
	}
}

func TestGainDB(t *testing.T) {
	quiet := Calculate(testutil.DC(0.1, 8))
	loud := Calculate(testutil.DC(1, 8))
	silent := Calculate(make([]float64, 8))

	tests := []struct {
		name          string
		before, after Stats
		want          float64
	}{
		{"boost", quiet, loud, 20},
		{"cut", loud, quiet, -20},
		{"unchanged", loud, loud, 0},
		{"muted", loud, silent, math.Inf(-1)},
		{"from silence", silent, loud, math.Inf(1)},
		{"both silent", silent, silent, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GainDB(tt.before, tt.after); !almostEqual(got, tt.want, 1e-9) {
				t.Fatalf("GainDB=%g want %g", got, tt.want)
			}
		})
	}
}
