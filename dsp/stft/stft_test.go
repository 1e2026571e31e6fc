package stft

import (
	"errors"
	"math"
	"math/cmplx"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/cwbudde/spectral-eq/dsp/fft"
	"github.com/cwbudde/spectral-eq/dsp/spectrum"
	"github.com/cwbudde/spectral-eq/dsp/window"
	"github.com/cwbudde/spectral-eq/internal/testutil"
)

func TestNumFrames(t *testing.T) {
	tests := []struct {
		name           string
		length, f, hop int
		want           int
	}{
		{"shorter than frame", 100, 256, 64, 0},
		{"exactly one frame", 256, 256, 64, 1},
		{"one hop more", 320, 256, 64, 2},
		{"partial hop dropped", 319, 256, 64, 1},
		{"no overlap", 1024, 256, 256, 4},
		{"one second at 44.1 kHz", 44100, 2048, 512, 83},
		{"zero hop", 1024, 256, 0, 0},
		{"empty", 0, 256, 64, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NumFrames(tt.length, tt.f, tt.hop); got != tt.want {
				t.Fatalf("NumFrames(%d,%d,%d)=%d want %d", tt.length, tt.f, tt.hop, got, tt.want)
			}
		})
	}
}

func TestNewAnalyzerValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []Option
		want error
	}{
		{"frame not power of two", []Option{WithFrameLength(1000)}, ErrInvalidFrameLength},
		{"frame too small", []Option{WithFrameLength(1)}, ErrInvalidFrameLength},
		{"zero hop", []Option{WithHopLength(0)}, ErrInvalidHopLength},
		{"hop larger than frame", []Option{WithFrameLength(256), WithHopLength(512)}, ErrInvalidHopLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAnalyzer(nil, tt.opts...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err=%v want %v", err, tt.want)
			}
		})
	}
}

func TestNewAnalyzerDefaults(t *testing.T) {
	a, err := NewAnalyzer(nil)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	if a.FrameLength() != DefaultFrameLength || a.HopLength() != DefaultHopLength {
		t.Fatalf("defaults=%d/%d", a.FrameLength(), a.HopLength())
	}
	if a.Bins() != DefaultFrameLength/2 {
		t.Fatalf("Bins=%d", a.Bins())
	}

	// Ignored values keep the defaults.
	a, err = NewAnalyzer(nil, WithWorkers(0), WithFloorDB(10), nil)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	if a.cfg.workers < 1 || a.cfg.floorDB != DefaultFloorDB {
		t.Fatalf("cfg=%+v", a.cfg)
	}
}

func TestComputeShortSignal(t *testing.T) {
	a, err := NewAnalyzer(nil, WithFrameLength(256), WithHopLength(64))
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	for _, n := range []int{0, 1, 255} {
		s, err := a.Compute(make([]float64, n))
		if err != nil {
			t.Fatalf("Compute(%d): %v", n, err)
		}
		if s.Len() != 0 || s.Frames == nil {
			t.Fatalf("Compute(%d) frames=%v", n, s.Frames)
		}
		if s.Bins != 128 {
			t.Fatalf("Bins=%d", s.Bins)
		}
	}
}

func TestComputeShape(t *testing.T) {
	a, err := NewAnalyzer(nil, WithFrameLength(256), WithHopLength(100))
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	signal := testutil.DeterministicNoise(3, 0.5, 1500)
	s, err := a.Compute(signal)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if want := (1500-256)/100 + 1; s.Len() != want {
		t.Fatalf("frames=%d want %d", s.Len(), want)
	}
	for i, row := range s.Frames {
		if len(row) != 128 {
			t.Fatalf("frame %d has %d bins", i, len(row))
		}
	}
}

func TestComputeToneReachesFullScale(t *testing.T) {
	const (
		f = 256
		k = 32
	)

	a, err := NewAnalyzer(nil, WithFrameLength(f), WithHopLength(f/2))
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	// Periodic in f, so every frame sees the same tone.
	signal := testutil.DeterministicSine(k, f, 1, 8*f)
	s, err := a.Compute(signal)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	found := false
	for i, row := range s.Frames {
		peak := 0
		for b := range row {
			if row[b] > row[peak] {
				peak = b
			}
		}
		if peak != k {
			t.Fatalf("frame %d peaks at bin %d want %d", i, peak, k)
		}
		if row[k] == 255 {
			found = true
		}
		if row[100] >= row[k] {
			t.Fatalf("frame %d: far bin %d not below peak %d", i, row[100], row[k])
		}
	}
	if !found {
		t.Fatal("no frame reached 255")
	}
}

func TestComputeSilence(t *testing.T) {
	a, err := NewAnalyzer(nil, WithFrameLength(64), WithHopLength(32))
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	s, err := a.Compute(make([]float64, 640))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if s.MaxMagnitude != spectrum.Epsilon {
		t.Fatalf("MaxMagnitude=%g want %g", s.MaxMagnitude, spectrum.Epsilon)
	}
	for i, row := range s.Frames {
		for b, v := range row {
			if v != 0 {
				t.Fatalf("frame %d bin %d = %d", i, b, v)
			}
		}
	}
}

func TestComputeIndependentOfWorkers(t *testing.T) {
	signal := testutil.DeterministicNoise(11, 1, 20000)

	var want *Spectrogram
	for _, workers := range []int{1, 2, 3, 8, 64} {
		a, err := NewAnalyzer(fft.NewEngine(),
			WithFrameLength(512), WithHopLength(128), WithWorkers(workers))
		if err != nil {
			t.Fatalf("NewAnalyzer: %v", err)
		}

		got, err := a.Compute(signal)
		if err != nil {
			t.Fatalf("Compute(workers=%d): %v", workers, err)
		}
		if want == nil {
			want = got
			continue
		}
		if got.MaxMagnitude != want.MaxMagnitude {
			t.Fatalf("workers=%d max=%g want %g", workers, got.MaxMagnitude, want.MaxMagnitude)
		}
		if !reflect.DeepEqual(got.Frames, want.Frames) {
			t.Fatalf("workers=%d produced different frames", workers)
		}
	}
}

func TestComputeMatchesGonum(t *testing.T) {
	const (
		f   = 128
		hop = 48
	)

	signal := testutil.DeterministicNoise(5, 1, 2000)
	a, err := NewAnalyzer(nil, WithFrameLength(f), WithHopLength(hop))
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	got, err := a.Compute(signal)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	win, err := window.Hann(f)
	if err != nil {
		t.Fatalf("Hann: %v", err)
	}
	plan := fourier.NewFFT(f)
	frames := NumFrames(len(signal), f, hop)
	mags := make([][]float64, frames)
	peak := 0.0
	buf := make([]float64, f)
	for i := range frames {
		for j := range buf {
			buf[j] = signal[i*hop+j] * win[j]
		}
		coeffs := plan.Coefficients(nil, buf)
		mags[i] = make([]float64, f/2)
		for k := range mags[i] {
			mags[i][k] = cmplx.Abs(coeffs[k])
			peak = math.Max(peak, mags[i][k])
		}
	}

	if math.Abs(got.MaxMagnitude-peak) > 1e-9*peak {
		t.Fatalf("MaxMagnitude=%g want %g", got.MaxMagnitude, peak)
	}
	for i := range frames {
		for k, m := range mags[i] {
			want := spectrum.QuantizeDB(spectrum.RelativeDB(m, peak), DefaultFloorDB)
			diff := int(got.Frames[i][k]) - int(want)
			if diff < -1 || diff > 1 {
				t.Fatalf("frame %d bin %d = %d want %d", i, k, got.Frames[i][k], want)
			}
		}
	}
}

func TestFloorDBStretchesRange(t *testing.T) {
	signal := testutil.DeterministicNoise(9, 1, 4096)

	narrow, err := NewAnalyzer(nil, WithFrameLength(256), WithHopLength(256), WithFloorDB(-40))
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}
	wide, err := NewAnalyzer(nil, WithFrameLength(256), WithHopLength(256), WithFloorDB(-120))
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	sn, err := narrow.Compute(signal)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	sw, err := wide.Compute(signal)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	// A level below the peak sits lower in the narrow range.
	for i := range sn.Frames {
		for k := range sn.Frames[i] {
			if sn.Frames[i][k] > sw.Frames[i][k] {
				t.Fatalf("frame %d bin %d: narrow %d > wide %d", i, k, sn.Frames[i][k], sw.Frames[i][k])
			}
		}
	}
}

func TestSpectrogramAxes(t *testing.T) {
	s := &Spectrogram{FrameLength: 1024, HopLength: 256}

	if got := s.FrameTime(4, 1024); got != 1 {
		t.Fatalf("FrameTime=%g want 1", got)
	}
	if got := s.FrameTime(4, 0); got != 0 {
		t.Fatalf("FrameTime with zero rate=%g", got)
	}
	if got := s.BinFrequency(10, 1024); got != 10 {
		t.Fatalf("BinFrequency=%g want 10", got)
	}
}
