package stft

import (
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/spectral-eq/dsp/buffer"
	"github.com/cwbudde/spectral-eq/dsp/core"
	"github.com/cwbudde/spectral-eq/dsp/fft"
	"github.com/cwbudde/spectral-eq/dsp/spectrum"
	"github.com/cwbudde/spectral-eq/dsp/window"
)

const (
	DefaultFrameLength = 2048
	DefaultHopLength   = 512
	DefaultFloorDB     = -100.0
)

var (
	// ErrInvalidFrameLength is returned for frame lengths that are not a power of two >= 2.
	ErrInvalidFrameLength = errors.New("stft: frame length must be a power of two >= 2")
	// ErrInvalidHopLength is returned for hop lengths outside (0, frameLength].
	ErrInvalidHopLength = errors.New("stft: hop length must be in (0, frame length]")
)

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	frameLength int
	hopLength   int
	workers     int
	floorDB     float64
}

func defaultConfig() config {
	return config{
		frameLength: DefaultFrameLength,
		hopLength:   DefaultHopLength,
		workers:     runtime.GOMAXPROCS(0),
		floorDB:     DefaultFloorDB,
	}
}

// WithFrameLength sets the frame (and transform) length.
func WithFrameLength(n int) Option {
	return func(c *config) {
		c.frameLength = n
	}
}

// WithHopLength sets the distance between frame starts.
func WithHopLength(n int) Option {
	return func(c *config) {
		c.hopLength = n
	}
}

// WithWorkers bounds the number of goroutines per pass. Values < 1 are ignored.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithFloorDB sets the level that maps to 0. Non-negative values are ignored.
func WithFloorDB(db float64) Option {
	return func(c *config) {
		if db < 0 {
			c.floorDB = db
		}
	}
}

// Spectrogram is the quantized display matrix. Frames[i][k] is bin k of the
// frame starting at sample i*HopLength.
type Spectrogram struct {
	Frames       [][]uint8
	Bins         int
	FrameLength  int
	HopLength    int
	FloorDB      float64
	MaxMagnitude float64
}

// Len returns the number of frames.
func (s *Spectrogram) Len() int {
	return len(s.Frames)
}

// FrameTime returns the start time of frame i in seconds.
func (s *Spectrogram) FrameTime(i int, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return float64(i*s.HopLength) / sampleRate
}

// BinFrequency returns the center frequency of bin k in Hz.
func (s *Spectrogram) BinFrequency(k int, sampleRate float64) float64 {
	return spectrum.BinFrequency(k, s.FrameLength, sampleRate)
}

// Analyzer computes spectrograms. It is safe for concurrent use.
type Analyzer struct {
	engine *fft.Engine
	cfg    config
	window []float64
	frames *buffer.Pool
}

// NewAnalyzer returns an analyzer using engine for its transforms.
func NewAnalyzer(engine *fft.Engine, opts ...Option) (*Analyzer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !core.IsPowerOfTwo(cfg.frameLength) || cfg.frameLength < 2 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFrameLength, cfg.frameLength)
	}
	if cfg.hopLength <= 0 || cfg.hopLength > cfg.frameLength {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHopLength, cfg.hopLength)
	}

	win, err := window.Hann(cfg.frameLength)
	if err != nil {
		return nil, fmt.Errorf("stft: window: %w", err)
	}
	if engine == nil {
		engine = fft.NewEngine()
	}

	return &Analyzer{
		engine: engine,
		cfg:    cfg,
		window: win,
		frames: buffer.NewPool(cfg.frameLength),
	}, nil
}

// FrameLength returns the frame length in samples.
func (a *Analyzer) FrameLength() int { return a.cfg.frameLength }

// HopLength returns the hop length in samples.
func (a *Analyzer) HopLength() int { return a.cfg.hopLength }

// Bins returns the number of bins kept per frame.
func (a *Analyzer) Bins() int { return a.cfg.frameLength / 2 }

// NumFrames returns the number of frames produced for a signal of the given length.
func (a *Analyzer) NumFrames(length int) int {
	return NumFrames(length, a.cfg.frameLength, a.cfg.hopLength)
}

// NumFrames returns floor((length-frameLength)/hopLength)+1, or 0 when the
// signal is shorter than one frame.
func NumFrames(length, frameLength, hopLength int) int {
	if frameLength <= 0 || hopLength <= 0 || length < frameLength {
		return 0
	}
	return (length-frameLength)/hopLength + 1
}

// transform windows the frame starting at start and leaves its spectrum in
// sc.Re and sc.Im.
func (a *Analyzer) transform(signal []float64, start int, sc *buffer.Frame) error {
	frame := signal[start : start+a.cfg.frameLength]
	if err := window.ApplyCoefficients(sc.Re, frame, a.window); err != nil {
		return err
	}
	core.Zero(sc.Im)
	return a.engine.ForwardInPlace(fft.Sequence{Re: sc.Re, Im: sc.Im})
}

// magnitudes transforms the frame starting at start and leaves the first
// Bins() magnitudes in sc.Mag.
func (a *Analyzer) magnitudes(signal []float64, start int, sc *buffer.Frame) error {
	if err := a.transform(signal, start, sc); err != nil {
		return err
	}
	bins := a.Bins()
	spectrum.MagnitudeFromParts(sc.Mag, sc.Re[:bins], sc.Im[:bins])
	return nil
}

// forEachChunk splits [0, frames) into contiguous chunks, one per worker.
func (a *Analyzer) forEachChunk(frames int, fn func(worker, lo, hi int, sc *buffer.Frame) error) error {
	workers := min(a.cfg.workers, frames)
	if workers < 1 {
		workers = 1
	}
	chunk := (frames + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, frames)
		if lo >= hi {
			break
		}
		g.Go(func() error {
			sc := a.frames.Get()
			defer a.frames.Put(sc)
			return fn(w, lo, hi, sc)
		})
	}
	return g.Wait()
}

// Compute returns the quantized spectrogram of signal. A signal shorter than
// one frame yields an empty spectrogram and no error.
func (a *Analyzer) Compute(signal []float64) (*Spectrogram, error) {
	frames := a.NumFrames(len(signal))
	out := &Spectrogram{
		Frames:      make([][]uint8, frames),
		Bins:        a.Bins(),
		FrameLength: a.cfg.frameLength,
		HopLength:   a.cfg.hopLength,
		FloorDB:     a.cfg.floorDB,
	}
	if frames == 0 {
		return out, nil
	}

	hop := a.cfg.hopLength
	bins := a.Bins()

	peaks := make([]float64, a.cfg.workers)
	err := a.forEachChunk(frames, func(worker, lo, hi int, sc *buffer.Frame) error {
		peak := 0.0
		for i := lo; i < hi; i++ {
			if err := a.transform(signal, i*hop, sc); err != nil {
				return fmt.Errorf("stft: frame %d: %w", i, err)
			}
			peak = max(peak, spectrum.PeakMagnitude(sc.Re, sc.Im, bins))
		}
		peaks[worker] = peak
		return nil
	})
	if err != nil {
		return nil, err
	}

	maxMag := spectrum.Epsilon
	for _, p := range peaks {
		if p > maxMag {
			maxMag = p
		}
	}
	out.MaxMagnitude = maxMag

	err = a.forEachChunk(frames, func(_, lo, hi int, sc *buffer.Frame) error {
		for i := lo; i < hi; i++ {
			if err := a.magnitudes(signal, i*hop, sc); err != nil {
				return fmt.Errorf("stft: frame %d: %w", i, err)
			}
			row := make([]uint8, len(sc.Mag))
			for k, m := range sc.Mag {
				row[k] = spectrum.QuantizeDB(spectrum.RelativeDB(m, maxMag), a.cfg.floorDB)
			}
			out.Frames[i] = row
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}
