// Package webdemo holds the state behind the browser demo: the loaded
// signal, the band set and the analyzer settings.
package webdemo

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/cwbudde/spectral-eq/dsp/band"
	"github.com/cwbudde/spectral-eq/dsp/core"
	"github.com/cwbudde/spectral-eq/dsp/fft"
	"github.com/cwbudde/spectral-eq/dsp/reshape"
	"github.com/cwbudde/spectral-eq/dsp/spectrum"
	"github.com/cwbudde/spectral-eq/dsp/stft"
	timestats "github.com/cwbudde/spectral-eq/stats/time"
)

// ErrCannotProcess is returned when the loaded buffer cannot be transformed.
var ErrCannotProcess = errors.New("cannot process this buffer")

// ErrNoSignal is returned by operations that need a loaded signal.
var ErrNoSignal = errors.New("no signal loaded")

// ErrSignalReplaced is returned by Process when a new signal was loaded
// while the previous one was being processed. The result is discarded.
var ErrSignalReplaced = errors.New("signal replaced during processing")

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the engine and its band mapper.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOverlapPolicy sets how overlapping bands combine.
func WithOverlapPolicy(p band.OverlapPolicy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// Levels compares the input and the processed output.
type Levels struct {
	Input  timestats.Stats
	Output timestats.Stats
	GainDB float64
}

// Engine runs the demo pipeline. It is safe for concurrent use.
type Engine struct {
	mu sync.RWMutex

	logger *zap.Logger
	policy band.OverlapPolicy

	fft      *fft.Engine
	mapper   *band.Mapper
	eq       *reshape.Equalizer
	analyzer *stft.Analyzer
	spectrum SpectrumParams

	sampleRate float64
	input      []float64
	output     []float64
	bands      []band.Band
	// gen counts LoadSignal calls so Process never stores the output of a
	// signal that has since been replaced.
	gen uint64
}

// NewEngine creates an engine with no signal and no bands.
func NewEngine(sampleRate float64, opts ...Option) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	e := &Engine{
		logger:     zap.NewNop(),
		policy:     band.OverlapLastWins,
		fft:        fft.NewEngine(),
		sampleRate: sampleRate,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	e.mapper = band.NewMapper(band.WithLogger(e.logger), band.WithOverlapPolicy(e.policy))
	e.eq = reshape.NewEqualizer(e.fft, e.mapper)
	if err := e.SetSpectrum(DefaultSpectrumParams()); err != nil {
		return nil, err
	}
	return e, nil
}

// SampleRate returns the rate of the loaded signal.
func (e *Engine) SampleRate() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sampleRate
}

// LoadSignal replaces the signal with a copy of samples and clears the output.
func (e *Engine) LoadSignal(samples []float64, sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	in := make([]float64, len(samples))
	copy(in, samples)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.input = in
	e.output = nil
	e.sampleRate = sampleRate
	e.gen++
	e.logger.Debug("signal loaded",
		zap.Int("samples", len(in)),
		zap.Float64("sample_rate", sampleRate))
	return nil
}

// LoadChannels down-mixes channels by per-sample mean and loads the result.
func (e *Engine) LoadChannels(channels [][]float64, sampleRate float64) error {
	return e.LoadSignal(core.Downmix(channels), sampleRate)
}

// Input returns a copy of the loaded signal.
func (e *Engine) Input() []float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]float64(nil), e.input...)
}

// SetBands validates and stores the band set. The previous output is kept
// until the next Process call.
func (e *Engine) SetBands(bands []band.Band) error {
	if err := band.Validate(bands); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.bands = append([]band.Band(nil), bands...)
	return nil
}

// Bands returns a copy of the current band set.
func (e *Engine) Bands() []band.Band {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]band.Band(nil), e.bands...)
}

// Process equalizes the loaded signal with the current bands and returns
// the output, which is also kept for Spectrograms and Levels. If LoadSignal
// replaces the signal meanwhile, the result is dropped and ErrSignalReplaced
// is returned.
func (e *Engine) Process() ([]float64, error) {
	job := e.snapshot()
	if job.input == nil {
		return nil, ErrNoSignal
	}

	out, err := e.eq.Process(job.input, job.sampleRate, job.bands)
	if err != nil {
		e.logger.Error("process failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrCannotProcess, err)
	}

	if !e.commit(job.gen, out) {
		e.logger.Debug("discarding output of replaced signal", zap.Uint64("generation", job.gen))
		return nil, ErrSignalReplaced
	}

	e.logger.Debug("signal processed", zap.Int("bands", len(job.bands)), zap.Int("samples", len(out)))
	return append([]float64(nil), out...), nil
}

// processJob is the state Process reads under the lock.
type processJob struct {
	input      []float64
	bands      []band.Band
	sampleRate float64
	gen        uint64
}

func (e *Engine) snapshot() processJob {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return processJob{input: e.input, bands: e.bands, sampleRate: e.sampleRate, gen: e.gen}
}

// commit stores out unless the signal changed since generation gen.
func (e *Engine) commit(gen uint64, out []float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return false
	}
	e.output = out
	return true
}

// Output returns a copy of the last processed output, nil before Process.
func (e *Engine) Output() []float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.output == nil {
		return nil
	}
	return append([]float64(nil), e.output...)
}

// Levels reports input and output statistics. Output is zero before Process.
func (e *Engine) Levels() Levels {
	e.mu.RLock()
	in, out := e.input, e.output
	e.mu.RUnlock()

	l := Levels{Input: timestats.Calculate(in)}
	if out != nil {
		l.Output = timestats.Calculate(out)
		l.GainDB = timestats.GainDB(l.Input, l.Output)
	}
	return l
}

// GainCurveDB returns the gain Process applies at each of freqs, in dB. The
// gains are mapped on the padded transform length of the loaded signal, or
// on the analyzer frame length when no signal is loaded.
func (e *Engine) GainCurveDB(freqs []float64) []float64 {
	e.mu.RLock()
	bands, fs := e.bands, e.sampleRate
	n := e.spectrum.FrameLength
	if len(e.input) > 0 {
		n = core.NextPowerOfTwo(len(e.input))
	}
	e.mu.RUnlock()

	gains := e.mapper.Gains(n, fs, bands)
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		pos := spectrum.BinPosition(f, n, fs)
		bin := int(core.Clamp(math.Round(pos), 0, float64(spectrum.NyquistBin(n))))
		out[i] = core.LinearToDB(gains[bin])
	}
	return out
}
