package signal

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/spectral-eq/dsp/core"
)

// ErrInvalidLength is returned when a requested signal has no samples.
var ErrInvalidLength = errors.New("signal: length must be > 0")

// Generator creates deterministic signals at a fixed sample rate.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the random seed used for noise.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator returns a generator. The sample rate comes from the core
// processor options and defaults to 44.1 kHz.
func NewGenerator(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// SampleRate returns the generator sample rate in Hz.
func (g *Generator) SampleRate() float64 {
	return g.cfg.SampleRate
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Sine generates amplitude*sin(2*pi*freqHz*t).
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	return g.MultiTone([]float64{freqHz}, amplitude, samples)
}

// MultiTone sums equal-amplitude sines at the given frequencies. The sum is
// scaled by 1/len(freqs) so its peak never exceeds amplitude.
func (g *Generator) MultiTone(freqs []float64, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, samples)
	}
	if len(freqs) == 0 {
		return nil, errors.New("signal: at least one frequency is required")
	}
	nyquist := g.cfg.SampleRate / 2
	for _, f := range freqs {
		if f < 0 || f > nyquist || math.IsNaN(f) {
			return nil, fmt.Errorf("signal: frequency %g Hz outside [0, %g]", f, nyquist)
		}
	}

	out := make([]float64, samples)
	scale := amplitude / float64(len(freqs))
	for _, f := range freqs {
		step := 2 * math.Pi * f / g.cfg.SampleRate
		for i := range out {
			out[i] += scale * math.Sin(step*float64(i))
		}
	}
	return out, nil
}

// LogSweep generates an exponential sine sweep from startHz to endHz over
// the whole signal.
func (g *Generator) LogSweep(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, samples)
	}
	nyquist := g.cfg.SampleRate / 2
	if startHz <= 0 || endHz <= 0 || startHz > nyquist || endHz > nyquist {
		return nil, fmt.Errorf("signal: sweep range %g..%g Hz outside (0, %g]", startHz, endHz, nyquist)
	}

	out := make([]float64, samples)
	duration := float64(samples) / g.cfg.SampleRate
	if startHz == endHz {
		step := 2 * math.Pi * startHz / g.cfg.SampleRate
		for i := range out {
			out[i] = amplitude * math.Sin(step*float64(i))
		}
		return out, nil
	}

	k := math.Log(endHz / startHz)
	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		phase := 2 * math.Pi * startHz * duration / k * (math.Exp(t/duration*k) - 1)
		out[i] = amplitude * math.Sin(phase)
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("signal: noise amplitude must be >= 0: %g", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize scales data to the target peak amplitude and returns a new slice.
// Silent input stays silent.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("signal: target peak must be >= 0: %g", targetPeak)
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
