// Package reshape applies per-bin gains to a spectrum and reconstructs the
// time-domain signal.
//
// For one-shot equalization of a whole buffer use an [Equalizer]:
//
//	eq := reshape.NewEqualizer(fft.NewEngine(), band.NewMapper())
//	out, err := eq.Process(samples, 44100, bands)
//
// The lower-level [Apply] and [Reconstruct] work on an already transformed
// sequence.
package reshape

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/spectral-eq/dsp/band"
	"github.com/cwbudde/spectral-eq/dsp/core"
	"github.com/cwbudde/spectral-eq/dsp/fft"
)

// Apply returns a copy of spec with bin k scaled by gains[k]. Phase is kept,
// magnitude scales. spec is not modified.
func Apply(spec fft.Sequence, gains []float64) (fft.Sequence, error) {
	if err := spec.Validate(); err != nil {
		return fft.Sequence{}, err
	}
	if len(gains) != spec.Len() {
		return fft.Sequence{}, fmt.Errorf("%w: %d gains for %d bins", fft.ErrLengthMismatch, len(gains), spec.Len())
	}

	out := fft.Sequence{
		Re: make([]float64, spec.Len()),
		Im: make([]float64, spec.Len()),
	}
	vecmath.MulBlock(out.Re, spec.Re, gains)
	vecmath.MulBlock(out.Im, spec.Im, gains)
	return out, nil
}

// Reconstruct applies gains to spec and returns the real part of the inverse
// transform. The imaginary residue is dropped.
func Reconstruct(engine *fft.Engine, spec fft.Sequence, gains []float64) ([]float64, error) {
	shaped, err := Apply(spec, gains)
	if err != nil {
		return nil, err
	}
	if err := engine.InverseInPlace(shaped); err != nil {
		return nil, err
	}
	return shaped.Re, nil
}

// Equalizer runs the full pad, transform, shape, reconstruct pipeline.
type Equalizer struct {
	engine *fft.Engine
	mapper *band.Mapper
}

// NewEqualizer returns an equalizer. Nil arguments get defaults.
func NewEqualizer(engine *fft.Engine, mapper *band.Mapper) *Equalizer {
	if engine == nil {
		engine = fft.NewEngine()
	}
	if mapper == nil {
		mapper = band.NewMapper()
	}
	return &Equalizer{engine: engine, mapper: mapper}
}

// Engine returns the transform engine used by q.
func (q *Equalizer) Engine() *fft.Engine { return q.engine }

// Process equalizes signal. The signal is zero-padded to the next power of
// two, shaped, and the result truncated back to len(signal).
func (q *Equalizer) Process(signal []float64, sampleRate float64, bands []band.Band) ([]float64, error) {
	if len(signal) == 0 {
		return []float64{}, nil
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("reshape: sample rate must be > 0: %f", sampleRate)
	}

	padded := core.PadToPowerOfTwo(signal)
	spec, err := q.engine.ForwardReal(padded)
	if err != nil {
		return nil, fmt.Errorf("reshape: forward: %w", err)
	}

	gains := q.mapper.Gains(len(padded), sampleRate, bands)
	out, err := Reconstruct(q.engine, spec, gains)
	if err != nil {
		return nil, fmt.Errorf("reshape: reconstruct: %w", err)
	}
	return out[:len(signal):len(signal)], nil
}
