package dither

import (
	"fmt"
	"math"
	"math/rand/v2"
)

const (
	minBitDepth = 2
	maxBitDepth = 32
)

// Option configures a Quantizer.
type Option func(*Quantizer) error

// WithType sets the dither PDF. The default is Triangular.
func WithType(t Type) Option {
	return func(q *Quantizer) error {
		if !t.Valid() {
			return fmt.Errorf("dither: invalid type %d", int(t))
		}
		q.kind = t
		return nil
	}
}

// WithSeed makes the dither noise reproducible.
func WithSeed(seed uint64) Option {
	return func(q *Quantizer) error {
		q.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		return nil
	}
}

// WithNoiseShaping enables first-order error feedback, which moves the
// quantization noise toward high frequencies.
func WithNoiseShaping(enabled bool) Option {
	return func(q *Quantizer) error {
		q.shaping = enabled
		return nil
	}
}

// Quantizer maps samples in [-1, 1] to signed integers of a fixed bit depth.
// It carries noise-shaping state and is not safe for concurrent use.
type Quantizer struct {
	bitDepth int
	kind     Type
	shaping  bool
	rng      *rand.Rand

	scale  float64
	lo, hi int
	err    float64
}

// NewQuantizer returns a quantizer for the given bit depth.
func NewQuantizer(bitDepth int, opts ...Option) (*Quantizer, error) {
	if bitDepth < minBitDepth || bitDepth > maxBitDepth {
		return nil, fmt.Errorf("dither: bit depth must be in [%d, %d]: %d", minBitDepth, maxBitDepth, bitDepth)
	}

	full := math.Exp2(float64(bitDepth - 1))
	q := &Quantizer{
		bitDepth: bitDepth,
		kind:     Triangular,
		scale:    full - 1,
		lo:       -int(full),
		hi:       int(full) - 1,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(q); err != nil {
			return nil, err
		}
	}
	if q.rng == nil {
		q.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return q, nil
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the dither PDF.
func (q *Quantizer) Type() Type { return q.kind }

// Reset clears the noise-shaping history.
func (q *Quantizer) Reset() { q.err = 0 }

// ProcessInteger quantizes one sample. NaN maps to zero and the result is
// limited to the bit-depth range.
func (q *Quantizer) ProcessInteger(x float64) int {
	if math.IsNaN(x) {
		x = 0
	}
	scaled := q.scale * max(-1, min(1, x))
	if q.shaping {
		scaled -= q.err
	}

	var noise float64
	switch q.kind {
	case Rectangular:
		noise = q.rng.Float64() - 0.5
	case Triangular:
		noise = q.rng.Float64() - q.rng.Float64()
	}

	result := max(q.lo, min(q.hi, int(math.Floor(scaled+noise+0.5))))
	if q.shaping {
		q.err = float64(result) - scaled
	}
	return result
}

// Quantize fills dst with the quantized samples of src and returns the
// number written, min(len(dst), len(src)).
func (q *Quantizer) Quantize(dst []int, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = q.ProcessInteger(src[i])
	}
	return n
}
