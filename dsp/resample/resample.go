package resample

import (
	"errors"
	"math"
)

// ErrInvalidRate indicates a non-positive or non-finite sample rate.
var ErrInvalidRate = errors.New("resample: invalid sample rate")

const (
	defaultTapsPerPhase = 32
	defaultKaiserBeta   = 7.5
	defaultCutoffScale  = 0.92
	defaultMaxDen       = 4096
)

type config struct {
	tapsPerPhase int
	kaiserBeta   float64
	maxDen       int
}

// Option configures a Converter.
type Option func(*config)

// WithTapsPerPhase sets the filter length in units of the slower of the two
// rates.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithKaiserBeta sets the Kaiser window shape of the anti-aliasing filter.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta > 0 {
			cfg.kaiserBeta = beta
		}
	}
}

// WithMaxDenominator caps the denominator used to approximate the rate ratio.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

// Converter changes the sample rate of whole buffers. Output sample m lies
// at input time m*down/up, so the filter adds no delay.
type Converter struct {
	up, down int
	taps     []float64 // odd length, centered
}

// New returns a converter from inRate to outRate.
func New(inRate, outRate float64, opts ...Option) (*Converter, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, ErrInvalidRate
	}

	cfg := config{
		tapsPerPhase: defaultTapsPerPhase,
		kaiserBeta:   defaultKaiserBeta,
		maxDen:       defaultMaxDen,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	up, down := approximateRatio(outRate/inRate, cfg.maxDen)
	return &Converter{
		up:   up,
		down: down,
		taps: lowpass(up, down, cfg),
	}, nil
}

// Ratio returns the reduced up/down factors.
func (c *Converter) Ratio() (up, down int) {
	return c.up, c.down
}

// OutputLen returns the number of samples Convert yields for n input samples.
func (c *Converter) OutputLen(n int) int {
	if n <= 0 {
		return 0
	}
	return (n*c.up + c.down - 1) / c.down
}

// Convert resamples in. The input is treated as zero outside its bounds.
func (c *Converter) Convert(in []float64) []float64 {
	out := make([]float64, c.OutputLen(len(in)))
	center := (len(c.taps) - 1) / 2

	for m := range out {
		// Position in the zero-stuffed upsampled stream, shifted by the
		// filter center.
		j := m*c.down + center
		phase, base := j%c.up, j/c.up

		var y float64
		for k, q := phase, 0; k < len(c.taps); k, q = k+c.up, q+1 {
			idx := base - q
			if idx < 0 {
				break
			}
			if idx < len(in) {
				y += c.taps[k] * in[idx]
			}
		}
		out[m] = y
	}
	return out
}

// Convert resamples in from inRate to outRate. Equal rates return a copy.
func Convert(in []float64, inRate, outRate float64, opts ...Option) ([]float64, error) {
	if !validRate(inRate) || !validRate(outRate) {
		return nil, ErrInvalidRate
	}
	if inRate == outRate {
		return append([]float64(nil), in...), nil
	}

	c, err := New(inRate, outRate, opts...)
	if err != nil {
		return nil, err
	}
	return c.Convert(in), nil
}

func validRate(r float64) bool {
	return r > 0 && !math.IsInf(r, 0) && !math.IsNaN(r)
}

// lowpass designs the Kaiser-windowed sinc prototype at the upsampled rate,
// scaled to a DC gain of up.
func lowpass(up, down int, cfg config) []float64 {
	n := cfg.tapsPerPhase*max(up, down) + 1
	fc := 0.5 / float64(max(up, down)) * defaultCutoffScale
	center := float64(n-1) / 2

	taps := make([]float64, n)
	var sum float64
	for i := range taps {
		t := float64(i) - center
		taps[i] = 2 * fc * sinc(2*fc*t) * kaiser(i, n, cfg.kaiserBeta)
		sum += taps[i]
	}

	scale := float64(up) / sum
	for i := range taps {
		taps[i] *= scale
	}
	return taps
}

// approximateRatio finds num/den close to v with den <= maxDen by continued
// fractions.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	x := v
	for {
		frac := x - math.Floor(x)
		if frac < 1e-12 {
			break
		}
		x = 1 / frac
		a := math.Floor(x)
		p2, q2 := a*p1+p0, a*q1+q0
		if q2 > float64(maxDen) {
			break
		}
		p0, q0, p1, q1 = p1, q1, p2, q2
	}

	num, den = int(math.Round(p1)), int(math.Round(q1))
	if num <= 0 || den <= 0 {
		return 1, 1
	}
	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func kaiser(i, n int, beta float64) float64 {
	t := 2*float64(i)/float64(n-1) - 1
	return besselI0(beta*math.Sqrt(math.Max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 evaluates the modified Bessel function of order zero by its
// power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	x2 := x * x / 4
	for k := 1; k < 64; k++ {
		term *= x2 / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}
	return sum
}
