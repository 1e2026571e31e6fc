package band

import (
	"math"

	"go.uber.org/zap"

	"github.com/cwbudde/spectral-eq/dsp/core"
	"github.com/cwbudde/spectral-eq/dsp/spectrum"
)

// OverlapPolicy decides how a band combines with gains already written by
// earlier bands.
type OverlapPolicy int

const (
	// OverlapLastWins replaces earlier gains with the later band's gain.
	OverlapLastWins OverlapPolicy = iota
	// OverlapMultiply multiplies the gains of every band covering a bin.
	OverlapMultiply
)

// String returns the policy name used in configuration files.
func (p OverlapPolicy) String() string {
	switch p {
	case OverlapMultiply:
		return "multiply"
	default:
		return "last-wins"
	}
}

// ParseOverlapPolicy accepts "last-wins" (or "") and "multiply".
func ParseOverlapPolicy(s string) (OverlapPolicy, bool) {
	switch s {
	case "", "last-wins", "last":
		return OverlapLastWins, true
	case "multiply":
		return OverlapMultiply, true
	default:
		return OverlapLastWins, false
	}
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithLogger sets the logger used to report skipped bands.
func WithLogger(l *zap.Logger) Option {
	return func(m *Mapper) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithOverlapPolicy sets how overlapping bands combine.
func WithOverlapPolicy(p OverlapPolicy) Option {
	return func(m *Mapper) {
		m.policy = p
	}
}

// Mapper converts bands to per-bin gain vectors. A Mapper holds no per-call
// state and is safe for concurrent use.
type Mapper struct {
	logger *zap.Logger
	policy OverlapPolicy
}

// NewMapper returns a mapper using last-write-wins and a no-op logger.
func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{logger: zap.NewNop(), policy: OverlapLastWins}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Policy returns the mapper's overlap policy.
func (m *Mapper) Policy() OverlapPolicy {
	return m.policy
}

// Range returns the inclusive bin range [lo, hi] covered by b for an n-point
// transform. ok is false when the range is empty after clamping.
//
// lo = floor(MinHz*n/fs) and hi = ceil(MaxHz*n/fs), clamped to [0, n-1]. A
// single-frequency band (MinHz == MaxHz) covers only its rounded bin, clamped
// the same way, and is kept exactly when the two-sided rule would keep it.
func Range(b Band, n int, sampleRate float64) (lo, hi int, ok bool) {
	if n <= 0 || sampleRate <= 0 {
		return 0, 0, false
	}
	last := float64(n - 1)

	minPos := spectrum.BinPosition(b.MinHz, n, sampleRate)
	maxPos := spectrum.BinPosition(b.MaxHz, n, sampleRate)
	loF := max(math.Floor(minPos), 0)
	hiF := min(math.Ceil(maxPos), last)
	if loF > hiF {
		return 0, 0, false
	}

	if b.MinHz == b.MaxHz {
		bin := int(core.Clamp(math.Round(minPos), 0, last))
		return bin, bin, true
	}
	return int(loF), int(hiF), true
}

// Gains returns the length-n gain vector for bands at sampleRate.
//
// Every bin a band reaches is mirrored to n-bin (except DC and Nyquist), so
// gains[b] == gains[n-b] for all 0 < b < n. Degenerate bands are skipped and
// logged at warn level.
func (m *Mapper) Gains(n int, sampleRate float64, bands []Band) []float64 {
	if n <= 0 {
		return nil
	}

	gains := make([]float64, n)
	for i := range gains {
		gains[i] = 1
	}

	// stamp[b] == i+1 marks bin b as already written by band i, so a band
	// whose range meets its own mirror applies once per bin.
	stamp := make([]int, n)

	for i, b := range bands {
		if isDegenerate(b) {
			m.skip(i, b, n, sampleRate, "invalid gain or frequency")
			continue
		}
		lo, hi, ok := Range(b, n, sampleRate)
		if !ok {
			m.skip(i, b, n, sampleRate, "empty bin range")
			continue
		}

		mark := i + 1
		for bin := lo; bin <= hi; bin++ {
			m.apply(gains, stamp, bin, mark, b.Gain)
			if bin != 0 && bin != spectrum.NyquistBin(n) {
				m.apply(gains, stamp, spectrum.MirrorBin(bin, n), mark, b.Gain)
			}
		}
	}

	return gains
}

func (m *Mapper) apply(gains []float64, stamp []int, bin, mark int, gain float64) {
	if stamp[bin] == mark {
		return
	}
	stamp[bin] = mark

	switch m.policy {
	case OverlapMultiply:
		gains[bin] *= gain
	default:
		gains[bin] = gain
	}
}

func (m *Mapper) skip(index int, b Band, n int, sampleRate float64, reason string) {
	m.logger.Warn("skipping degenerate band",
		zap.Int("band", index),
		zap.Float64("min_hz", b.MinHz),
		zap.Float64("max_hz", b.MaxHz),
		zap.Float64("gain", b.Gain),
		zap.Int("bins", n),
		zap.Float64("sample_rate", sampleRate),
		zap.String("reason", reason),
	)
}
