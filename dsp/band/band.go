package band

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cwbudde/spectral-eq/dsp/core"
)

var (
	// ErrInvalidGain is reported for negative or non-finite gains.
	ErrInvalidGain = errors.New("band: gain must be finite and >= 0")
	// ErrInvalidRange is reported for inverted or non-finite frequency ranges.
	ErrInvalidRange = errors.New("band: invalid frequency range")
	// ErrOverlap is reported by Validate when overlapping bands are rejected.
	ErrOverlap = errors.New("band: overlapping bands")
)

// Band is one equalizer band. Gain 0 mutes, 1 leaves the band unchanged and
// values above 1 amplify.
type Band struct {
	MinHz float64 `yaml:"min_hz" json:"minHz"`
	MaxHz float64 `yaml:"max_hz" json:"maxHz"`
	Gain  float64 `yaml:"gain" json:"gain"`
}

// String formats b in the form accepted by Parse.
func (b Band) String() string {
	return strconv.FormatFloat(b.MinHz, 'g', -1, 64) + ":" +
		strconv.FormatFloat(b.MaxHz, 'g', -1, 64) + ":" +
		strconv.FormatFloat(b.Gain, 'g', -1, 64)
}

// Overlaps reports whether b and o share any frequency.
func (b Band) Overlaps(o Band) bool {
	return b.MinHz <= o.MaxHz && o.MinHz <= b.MaxHz
}

// Parse reads a band from "min:max:gain". The gain may carry a "dB" suffix,
// in which case it is converted to a linear factor.
func Parse(s string) (Band, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return Band{}, fmt.Errorf("band %q: want min:max:gain", s)
	}

	minHz, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Band{}, fmt.Errorf("band %q: min: %w", s, err)
	}
	maxHz, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Band{}, fmt.Errorf("band %q: max: %w", s, err)
	}

	gainText := strings.TrimSpace(parts[2])
	isDB := false
	if lower := strings.ToLower(gainText); strings.HasSuffix(lower, "db") {
		gainText = strings.TrimSpace(gainText[:len(gainText)-2])
		isDB = true
	}
	gain, err := strconv.ParseFloat(gainText, 64)
	if err != nil {
		return Band{}, fmt.Errorf("band %q: gain: %w", s, err)
	}
	if isDB {
		gain = core.DBToLinear(gain)
	}

	b := Band{MinHz: minHz, MaxHz: maxHz, Gain: gain}
	if err := b.validate(); err != nil {
		return Band{}, fmt.Errorf("band %q: %w", s, err)
	}
	return b, nil
}

func (b Band) validate() error {
	if !core.IsFinite(b.Gain) || b.Gain < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidGain, b.Gain)
	}
	if !core.IsFinite(b.MinHz) || !core.IsFinite(b.MaxHz) || b.MinHz > b.MaxHz {
		return fmt.Errorf("%w: %v..%v Hz", ErrInvalidRange, b.MinHz, b.MaxHz)
	}
	return nil
}

// ValidateOption tunes Validate.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	rejectOverlap bool
}

// RejectOverlap makes Validate report overlapping bands.
func RejectOverlap() ValidateOption {
	return func(c *validateConfig) {
		c.rejectOverlap = true
	}
}

// Validate checks a band set at configuration time. All problems are joined
// into the returned error.
func Validate(bands []Band, opts ...ValidateOption) error {
	var cfg validateConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var errs []error
	for i, b := range bands {
		if err := b.validate(); err != nil {
			errs = append(errs, fmt.Errorf("band %d: %w", i, err))
		}
	}

	if cfg.rejectOverlap && len(bands) > 1 {
		idx := make([]int, len(bands))
		for i := range idx {
			idx[i] = i
		}
		sort.SliceStable(idx, func(a, b int) bool {
			return bands[idx[a]].MinHz < bands[idx[b]].MinHz
		})
		// reach is the band seen so far that extends furthest up.
		reach := idx[0]
		for _, j := range idx[1:] {
			if bands[reach].Overlaps(bands[j]) {
				errs = append(errs, fmt.Errorf("%w: band %d (%v) and band %d (%v)",
					ErrOverlap, reach, bands[reach], j, bands[j]))
			}
			if bands[j].MaxHz > bands[reach].MaxHz {
				reach = j
			}
		}
	}

	return errors.Join(errs...)
}

// FullRange returns a band spanning 0 Hz to Nyquist.
func FullRange(sampleRate, gain float64) Band {
	return Band{MinHz: 0, MaxHz: sampleRate / 2, Gain: gain}
}

func isDegenerate(b Band) bool {
	return !core.IsFinite(b.Gain) || b.Gain < 0 || !core.IsFinite(b.MinHz) || !core.IsFinite(b.MaxHz)
}
