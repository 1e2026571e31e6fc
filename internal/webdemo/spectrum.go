package webdemo

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/spectral-eq/dsp/stft"
)

// SpectrumParams configures the spectrogram analyzer.
type SpectrumParams struct {
	FrameLength int
	HopLength   int
	FloorDB     float64
	Workers     int
}

// DefaultSpectrumParams returns 2048-sample frames, 512-sample hops and a
// -100 dB floor.
func DefaultSpectrumParams() SpectrumParams {
	return SpectrumParams{
		FrameLength: stft.DefaultFrameLength,
		HopLength:   stft.DefaultHopLength,
		FloorDB:     stft.DefaultFloorDB,
	}
}

// SetSpectrum rebuilds the analyzer. Zero fields keep their defaults.
func (e *Engine) SetSpectrum(p SpectrumParams) error {
	def := DefaultSpectrumParams()
	if p.FrameLength == 0 {
		p.FrameLength = def.FrameLength
	}
	if p.HopLength == 0 {
		p.HopLength = min(def.HopLength, p.FrameLength)
	}
	if p.FloorDB == 0 {
		p.FloorDB = def.FloorDB
	}

	a, err := stft.NewAnalyzer(e.fft,
		stft.WithFrameLength(p.FrameLength),
		stft.WithHopLength(p.HopLength),
		stft.WithFloorDB(p.FloorDB),
		stft.WithWorkers(p.Workers),
	)
	if err != nil {
		return fmt.Errorf("spectrum: %w", err)
	}

	e.mu.Lock()
	e.analyzer = a
	e.spectrum = p
	e.mu.Unlock()
	return nil
}

// Spectrum returns the active analyzer settings.
func (e *Engine) Spectrum() SpectrumParams {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.spectrum
}

// Spectrograms computes the input and output spectrograms concurrently.
// out is nil before the first Process call.
func (e *Engine) Spectrograms() (in, out *stft.Spectrogram, err error) {
	e.mu.RLock()
	a, input, output := e.analyzer, e.input, e.output
	e.mu.RUnlock()

	if input == nil {
		return nil, nil, ErrNoSignal
	}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		in, err = a.Compute(input)
		return err
	})
	if output != nil {
		g.Go(func() error {
			var err error
			out, err = a.Compute(output)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrCannotProcess, err)
	}
	return in, out, nil
}
