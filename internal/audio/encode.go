package audio

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/spectral-eq/dsp/dither"
)

// EncodeOption configures WriteWAV.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	dither  dither.Type
	seed    uint64
	seeded  bool
	shaping bool
}

// WithDither adds dither noise of the given type before quantization.
func WithDither(t dither.Type) EncodeOption {
	return func(c *encodeConfig) {
		c.dither = t
	}
}

// WithDitherSeed makes the dither noise reproducible.
func WithDitherSeed(seed uint64) EncodeOption {
	return func(c *encodeConfig) {
		c.seed = seed
		c.seeded = true
	}
}

// WithNoiseShaping enables error-feedback noise shaping.
func WithNoiseShaping(enabled bool) EncodeOption {
	return func(c *encodeConfig) {
		c.shaping = enabled
	}
}

// WriteWAV writes samples as mono PCM WAV. Samples are clamped to [-1, 1]
// and rounded without dither unless WithDither is given.
func WriteWAV(w io.WriteSeeker, samples []float64, sampleRate, bitDepth int, opts ...EncodeOption) error {
	if sampleRate <= 0 {
		return fmt.Errorf("audio: invalid sample rate %d", sampleRate)
	}
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("audio: unsupported bit depth %d", bitDepth)
	}

	cfg := encodeConfig{dither: dither.None}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	qopts := []dither.Option{dither.WithType(cfg.dither), dither.WithNoiseShaping(cfg.shaping)}
	if cfg.seeded {
		qopts = append(qopts, dither.WithSeed(cfg.seed))
	}
	q, err := dither.NewQuantizer(bitDepth, qopts...)
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}

	data := make([]int, len(samples))
	q.Quantize(data, samples)

	enc := wav.NewEncoder(w, sampleRate, bitDepth, 1, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audio: write WAV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("audio: close WAV: %w", err)
	}
	return nil
}
