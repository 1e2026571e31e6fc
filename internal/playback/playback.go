// Package playback plays mono float64 buffers on the default audio device.
package playback

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"go.uber.org/zap"

	"github.com/cwbudde/spectral-eq/dsp/core"
	"github.com/cwbudde/spectral-eq/dsp/resample"
)

const bytesPerSample = 4

var (
	otoOnce    sync.Once
	otoCtx     *oto.Context
	otoRate    int
	otoInitErr error
)

// initOto opens the device at the first requested rate and returns the rate
// it runs at. The device can be opened once per process.
func initOto(sampleRate int) (*oto.Context, int, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 1,
			Format:       oto.FormatFloat32LE,
		}
		var ready chan struct{}
		otoCtx, ready, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-ready
			otoRate = sampleRate
		}
	})
	if otoInitErr != nil {
		return nil, 0, fmt.Errorf("playback: open device: %w", otoInitErr)
	}
	return otoCtx, otoRate, nil
}

// Play blocks until samples have been played or ctx is done. Buffers at a
// rate other than the device's are resampled first.
func Play(ctx context.Context, samples []float64, sampleRate int, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sampleRate <= 0 {
		return fmt.Errorf("playback: invalid sample rate %d", sampleRate)
	}
	if len(samples) == 0 {
		return nil
	}

	c, deviceRate, err := initOto(sampleRate)
	if err != nil {
		return err
	}
	if deviceRate != sampleRate {
		logger.Debug("resampling for device",
			zap.Int("from", sampleRate),
			zap.Int("to", deviceRate))
		if samples, err = resample.Convert(samples, float64(sampleRate), float64(deviceRate)); err != nil {
			return fmt.Errorf("playback: %w", err)
		}
		sampleRate = deviceRate
	}

	r := newPCMReader(samples)
	player := c.NewPlayer(r)
	defer player.Close()

	logger.Debug("playback started",
		zap.Int("samples", len(samples)),
		zap.Int("sample_rate", sampleRate))
	player.Play()

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			player.Pause()
			logger.Debug("playback cancelled", zap.Duration("position", r.Position(sampleRate)))
			return ctx.Err()
		case <-ticker.C:
			if !player.IsPlaying() {
				logger.Debug("playback finished")
				return nil
			}
		}
	}
}

// pcmReader streams samples as clamped float32 little-endian bytes.
type pcmReader struct {
	mu      sync.Mutex
	samples []float64
	off     int // byte offset
}

func newPCMReader(samples []float64) *pcmReader {
	return &pcmReader{samples: samples}
}

func (r *pcmReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := bytesPerSample * len(r.samples)
	if r.off >= total {
		return 0, io.EOF
	}

	var b [bytesPerSample]byte
	n := 0
	for n < len(p) && r.off < total {
		i, j := r.off/bytesPerSample, r.off%bytesPerSample
		s := r.samples[i]
		if math.IsNaN(s) {
			s = 0
		}
		binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(core.Clamp(s, -1, 1))))
		c := copy(p[n:], b[j:])
		n += c
		r.off += c
	}
	return n, nil
}

// Position returns how much of the buffer has been handed to the device.
func (r *pcmReader) Position(sampleRate int) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sampleRate <= 0 {
		return 0
	}
	frames := r.off / bytesPerSample
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}
