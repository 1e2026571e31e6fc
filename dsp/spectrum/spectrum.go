package spectrum

import (
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"
)

// Epsilon is the floor used when taking ratios and logarithms of magnitudes.
const Epsilon = 1e-12

// BinFrequency returns the center frequency in Hz of bin for an n-point
// transform.
func BinFrequency(bin, n int, sampleRate float64) float64 {
	if n <= 0 {
		return 0
	}
	return float64(bin) * sampleRate / float64(n)
}

// BinPosition returns the fractional bin index of hz for an n-point transform.
func BinPosition(hz float64, n int, sampleRate float64) float64 {
	if sampleRate <= 0 {
		return 0
	}
	return hz * float64(n) / sampleRate
}

// NyquistBin returns the index of the bin at half the sample rate.
func NyquistBin(n int) int {
	return n / 2
}

// MirrorBin returns the bin holding the negative-frequency image of bin.
func MirrorBin(bin, n int) int {
	if bin <= 0 || bin >= n {
		return 0
	}
	return n - bin
}

// scratchBuf holds pooled scratch memory for magnitude computation.
type scratchBuf struct {
	data []float64
}

var scratchPool = sync.Pool{
	New: func() any { return &scratchBuf{} },
}

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst.
//
// This is the zero-allocation fast path used per spectrogram frame. All three
// slices must have the same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// PeakMagnitude returns the largest magnitude among the first n bins.
// Scratch memory is pooled so steady-state calls do not allocate.
func PeakMagnitude(re, im []float64, n int) float64 {
	if n > len(re) {
		n = len(re)
	}
	if n <= 0 {
		return 0
	}

	buf := scratchPool.Get().(*scratchBuf)
	if cap(buf.data) < n {
		buf.data = make([]float64, n)
	}
	mags := buf.data[:n]
	vecmath.Magnitude(mags, re[:n], im[:n])

	peak := 0.0
	for _, m := range mags {
		if m > peak {
			peak = m
		}
	}
	scratchPool.Put(buf)
	return peak
}

// RelativeDB returns 20*log10(mag/ref + Epsilon). ref is floored at Epsilon.
func RelativeDB(mag, ref float64) float64 {
	if ref < Epsilon {
		ref = Epsilon
	}
	return 20 * log10(mag/ref+Epsilon)
}

// QuantizeDB maps [floorDB, 0] dB linearly onto [0, 255], clamping outside.
func QuantizeDB(db, floorDB float64) uint8 {
	if floorDB >= 0 {
		floorDB = -100
	}
	if math.IsNaN(db) || db <= floorDB {
		return 0
	}
	if db >= 0 {
		return 255
	}
	return uint8(math.Round((db - floorDB) / -floorDB * 255))
}
