// Package window provides the Hann analysis window used for spectrogram frames.
package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Hann returns symmetric Hann coefficients w[i] = 0.5*(1 - cos(2*pi*i/(size-1))).
// A single-sample window is [1].
func Hann(size int) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	out := make([]float64, size)
	if size == 1 {
		out[0] = 1
		return out, nil
	}

	denom := float64(size - 1)
	for i := range out {
		out[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/denom))
	}
	return out, nil
}

// ApplyCoefficients writes samples*coeffs into dst.
func ApplyCoefficients(dst, samples, coeffs []float64) error {
	if len(samples) != len(coeffs) || len(dst) != len(samples) {
		return errMismatchedLength
	}

	vecmath.MulBlock(dst, samples, coeffs)

	return nil
}
