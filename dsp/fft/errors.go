package fft

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLength is returned when a transform length is not a power of two.
	ErrInvalidLength = errors.New("fft: length must be a power of two")
	// ErrLengthMismatch is returned when real and imaginary parts differ in length.
	ErrLengthMismatch = errors.New("fft: real/imaginary length mismatch")
)

func validateLength(n int) error {
	if n <= 0 || n&(n-1) != 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}
	return nil
}

func validateParts(re, im []float64) error {
	if len(re) != len(im) {
		return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(re), len(im))
	}
	return nil
}
