// Package time reports level statistics of a sample buffer.
package time

import "math"

// Stats holds the levels shown for an input or output buffer.
//
//nolint:revive
type Stats struct {
	Length         int
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	CrestFactor_dB float64 // Peak_dB - RMS_dB, 0 for silence
	Energy         float64 // sum of squares
	Clipped        int     // samples with |x| > 1
}

// ampTodB converts an amplitude to decibels, -Inf for zero.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Calculate computes all level statistics in a single pass.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{
			RMS_dB:  math.Inf(-1),
			Peak_dB: math.Inf(-1),
		}
	}

	var (
		sumSq   float64
		peak    float64
		clipped int
	)

	for _, x := range signal {
		sumSq += x * x

		a := math.Abs(x)
		if a > peak {
			peak = a
		}
		if a > 1 {
			clipped++
		}
	}

	rms := math.Sqrt(sumSq / float64(n))

	s := Stats{
		Length:  n,
		RMS:     rms,
		RMS_dB:  ampTodB(rms),
		Peak:    peak,
		Peak_dB: ampTodB(peak),
		Energy:  sumSq,
		Clipped: clipped,
	}
	if rms > 0 {
		s.CrestFactor_dB = s.Peak_dB - s.RMS_dB
	}

	return s
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(Energy(signal) / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// Energy returns the sum of squares of the signal.
func Energy(signal []float64) float64 {
	var sum float64
	for _, x := range signal {
		sum += x * x
	}

	return sum
}

// GainDB returns the RMS level change from before to after in dB.
// Silence on either side yields ±Inf, silence on both yields 0.
func GainDB(before, after Stats) float64 {
	switch {
	case before.RMS == 0 && after.RMS == 0:
		return 0
	case before.RMS == 0:
		return math.Inf(1)
	case after.RMS == 0:
		return math.Inf(-1)
	}

	return after.RMS_dB - before.RMS_dB
}
