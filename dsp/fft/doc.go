// Package fft implements an iterative radix-2 decimation-in-time discrete
// Fourier transform and its inverse.
//
// Sequences are kept as split real and imaginary slices ([Sequence]). Only
// power-of-two lengths are supported; callers pad or truncate first (see
// core.PadToPowerOfTwo).
//
// # Usage
//
//	e := fft.NewEngine()
//	spec, err := e.ForwardReal(signal)
//	back, err := e.Inverse(spec)
//
// An [Engine] owns a [PermutationCache] holding the bit-reversal table for
// every length it has seen. Engines are safe for concurrent use.
//
// The inverse transform reuses the forward path: conjugate, transform,
// conjugate again and divide by N.
package fft
