// Package stft computes quantized short-time magnitude spectra for display.
//
// An [Analyzer] cuts a signal into Hann-windowed frames of FrameLength
// samples spaced HopLength apart, transforms each frame and keeps the
// magnitudes of the first FrameLength/2 bins. A first pass finds the global
// peak magnitude, a second pass converts every magnitude to dB relative to
// that peak and maps [FloorDB, 0] dB onto [0, 255].
//
// Both passes run over all frames before any byte is produced, so the
// normalization is global. Frames are spread over worker goroutines; the
// result does not depend on the worker count.
package stft
