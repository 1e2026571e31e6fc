// Package spectrum provides spectrum-domain helpers shared by the equalizer
// and the spectrogram: bin/Hz conversion, magnitudes and dB quantization.
//
// Bin k of an N-point transform at sample rate fs sits at k*fs/N Hz. For a
// real input, bins above N/2 mirror the bins below it.
package spectrum
