// Package signal generates deterministic test signals for trying out band
// settings: pure tones, tone mixtures, logarithmic sweeps and white noise.
package signal
