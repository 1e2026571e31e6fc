// Package resample converts whole buffers between sample rates.
//
// The rate ratio is approximated by a fraction up/down, the buffer is
// conceptually upsampled by up, low-pass filtered with a Kaiser-windowed
// sinc and decimated by down. Only the filter taps that meet non-zero
// upsampled samples are evaluated.
package resample
