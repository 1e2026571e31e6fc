//go:build fastmath

package spectrum

import (
	"github.com/meko-christian/algo-approx"
)

// ln10 is the natural logarithm of 10.
const ln10 = 2.30258509299404568401799145468

// log10 computes log10(x) using fast approximation. The quantized
// spectrogram only resolves about 0.4 dB, far coarser than the error.
func log10(x float64) float64 {
	return approx.FastLog(x) / ln10
}
