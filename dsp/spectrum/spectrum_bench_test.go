package spectrum

import (
	"testing"

	"github.com/cwbudde/spectral-eq/internal/testutil"
)

func BenchmarkPeakMagnitude(b *testing.B) {
	const n = 4096
	re := testutil.DeterministicNoise(1, 1, n)
	im := testutil.DeterministicNoise(2, 1, n)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = PeakMagnitude(re, im, n/2)
	}
}

func BenchmarkQuantizeDB(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = QuantizeDB(-float64(i%120), -100)
	}
}
