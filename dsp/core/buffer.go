package core

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// IsPowerOfTwo reports whether n is a positive power of two. 1 counts (2^0).
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// NextPowerOfTwo returns the smallest power of two >= n. Values <= 1 yield 1.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PadToPowerOfTwo returns a zero-padded copy of x whose length is the next
// power of two. The input is never aliased.
func PadToPowerOfTwo(x []float64) []float64 {
	out := make([]float64, NextPowerOfTwo(len(x)))
	copy(out, x)
	return out
}
