package buffer

// Frame is scratch for one transform of length N: real and imaginary
// parts of length N and magnitudes for the N/2 non-mirrored bins.
type Frame struct {
	Re  []float64
	Im  []float64
	Mag []float64
}

// NewFrame returns a zero-filled frame for transforms of length n.
// Negative lengths are treated as zero.
func NewFrame(n int) *Frame {
	if n < 0 {
		n = 0
	}
	return &Frame{
		Re:  make([]float64, n),
		Im:  make([]float64, n),
		Mag: make([]float64, n/2),
	}
}

// Len returns the transform length.
func (f *Frame) Len() int {
	return len(f.Re)
}

// Zero clears all three slices.
func (f *Frame) Zero() {
	clear(f.Re)
	clear(f.Im)
	clear(f.Mag)
}
