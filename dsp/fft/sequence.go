package fft

// Sequence is a complex sequence stored as split real and imaginary parts.
//
// Build one with [FromReal] or [FromComplex]; both parts always have the
// same length.
type Sequence struct {
	Re []float64
	Im []float64
}

// FromReal returns a sequence holding a copy of x with a zero imaginary part.
func FromReal(x []float64) Sequence {
	re := make([]float64, len(x))
	copy(re, x)
	return Sequence{Re: re, Im: make([]float64, len(x))}
}

// FromComplex returns a sequence holding copies of re and im.
func FromComplex(re, im []float64) (Sequence, error) {
	if err := validateParts(re, im); err != nil {
		return Sequence{}, err
	}
	s := Sequence{
		Re: make([]float64, len(re)),
		Im: make([]float64, len(im)),
	}
	copy(s.Re, re)
	copy(s.Im, im)
	return s, nil
}

// Len returns the number of samples.
func (s Sequence) Len() int { return len(s.Re) }

// At returns sample i.
func (s Sequence) At(i int) Complex {
	return Complex{Re: s.Re[i], Im: s.Im[i]}
}

// Set stores c at index i.
func (s Sequence) Set(i int, c Complex) {
	s.Re[i] = c.Re
	s.Im[i] = c.Im
}

// Clone returns a deep copy of s.
func (s Sequence) Clone() Sequence {
	c := Sequence{
		Re: make([]float64, len(s.Re)),
		Im: make([]float64, len(s.Im)),
	}
	copy(c.Re, s.Re)
	copy(c.Im, s.Im)
	return c
}

// Conjugate negates the imaginary part in place.
func (s Sequence) Conjugate() {
	for i := range s.Im {
		s.Im[i] = -s.Im[i]
	}
}

// Validate reports ErrLengthMismatch for inconsistent parts.
func (s Sequence) Validate() error {
	return validateParts(s.Re, s.Im)
}
