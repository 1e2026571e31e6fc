package fft

import "math"

// Complex is one (real, imaginary) sample.
type Complex struct {
	Re float64
	Im float64
}

// Add returns c + d.
func (c Complex) Add(d Complex) Complex {
	return Complex{Re: c.Re + d.Re, Im: c.Im + d.Im}
}

// Sub returns c - d.
func (c Complex) Sub(d Complex) Complex {
	return Complex{Re: c.Re - d.Re, Im: c.Im - d.Im}
}

// Mul returns c * d.
func (c Complex) Mul(d Complex) Complex {
	return Complex{
		Re: c.Re*d.Re - c.Im*d.Im,
		Im: c.Re*d.Im + c.Im*d.Re,
	}
}

// Conj returns the complex conjugate of c.
func (c Complex) Conj() Complex {
	return Complex{Re: c.Re, Im: -c.Im}
}

// Twiddle returns e^(-2*pi*i*k/n).
func Twiddle(k, n int) Complex {
	angle := -2 * math.Pi * float64(k) / float64(n)
	return Complex{Re: math.Cos(angle), Im: math.Sin(angle)}
}
