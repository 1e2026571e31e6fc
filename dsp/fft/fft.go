package fft

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
)

// Engine runs forward and inverse transforms and owns the permutation cache.
type Engine struct {
	perms *PermutationCache
}

// NewEngine returns an engine with an empty permutation cache.
func NewEngine() *Engine {
	return &Engine{perms: NewPermutationCache()}
}

// NewEngineWithCache returns an engine backed by an existing cache, so several
// engines can share tables.
func NewEngineWithCache(cache *PermutationCache) *Engine {
	if cache == nil {
		cache = NewPermutationCache()
	}
	return &Engine{perms: cache}
}

// Cache returns the engine's permutation cache.
func (e *Engine) Cache() *PermutationCache {
	return e.perms
}

// Forward returns the transform of x. x is not modified.
func (e *Engine) Forward(x Sequence) (Sequence, error) {
	if err := x.Validate(); err != nil {
		return Sequence{}, err
	}
	out := x.Clone()
	if err := e.ForwardInPlace(out); err != nil {
		return Sequence{}, err
	}
	return out, nil
}

// ForwardReal transforms a real-valued signal.
func (e *Engine) ForwardReal(x []float64) (Sequence, error) {
	s := FromReal(x)
	if err := e.ForwardInPlace(s); err != nil {
		return Sequence{}, err
	}
	return s, nil
}

// ForwardInPlace overwrites x with its transform, in natural bin order.
func (e *Engine) ForwardInPlace(x Sequence) error {
	if err := x.Validate(); err != nil {
		return err
	}
	n := x.Len()
	perm, err := e.perms.Get(n)
	if err != nil {
		return err
	}

	re, im := x.Re, x.Im
	for i, j := range perm {
		if i < j {
			re[i], re[j] = re[j], re[i]
			im[i], im[j] = im[j], im[i]
		}
	}

	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		for k := 0; k < half; k++ {
			w := Twiddle(k, size)
			for start := 0; start < n; start += size {
				i := start + k
				j := i + half
				even := Complex{Re: re[i], Im: im[i]}
				t := w.Mul(Complex{Re: re[j], Im: im[j]})

				odd := even.Sub(t)
				even = even.Add(t)
				re[i], im[i] = even.Re, even.Im
				re[j], im[j] = odd.Re, odd.Im
			}
		}
	}

	return nil
}

// Inverse returns the inverse transform of x. x is not modified.
func (e *Engine) Inverse(x Sequence) (Sequence, error) {
	if err := x.Validate(); err != nil {
		return Sequence{}, err
	}
	out := x.Clone()
	if err := e.InverseInPlace(out); err != nil {
		return Sequence{}, err
	}
	return out, nil
}

// InverseInPlace overwrites x with its inverse transform.
func (e *Engine) InverseInPlace(x Sequence) error {
	x.Conjugate()
	if err := e.ForwardInPlace(x); err != nil {
		x.Conjugate()
		return fmt.Errorf("inverse: %w", err)
	}
	x.Conjugate()

	scale := 1 / float64(x.Len())
	vecmath.ScaleBlock(x.Re, x.Re, scale)
	vecmath.ScaleBlock(x.Im, x.Im, scale)
	return nil
}
