package buffer

import "sync"

// Pool provides sync.Pool-based reuse of frames of one transform length.
type Pool struct {
	n    int
	pool sync.Pool
}

// NewPool returns a pool of frames for transforms of length n.
func NewPool(n int) *Pool {
	if n < 0 {
		n = 0
	}
	p := &Pool{n: n}
	p.pool.New = func() any {
		return NewFrame(n)
	}
	return p
}

// Size returns the transform length of pooled frames.
func (p *Pool) Size() int {
	return p.n
}

// Get returns a zeroed frame. Callers must return it via Put when done.
func (p *Pool) Get() *Frame {
	f := p.pool.Get().(*Frame)
	f.Zero()
	return f
}

// Put returns a frame to the pool. Frames of another length are dropped.
// The caller must not use the frame after calling Put.
func (p *Pool) Put(f *Frame) {
	if f == nil || f.Len() != p.n {
		return
	}
	p.pool.Put(f)
}
