package welcome

import (
	"sync"
)

// Pending holds a value produced before it can be consumed. It is either
// empty or ready with exactly one value.
type Pending[T any] struct {
	mu    sync.Mutex
	ready bool
	value T
}

func (p *Pending[T]) Set(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.value = v
	p.ready = true
}

// Take returns the held value and empties the holder.
func (p *Pending[T]) Take() (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var zero T
	if !p.ready {
		return zero, false
	}
	v := p.value
	p.value = zero
	p.ready = false
	return v, true
}

func (p *Pending[T]) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}
