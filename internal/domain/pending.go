package domain

import (
	"context"
	"sync"
)

// Pending tracks the background store write behind an optimistic mutation.
// The optimistic cache entry stays marked pending until a reload replaces it
// or the editor is rolled back; Pending only reports how the write went.
type Pending struct {
	ID string

	once sync.Once
	done chan struct{}
	err  error
}

// NewPending returns an unresolved Pending for the cache entry id.
func NewPending(id string) *Pending {
	return &Pending{ID: id, done: make(chan struct{})}
}

// Resolve records the outcome of the write. Only the first call has an effect.
func (p *Pending) Resolve(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

// Done is closed once the write has finished.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err returns the write error. It is nil until Done is closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the write finishes or ctx is done.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
