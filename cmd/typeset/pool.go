package main

import (
	"context"
	"runtime"
	"sync"

	typeset "github.com/ebookworks/go-typeset"
)

// Processor is the interface for the typesetting service.
type Processor interface {
	Process(ctx context.Context, input typeset.Input) (*typeset.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Processor = (*typeset.Typesetter)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire() Processor
	Release(Processor)
	Size() int
}

// TypesetterPool manages a pool of typeset.Typesetter instances for parallel
// processing. Instances are created lazily on first acquire to avoid startup
// delay.
type TypesetterPool struct {
	size    int
	newFn   func() Processor
	items   []Processor
	sem     chan Processor
	mu      sync.Mutex
	created int
	closed  bool
}

// NewTypesetterPool creates a pool with capacity for n instances built by
// newFn. Instances are created lazily when acquired, not at pool creation.
func NewTypesetterPool(n int, newFn func() Processor) *TypesetterPool {
	if n < 1 {
		n = 1
	}

	return &TypesetterPool{
		size:  n,
		newFn: newFn,
		items: make([]Processor, 0, n),
		sem:   make(chan Processor, n),
	}
}

// Compile-time check that TypesetterPool implements Pool.
var _ Pool = (*TypesetterPool)(nil)

// Acquire gets an instance from the pool, creating one if needed.
// Blocks if all instances are in use.
func (p *TypesetterPool) Acquire() Processor {
	// Try to get an existing instance (non-blocking)
	select {
	case t := <-p.sem:
		return t
	default:
	}

	p.mu.Lock()
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new instance outside the lock
		t := p.newFn()

		p.mu.Lock()
		p.items = append(p.items, t)
		p.mu.Unlock()

		return t
	}
	p.mu.Unlock()

	// All instances created, wait for one to be released
	return <-p.sem
}

// Release returns an instance to the pool.
func (p *TypesetterPool) Release(t Processor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- t
	}
}

// Close releases all pooled instances.
func (p *TypesetterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	items := p.items
	p.mu.Unlock()

	var lastErr error
	for _, t := range items {
		if err := t.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Size returns the pool capacity.
func (p *TypesetterPool) Size() int {
	return p.size
}

// resolvePoolSize determines the pool size.
// Priority: explicit flag > config > GOMAXPROCS-based calculation.
func resolvePoolSize(flagWorkers, configWorkers int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	if configWorkers > 0 {
		return configWorkers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / 2

	// Minimum 1, maximum 8
	if n < 1 {
		return 1
	}
	if n > 8 {
		return 8
	}
	return n
}
