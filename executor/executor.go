// Package executor provides the reference in-process flow.Executor:
// spec.md §6 leaves the executor as an external dependency the module
// only consumes through an interface, so this is one concrete, bounded
// implementation of it, not the only one a caller can use.
package executor

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/sync/semaphore"
)

// defaultMaxWorkers is sized once at package init, after automaxprocs has
// had a chance to adjust GOMAXPROCS to the container's CPU quota —
// matching the original's runtime-queryable worker count, rather than a
// hardcoded pool size.
var defaultMaxWorkers = runtime.GOMAXPROCS(0)

func init() {
	if _, err := maxprocs.Set(); err == nil {
		defaultMaxWorkers = runtime.GOMAXPROCS(0)
	}
}

// Config configures a Pool.
type Config struct {
	// MaxWorkers bounds how many dispatched tasks may run concurrently.
	MaxWorkers int
}

// DefaultConfig returns MaxWorkers set to GOMAXPROCS, post-automaxprocs.
func DefaultConfig() Config {
	return Config{MaxWorkers: defaultMaxWorkers}
}

// Option configures a Pool at construction.
type Option func(*Config)

// WithMaxWorkers overrides the default worker bound.
func WithMaxWorkers(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxWorkers = n
		}
	}
}

// Pool is a bounded in-process flow.Executor: Dispatch never blocks the
// calling goroutine. Each task gets its own goroutine, which waits for a
// free slot before running the task, so at most MaxWorkers tasks run at
// once and a Runner suspended at a via node is never tied up waiting.
type Pool struct {
	sem        *semaphore.Weighted
	wg         sync.WaitGroup
	dispatched atomic.Int64
}

// New builds a Pool. With no options, it's bounded to GOMAXPROCS.
func New(opts ...Option) *Pool {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pool{sem: semaphore.NewWeighted(int64(cfg.MaxWorkers))}
}

// Dispatch implements flow.Executor.
func (p *Pool) Dispatch(task func()) {
	p.dispatched.Add(1)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		_ = p.sem.Acquire(context.Background(), 1)
		defer p.sem.Release(1)
		task()
	}()
}

// Wait blocks until every dispatched task has returned. It's meant for
// tests and graceful-shutdown paths, not for steady-state use.
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Dispatched returns the total number of tasks ever handed to Dispatch.
func (p *Pool) Dispatched() int64 {
	return p.dispatched.Load()
}
