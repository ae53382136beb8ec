// Package gate implements the concurrency admission point: a bounded
// semaphore of N permits guarding how many child processes may be
// in-flight at once.
package gate

import "context"

// Gate is a channel-backed semaphore. Acquire is a suspension point: the
// caller blocks until a permit is free or its context is canceled, in
// which case the wait is abandoned without consuming a permit.
type Gate struct {
	permits chan struct{}
}

// New returns a Gate with n permits. n <= 0 is treated as 1.
func New(n int) *Gate {
	if n <= 0 {
		n = 1
	}
	return &Gate{permits: make(chan struct{}, n)}
}

// Acquire blocks until a permit is available or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	select {
	case g.permits <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a permit to the pool. Callers must pair every successful
// Acquire with exactly one Release, held across the full lifetime of the
// child process including the deadline-enforced kill path.
func (g *Gate) Release() {
	select {
	case <-g.permits:
	default:
	}
}

// InUse reports how many permits are currently held, exposed as a metrics
// gauge.
func (g *Gate) InUse() int {
	return len(g.permits)
}

// Capacity reports the total number of permits.
func (g *Gate) Capacity() int {
	return cap(g.permits)
}
