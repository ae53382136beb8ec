// Package fanout runs the supervisor to execute a request against one or
// many scripts concurrently. The caller supplies the target names.
package fanout

import (
	"context"
	"sync"

	"scriptrunner/internal/domain/execution"
)

// Supervisor is the subset of supervisor.Supervisor the runner depends on.
type Supervisor interface {
	Run(ctx context.Context, name execution.Name, req execution.Request) (execution.Result, error)
}

// Runner executes a request against one or many scripts, running
// multi-target requests concurrently with no ordering guarantee between
// targets.
type Runner struct {
	supervisor Supervisor
}

// New constructs a Runner over the given supervisor.
func New(supervisor Supervisor) *Runner {
	return &Runner{supervisor: supervisor}
}

// RunOne executes a single named script and returns its bare result.
func (r *Runner) RunOne(ctx context.Context, name execution.Name, req execution.Request) (execution.Result, error) {
	return r.supervisor.Run(ctx, name, req)
}

// TargetResult pairs a per-target outcome with any error resolving it. A
// per-target failure never aborts its peers.
type TargetResult struct {
	Result execution.Result
	Err    error
}

// RunMany executes req against every name in names concurrently and
// returns a mapping from name to outcome. Ordering of concurrent starts is
// not guaranteed.
func (r *Runner) RunMany(ctx context.Context, names []execution.Name, req execution.Request) map[execution.Name]TargetResult {
	results := make(map[execution.Name]TargetResult, len(names))
	if len(names) == 0 {
		return results
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, name := range names {
		wg.Add(1)
		go func(name execution.Name) {
			defer wg.Done()

			result, err := r.supervisor.Run(ctx, name, req)

			mu.Lock()
			results[name] = TargetResult{Result: result, Err: err}
			mu.Unlock()
		}(name)
	}

	wg.Wait()
	return results
}
