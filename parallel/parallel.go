// Package parallel provides the explicit execution context taken by the
// library's entry points.
//
// The core computations are synchronous; any fan-out (per-gene variance
// scans, rotation extrapolation) happens through a Group supplied by the
// caller. There is no process-wide default: a nil Group means sequential
// execution.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Group bounds the number of goroutines used for index fan-out.
type Group struct {
	workers int
}

// New creates a Group with the given worker count. A count below one
// defaults to GOMAXPROCS.
func New(workers int) *Group {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Group{workers: workers}
}

// Workers returns the configured worker count. A nil Group reports one.
func (g *Group) Workers() int {
	if g == nil {
		return 1
	}
	return g.workers
}

// ForEach runs fn(i) for every i in [0, n), fanning out across the
// group's workers in contiguous blocks. The first error cancels the
// remaining work; fn must not retain shared mutable state across indices
// unless it synchronizes itself.
//
// A nil Group (or one worker) runs sequentially on the calling goroutine,
// checking ctx between indices.
func (g *Group) ForEach(ctx context.Context, n int, fn func(i int) error) error {
	if n <= 0 {
		return nil
	}

	workers := g.Workers()
	if workers > n {
		workers = n
	}

	if workers == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		eg.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return eg.Wait()
}
