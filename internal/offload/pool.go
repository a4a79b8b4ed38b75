// Package offload runs blocking calls on their own goroutines behind a fixed
// number of slots, so a burst of slow LLM round-trips cannot grow without bound.
package offload

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

const defaultWorkers = 8

type Pool struct {
	size int64
	sem  *semaphore.Weighted
}

func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Pool{
		size: int64(workers),
		sem:  semaphore.NewWeighted(int64(workers)),
	}
}

func (p *Pool) Size() int {
	return int(p.size)
}

// Do waits for a free slot, then runs fn on a separate goroutine and returns
// its result. If ctx ends first Do returns ctx.Err(); a started fn keeps its
// slot until it returns. A panic in fn is returned as an error.
func Do[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}

	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)

	go func() {
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("offloaded call panicked: %v", r)}
			}
		}()
		v, err := fn(ctx)
		done <- result{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
