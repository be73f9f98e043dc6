// Package workerpool provides the bounded worker-pool fan-out used by
// metadata extraction, hashing, and per-directory execution (spec §5:
// "bounded worker pool min(2*CPU, 8)").
//
// Grounded on whatsoevan-backupbozo/files.go's
// evaluateFilesForPlanningParallel: a buffered jobs channel feeding N
// workers, a buffered results channel preserving the original index so
// callers can rebuild an ordered slice, and cooperative cancellation
// via context.Context checked between items rather than mid-item.
package workerpool

import (
	"context"
	"runtime"
	"sync"
)

// Size returns min(2*runtime.NumCPU(), 8), the sizing spec §5 mandates
// for extraction/hashing/execution worker pools.
func Size() int {
	n := 2 * runtime.NumCPU()
	if n > 8 {
		return 8
	}
	if n < 1 {
		return 1
	}
	return n
}

// Run fans items out across workers and collects results, preserving
// input order in the returned slice. fn is called at most once per
// item; if ctx is canceled before an item starts, fn is not called for
// it and the corresponding result is the zero value of R.
func Run[T any, R any](ctx context.Context, items []T, workers int, fn func(context.Context, T) R) []R {
	if workers <= 0 {
		workers = Size()
	}
	if workers > len(items) && len(items) > 0 {
		workers = len(items)
	}

	type indexed struct {
		index int
		item  T
	}

	jobs := make(chan indexed, len(items))
	for i, item := range items {
		jobs <- indexed{index: i, item: item}
	}
	close(jobs)

	results := make([]R, len(items))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				if ctx.Err() != nil {
					return
				}
				r := fn(ctx, job.item)
				mu.Lock()
				results[job.index] = r
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	return results
}
