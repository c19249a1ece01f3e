package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default number of concurrent workers
const DefaultConcurrency = 4

// BulkResult is the outcome of one operation of a bulk run.
type BulkResult[K, T any] struct {
	Key     K
	Success bool
	Error   error
	Data    T
}

// runBulkOperation executes operation for every key with bounded parallelism.
// Results keep the order of keys. Keys not started before ctx is cancelled
// report ctx.Err().
func runBulkOperation[K, T any](
	ctx context.Context,
	keys []K,
	concurrency int64,
	progress bool,
	errOut io.Writer,
	operation func(ctx context.Context, key K) (T, error),
) []BulkResult[K, T] {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if errOut == nil {
		errOut = io.Discard
	}

	sem := semaphore.NewWeighted(concurrency)
	results := make([]BulkResult[K, T], len(keys))
	total := len(keys)
	var done int64
	var progressMu sync.Mutex

	// Individual failures never cancel the group; only the caller's ctx does.
	var g errgroup.Group
	for i, key := range keys {
		i, key := i, key
		results[i].Key = key
		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i].Error = err
				return nil
			}
			defer sem.Release(1)

			data, err := operation(ctx, key)
			results[i].Data = data
			results[i].Error = err
			results[i].Success = err == nil

			if progress && total > 0 {
				current := atomic.AddInt64(&done, 1)
				progressMu.Lock()
				_, _ = fmt.Fprintf(errOut, "\rProcessed %d/%d", current, total)
				progressMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if progress && total > 0 {
		_, _ = fmt.Fprintf(errOut, "\rProcessed %d/%d\n", atomic.LoadInt64(&done), total)
	}
	return results
}

// countResults returns success and failure counts from bulk results
func countResults[K, T any](results []BulkResult[K, T]) (success, failure int) {
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failure++
		}
	}
	return
}
