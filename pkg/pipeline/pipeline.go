// Package pipeline is the fan-out/fan-in task executor shared by every
// stage boundary in a hazard calculation (spec §5): one task per
// source-set, or one task per System partition chunk, submitted to a
// bounded worker pool and awaited before the next stage begins. Grounded
// on the teacher's pkg/core/orchestrator/orchestrator.go (WaitGroup-based
// stage sequencing: submit a goroutine per unit of work, wait, then
// reduce). The teacher carries github.com/JekaMas/workerpool only as an
// indirect dependency; here it becomes the pipeline's direct concurrency
// primitive, replacing the orchestrator's raw goroutines with a
// bounded-concurrency pool per spec §5's explicit threadCount knob.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/JekaMas/workerpool"
)

// Executor runs a batch of independent tasks either across a bounded
// worker pool or, when configured with a thread count of 1, synchronously
// on the calling goroutine — the single-threaded fallback spec §5 calls
// for "debugging and timing".
type Executor struct {
	threadCount int
}

// New returns an Executor with the given worker count. A count below 1 is
// treated as 1 (fully synchronous).
func New(threadCount int) *Executor {
	if threadCount < 1 {
		threadCount = 1
	}
	return &Executor{threadCount: threadCount}
}

// Threaded reports whether this executor dispatches to a worker pool
// rather than running tasks inline.
func (e *Executor) Threaded() bool { return e.threadCount > 1 }

// Task is one unit of pipeline work: a source-set's Rupture→Input→GM→Curve
// chain, or one System partition's Input→GM evaluation.
type Task[T any] func() (T, error)

// Run submits every task and awaits all results, returning them in
// submission order regardless of completion order (spec §5: "Partitioned
// System results are concatenated in submission order"). Every task runs
// to completion even if an earlier one errors; the first error encountered
// in submission order is returned alongside the full (partial) result
// slice, so a caller that wants to inspect what did complete still can.
func Run[T any](e *Executor, tasks []Task[T]) ([]T, error) {
	results := make([]T, len(tasks))
	errs := make([]error, len(tasks))

	if !e.Threaded() {
		for i, task := range tasks {
			results[i], errs[i] = task()
		}
	} else {
		pool := workerpool.New(e.threadCount)
		var wg sync.WaitGroup
		wg.Add(len(tasks))
		for i, task := range tasks {
			i, task := i, task
			pool.Submit(context.Background(), func() error {
				defer wg.Done()
				results[i], errs[i] = task()
				return nil
			}, workerpool.NoTimeout)
		}
		wg.Wait()
		pool.StopWait()
	}

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("pipeline: task %d: %w", i, err)
		}
	}
	return results, nil
}

// Partition splits items into fixed-size chunks (spec §5's "system
// partition", the configurable chunk size for the System Input→GM stage).
// A non-positive size returns items as a single chunk.
func Partition[T any](items []T, size int) [][]T {
	if size < 1 || size >= len(items) {
		if len(items) == 0 {
			return nil
		}
		return [][]T{items}
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}
