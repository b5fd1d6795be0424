// Package partition splits an index range into contiguous chunks and runs
// one goroutine per chunk, collecting the per-chunk results in chunk order.
//
// Each task owns its result until the join; nothing is shared between
// tasks except what the caller's closure reads, so no locking is needed.
package partition

import (
	"fmt"

	"go.uber.org/multierr"
)

// Chunk is a contiguous sub-range [Offset, Offset+Count) of the input.
type Chunk struct {
	Index  int
	Offset int
	Count  int
}

// End returns the exclusive upper bound of the chunk.
func (c Chunk) End() int {
	return c.Offset + c.Count
}

// Split divides total items into exactly workers chunks of
// ceil(total/workers) items each. Trailing chunks may be shorter or empty.
func Split(total, workers int) []Chunk {
	if workers < 1 {
		workers = 1
	}
	if total < 0 {
		total = 0
	}
	size := (total + workers - 1) / workers
	chunks := make([]Chunk, workers)
	for i := range chunks {
		off := min(i*size, total)
		end := min(off+size, total)
		chunks[i] = Chunk{Index: i, Offset: off, Count: end - off}
	}
	return chunks
}

// TaskError reports a task that panicked.
type TaskError struct {
	Chunk Chunk
	Value any
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("partition: task for chunk %d [%d,%d) failed: %v",
		e.Chunk.Index, e.Chunk.Offset, e.Chunk.End(), e.Value)
}

// result is what a task hands back through its future.
type result[T any] struct {
	items []T
	err   error
}

// Gather runs fn once per chunk, each call on its own goroutine, waits for
// all of them and concatenates their outputs in chunk index order.
//
// A panicking task is reported as a *TaskError. If any task fails, Gather
// still waits for every task and then returns the combined error and no
// items.
func Gather[T any](chunks []Chunk, fn func(Chunk) []T) ([]T, error) {
	futures := make([]chan result[T], len(chunks))
	for i, c := range chunks {
		ch := make(chan result[T], 1)
		futures[i] = ch
		go func() {
			defer func() {
				if r := recover(); r != nil {
					ch <- result[T]{err: &TaskError{Chunk: c, Value: r}}
				}
			}()
			ch <- result[T]{items: fn(c)}
		}()
	}

	parts := make([][]T, len(chunks))
	var err error
	total := 0
	for i, ch := range futures {
		res := <-ch
		err = multierr.Append(err, res.err)
		parts[i] = res.items
		total += len(res.items)
	}
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out, nil
}
