package equiv

import (
	"runtime"
	"sync"

	"github.com/inodb/vibe-indel/internal/variant"
)

// PairItem holds a pair of variants ready for comparison.
type PairItem struct {
	Seq   int
	A, B  *variant.Variant
	Extra any // caller-specific data (e.g. the input line)
}

// PairResult holds the outcome of comparing a single pair.
type PairResult struct {
	Seq        int
	A, B       *variant.Variant
	Equivalent bool
	Err        error
	Extra      any
}

// ParallelCheck compares pairs using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (c *Checker) ParallelCheck(items <-chan PairItem, workers int) <-chan PairResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan PairResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				eq, err := c.Equivalent(item.A, item.B)
				results <- PairResult{
					Seq:        item.Seq,
					A:          item.A,
					B:          item.B,
					Equivalent: eq,
					Err:        err,
					Extra:      item.Extra,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results wait in a pending map until the next expected
// sequence number arrives. Blocks until the results channel is closed.
func OrderedCollect(results <-chan PairResult, fn func(PairResult) error) error {
	pending := make(map[int]PairResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
