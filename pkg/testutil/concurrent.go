package testutil

import (
	"errors"
	"sync"
	"sync/atomic"

	"carehub/internal/sentinel"
	dErrors "carehub/pkg/domain-errors"
)

// ConcurrentResult buckets the outcomes of RunConcurrent.
type ConcurrentResult struct {
	Successes int32
	Errors    int32
	Conflicts int32
}

func (r *ConcurrentResult) Total() int32 {
	return r.Successes + r.Errors + r.Conflicts
}

// RunConcurrent starts n goroutines, releases them together, and counts how
// fn(i) ended. Store duplicates and CodeConflict errors count as conflicts.
func RunConcurrent(n int, fn func(i int) error) *ConcurrentResult {
	var (
		wg                         sync.WaitGroup
		successes, errs, conflicts atomic.Int32
	)
	start := make(chan struct{})

	for i := range n {
		wg.Go(func() {
			<-start
			err := fn(i)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyExists), dErrors.HasCode(err, dErrors.CodeConflict):
				conflicts.Add(1)
			default:
				errs.Add(1)
			}
		})
	}
	close(start)
	wg.Wait()

	return &ConcurrentResult{
		Successes: successes.Load(),
		Errors:    errs.Load(),
		Conflicts: conflicts.Load(),
	}
}
