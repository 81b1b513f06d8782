package processor

import (
	"context"
	"runtime"
	"sync"
)

// Pool runs the jobs of one archive on a bounded set of goroutines.
type Pool struct {
	workers int
}

// NewPool returns a pool with the given upper bound; values below 1 fall
// back to the number of logical CPUs.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}
}

func (p *Pool) Workers() int { return p.workers }

// Size is the number of goroutines started for n jobs.
func (p *Pool) Size(n int) int {
	return min(n, p.workers)
}

// Run feeds jobs to the workers and calls collect for every result from the
// calling goroutine, in completion order. Once ctx is done no further jobs
// are dispatched; jobs already handed to a worker run to completion. Run
// returns the number of dispatched jobs after all of them have been
// collected.
func (p *Pool) Run(ctx context.Context, jobs []Job, work func(Job) Result, collect func(Result)) int {
	if len(jobs) == 0 {
		return 0
	}

	queue := make(chan Job)
	results := make(chan Result)

	workers := p.Size(len(jobs))
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for job := range queue {
				results <- work(job)
			}
		}()
	}

	dispatched := make(chan int, 1)
	go func() {
		defer close(queue)

		n := 0
		defer func() { dispatched <- n }()
		for _, job := range jobs {
			if ctx.Err() != nil {
				return
			}
			select {
			case queue <- job:
				n++
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		collect(res)
	}
	return <-dispatched
}
