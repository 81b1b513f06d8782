package processor

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedJobs(n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{Name: fmt.Sprintf("%03d.eps", i), Index: i}
	}
	return jobs
}

func TestPoolSize(t *testing.T) {
	p := NewPool(4)
	assert.Equal(t, 4, p.Workers())
	assert.Equal(t, 2, p.Size(2))
	assert.Equal(t, 4, p.Size(100))
	assert.Positive(t, NewPool(0).Workers())
}

func TestPoolRunCollectsAll(t *testing.T) {
	p := NewPool(4)
	var active, peak atomic.Int64
	seen := map[string]bool{}

	n := p.Run(context.Background(), numberedJobs(50), func(j Job) Result {
		cur := active.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		active.Add(-1)
		return Result{Name: j.Name}
	}, func(r Result) {
		seen[r.Name] = true
	})

	assert.Equal(t, 50, n)
	assert.Len(t, seen, 50)
	assert.LessOrEqual(t, peak.Load(), int64(4))
}

func TestPoolRunEmpty(t *testing.T) {
	n := NewPool(2).Run(context.Background(), nil, func(Job) Result {
		t.Fatal("work called")
		return Result{}
	}, func(Result) {})
	assert.Equal(t, 0, n)
}

func TestPoolStopsDispatchOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var collected int
	n := NewPool(1).Run(ctx, numberedJobs(20), func(j Job) Result {
		if j.Index == 2 {
			cancel()
		}
		return Result{Name: j.Name}
	}, func(Result) {
		collected++
	})

	require.Less(t, n, 20)
	assert.Equal(t, n, collected)
}
