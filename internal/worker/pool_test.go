package worker_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/paesprep/backend/internal/worker"
)

func TestPool_DeliversEveryResult(t *testing.T) {
	p := worker.NewPool[int](3, 10)
	for i := 0; i < 10; i++ {
		n := i
		p.Submit(fmt.Sprint(n), func() int { return n * n })
	}
	p.Close()

	got := map[string]int{}
	for r := range p.Results() {
		got[r.JobID] = r.Output
	}

	if len(got) != 10 {
		t.Fatalf("expected 10 results, got %d", len(got))
	}
	if got["7"] != 49 {
		t.Errorf("expected 49 for job 7, got %d", got["7"])
	}
}

func TestRun(t *testing.T) {
	var calls int32
	jobs := map[string]worker.Job[string]{}
	for _, id := range []string{"a", "b", "c"} {
		id := id
		jobs[id] = func() string { atomic.AddInt32(&calls, 1); return id + "!" }
	}

	out := worker.Run(2, jobs)

	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
	if out["b"] != "b!" {
		t.Errorf("unexpected output %v", out)
	}
}

func TestRun_NoJobs(t *testing.T) {
	out := worker.Run(4, map[string]worker.Job[int]{})
	if len(out) != 0 {
		t.Errorf("expected empty output, got %v", out)
	}
}
