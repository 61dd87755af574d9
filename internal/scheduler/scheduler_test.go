package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/Ascend_Go/internal/testing/leaktest"
	"github.com/osse101/Ascend_Go/internal/worker"
)

type countingJob struct {
	runs atomic.Int32
	done chan struct{}
}

func (j *countingJob) Process(ctx context.Context) error {
	j.runs.Add(1)
	select {
	case j.done <- struct{}{}:
	default:
	}
	return nil
}

func TestScheduler_RunsRepeatedly(t *testing.T) {
	checker := leaktest.Start(t)

	pool := worker.NewPool(1, 10)
	pool.Start()

	sched := New(pool)
	job := &countingJob{done: make(chan struct{}, 10)}
	sched.Schedule("counting", 10*time.Millisecond, job)

	timeout := time.After(time.Second)
	for runs := 0; runs < 2; runs++ {
		select {
		case <-job.done:
		case <-timeout:
			t.Fatal("Timeout waiting for job execution")
		}
	}

	sched.Stop()
	sched.Stop()
	pool.Stop()

	assert.GreaterOrEqual(t, job.runs.Load(), int32(2))
	checker.Verify(0, leaktest.DefaultTimeout)
}

func TestScheduler_StopBeforeFirstTick(t *testing.T) {
	pool := worker.NewPool(1, 1)
	pool.Start()
	defer pool.Stop()

	sched := New(pool)
	job := &countingJob{done: make(chan struct{}, 1)}
	sched.Schedule("counting", time.Hour, job)
	sched.Stop()

	assert.Zero(t, job.runs.Load())
}
