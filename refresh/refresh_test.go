// Copyright © 2026 The tempchart Authors

package refresh

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitFor(t *testing.T, ch <-chan int, what string) int {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
	return 0
}

func TestStartRunsImmediately(t *testing.T) {
	var s Scheduler
	calls := make(chan int, 10)
	var n int32
	s.Start(context.Background(), time.Hour, func(ctx context.Context) error {
		calls <- int(atomic.AddInt32(&n, 1))
		return nil
	})
	defer s.Stop()

	assert.Equal(t, 1, waitFor(t, calls, "first run"))
	assert.True(t, s.Running())
}

func TestTicks(t *testing.T) {
	var s Scheduler
	calls := make(chan int, 100)
	s.Start(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		calls <- 1
		return nil
	})
	for i := 0; i < 3; i++ {
		waitFor(t, calls, "tick")
	}
	s.Stop()
	assert.False(t, s.Running())
	assert.GreaterOrEqual(t, s.Runs(), uint64(3))
}

func TestStartSupersedesPrevious(t *testing.T) {
	var s Scheduler
	started := make(chan int, 1)
	cancelled := make(chan int, 1)
	s.Start(context.Background(), time.Hour, func(ctx context.Context) error {
		started <- 1
		<-ctx.Done()
		cancelled <- 1
		return ctx.Err()
	})
	waitFor(t, started, "first schedule")

	second := make(chan int, 1)
	s.Start(context.Background(), time.Hour, func(ctx context.Context) error {
		second <- 2
		return nil
	})
	waitFor(t, cancelled, "previous task cancellation")
	assert.Equal(t, 2, waitFor(t, second, "second schedule"))
	s.Stop()
}

func TestTriggerSupersedesRun(t *testing.T) {
	var s Scheduler
	runs := make(chan int, 10)
	var n int32
	s.Start(context.Background(), time.Hour, func(ctx context.Context) error {
		i := int(atomic.AddInt32(&n, 1))
		runs <- i
		if i == 1 {
			<-ctx.Done()
		}
		return nil
	})
	defer s.Stop()

	require.Equal(t, 1, waitFor(t, runs, "first run"))
	s.Trigger()
	assert.Equal(t, 2, waitFor(t, runs, "triggered run"))
}

func TestErrorsReported(t *testing.T) {
	errs := make(chan error, 1)
	s := Scheduler{OnError: func(err error) { errs <- err }}
	boom := errors.New("boom")
	s.Start(context.Background(), time.Hour, func(ctx context.Context) error { return boom })
	defer s.Stop()

	select {
	case err := <-errs:
		assert.ErrorIs(t, err, boom)
	case <-time.After(5 * time.Second):
		t.Fatal("error not reported")
	}
}

func TestStopIdle(t *testing.T) {
	var s Scheduler
	s.Stop()
	s.Trigger()
	assert.False(t, s.Running())
}
