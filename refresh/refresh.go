// Copyright © 2026 The tempchart Authors

// Package refresh runs a periodic task, one invocation at a time.
package refresh

import (
	"context"
	"sync"
	"time"

	jww "github.com/spf13/jwalterweatherman"
)

type Task func(ctx context.Context) error

// Scheduler runs a Task immediately and then on every tick. Starting a new
// schedule cancels the previous one first. Triggering cancels the running
// invocation and runs the task again straight away.
//
// Stop must not be called from inside the task.
type Scheduler struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	trigger   chan struct{}
	runCancel context.CancelFunc
	runs      uint64

	// OnError receives task errors. Defaults to logging.
	OnError func(error)
}

func (s *Scheduler) Start(parent context.Context, every time.Duration, task Task) {
	s.Stop()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	trigger := make(chan struct{}, 1)

	s.mu.Lock()
	s.cancel = cancel
	s.done = done
	s.trigger = trigger
	s.mu.Unlock()

	go s.loop(ctx, every, task, trigger, done)
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done, s.trigger = nil, nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Runs counts completed task invocations.
func (s *Scheduler) Runs() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Trigger supersedes the running invocation, if any, with a fresh one.
func (s *Scheduler) Trigger() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.trigger == nil {
		return
	}
	if s.runCancel != nil {
		s.runCancel()
	}
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *Scheduler) loop(ctx context.Context, every time.Duration, task Task, trigger <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	s.run(ctx, task)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.run(ctx, task)
		case <-trigger:
			s.run(ctx, task)
		}
	}
}

func (s *Scheduler) run(parent context.Context, task Task) {
	ctx, cancel := context.WithCancel(parent)
	s.mu.Lock()
	s.runCancel = cancel
	s.mu.Unlock()

	err := task(ctx)

	s.mu.Lock()
	s.runCancel = nil
	s.runs++
	s.mu.Unlock()
	cancel()

	if err != nil && parent.Err() == nil {
		if s.OnError != nil {
			s.OnError(err)
		} else {
			jww.ERROR.Println(err)
		}
	}
}
