// internal/schedule/schedule.go
package schedule

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("schedule: loop stopped")

// Scheduler is the single logical sequence every state mutation runs on.
// Tasks never run concurrently with each other.
type Scheduler interface {
	// Post enqueues a task to run on the sequence.
	Post(task func())
	// After runs task on the sequence once d has elapsed. Timers are never
	// cancelled, so task must re-check whatever state it depends on.
	After(d time.Duration, task func())
	// Now is the scheduler's clock.
	Now() time.Time
}

// Loop is a Scheduler backed by one goroutine draining a task queue.
type Loop struct {
	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop with the given queue depth. Call Run to start it.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Run drains the queue until ctx is cancelled. It blocks.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			log.Info("schedule: loop stopping")
			return
		case task := <-l.tasks:
			l.run(task)
		}
	}
}

func (l *Loop) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Errorf("schedule: task panicked\n%s", debug.Stack())
		}
	}()
	task()
}

// Post blocks while the queue is full; it drops the task once the loop has exited.
// Must not be called from inside a task.
func (l *Loop) Post(task func()) {
	select {
	case l.tasks <- task:
	case <-l.done:
	}
}

func (l *Loop) After(d time.Duration, task func()) {
	time.AfterFunc(d, func() { l.Post(task) })
}

func (l *Loop) Now() time.Time {
	return time.Now()
}

// Do posts task and waits for it to finish.
func (l *Loop) Do(ctx context.Context, task func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		task()
	}
	select {
	case l.tasks <- wrapped:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}
