package concurrent

import (
	"context"
	"errors"
	"sync"
)

var ErrLoopStopped = errors.New("event loop stopped")

type JobFunc func()

// Dispatcher schedules jobs onto the thread that owns the planner state.
type Dispatcher interface {
	Post(job JobFunc) error
}

// EventLoop runs every posted job on a single goroutine, in post order.
// State owned by jobs of one loop needs no further synchronization.
type EventLoop struct {
	jobQueue chan JobFunc
	done     chan struct{}
	stopOnce sync.Once
}

func NewEventLoop(jobQueueSize int) *EventLoop {
	return &EventLoop{
		jobQueue: make(chan JobFunc, jobQueueSize),
		done:     make(chan struct{}),
	}
}

// Run drains the queue until ctx is canceled. It must be called once.
func (l *EventLoop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job := <-l.jobQueue:
			job()
		}
	}
}

func (l *EventLoop) stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Post enqueues job. It blocks while the queue is full, so jobs must not post
// to a full queue of their own loop.
func (l *EventLoop) Post(job JobFunc) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case l.jobQueue <- job:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// Call posts job and waits until it has run.
func (l *EventLoop) Call(ctx context.Context, job JobFunc) error {
	finished := make(chan struct{})
	err := l.Post(func() {
		defer close(finished)
		job()
	})
	if err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		// the loop may have picked the job before stopping
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Immediate runs jobs inline on the caller's goroutine. Used by tests and by
// single-goroutine embeddings that already serialize their events.
type Immediate struct{}

func (Immediate) Post(job JobFunc) error {
	job()
	return nil
}
