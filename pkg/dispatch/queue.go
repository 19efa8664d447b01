package dispatch

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-pkgz/repeater/v2"

	"github.com/stremio-addons/trakt-actions/pkg/session"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
)

// Task is one queued action. The session was resolved by the submitting
// handler; the queue owns it from Submit on.
type Task struct {
	Kind    Kind
	Ref     trakt.MediaRef
	Session *session.Session
	Rating  int
}

// Performer executes one action; satisfied by *Dispatcher.
type Performer interface {
	Perform(ctx context.Context, kind Kind, ref trakt.MediaRef, sess *session.Session, rating int) (Result, error)
}

// Queue runs actions detached from the HTTP request that submitted them.
// The submitting handler has already committed its response (the decoy
// redirect) by the time the task executes; results go to the log only.
// Execution is at-least-once with a bounded retry.
type Queue struct {
	performer Performer
	tasks     chan Task
	attempts  int
	delay     time.Duration
	wg        sync.WaitGroup
}

// NewQueue creates a queue with the given buffer size and retry budget.
func NewQueue(performer Performer, size, attempts int, delay time.Duration) *Queue {
	if size <= 0 {
		size = 64
	}
	if attempts <= 0 {
		attempts = 3
	}
	if delay == 0 {
		delay = 2 * time.Second
	}
	return &Queue{
		performer: performer,
		tasks:     make(chan Task, size),
		attempts:  attempts,
		delay:     delay,
	}
}

// Run processes tasks until ctx is canceled, then drains what is already
// queued and returns.
func (q *Queue) Run(ctx context.Context) {
	q.wg.Add(1)
	defer q.wg.Done()

	for {
		select {
		case task := <-q.tasks:
			q.execute(ctx, task)
		case <-ctx.Done():
			// drain without waiting for new work
			for {
				select {
				case task := <-q.tasks:
					q.execute(context.Background(), task)
				default:
					return
				}
			}
		}
	}
}

// Wait blocks until the worker has stopped.
func (q *Queue) Wait() { q.wg.Wait() }

// Submit enqueues a task without blocking. A full queue drops the task
// and reports false; the caller has already responded to its client
// either way.
func (q *Queue) Submit(task Task) bool {
	select {
	case q.tasks <- task:
		return true
	default:
		log.Printf("[WARN] action queue full, dropping %s for %s", task.Kind, task.Ref)
		return false
	}
}

// Pending returns the number of queued tasks.
func (q *Queue) Pending() int { return len(q.tasks) }

func (q *Queue) execute(ctx context.Context, task Task) {
	retrier := repeater.NewBackoff(q.attempts, q.delay, repeater.WithMaxDelay(30*time.Second))

	err := retrier.Do(ctx, func() error {
		_, err := q.performer.Perform(ctx, task.Kind, task.Ref, task.Session, task.Rating)
		return err
	})
	if err != nil {
		log.Printf("[ERROR] action %s for %s failed after %d attempts: %v", task.Kind, task.Ref, q.attempts, err)
		return
	}
	log.Printf("[INFO] action %s for %s completed", task.Kind, task.Ref)
}
