package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremio-addons/trakt-actions/pkg/session"
	"github.com/stremio-addons/trakt-actions/pkg/trakt"
	"github.com/stremio-addons/trakt-actions/pkg/userconfig"
)

// fakePerformer counts attempts and fails the first failN of them
type fakePerformer struct {
	mu       sync.Mutex
	attempts int
	failN    int
	done     chan struct{}
}

func (f *fakePerformer) Perform(_ context.Context, _ Kind, _ trakt.MediaRef, _ *session.Session, _ int) (Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts++
	if f.attempts <= f.failN {
		return Result{}, errors.New("transient failure")
	}
	if f.done != nil {
		close(f.done)
		f.done = nil
	}
	return Result{OK: true}, nil
}

func (f *fakePerformer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.attempts
}

func queueTask() Task {
	return Task{
		Kind:    KindWatch,
		Ref:     trakt.MediaRef{Kind: trakt.KindMovie, ID: "tt1"},
		Session: &session.Session{Tokens: trakt.TokenSet{AccessToken: "tok"}, Config: &userconfig.Config{}},
	}
}

func TestQueue_ExecutesSubmitted(t *testing.T) {
	perf := &fakePerformer{done: make(chan struct{})}
	done := perf.done
	q := NewQueue(perf, 8, 3, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go q.Run(ctx)

	require.True(t, q.Submit(queueTask()))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task not executed")
	}
	assert.Equal(t, 1, perf.count())

	cancel()
	q.Wait()
}

func TestQueue_RetriesBounded(t *testing.T) {
	t.Run("recovers within budget", func(t *testing.T) {
		perf := &fakePerformer{failN: 2, done: make(chan struct{})}
		done := perf.done
		q := NewQueue(perf, 8, 3, time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		go q.Run(ctx)

		q.Submit(queueTask())
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("task never succeeded")
		}
		assert.Equal(t, 3, perf.count())

		cancel()
		q.Wait()
	})

	t.Run("gives up after budget", func(t *testing.T) {
		perf := &fakePerformer{failN: 100}
		q := NewQueue(perf, 8, 3, time.Millisecond)

		ctx, cancel := context.WithCancel(context.Background())
		go q.Run(ctx)

		q.Submit(queueTask())
		assert.Eventually(t, func() bool { return perf.count() == 3 }, 2*time.Second, 10*time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, 3, perf.count(), "no attempts beyond the budget")

		cancel()
		q.Wait()
	})
}

func TestQueue_SubmitNonBlocking(t *testing.T) {
	// no worker running, so the buffer fills and further submits drop
	q := NewQueue(&fakePerformer{}, 2, 1, time.Millisecond)

	assert.True(t, q.Submit(queueTask()))
	assert.True(t, q.Submit(queueTask()))
	assert.False(t, q.Submit(queueTask()), "full queue drops the task")
	assert.Equal(t, 2, q.Pending())
}

func TestQueue_DrainsOnShutdown(t *testing.T) {
	perf := &fakePerformer{}
	q := NewQueue(perf, 8, 1, time.Millisecond)

	// queue tasks before the worker starts, then cancel immediately
	q.Submit(queueTask())
	q.Submit(queueTask())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	q.Run(ctx) // returns after draining

	assert.Equal(t, 2, perf.count(), "queued tasks executed during drain")
}
