package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueDispatchesByType(t *testing.T) {
	q := NewQueue("test", QueueConfig{Workers: 2})
	got := make(chan string, 1)
	q.Register("blob.release", func(ctx context.Context, job Job) error {
		got <- job.Payload
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "1", Type: "blob.release", Payload: "materials/logo.png"}))
	select {
	case payload := <-got:
		assert.Equal(t, "materials/logo.png", payload)
	case <-time.After(time.Second):
		t.Fatal("job was not processed")
	}
}

func TestQueueRejectsUnknownTypeAndUnstarted(t *testing.T) {
	q := NewQueue("test", QueueConfig{})
	q.Register("known", func(context.Context, Job) error { return nil })
	require.Error(t, q.Enqueue(Job{Type: "known"}))

	q.Start(context.Background())
	defer q.Stop()
	require.Error(t, q.Enqueue(Job{Type: "unknown"}))
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	q := NewQueue("test", QueueConfig{MaxRetries: 2, RetryDelay: 5 * time.Millisecond})
	var calls int32
	done := make(chan struct{})
	q.Register("flaky", func(context.Context, Job) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("transient")
		}
		close(done)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "j", Type: "flaky"}))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job was not retried to success")
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestQueueRecoversPanicsAndBoundsAttempts(t *testing.T) {
	q := NewQueue("test", QueueConfig{MaxRetries: 1, RetryDelay: time.Millisecond, JobTimeout: 50 * time.Millisecond})
	var calls int32
	done := make(chan struct{})
	q.Register("boom", func(ctx context.Context, _ Job) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			panic("first attempt")
		}
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		close(done)
		return nil
	})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "p", Type: "boom"}))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("panicking job was not retried")
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, 0, q.Pending())
}
