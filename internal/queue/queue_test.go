package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustam-k0/banana-bot/internal/logger"
)

func testOptions() Options {
	return Options{Buffer: 16, Requests: 100, Period: time.Second}
}

func TestQueue_FIFOPerUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := New(ctx, testOptions(), logger.NewTestLogger())

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := range 10 {
		wg.Add(1)
		i := i
		require.NoError(t, q.Enqueue(1, func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}

	wg.Wait()
	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestQueue_UsersRunConcurrently(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := New(ctx, testOptions(), logger.NewTestLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})

	require.NoError(t, q.Enqueue(1, func() {
		close(started)
		<-release
	}))
	<-started

	// A second user must not wait for the first user's slow task.
	require.NoError(t, q.Enqueue(2, func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("second user's task blocked behind first user")
	}
	close(release)
}

func TestQueue_BusyWhenBacklogFull(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := New(ctx, Options{Buffer: 1, Requests: 100, Period: time.Second}, logger.NewTestLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, q.Enqueue(1, func() {
		close(started)
		<-release
	}))
	<-started

	// One task fits the buffer, the next is rejected.
	require.NoError(t, q.Enqueue(1, func() {}))
	assert.ErrorIs(t, q.Enqueue(1, func() {}), ErrBusy)
	close(release)
}

func TestQueue_RecoversFromPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := logger.NewTestLogger()
	q := New(ctx, testOptions(), log)

	done := make(chan struct{})
	require.NoError(t, q.Enqueue(1, func() { panic("boom") }))
	require.NoError(t, q.Enqueue(1, func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker died after panic")
	}
}
