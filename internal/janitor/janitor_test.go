package janitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	calls atomic.Int64
	err   error
}

func (f *fakeStore) TrimTimelines(ctx context.Context, horizon int) error {
	f.calls.Add(1)
	return f.err
}

func TestNotify_TriggersSweep(t *testing.T) {
	store := &fakeStore{}
	j := New(store, 100, nil)
	j.Start()
	defer j.Close()

	j.Notify()

	require.Eventually(t, func() bool {
		return store.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)
}

func TestNotify_NeverBlocks(t *testing.T) {
	store := &fakeStore{}
	j := New(store, 100, nil)
	// Not started: the signal buffer fills and further notifies drop.

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			j.Notify()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked")
	}
}

func TestSweepFailure_DoesNotStopTheJanitor(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	j := New(store, 100, nil)
	j.Start()
	defer j.Close()

	j.Notify()
	require.Eventually(t, func() bool {
		return store.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	// A later notification still runs.
	store.err = nil
	j.Notify()
	require.Eventually(t, func() bool {
		return store.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond)
}

func TestClose_Idempotent(t *testing.T) {
	j := New(&fakeStore{}, 100, nil)
	j.Start()

	j.Close()
	j.Close()
}

func TestNotify_AfterCloseIsDropped(t *testing.T) {
	store := &fakeStore{}
	j := New(store, 100, nil)
	j.Start()
	j.Close()

	j.Notify()
	j.Notify()

	// No goroutine is listening; nothing runs and nothing panics.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(0), store.calls.Load())
}
