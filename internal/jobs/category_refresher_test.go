package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (c *countingRefresher) Refresh(context.Context) error {
	c.calls.Add(1)
	return c.err
}

func TestCategoryRefresher_RefreshesUntilCancelled(t *testing.T) {
	r := &countingRefresher{err: errors.New("temporary")}
	refresher := NewCategoryRefresher(r, 5*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		refresher.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for r.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("refresher did not run twice")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("refresher did not stop after cancel")
	}
}

func TestCategoryRefresher_Disabled(t *testing.T) {
	r := &countingRefresher{}
	NewCategoryRefresher(r, 0).Start(context.Background())

	if r.calls.Load() != 0 {
		t.Errorf("calls = %d, want 0", r.calls.Load())
	}
}
