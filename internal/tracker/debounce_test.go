package tracker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestDebouncerCollapsesBurst(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(40*time.Millisecond, func() { calls.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	for i := 0; i < 10; i++ {
		d.Trigger()
		time.Sleep(5 * time.Millisecond)
	}

	waitFor(t, time.Second, func() bool { return calls.Load() >= 1 })
	time.Sleep(120 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Trigger()
	waitFor(t, time.Second, func() bool { return calls.Load() == 1 })
	d.Trigger()
	waitFor(t, time.Second, func() bool { return calls.Load() == 2 })
}

func TestDebouncerRestartsWindow(t *testing.T) {
	var fired atomic.Int64
	d := NewDebouncer(60*time.Millisecond, func() { fired.Store(time.Now().UnixNano()) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Trigger()
	time.Sleep(40 * time.Millisecond)
	last := time.Now()
	d.Trigger()

	waitFor(t, time.Second, func() bool { return fired.Load() != 0 })
	if elapsed := time.Duration(fired.Load() - last.UnixNano()); elapsed < 55*time.Millisecond {
		t.Errorf("fired %v after the last trigger, want at least the window", elapsed)
	}
}

func TestDebouncerFlushesPendingOnCancel(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() { calls.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Trigger()
	time.Sleep(10 * time.Millisecond)
	cancel()
	<-done

	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d when Run returned, want 1", got)
	}
	time.Sleep(80 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d after cancel, want 1", got)
	}
}

func TestDebouncerIdleCancelDoesNotCall(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	d.Trigger()
	waitFor(t, time.Second, func() bool { return calls.Load() == 1 })
	cancel()
	<-done

	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestNewDebouncerDefaultWindow(t *testing.T) {
	if w := NewDebouncer(0, func() {}).Window(); w != DefaultDebounceWindow {
		t.Errorf("Window = %v, want %v", w, DefaultDebounceWindow)
	}
}
