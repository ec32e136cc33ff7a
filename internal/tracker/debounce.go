package tracker

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounceWindow is the quiescence window applied to viewport notifications
const DefaultDebounceWindow = 200 * time.Millisecond

// Debouncer collapses bursts of triggers into a single trailing call of fn.
// Every trigger restarts the window; fn runs once the window passes with no
// further triggers. All calls of fn happen on the goroutine running Run, so
// they never overlap and keep trigger order.
type Debouncer struct {
	window  time.Duration
	fn      func()
	trigger chan struct{}

	mu      sync.Mutex
	running bool
}

// NewDebouncer creates a debouncer for fn. A non-positive window falls back to the default.
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Debouncer{
		window:  window,
		fn:      fn,
		trigger: make(chan struct{}, 1),
	}
}

// Window returns the quiescence window
func (d *Debouncer) Window() time.Duration {
	return d.window
}

// Trigger records an event. Safe to call from any goroutine; never blocks.
func (d *Debouncer) Trigger() {
	select {
	case d.trigger <- struct{}{}:
	default:
		// A trigger is already queued; it restarts the window just the same
	}
}

// Run dispatches debounced calls until ctx is cancelled.
// A call still waiting for its window when ctx ends runs once before Run returns.
func (d *Debouncer) Run(ctx context.Context) {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.running = false
		d.mu.Unlock()
	}()

	timer := time.NewTimer(d.window)
	timer.Stop()
	defer timer.Stop()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			select {
			case <-d.trigger:
				fire = timer.C
			default:
			}
			if fire != nil {
				d.fn()
			}
			return
		case <-d.trigger:
			timer.Reset(d.window)
			fire = timer.C
		case <-fire:
			fire = nil
			d.fn()
		}
	}
}
