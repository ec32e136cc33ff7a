// Package viewer adapts a remote viewer client to the tracker's collaborator
// interfaces: viewport reports arrive over HTTP and placed overlays are kept
// for the client to draw.
package viewer

import (
	"sync"

	"github.com/jengzang/visit-tracker-go/internal/models"
	"github.com/jengzang/visit-tracker-go/internal/tracker"
)

// RemoteViewport holds the most recent viewport reported by the client
type RemoteViewport struct {
	mu       sync.RWMutex
	zoom     float64
	bounds   models.Rect
	nextID   tracker.SubscriptionID
	handlers map[tracker.SubscriptionID]func()
}

// NewRemoteViewport creates a viewport starting at the given zoom with empty bounds
func NewRemoteViewport(initialZoom float64) *RemoteViewport {
	return &RemoteViewport{
		zoom:     initialZoom,
		handlers: make(map[tracker.SubscriptionID]func()),
	}
}

// Update records a zoom/pan and notifies every subscriber
func (v *RemoteViewport) Update(zoom float64, bounds models.Rect) {
	v.mu.Lock()
	v.zoom = zoom
	v.bounds = bounds
	handlers := make([]func(), 0, len(v.handlers))
	for _, fn := range v.handlers {
		handlers = append(handlers, fn)
	}
	v.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// OnViewportChange registers fn to be called after every update
func (v *RemoteViewport) OnViewportChange(fn func()) tracker.SubscriptionID {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	v.handlers[v.nextID] = fn
	return v.nextID
}

// OffViewportChange removes a handler registered with OnViewportChange
func (v *RemoteViewport) OffViewportChange(id tracker.SubscriptionID) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.handlers, id)
}

// Zoom returns the last reported zoom level
func (v *RemoteViewport) Zoom() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.zoom
}

// Bounds returns the last reported visible bounds
func (v *RemoteViewport) Bounds() models.Rect {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.bounds
}
