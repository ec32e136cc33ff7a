package viewer

import (
	"sort"
	"sync"

	"github.com/jengzang/visit-tracker-go/internal/models"
)

// OverlayBoard is an overlay renderer that keeps placed overlays in memory
// so a remote client can draw them
type OverlayBoard struct {
	mu       sync.RWMutex
	next     models.OverlayHandle
	overlays map[models.OverlayHandle]*models.PlacedOverlay
	revision uint64
}

// NewOverlayBoard creates an empty board
func NewOverlayBoard() *OverlayBoard {
	return &OverlayBoard{overlays: make(map[models.OverlayHandle]*models.PlacedOverlay)}
}

// PlaceOverlay adds a new overlay element and returns its handle
func (b *OverlayBoard) PlaceOverlay(location models.Rect, color string) models.OverlayHandle {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.overlays[b.next] = &models.PlacedOverlay{
		Handle:   b.next,
		Location: location,
		Color:    color,
	}
	b.revision++
	return b.next
}

// SetColor recolors an existing element. Unknown handles are ignored.
func (b *OverlayBoard) SetColor(handle models.OverlayHandle, color string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	overlay, ok := b.overlays[handle]
	if !ok {
		return
	}
	overlay.Color = color
	b.revision++
}

// Get returns a copy of the overlay behind handle
func (b *OverlayBoard) Get(handle models.OverlayHandle) (models.PlacedOverlay, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	overlay, ok := b.overlays[handle]
	if !ok {
		return models.PlacedOverlay{}, false
	}
	return *overlay, true
}

// List returns all placed overlays in placement order with the current revision
func (b *OverlayBoard) List() ([]models.PlacedOverlay, uint64) {
	b.mu.RLock()
	out := make([]models.PlacedOverlay, 0, len(b.overlays))
	for _, overlay := range b.overlays {
		out = append(out, *overlay)
	}
	revision := b.revision
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out, revision
}

// Revision increases with every placement or recolor
func (b *OverlayBoard) Revision() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}
