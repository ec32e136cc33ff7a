package tracker

import (
	"context"

	"github.com/jengzang/visit-tracker-go/internal/models"
)

// SubscriptionID identifies a registered viewport change handler
type SubscriptionID int

// ViewportSource reports the viewer's current zoom and visible bounds and
// notifies subscribers whenever the user zooms or pans
type ViewportSource interface {
	OnViewportChange(fn func()) SubscriptionID
	OffViewportChange(id SubscriptionID)
	Zoom() float64
	Bounds() models.Rect
}

// OverlayRenderer places colored rectangles over the image and recolors them
type OverlayRenderer interface {
	PlaceOverlay(location models.Rect, color string) models.OverlayHandle
	SetColor(handle models.OverlayHandle, color string)
}

// VisitStore persists the visited cell keys and the overlay records
type VisitStore interface {
	LoadVisitedSet(ctx context.Context) (map[string]struct{}, error)
	SaveVisitedSet(ctx context.Context, keys map[string]struct{}) error
	LoadOverlayRecords(ctx context.Context) ([]models.OverlayRecord, error)
	AppendOverlayRecord(ctx context.Context, record models.OverlayRecord) error
}
