package models

// OverlayRecord is the persisted form of an overlay.
// Zoom level and bounds are captured at the first visit of the cell and never rewritten.
type OverlayRecord struct {
	CellKey   string  `json:"cellKey"`
	ZoomLevel float64 `json:"zoomLevel"`
	Bounds    Rect    `json:"bounds"`
}

// OverlayHandle identifies an overlay element owned by the renderer
type OverlayHandle int64

// Overlay is the live, in-memory state of a rendered overlay
type Overlay struct {
	Handle    OverlayHandle `json:"handle"`
	Location  Rect          `json:"location"`
	ZoomLevel float64       `json:"zoom_level"` // Zoom level the element was last colored at
}

// PlacedOverlay is an overlay element as the renderer holds it
type PlacedOverlay struct {
	Handle   OverlayHandle `json:"handle"`
	Location Rect          `json:"location"`
	Color    string        `json:"color"` // CSS rgba() string
}

// OverlayListResponse represents the overlays API response
type OverlayListResponse struct {
	Overlays []PlacedOverlay `json:"overlays"`
	Count    int             `json:"count"`
	Revision uint64          `json:"revision"` // Bumped on every placement or recolor
}
