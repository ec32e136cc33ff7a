package models

// VisitStats summarizes what the current session has examined
type VisitStats struct {
	VisitedCells int     `json:"visited_cells"`
	LiveOverlays int     `json:"live_overlays"`
	CellSize     float64 `json:"cell_size"`
	CoveredArea  float64 `json:"covered_area"` // Normalized area of visited cells, may exceed 1 for off-image cells
	Extent       *Rect   `json:"extent,omitempty"`
	MaxZoomSeen  float64 `json:"max_zoom_seen"`
}

// ViewerConfig is the configuration a viewer client needs to cooperate with the tracker
type ViewerConfig struct {
	MinZoom        float64 `json:"min_zoom"`
	MaxZoom        float64 `json:"max_zoom"`
	ZoomThreshold  float64 `json:"zoom_threshold"`
	CellSize       float64 `json:"cell_size"`
	DebounceMillis int64   `json:"debounce_ms"`
	TileSourceURL  string  `json:"tile_source_url,omitempty"`
	OverlayColor   string  `json:"overlay_color"`
}
