package service

import (
	"github.com/golang/geo/r2"
	"github.com/jengzang/visit-tracker-go/internal/models"
	"github.com/jengzang/visit-tracker-go/internal/tracker"
	"github.com/jengzang/visit-tracker-go/internal/viewer"
)

// VisitService handles business logic for one viewing session
type VisitService struct {
	tracker       *tracker.Tracker
	viewport      *viewer.RemoteViewport
	board         *viewer.OverlayBoard
	tileSourceURL string
}

// NewVisitService creates a visit service over a tracker and its collaborators
func NewVisitService(t *tracker.Tracker, viewport *viewer.RemoteViewport, board *viewer.OverlayBoard, tileSourceURL string) *VisitService {
	return &VisitService{
		tracker:       t,
		viewport:      viewport,
		board:         board,
		tileSourceURL: tileSourceURL,
	}
}

// ReportViewport feeds a zoom/pan from the client into the viewport source
func (s *VisitService) ReportViewport(report models.ViewportReport) {
	s.viewport.Update(report.Zoom, *report.Bounds)
}

// GetOverlays returns the overlays placed so far
func (s *VisitService) GetOverlays() models.OverlayListResponse {
	overlays, revision := s.board.List()
	return models.OverlayListResponse{
		Overlays: overlays,
		Count:    len(overlays),
		Revision: revision,
	}
}

// GetVisitedCells returns the visited cell keys in sorted order
func (s *VisitService) GetVisitedCells() []string {
	return s.tracker.VisitedKeys()
}

// GetStats summarizes the examined area
func (s *VisitService) GetStats() models.VisitStats {
	grid := s.tracker.Grid()
	keys := s.tracker.VisitedKeys()
	overlays := s.tracker.Overlays()

	var area float64
	for _, key := range keys {
		rect, err := grid.CellRect(tracker.CellKey(key))
		if err != nil {
			continue
		}
		size := rect.Size()
		area += size.X * size.Y
	}

	extent := r2.EmptyRect()
	var maxZoom float64
	for _, overlay := range overlays {
		extent = extent.Union(overlay.Location.R2())
		if overlay.ZoomLevel > maxZoom {
			maxZoom = overlay.ZoomLevel
		}
	}

	stats := models.VisitStats{
		VisitedCells: len(keys),
		LiveOverlays: len(overlays),
		CellSize:     grid.CellSize(),
		CoveredArea:  area,
		MaxZoomSeen:  maxZoom,
	}
	if !extent.IsEmpty() {
		rect := models.RectFromR2(extent)
		stats.Extent = &rect
	}
	return stats
}

// GetViewerConfig returns the settings a viewer client needs
func (s *VisitService) GetViewerConfig() models.ViewerConfig {
	cfg := s.tracker.Config()
	return models.ViewerConfig{
		MinZoom:        cfg.MinZoom,
		MaxZoom:        cfg.MaxZoom,
		ZoomThreshold:  cfg.ZoomThreshold,
		CellSize:       cfg.CellSize,
		DebounceMillis: cfg.DebounceWindow.Milliseconds(),
		TileSourceURL:  s.tileSourceURL,
		OverlayColor:   tracker.FormatColor(cfg.Color, 1),
	}
}
