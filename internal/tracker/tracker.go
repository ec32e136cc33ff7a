package tracker

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/jengzang/visit-tracker-go/internal/models"
)

// ErrInvalidConfig is returned for tracker settings that cannot produce a usable grid or opacity scale
var ErrInvalidConfig = errors.New("invalid tracker config")

// storeTimeout bounds a single persistence call made from the dispatch goroutine
const storeTimeout = 5 * time.Second

// Config holds the tracker settings fixed for the lifetime of a session
type Config struct {
	CellSize       float64       // Edge length of a grid cell in normalized coordinates
	ZoomThreshold  float64       // Visits at or below this zoom are ignored
	MinZoom        float64       // Zoom mapped to opacity 0
	MaxZoom        float64       // Zoom mapped to opacity 1
	Color          color.RGBA    // Base overlay color; alpha comes from zoom
	DebounceWindow time.Duration // Quiescence window for viewport notifications
}

// DefaultConfig returns the settings used by the slide viewer
func DefaultConfig() Config {
	return Config{
		CellSize:       0.01,
		ZoomThreshold:  2,
		MinZoom:        1,
		MaxZoom:        100,
		Color:          Blue,
		DebounceWindow: DefaultDebounceWindow,
	}
}

// Validate checks that the config describes a usable grid and zoom range
func (c Config) Validate() error {
	if !(c.CellSize > 0) {
		return fmt.Errorf("%w: cell size must be positive, got %v", ErrInvalidConfig, c.CellSize)
	}
	if !(c.MaxZoom > c.MinZoom) {
		return fmt.Errorf("%w: max zoom %v must exceed min zoom %v", ErrInvalidConfig, c.MaxZoom, c.MinZoom)
	}
	return nil
}

// State is the outcome of handling one viewport change
type State int

const (
	StateBelowThreshold State = iota
	StateUnseenCell
	StateSeenCell
)

func (s State) String() string {
	switch s {
	case StateBelowThreshold:
		return "below_threshold"
	case StateUnseenCell:
		return "unseen_cell"
	case StateSeenCell:
		return "seen_cell"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Visit describes what a viewport change did
type Visit struct {
	State     State
	CellKey   CellKey // Empty below the threshold
	Zoom      float64
	Refreshed bool // Seen cell whose overlay was recolored at a deeper zoom
}

// Tracker records which cells of the image have been examined and keeps one
// overlay per visited cell, colored by the deepest zoom seen there.
type Tracker struct {
	cfg       Config
	grid      *Grid
	source    ViewportSource
	renderer  OverlayRenderer
	store     VisitStore
	debouncer *Debouncer

	mu       sync.RWMutex
	visited  map[string]struct{}
	overlays map[CellKey]*models.Overlay
	// Set when the stored visited set could not be read. Saves are held back
	// until it has been merged so a partial set never replaces it.
	visitedStale bool

	lifecycle sync.Mutex
	subID     SubscriptionID
	cancel    context.CancelFunc
	done      chan struct{}
	started   bool
}

// New creates a tracker for one viewing session
func New(cfg Config, source ViewportSource, renderer OverlayRenderer, store VisitStore) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DebounceWindow <= 0 {
		cfg.DebounceWindow = DefaultDebounceWindow
	}
	grid, err := NewGrid(cfg.CellSize)
	if err != nil {
		return nil, err
	}

	t := &Tracker{
		cfg:      cfg,
		grid:     grid,
		source:   source,
		renderer: renderer,
		store:    store,
		visited:  make(map[string]struct{}),
		overlays: make(map[CellKey]*models.Overlay),
	}
	t.debouncer = NewDebouncer(cfg.DebounceWindow, func() { t.HandleViewportChange() })
	return t, nil
}

// Config returns the tracker settings
func (t *Tracker) Config() Config {
	return t.cfg
}

// Grid returns the cell grid
func (t *Tracker) Grid() *Grid {
	return t.grid
}

// Start restores persisted state, subscribes to viewport changes and begins
// dispatching debounced notifications. It returns immediately.
// A tracker runs once; Start after Stop returns an error.
func (t *Tracker) Start(ctx context.Context) error {
	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()

	if t.cancel != nil {
		return errors.New("tracker already started")
	}
	if t.started {
		return errors.New("tracker cannot be restarted")
	}
	t.started = true

	t.Restore(ctx)

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.subID = t.source.OnViewportChange(t.debouncer.Trigger)

	go func(done chan struct{}) {
		defer close(done)
		t.debouncer.Run(runCtx)
	}(t.done)

	log.Printf("[Tracker] Started (cell_size=%v, threshold=%v, debounce=%v)",
		t.cfg.CellSize, t.cfg.ZoomThreshold, t.debouncer.Window())
	return nil
}

// Stop unsubscribes from the viewport and waits for the dispatch goroutine to exit.
// A notification still inside its debounce window is handled before Stop returns.
func (t *Tracker) Stop() {
	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()

	if t.cancel == nil {
		return
	}
	t.source.OffViewportChange(t.subID)
	t.cancel()
	<-t.done
	t.cancel = nil
	log.Printf("[Tracker] Stopped")
}

// Restore loads the visited set and replays every persisted overlay record
// without writing anything back. Unreadable data restores as empty.
func (t *Tracker) Restore(ctx context.Context) {
	visited, err := t.store.LoadVisitedSet(ctx)
	stale := err != nil
	if stale {
		log.Printf("[Tracker] Failed to load visited cells, starting empty: %v", err)
		visited = nil
	}
	if visited == nil {
		visited = make(map[string]struct{})
	}

	records, err := t.store.LoadOverlayRecords(ctx)
	if err != nil {
		log.Printf("[Tracker] Failed to load overlay records, starting empty: %v", err)
		records = nil
	}

	t.mu.Lock()
	t.visited = visited
	t.visitedStale = stale
	t.overlays = make(map[CellKey]*models.Overlay, len(records))
	t.mu.Unlock()

	for _, record := range records {
		// Replay never persists, so no error can come back
		_ = t.CreateOverlay(ctx, record, false)
	}

	log.Printf("[Tracker] Restored %d visited cells, %d overlays", len(visited), len(records))
}

// HandleViewportChange reads the current viewport and updates the visit state.
// It runs on the debouncer goroutine; tests may call it directly.
func (t *Tracker) HandleViewportChange() Visit {
	zoom := t.source.Zoom()
	bounds := t.source.Bounds()

	if zoom <= t.cfg.ZoomThreshold {
		return Visit{State: StateBelowThreshold, Zoom: zoom}
	}

	key := t.grid.ComputeCellKey(bounds)

	t.mu.RLock()
	_, seen := t.visited[string(key)]
	t.mu.RUnlock()

	if seen {
		return t.handleViewedCell(key, zoom)
	}
	return t.handleNewCell(key, zoom, bounds)
}

func (t *Tracker) handleNewCell(key CellKey, zoom float64, bounds models.Rect) Visit {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	t.mu.Lock()
	t.visited[string(key)] = struct{}{}
	t.mu.Unlock()

	if t.mergeStoredVisited(ctx) {
		if err := t.store.SaveVisitedSet(ctx, t.visitedSnapshot()); err != nil {
			log.Printf("[Tracker] Failed to save visited cells (cell=%s): %v", key, err)
		}
	} else {
		log.Printf("[Tracker] Stored visited cells still unreadable, not saving (cell=%s)", key)
	}

	record := models.OverlayRecord{
		CellKey:   string(key),
		ZoomLevel: zoom,
		Bounds:    bounds,
	}
	if err := t.CreateOverlay(ctx, record, true); err != nil {
		log.Printf("[Tracker] Failed to persist overlay (cell=%s): %v", key, err)
	}
	log.Printf("[Tracker] New cell %s at zoom %.2f", key, zoom)

	return Visit{State: StateUnseenCell, CellKey: key, Zoom: zoom}
}

// mergeStoredVisited folds a visited set that failed to load at restore into
// the session set. It reports whether the session set is safe to save.
func (t *Tracker) mergeStoredVisited(ctx context.Context) bool {
	t.mu.RLock()
	stale := t.visitedStale
	t.mu.RUnlock()
	if !stale {
		return true
	}

	stored, err := t.store.LoadVisitedSet(ctx)
	if err != nil {
		log.Printf("[Tracker] Failed to reload visited cells: %v", err)
		return false
	}

	t.mu.Lock()
	for k := range stored {
		t.visited[k] = struct{}{}
	}
	t.visitedStale = false
	t.mu.Unlock()
	log.Printf("[Tracker] Merged %d stored visited cells", len(stored))
	return true
}

func (t *Tracker) visitedSnapshot() map[string]struct{} {
	t.mu.RLock()
	defer t.mu.RUnlock()
	snapshot := make(map[string]struct{}, len(t.visited))
	for k := range t.visited {
		snapshot[k] = struct{}{}
	}
	return snapshot
}

func (t *Tracker) handleViewedCell(key CellKey, zoom float64) Visit {
	visit := Visit{State: StateSeenCell, CellKey: key, Zoom: zoom}

	t.mu.Lock()
	defer t.mu.Unlock()

	overlay, ok := t.overlays[key]
	if !ok {
		// Visited but never drawn in this session; stays unmarked until the next restore
		return visit
	}
	if zoom > overlay.ZoomLevel {
		t.renderer.SetColor(overlay.Handle, t.colorFor(zoom))
		overlay.ZoomLevel = zoom
		visit.Refreshed = true
	}
	return visit
}

// CreateOverlay draws an overlay for the record and registers it as the live
// overlay of its cell, replacing any earlier entry. With persist set the
// record is appended to the store; the returned error only reports that write.
func (t *Tracker) CreateOverlay(ctx context.Context, record models.OverlayRecord, persist bool) error {
	handle := t.renderer.PlaceOverlay(record.Bounds, t.colorFor(record.ZoomLevel))

	t.mu.Lock()
	t.overlays[CellKey(record.CellKey)] = &models.Overlay{
		Handle:    handle,
		Location:  record.Bounds,
		ZoomLevel: record.ZoomLevel,
	}
	t.mu.Unlock()

	if !persist {
		return nil
	}
	return t.store.AppendOverlayRecord(ctx, record)
}

// OpacityFromZoom maps a zoom level onto the configured opacity scale
func (t *Tracker) OpacityFromZoom(zoom float64) float64 {
	return OpacityFromZoom(zoom, t.cfg.MinZoom, t.cfg.MaxZoom)
}

func (t *Tracker) colorFor(zoom float64) string {
	return FormatColor(t.cfg.Color, t.OpacityFromZoom(zoom))
}

// VisitedKeys returns the visited cell keys in sorted order
func (t *Tracker) VisitedKeys() []string {
	t.mu.RLock()
	keys := make([]string, 0, len(t.visited))
	for k := range t.visited {
		keys = append(keys, k)
	}
	t.mu.RUnlock()

	sort.Strings(keys)
	return keys
}

// IsVisited reports whether the cell has been visited
func (t *Tracker) IsVisited(key CellKey) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.visited[string(key)]
	return ok
}

// Overlay returns a copy of the live overlay for a cell
func (t *Tracker) Overlay(key CellKey) (models.Overlay, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	overlay, ok := t.overlays[key]
	if !ok {
		return models.Overlay{}, false
	}
	return *overlay, true
}

// Overlays returns a copy of all live overlays keyed by cell
func (t *Tracker) Overlays() map[CellKey]models.Overlay {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[CellKey]models.Overlay, len(t.overlays))
	for k, v := range t.overlays {
		out[k] = *v
	}
	return out
}
