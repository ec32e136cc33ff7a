package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/goccy/go-json"
	"github.com/jengzang/visit-tracker-go/internal/models"
)

// Storage keys shared with the browser viewer's local storage layout
const (
	KeyViewedCells  = "viewedCells"
	KeyOverlaysInfo = "overlaysInfo"
)

// VisitRepository persists the visited cell set and the overlay records
type VisitRepository struct {
	store KeyValueStore
}

// NewVisitRepository creates a visit repository on top of a key-value store
func NewVisitRepository(store KeyValueStore) *VisitRepository {
	return &VisitRepository{store: store}
}

// LoadVisitedSet returns the persisted visited cell keys.
// A missing or malformed value yields an empty set.
func (r *VisitRepository) LoadVisitedSet(ctx context.Context) (map[string]struct{}, error) {
	visited := make(map[string]struct{})

	raw, err := r.store.Get(ctx, KeyViewedCells)
	if errors.Is(err, ErrNotFound) {
		return visited, nil
	}
	if err != nil {
		return visited, fmt.Errorf("failed to load visited cells: %w", err)
	}

	var keys []string
	if err := json.Unmarshal([]byte(raw), &keys); err != nil {
		log.Printf("[Repository] Ignoring malformed %s: %v", KeyViewedCells, err)
		return visited, nil
	}
	for _, k := range keys {
		visited[k] = struct{}{}
	}
	return visited, nil
}

// SaveVisitedSet replaces the persisted visited set with keys
func (r *VisitRepository) SaveVisitedSet(ctx context.Context, keys map[string]struct{}) error {
	list := make([]string, 0, len(keys))
	for k := range keys {
		list = append(list, k)
	}
	sort.Strings(list)

	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode visited cells: %w", err)
	}
	if err := r.store.Set(ctx, KeyViewedCells, string(data)); err != nil {
		return fmt.Errorf("failed to save visited cells: %w", err)
	}
	return nil
}

// LoadOverlayRecords returns the persisted overlay records in insertion order.
// A missing or malformed value yields an empty list; records without a cell key are skipped.
func (r *VisitRepository) LoadOverlayRecords(ctx context.Context) ([]models.OverlayRecord, error) {
	raw, err := r.store.Get(ctx, KeyOverlaysInfo)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load overlay records: %w", err)
	}
	return decodeOverlayRecords(raw), nil
}

// AppendOverlayRecord adds record to the end of the persisted list.
// The whole list is read and rewritten.
func (r *VisitRepository) AppendOverlayRecord(ctx context.Context, record models.OverlayRecord) error {
	err := r.store.Update(ctx, KeyOverlaysInfo, func(current string, found bool) (string, error) {
		var records []models.OverlayRecord
		if found {
			records = decodeOverlayRecords(current)
		}
		records = append(records, record)

		data, err := json.Marshal(records)
		if err != nil {
			return "", fmt.Errorf("failed to encode overlay records: %w", err)
		}
		return string(data), nil
	})
	if err != nil {
		return fmt.Errorf("failed to save overlay records: %w", err)
	}
	return nil
}

func decodeOverlayRecords(raw string) []models.OverlayRecord {
	var records []models.OverlayRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		log.Printf("[Repository] Ignoring malformed %s: %v", KeyOverlaysInfo, err)
		return nil
	}

	valid := records[:0]
	for _, rec := range records {
		if rec.CellKey == "" {
			continue
		}
		valid = append(valid, rec)
	}
	if skipped := len(records) - len(valid); skipped > 0 {
		log.Printf("[Repository] Skipped %d overlay records without a cell key", skipped)
	}
	return valid
}
