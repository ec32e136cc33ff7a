package config

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"github.com/jengzang/visit-tracker-go/internal/tracker"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "STORE_BACKEND", "CELL_SIZE", "ZOOM_THRESHOLD",
		"MIN_ZOOM", "MAX_ZOOM", "DEBOUNCE_MS", "OVERLAY_COLOR", "TILE_SOURCE_URL", "RATE_LIMIT", "RATE_WINDOW_S"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}

	tc, err := cfg.Tracker()
	if err != nil {
		t.Fatalf("Tracker: %v", err)
	}
	want := tracker.DefaultConfig()
	if tc != want {
		t.Errorf("tracker config = %+v, want %+v", tc, want)
	}
	if cfg.Port != ":8080" || cfg.StoreBackend != StoreSQLite {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CELL_SIZE", "0.05")
	t.Setenv("ZOOM_THRESHOLD", "4")
	t.Setenv("DEBOUNCE_MS", "350")
	t.Setenv("OVERLAY_COLOR", "255, 0, 0")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("MAX_ZOOM", "not-a-number")

	cfg := Load()
	tc, err := cfg.Tracker()
	if err != nil {
		t.Fatalf("Tracker: %v", err)
	}
	if tc.CellSize != 0.05 || tc.ZoomThreshold != 4 || tc.DebounceWindow != 350*time.Millisecond {
		t.Errorf("tracker config = %+v", tc)
	}
	if tc.Color != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("color = %+v", tc.Color)
	}
	if tc.MaxZoom != 100 {
		t.Errorf("unparsable MAX_ZOOM gave %v, want default", tc.MaxZoom)
	}
	if cfg.StoreBackend != StoreMemory {
		t.Errorf("store backend = %q", cfg.StoreBackend)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cell size", func(c *Config) { c.CellSize = 0 }},
		{"empty zoom range", func(c *Config) { c.MinZoom, c.MaxZoom = 5, 5 }},
		{"bad color", func(c *Config) { c.OverlayColor = "blue" }},
		{"bad backend", func(c *Config) { c.StoreBackend = "redis" }},
		{"bad rate limit", func(c *Config) { c.RateLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				StoreBackend:   StoreSQLite,
				CellSize:       0.01,
				ZoomThreshold:  2,
				MinZoom:        1,
				MaxZoom:        100,
				DebounceMs:     200,
				OverlayColor:   "0, 0, 255",
				RateLimit:      10,
				RateWindowSecs: 60,
			}
			if err := cfg.Validate(); err != nil {
				t.Fatalf("base config invalid: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate succeeded")
			}
		})
	}

	cfg := &Config{CellSize: -1, MinZoom: 1, MaxZoom: 2, OverlayColor: "0, 0, 255"}
	if _, err := cfg.Tracker(); !errors.Is(err, tracker.ErrInvalidConfig) {
		t.Errorf("Tracker error = %v, want ErrInvalidConfig", err)
	}
}
