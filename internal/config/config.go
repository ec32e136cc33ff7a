package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jengzang/visit-tracker-go/internal/tracker"
)

// Store backends
const (
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config 应用配置
type Config struct {
	Port          string
	DBPath        string
	StoreBackend  string // "sqlite" or "memory"
	TileSourceURL string // Handed to the viewer client, never fetched here

	CellSize      float64
	ZoomThreshold float64
	MinZoom       float64
	MaxZoom       float64
	DebounceMs    int
	OverlayColor  string // "R, G, B"

	RateLimit      int // Viewport reports per client per window
	RateWindowSecs int
}

// Load 加载配置
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/visits/visits.db"
	}

	storeBackend := os.Getenv("STORE_BACKEND")
	if storeBackend == "" {
		storeBackend = StoreSQLite
	}

	overlayColor := os.Getenv("OVERLAY_COLOR")
	if overlayColor == "" {
		overlayColor = "0, 0, 255"
	}

	return &Config{
		Port:           port,
		DBPath:         dbPath,
		StoreBackend:   storeBackend,
		TileSourceURL:  os.Getenv("TILE_SOURCE_URL"),
		CellSize:       envFloat("CELL_SIZE", 0.01),
		ZoomThreshold:  envFloat("ZOOM_THRESHOLD", 2),
		MinZoom:        envFloat("MIN_ZOOM", 1),
		MaxZoom:        envFloat("MAX_ZOOM", 100),
		DebounceMs:     envInt("DEBOUNCE_MS", 200),
		OverlayColor:   overlayColor,
		RateLimit:      envInt("RATE_LIMIT", 600),
		RateWindowSecs: envInt("RATE_WINDOW_S", 60),
	}
}

// Tracker builds the tracker settings, validating them on the way
func (c *Config) Tracker() (tracker.Config, error) {
	color, err := tracker.ParseColor(c.OverlayColor)
	if err != nil {
		return tracker.Config{}, fmt.Errorf("%w: %v", tracker.ErrInvalidConfig, err)
	}

	cfg := tracker.Config{
		CellSize:       c.CellSize,
		ZoomThreshold:  c.ZoomThreshold,
		MinZoom:        c.MinZoom,
		MaxZoom:        c.MaxZoom,
		Color:          color,
		DebounceWindow: c.DebounceWindow(),
	}
	if err := cfg.Validate(); err != nil {
		return tracker.Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that do not belong to the tracker itself
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.RateLimit <= 0 || c.RateWindowSecs <= 0 {
		return fmt.Errorf("rate limit and window must be positive")
	}
	_, err := c.Tracker()
	return err
}

// DebounceWindow returns the debounce window as a duration
func (c *Config) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}

// RateWindow returns the rate limiting window as a duration
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.RateWindowSecs) * time.Second
}

func envFloat(key string, def float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, raw, def)
		return def
	}
	return v
}

func envInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return v
}
