package tracker

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	"github.com/jengzang/visit-tracker-go/internal/models"
)

// ErrInvalidCellKey is returned when a string does not have the "cx,cy" form
var ErrInvalidCellKey = errors.New("invalid cell key")

// CellKey identifies a grid cell, formatted as "cx,cy"
type CellKey string

// Grid partitions normalized image space into square cells of a fixed size.
// The grid is unbounded: coordinates outside [0,1] still map to valid cells.
type Grid struct {
	cellSize float64
}

// NewGrid creates a grid with the given cell size
func NewGrid(cellSize float64) (*Grid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 1) {
		return nil, fmt.Errorf("%w: cell size must be positive, got %v", ErrInvalidConfig, cellSize)
	}
	return &Grid{cellSize: cellSize}, nil
}

// CellSize returns the edge length of a cell
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

// ComputeCellKey returns the key of the cell containing the top-left corner of bounds
func (g *Grid) ComputeCellKey(bounds models.Rect) CellKey {
	return g.keyFor(r2.Point{X: bounds.X, Y: bounds.Y})
}

func (g *Grid) keyFor(p r2.Point) CellKey {
	return FormatCellKey(cellIndex(p.X, g.cellSize), cellIndex(p.Y, g.cellSize))
}

// cellIndex floors v/size, saturating at the int64 range. NaN maps to cell 0.
func cellIndex(v, size float64) int64 {
	f := math.Floor(v / size)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// FormatCellKey builds the key for integer cell coordinates
func FormatCellKey(cx, cy int64) CellKey {
	return CellKey(strconv.FormatInt(cx, 10) + "," + strconv.FormatInt(cy, 10))
}

// ParseCellKey splits a key back into its integer cell coordinates
func ParseCellKey(key CellKey) (cx, cy int64, err error) {
	xs, ys, ok := strings.Cut(string(key), ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, key)
	}
	cx, err = strconv.ParseInt(xs, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, key)
	}
	cy, err = strconv.ParseInt(ys, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCellKey, key)
	}
	return cx, cy, nil
}

// CellRect returns the square covered by the cell with the given key
func (g *Grid) CellRect(key CellKey) (r2.Rect, error) {
	cx, cy, err := ParseCellKey(key)
	if err != nil {
		return r2.EmptyRect(), err
	}
	x := float64(cx) * g.cellSize
	y := float64(cy) * g.cellSize
	return r2.Rect{
		X: r1.Interval{Lo: x, Hi: x + g.cellSize},
		Y: r1.Interval{Lo: y, Hi: y + g.cellSize},
	}, nil
}
