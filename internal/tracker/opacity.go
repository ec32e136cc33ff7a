package tracker

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Blue is the default overlay color
var Blue = color.RGBA{R: 0, G: 0, B: 255, A: 255}

// OpacityFromZoom maps the zoom range [minZoom, maxZoom] linearly onto [0, 1].
// Zoom levels outside the range are clamped.
func OpacityFromZoom(zoom, minZoom, maxZoom float64) float64 {
	if maxZoom <= minZoom {
		if zoom >= maxZoom {
			return 1
		}
		return 0
	}
	opacity := (zoom - minZoom) / (maxZoom - minZoom)
	if opacity < 0 {
		return 0
	}
	if opacity > 1 {
		return 1
	}
	return opacity
}

// FormatColor renders the base color with the given opacity as a CSS rgba() value
func FormatColor(base color.RGBA, opacity float64) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", base.R, base.G, base.B,
		strconv.FormatFloat(opacity, 'f', -1, 64))
}

// ParseColor parses an "R, G, B" triple such as "0, 0, 255"
func ParseColor(s string) (color.RGBA, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("color must be \"R, G, B\", got %q", s)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color component %q: %w", p, err)
		}
		rgb[i] = uint8(v)
	}
	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}, nil
}
