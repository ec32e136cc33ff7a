package models

import (
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Rect is a rectangle in normalized image coordinates (0.0-1.0 across the image)
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width" binding:"gte=0"`
	Height float64 `json:"height" binding:"gte=0"`
}

// R2 converts the rectangle into an r2.Rect spanning [x, x+width] x [y, y+height]
func (r Rect) R2() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: r.X, Hi: r.X + r.Width},
		Y: r1.Interval{Lo: r.Y, Hi: r.Y + r.Height},
	}
}

// RectFromR2 converts an r2.Rect back into a normalized rectangle.
// An empty r2.Rect becomes the zero Rect.
func RectFromR2(r r2.Rect) Rect {
	if r.IsEmpty() {
		return Rect{}
	}
	size := r.Size()
	return Rect{X: r.X.Lo, Y: r.Y.Lo, Width: size.X, Height: size.Y}
}

// ViewportReport is a viewport change pushed by the viewer client
type ViewportReport struct {
	Zoom   float64 `json:"zoom" binding:"required,gt=0"`
	Bounds *Rect   `json:"bounds" binding:"required"`
}
