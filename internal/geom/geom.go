// Package geom provides the geometric types shared across pitchmark and the
// contain-fit mapping between video space and screen space.
package geom

import "math"

// Point is a position in video-space pixels. Radius and CreatedAtMs are only
// meaningful for chain nodes, where each node carries its own size and
// animation start time.
type Point struct {
	X, Y        float64
	Radius      float64
	CreatedAtMs int64
}

// Pt creates a plain point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Add returns the sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Rect is an axis-aligned rectangle in video space.
type Rect struct {
	X, Y, Width, Height float64
}

// NewRect builds a rectangle from two corners, normalizing so that width and
// height are non-negative.
func NewRect(x1, y1, x2, y2 float64) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Mapping is the contain-fit (letterbox/pillarbox) transform that places the
// media rectangle inside the canvas. Shape geometry is stored in video space;
// only this mapping changes when the canvas is resized.
type Mapping struct {
	Scale      float64
	OffsetX    float64
	OffsetY    float64
	DrawWidth  float64
	DrawHeight float64
}

// FitMapping computes the contain-fit mapping for the given canvas and media
// dimensions. When the media dimensions are not yet known it returns an
// identity-like mapping covering the whole canvas instead of failing.
func FitMapping(canvasW, canvasH, mediaW, mediaH float64) Mapping {
	if mediaW <= 0 || mediaH <= 0 || canvasW <= 0 || canvasH <= 0 {
		return Mapping{Scale: 1, DrawWidth: canvasW, DrawHeight: canvasH}
	}
	scale := math.Min(canvasW/mediaW, canvasH/mediaH)
	dw := mediaW * scale
	dh := mediaH * scale
	return Mapping{
		Scale:      scale,
		OffsetX:    (canvasW - dw) / 2,
		OffsetY:    (canvasH - dh) / 2,
		DrawWidth:  dw,
		DrawHeight: dh,
	}
}

// ToScreen maps a video-space point to screen space.
func (m Mapping) ToScreen(p Point) Point {
	return Point{X: p.X*m.Scale + m.OffsetX, Y: p.Y*m.Scale + m.OffsetY}
}

// ToVideo inverse-maps a screen-space point (e.g. a pointer event) to video
// space.
func (m Mapping) ToVideo(p Point) Point {
	if m.Scale == 0 {
		return p
	}
	return Point{X: (p.X - m.OffsetX) / m.Scale, Y: (p.Y - m.OffsetY) / m.Scale}
}
