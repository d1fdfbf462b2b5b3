// Package core holds the plain types shared by the simulation and the
// terminal platform: geometry, the screen buffer, input frames and
// runtime settings. It has no UI dependencies.
package core

// Rect is an integer rectangle in screen cells.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains returns true if the cell (x, y) is inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Vec is a point or displacement in world pixels.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }

// RectF is an axis-aligned box in world pixels.
type RectF struct {
	X, Y float64
	W, H float64
}

// NewRectF creates a box with its top-left corner at pos.
func NewRectF(pos Vec, w, h float64) RectF {
	return RectF{X: pos.X, Y: pos.Y, W: w, H: h}
}

func (r RectF) Right() float64  { return r.X + r.W }
func (r RectF) Bottom() float64 { return r.Y + r.H }

// Intersects reports whether two boxes overlap. Touching edges do not
// count.
func (r RectF) Intersects(o RectF) bool {
	if r.X >= o.Right() || o.X >= r.Right() {
		return false
	}
	if r.Y >= o.Bottom() || o.Y >= r.Bottom() {
		return false
	}
	return true
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	return max(lo, min(hi, val))
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	return max(lo, min(hi, val))
}
