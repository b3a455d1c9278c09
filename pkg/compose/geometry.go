package compose

import "gonum.org/v1/gonum/spatial/r2"

// Modifiers carries the keyboard modifier state attached to a pointer event.
// The selection handler uses it to decide between exclusive and additive
// selection semantics.
type Modifiers struct {
	Ctrl  bool
	Shift bool
	Alt   bool
}

// Rect is a screen-space rectangle. Min and Max are corner points; a Rect
// is canonical when Min.X <= Max.X and Min.Y <= Max.Y.
type Rect struct {
	Min r2.Vec
	Max r2.Vec
}

// RectFromCorners returns the canonical rectangle spanned by two arbitrary
// corner points.
func RectFromCorners(a, b r2.Vec) Rect {
	return Rect{Min: a, Max: b}.Canon()
}

// Canon returns the rectangle with Min and Max swapped per axis as needed
// so that Min is the top-left corner.
func (r Rect) Canon() Rect {
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Contains reports whether p lies within the rectangle. Bounds are
// inclusive, matching cell-based picking where a rectangle covers whole
// cells.
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Size returns the rectangle's extent as a vector.
func (r Rect) Size() r2.Vec {
	return r.Max.Sub(r.Min)
}
