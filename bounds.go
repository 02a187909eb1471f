package zoomtree

import "math"

// Bounds is an axis-aligned rectangle with an explicit empty state. The zero
// value is empty. The coordinate system has its origin at the top-left, with
// Y increasing downward.
//
// An empty Bounds is the identity of Union. A zero-area Bounds built from a
// point or a degenerate shape is not empty.
type Bounds struct {
	X, Y, Width, Height float64
	valid               bool
}

// EmptyBounds returns an empty Bounds.
func EmptyBounds() Bounds {
	return Bounds{}
}

// NewBounds returns a non-empty Bounds. Negative or NaN sizes are clamped to
// zero and NaN origins to zero.
func NewBounds(x, y, w, h float64) Bounds {
	return Bounds{
		X:      finiteOr(x, 0),
		Y:      finiteOr(y, 0),
		Width:  clampSize(w),
		Height: clampSize(h),
		valid:  true,
	}
}

// BoundsFromPoints returns the smallest Bounds containing all points.
func BoundsFromPoints(pts []Vec2) Bounds {
	var b Bounds
	for _, p := range pts {
		b.AddPoint(p.X, p.Y)
	}
	return b
}

// IsEmpty reports whether b is empty.
func (b Bounds) IsEmpty() bool {
	return !b.valid
}

// MinX returns the left edge.
func (b Bounds) MinX() float64 { return b.X }

// MinY returns the top edge.
func (b Bounds) MinY() float64 { return b.Y }

// MaxX returns the right edge.
func (b Bounds) MaxX() float64 { return b.X + b.Width }

// MaxY returns the bottom edge.
func (b Bounds) MaxY() float64 { return b.Y + b.Height }

// Area returns Width*Height, or 0 for empty bounds.
func (b Bounds) Area() float64 {
	if b.IsEmpty() {
		return 0
	}
	return b.Width * b.Height
}

// Center returns the center point.
func (b Bounds) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// Union grows b to include o. Empty o leaves b unchanged; empty b becomes o.
func (b *Bounds) Union(o Bounds) {
	if o.IsEmpty() {
		return
	}
	if b.IsEmpty() {
		*b = o
		return
	}
	minX := math.Min(b.X, o.X)
	minY := math.Min(b.Y, o.Y)
	maxX := math.Max(b.MaxX(), o.MaxX())
	maxY := math.Max(b.MaxY(), o.MaxY())
	*b = Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY, valid: true}
}

// United returns the union of b and o without modifying b.
func (b Bounds) United(o Bounds) Bounds {
	b.Union(o)
	return b
}

// AddPoint grows b to include (x, y). NaN coordinates are ignored.
func (b *Bounds) AddPoint(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return
	}
	b.Union(Bounds{X: x, Y: y, valid: true})
}

// Contains reports whether (x, y) lies inside b. Points on the edge are
// considered inside. Empty bounds contain nothing.
func (b Bounds) Contains(x, y float64) bool {
	if b.IsEmpty() {
		return false
	}
	return x >= b.X && x <= b.MaxX() &&
		y >= b.Y && y <= b.MaxY()
}

// Intersects reports whether b and o overlap. Rectangles sharing only an edge
// are considered intersecting. Empty bounds intersect nothing.
func (b Bounds) Intersects(o Bounds) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return false
	}
	return b.X <= o.MaxX() &&
		b.MaxX() >= o.X &&
		b.Y <= o.MaxY() &&
		b.MaxY() >= o.Y
}

// Intersection returns the overlap of b and o, or empty bounds.
func (b Bounds) Intersection(o Bounds) Bounds {
	if !b.Intersects(o) {
		return Bounds{}
	}
	minX := math.Max(b.X, o.X)
	minY := math.Max(b.Y, o.Y)
	maxX := math.Min(b.MaxX(), o.MaxX())
	maxY := math.Min(b.MaxY(), o.MaxY())
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY, valid: true}
}

// Expand returns b grown by d on every side. Empty bounds stay empty; a
// negative d never shrinks below zero size.
func (b Bounds) Expand(d float64) Bounds {
	if b.IsEmpty() || d == 0 || math.IsNaN(d) {
		return b
	}
	nb := Bounds{X: b.X - d, Y: b.Y - d, Width: b.Width + 2*d, Height: b.Height + 2*d, valid: true}
	if nb.Width < 0 {
		nb.X += nb.Width / 2
		nb.Width = 0
	}
	if nb.Height < 0 {
		nb.Y += nb.Height / 2
		nb.Height = 0
	}
	return nb
}

// Transform returns b mapped through t. Transforming empty bounds is a no-op.
func (b Bounds) Transform(t Transform) Bounds {
	return t.TransformBounds(b)
}

// Equal reports whether b and o describe the same rectangle within eps.
// Two empty bounds are equal.
func (b Bounds) Equal(o Bounds, eps float64) bool {
	if b.IsEmpty() || o.IsEmpty() {
		return b.IsEmpty() == o.IsEmpty()
	}
	return math.Abs(b.X-o.X) <= eps && math.Abs(b.Y-o.Y) <= eps &&
		math.Abs(b.Width-o.Width) <= eps && math.Abs(b.Height-o.Height) <= eps
}

func clampSize(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

func finiteOr(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
