package zoomtree

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// ShapeKind selects the geometry variant carried by a Shape.
type ShapeKind uint8

const (
	ShapeNone     ShapeKind = iota // no geometry (pure group)
	ShapeRect                      // axis-aligned box
	ShapeEllipse                   // ellipse inscribed in the box
	ShapePolyline                  // open polyline through Points
	ShapePolygon                   // closed polygon through Points, even-odd fill
	ShapeText                      // single line of text treated as an opaque measured box
	ShapeImage                     // raster image stretched over the box
	numShapeKinds
)

// TextFace is the face used to measure and draw ShapeText. Text is treated as
// an opaque box: no shaping, wrapping or kerning beyond what the face reports.
var TextFace font.Face = basicfont.Face7x13

// Shape is the drawable geometry of a node, in the node's local space. Only
// the fields relevant to Kind are used.
type Shape struct {
	Kind ShapeKind

	// Box for Rect, Ellipse, Text and Image.
	X, Y, Width, Height float64

	// Points for Polyline and Polygon.
	Points []Vec2

	// Text content for ShapeText.
	Text string

	// Image content for ShapeImage.
	Image image.Image
}

// Style is the paint state of a shape.
type Style struct {
	Fill     Color   // interior color; text color for ShapeText
	Stroke   Color   // outline color; line color for ShapePolyline
	PenWidth float64 // outline width in local units; 0 draws a hairline
}

// DefaultStyle fills white with no outline.
var DefaultStyle = Style{Fill: ColorWhite}

// RectShape returns a rectangle. Negative or NaN sizes clamp to zero.
func RectShape(x, y, w, h float64) Shape {
	b := NewBounds(x, y, w, h)
	return Shape{Kind: ShapeRect, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// EllipseShape returns the ellipse inscribed in the given box.
func EllipseShape(x, y, w, h float64) Shape {
	b := NewBounds(x, y, w, h)
	return Shape{Kind: ShapeEllipse, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// PolylineShape returns an open polyline. NaN points are dropped.
func PolylineShape(points ...Vec2) Shape {
	return Shape{Kind: ShapePolyline, Points: finitePoints(points)}
}

// PolygonShape returns a closed polygon. NaN points are dropped.
func PolygonShape(points ...Vec2) Shape {
	return Shape{Kind: ShapePolygon, Points: finitePoints(points)}
}

// TextShape returns a text box at (x, y) (top-left), measured with TextFace.
func TextShape(text string, x, y float64) Shape {
	w, h := MeasureText(text)
	b := NewBounds(x, y, w, h)
	return Shape{Kind: ShapeText, Text: text, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// MeasureText returns the advance width and line height of text in TextFace.
func MeasureText(text string) (w, h float64) {
	adv := font.MeasureString(TextFace, text)
	m := TextFace.Metrics()
	return float64(adv.Ceil()), float64(m.Height.Ceil())
}

// ImageShape returns an image placed in the given box. A non-positive w or h
// falls back to the image's own size.
func ImageShape(img image.Image, x, y, w, h float64) Shape {
	if img != nil && (w <= 0 || h <= 0) {
		ib := img.Bounds()
		w, h = float64(ib.Dx()), float64(ib.Dy())
	}
	b := NewBounds(x, y, w, h)
	return Shape{Kind: ShapeImage, Image: img, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height}
}

// Box returns the shape's box as Bounds (Rect, Ellipse, Text, Image).
func (s *Shape) Box() Bounds {
	return NewBounds(s.X, s.Y, s.Width, s.Height)
}

// Bounds returns the local-space bounds of s painted with st.
func (s *Shape) Bounds(st Style) Bounds {
	return shapeTable[s.kind()].bounds(s, &st)
}

// Contains reports whether the local point (x, y) hits s painted with st,
// allowing a distance tolerance tol in local units.
func (s *Shape) Contains(st Style, x, y, tol float64) bool {
	return shapeTable[s.kind()].contains(s, &st, x, y, tol)
}

// IsZero reports whether s carries no geometry.
func (s *Shape) IsZero() bool {
	return s.kind() == ShapeNone
}

func (s *Shape) kind() ShapeKind {
	if s.Kind >= numShapeKinds {
		return ShapeNone
	}
	return s.Kind
}

// halfPen returns half the stroke width when the style draws an outline.
func (st *Style) halfPen() float64 {
	if st.Stroke.A <= 0 || st.PenWidth <= 0 || math.IsNaN(st.PenWidth) {
		return 0
	}
	return st.PenWidth / 2
}

// --- Capability table ---

// shapeOps is the per-variant geometry capability set.
type shapeOps struct {
	bounds   func(s *Shape, st *Style) Bounds
	contains func(s *Shape, st *Style, x, y, tol float64) bool
}

var shapeTable = [numShapeKinds]shapeOps{
	ShapeNone: {
		bounds:   func(*Shape, *Style) Bounds { return Bounds{} },
		contains: func(*Shape, *Style, float64, float64, float64) bool { return false },
	},
	ShapeRect: {
		bounds:   boxBounds,
		contains: boxContains,
	},
	ShapeEllipse: {
		bounds:   boxBounds,
		contains: ellipseContains,
	},
	ShapePolyline: {
		bounds:   pointsBounds,
		contains: polylineContains,
	},
	ShapePolygon: {
		bounds:   pointsBounds,
		contains: polygonContains,
	},
	ShapeText: {
		bounds:   boxBounds,
		contains: boxContains,
	},
	ShapeImage: {
		bounds:   boxBounds,
		contains: boxContains,
	},
}

func boxBounds(s *Shape, st *Style) Bounds {
	return s.Box().Expand(st.halfPen())
}

func boxContains(s *Shape, st *Style, x, y, tol float64) bool {
	return s.Box().Expand(st.halfPen()+tol).Contains(x, y)
}

func pointsBounds(s *Shape, st *Style) Bounds {
	return BoundsFromPoints(s.Points).Expand(st.halfPen())
}

func ellipseContains(s *Shape, st *Style, x, y, tol float64) bool {
	grow := st.halfPen() + tol
	rx := s.Width/2 + grow
	ry := s.Height/2 + grow
	cx := s.X + s.Width/2
	cy := s.Y + s.Height/2
	dx := x - cx
	dy := y - cy
	if rx <= 0 || ry <= 0 {
		return dx == 0 && dy == 0
	}
	return (dx*dx)/(rx*rx)+(dy*dy)/(ry*ry) <= 1
}

func polylineContains(s *Shape, st *Style, x, y, tol float64) bool {
	return nearPath(s.Points, false, x, y, st.halfPen()+tol)
}

func polygonContains(s *Shape, st *Style, x, y, tol float64) bool {
	if evenOddInside(s.Points, x, y) {
		return true
	}
	return nearPath(s.Points, true, x, y, st.halfPen()+tol)
}

// nearPath reports whether (x, y) is within dist of the path through pts.
func nearPath(pts []Vec2, closed bool, x, y, dist float64) bool {
	switch len(pts) {
	case 0:
		return false
	case 1:
		return math.Hypot(x-pts[0].X, y-pts[0].Y) <= dist
	}
	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	for i := 0; i < n; i++ {
		a := pts[i]
		b := pts[(i+1)%len(pts)]
		if segmentDistance(a, b, x, y) <= dist {
			return true
		}
	}
	return false
}

// segmentDistance returns the distance from (x, y) to the segment ab.
func segmentDistance(a, b Vec2, x, y float64) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(x-a.X, y-a.Y)
	}
	t := ((x-a.X)*dx + (y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(x-(a.X+t*dx), y-(a.Y+t*dy))
}

// evenOddInside is the crossing-number point-in-polygon test.
func evenOddInside(pts []Vec2, x, y float64) bool {
	n := len(pts)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) {
			xc := (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y) + pi.X
			if x < xc {
				inside = !inside
			}
		}
	}
	return inside
}

// clone returns a copy of the shape that shares no point storage with sh.
func (sh Shape) clone() Shape {
	if sh.Points != nil {
		sh.Points = append([]Vec2(nil), sh.Points...)
	}
	return sh
}

func finitePoints(pts []Vec2) []Vec2 {
	out := make([]Vec2, 0, len(pts))
	for _, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		out = append(out, p)
	}
	return out
}
