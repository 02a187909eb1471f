package zoomtree

import "math"

// Geometry shared by the painters: shapes are flattened to local-space point
// lists, then mapped to the screen by each backend.

const (
	minEllipseSegments = 12
	maxEllipseSegments = 256
)

// ellipseSegments picks a segment count keeping chords about 4 screen pixels
// long at magnification mag.
func ellipseSegments(rx, ry, mag float64) int {
	r := math.Max(rx, ry) * mag
	n := int(math.Ceil(2 * math.Pi * r / 4))
	return max(minEllipseSegments, min(n, maxEllipseSegments))
}

// shapePath returns the outline of s in local space and whether it is
// closed. Text and image shapes return their box.
func shapePath(s *Shape, mag float64, buf []Vec2) ([]Vec2, bool) {
	buf = buf[:0]
	switch s.kind() {
	case ShapeRect, ShapeText, ShapeImage:
		x0, y0 := s.X, s.Y
		x1, y1 := s.X+s.Width, s.Y+s.Height
		buf = append(buf, Vec2{x0, y0}, Vec2{x1, y0}, Vec2{x1, y1}, Vec2{x0, y1})
		return buf, true
	case ShapeEllipse:
		rx, ry := s.Width/2, s.Height/2
		cx, cy := s.X+rx, s.Y+ry
		n := ellipseSegments(rx, ry, mag)
		for i := 0; i < n; i++ {
			a := 2 * math.Pi * float64(i) / float64(n)
			buf = append(buf, Vec2{cx + rx*math.Cos(a), cy + ry*math.Sin(a)})
		}
		return buf, true
	case ShapePolygon:
		return append(buf, s.Points...), true
	case ShapePolyline:
		return append(buf, s.Points...), false
	}
	return buf, false
}

// fills reports whether the shape kind has an interior to fill.
func fills(s *Shape) bool {
	switch s.kind() {
	case ShapeRect, ShapeEllipse, ShapePolygon:
		return true
	}
	return false
}

// strokeHalfWidth returns half the pen width in local units. A zero pen
// width is a one-pixel hairline at any magnification.
func strokeHalfWidth(st *Style, mag float64) float64 {
	if st.PenWidth > 0 {
		return st.PenWidth / 2
	}
	if mag <= 0 {
		return 0
	}
	return 0.5 / mag
}

// strokeQuads calls emit with the four corners of a quad covering each
// segment of pts widened by hw on both sides.
func strokeQuads(pts []Vec2, closed bool, hw float64, emit func(q [4]Vec2)) {
	n := len(pts)
	if n < 2 || hw <= 0 {
		return
	}
	segs := n - 1
	if closed {
		segs = n
	}
	for i := 0; i < segs; i++ {
		a, b := pts[i], pts[(i+1)%n]
		px, py := perpendicular(a, b)
		// Extend along the segment so consecutive quads overlap at joints.
		dx, dy := py*hw, -px*hw
		emit([4]Vec2{
			{a.X - dx + px*hw, a.Y - dy + py*hw},
			{b.X + dx + px*hw, b.Y + dy + py*hw},
			{b.X + dx - px*hw, b.Y + dy - py*hw},
			{a.X - dx - px*hw, a.Y - dy - py*hw},
		})
	}
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}
