package zoomtree

import "math"

// Transform is a 2D affine matrix.
//
//	| A  C  Tx |
//	| B  D  Ty |
//	| 0  0   1 |
//
// A point (x, y) maps to (A*x + C*y + Tx, B*x + D*y + Ty).
type Transform struct {
	A, B, C, D, Tx, Ty float64
}

// singularEpsilon is the determinant magnitude below which a matrix is
// treated as non-invertible.
const singularEpsilon = 1e-12

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, D: 1}
}

// TranslateTransform returns a pure translation.
func TranslateTransform(dx, dy float64) Transform {
	return Transform{A: 1, D: 1, Tx: dx, Ty: dy}
}

// ScaleTransform returns a pure scale about the origin.
func ScaleTransform(sx, sy float64) Transform {
	return Transform{A: sx, D: sy}
}

// RotateTransform returns a rotation about the origin by theta radians.
func RotateTransform(theta float64) Transform {
	sin, cos := math.Sincos(theta)
	return Transform{A: cos, B: sin, C: -sin, D: cos}
}

// SkewTransform returns a skew by the given angles in radians.
func SkewTransform(kx, ky float64) Transform {
	return Transform{A: 1, B: math.Tan(ky), C: math.Tan(kx), D: 1}
}

// IsIdentity reports whether t is exactly the identity.
func (t Transform) IsIdentity() bool {
	return t == Identity()
}

// Multiply returns t * o: o is applied first, then t.
func (t Transform) Multiply(o Transform) Transform {
	return Transform{
		A:  t.A*o.A + t.C*o.B,
		B:  t.B*o.A + t.D*o.B,
		C:  t.A*o.C + t.C*o.D,
		D:  t.B*o.C + t.D*o.D,
		Tx: t.A*o.Tx + t.C*o.Ty + t.Tx,
		Ty: t.B*o.Tx + t.D*o.Ty + t.Ty,
	}
}

// Determinant returns the determinant of the linear part.
func (t Transform) Determinant() float64 {
	return t.A*t.D - t.C*t.B
}

// Invert returns the inverse of t. If t is singular, the identity and false
// are returned.
func (t Transform) Invert() (Transform, bool) {
	det := t.Determinant()
	if det > -singularEpsilon && det < singularEpsilon {
		return Identity(), false
	}
	inv := 1.0 / det
	a := t.D * inv
	b := -t.B * inv
	c := -t.C * inv
	d := t.A * inv
	return Transform{
		A: a, B: b, C: c, D: d,
		Tx: -(a*t.Tx + c*t.Ty),
		Ty: -(b*t.Tx + d*t.Ty),
	}, true
}

// Apply maps a point through t.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return t.A*x + t.C*y + t.Tx, t.B*x + t.D*y + t.Ty
}

// ApplyVector maps a direction through the linear part of t only.
func (t Transform) ApplyVector(x, y float64) (float64, float64) {
	return t.A*x + t.C*y, t.B*x + t.D*y
}

// TransformBounds returns the axis-aligned box enclosing b's four corners
// after mapping through t. Empty bounds stay empty.
func (t Transform) TransformBounds(b Bounds) Bounds {
	if b.IsEmpty() {
		return b
	}
	x0, y0 := t.Apply(b.X, b.Y)
	x1, y1 := t.Apply(b.X+b.Width, b.Y)
	x2, y2 := t.Apply(b.X+b.Width, b.Y+b.Height)
	x3, y3 := t.Apply(b.X, b.Y+b.Height)

	minX := math.Min(math.Min(x0, x1), math.Min(x2, x3))
	minY := math.Min(math.Min(y0, y1), math.Min(y2, y3))
	maxX := math.Max(math.Max(x0, x1), math.Max(x2, x3))
	maxY := math.Max(math.Max(y0, y1), math.Max(y2, y3))
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY, valid: true}
}

// ScaleFactor returns the uniform scale of the linear part, sqrt(|det|).
// For a rotation combined with a uniform scale s this is exactly s.
func (t Transform) ScaleFactor() float64 {
	return math.Sqrt(math.Abs(t.Determinant()))
}

// Translation returns the translation components.
func (t Transform) Translation() (float64, float64) {
	return t.Tx, t.Ty
}

// --- In-place mutators ---

// Concat sets t = t * o, so o is applied before the existing transform.
func (t *Transform) Concat(o Transform) {
	*t = t.Multiply(o)
}

// PreConcat sets t = o * t, so o is applied after the existing transform.
func (t *Transform) PreConcat(o Transform) {
	*t = o.Multiply(*t)
}

// Translate concatenates a translation in t's source space.
func (t *Transform) Translate(dx, dy float64) {
	t.Concat(TranslateTransform(dx, dy))
}

// Scale concatenates a scale in t's source space.
func (t *Transform) Scale(sx, sy float64) {
	t.Concat(ScaleTransform(sx, sy))
}

// Rotate concatenates a rotation in t's source space.
func (t *Transform) Rotate(theta float64) {
	t.Concat(RotateTransform(theta))
}

// ScaleAbout concatenates a uniform scale by f about the source-space point
// (ax, ay): translate the anchor to the origin, scale, translate back.
func (t *Transform) ScaleAbout(f, ax, ay float64) {
	t.Concat(TranslateTransform(ax, ay))
	t.Concat(ScaleTransform(f, f))
	t.Concat(TranslateTransform(-ax, -ay))
}

// sanitized replaces non-finite components with the matching identity
// component so bounds and picking stay total.
func (t Transform) sanitized() Transform {
	id := Identity()
	fix := func(v, def float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return def
		}
		return v
	}
	return Transform{
		A:  fix(t.A, id.A),
		B:  fix(t.B, id.B),
		C:  fix(t.C, id.C),
		D:  fix(t.D, id.D),
		Tx: fix(t.Tx, 0),
		Ty: fix(t.Ty, 0),
	}
}
