package zoomtree

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// RasterPainter paints into an in-memory RGBA image without a GPU or window.
// It backs headless rendering, golden-image tests and scripted screenshots.
// Fills use the non-zero winding rule of golang.org/x/image/vector.
type RasterPainter struct {
	Target *image.RGBA

	z    *vector.Rasterizer
	path []Vec2
}

// NewRasterPainter returns a painter with a w x h transparent target.
func NewRasterPainter(w, h int) *RasterPainter {
	return &RasterPainter{
		Target: image.NewRGBA(image.Rect(0, 0, w, h)),
		z:      vector.NewRasterizer(w, h),
	}
}

func (p *RasterPainter) clipRect(r Bounds) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.MaxX())), int(math.Ceil(r.MaxY())),
	).Intersect(p.Target.Bounds())
}

// Clear replaces the damaged region with bg.
func (p *RasterPainter) Clear(ctx *RenderContext, bg Color) {
	r := p.clipRect(ctx.Clip)
	draw.Draw(p.Target, r, image.NewUniform(bg.toRGBA()), image.Point{}, draw.Src)
}

// Paint draws one shape.
func (p *RasterPainter) Paint(shape *Shape, st Style, ctx *RenderContext) {
	clip := p.clipRect(ctx.Clip)
	if clip.Empty() {
		return
	}
	mag := ctx.Magnification

	switch shape.kind() {
	case ShapeText:
		p.paintText(clip, shape, st, ctx)
		return
	case ShapeImage:
		if shape.Image != nil {
			p.paintImage(clip, shape.Image, shape.Box(), ctx.Transform, ctx.Alpha)
		}
	}

	p.path, _ = shapePath(shape, mag, p.path)
	if fills(shape) && st.Fill.A > 0 && len(p.path) >= 3 {
		p.begin(clip)
		p.addPolygon(clip, p.path, ctx.Transform)
		p.fill(clip, st.Fill.WithAlpha(ctx.Alpha))
	}

	if st.Stroke.A > 0 {
		pts, closed := shapePath(shape, mag, p.path)
		p.path = pts
		p.begin(clip)
		strokeQuads(pts, closed, strokeHalfWidth(&st, mag), func(q [4]Vec2) {
			p.addPolygon(clip, q[:], ctx.Transform)
		})
		p.fill(clip, st.Stroke.WithAlpha(ctx.Alpha))
	}
}

func (p *RasterPainter) begin(clip image.Rectangle) {
	p.z.Reset(clip.Dx(), clip.Dy())
	p.z.DrawOp = draw.Over
}

// addPolygon adds the closed path pts, mapped by xf and made relative to the
// clip origin.
func (p *RasterPainter) addPolygon(clip image.Rectangle, pts []Vec2, xf Transform) {
	ox, oy := float64(clip.Min.X), float64(clip.Min.Y)
	for i, pt := range pts {
		x, y := xf.Apply(pt.X, pt.Y)
		fx, fy := float32(x-ox), float32(y-oy)
		if i == 0 {
			p.z.MoveTo(fx, fy)
		} else {
			p.z.LineTo(fx, fy)
		}
	}
	p.z.ClosePath()
}

func (p *RasterPainter) fill(clip image.Rectangle, c Color) {
	p.z.Draw(p.Target, clip, image.NewUniform(c.toRGBA()), image.Point{})
}

// paintImage draws src stretched over box (local space) mapped by xf.
func (p *RasterPainter) paintImage(clip image.Rectangle, src image.Image, box Bounds, xf Transform, alpha float64) {
	sb := src.Bounds()
	if sb.Empty() || box.IsEmpty() {
		return
	}
	// source pixel -> local box -> screen
	m := xf.Multiply(Transform{
		A:  box.Width / float64(sb.Dx()),
		D:  box.Height / float64(sb.Dy()),
		Tx: box.X - float64(sb.Min.X)*box.Width/float64(sb.Dx()),
		Ty: box.Y - float64(sb.Min.Y)*box.Height/float64(sb.Dy()),
	})
	s2d := f64.Aff3{m.A, m.C, m.Tx, m.B, m.D, m.Ty}
	var opts *draw.Options
	if alpha < 1 {
		opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: uint8(clamp01(alpha) * 255)})}
	}
	dst := p.Target.SubImage(clip).(*image.RGBA)
	draw.BiLinear.Transform(dst, s2d, src, sb, draw.Over, opts)
}

// paintText renders the text unscaled into a scratch mask, then maps it
// through the full transform like an image.
func (p *RasterPainter) paintText(clip image.Rectangle, shape *Shape, st Style, ctx *RenderContext) {
	if shape.Text == "" || st.Fill.A <= 0 {
		return
	}
	w, h := MeasureText(shape.Text)
	if w <= 0 || h <= 0 {
		return
	}
	tmp := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	d := font.Drawer{
		Dst:  tmp,
		Src:  image.NewUniform(st.Fill.toRGBA()),
		Face: TextFace,
		Dot:  fixed.P(0, TextFace.Metrics().Ascent.Ceil()),
	}
	d.DrawString(shape.Text)
	p.paintImage(clip, tmp, shape.Box(), ctx.Transform, ctx.Alpha)
}

// Snapshot returns the target as a straight-alpha image.
func (p *RasterPainter) Snapshot() *image.NRGBA {
	b := p.Target.Bounds()
	return unpremultiply(p.Target.Pix, b.Dx(), b.Dy())
}

// At returns the straight-alpha color of the target pixel at (x, y).
func (p *RasterPainter) At(x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(p.Target.At(x, y)).(color.NRGBA)
}
