package zoomtree

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used as
// the source for untextured triangles.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}

// EbitenPainter paints into an ebiten image. The target is expected to
// persist between frames: only damaged regions are redrawn.
type EbitenPainter struct {
	Target *ebiten.Image

	face   *text.GoXFace
	path   []Vec2
	verts  []ebiten.Vertex
	inds   []uint32
	images map[image.Image]*ebiten.Image
}

// NewEbitenPainter returns a painter drawing into target.
func NewEbitenPainter(target *ebiten.Image) *EbitenPainter {
	return &EbitenPainter{
		Target: target,
		face:   text.NewGoXFace(TextFace),
		images: make(map[image.Image]*ebiten.Image),
	}
}

// clip returns the part of the target inside r. Sub-images keep the target's
// coordinate system, so screen coordinates draw unchanged.
func (p *EbitenPainter) clip(r Bounds) *ebiten.Image {
	rect := image.Rect(
		int(math.Floor(r.X)), int(math.Floor(r.Y)),
		int(math.Ceil(r.MaxX())), int(math.Ceil(r.MaxY())),
	)
	return p.Target.SubImage(rect).(*ebiten.Image)
}

// Clear fills the damaged region with bg.
func (p *EbitenPainter) Clear(ctx *RenderContext, bg Color) {
	p.clip(ctx.Clip).Fill(bg)
}

// Paint draws one shape.
func (p *EbitenPainter) Paint(shape *Shape, st Style, ctx *RenderContext) {
	dst := p.clip(ctx.Clip)
	mag := ctx.Magnification

	switch shape.kind() {
	case ShapeText:
		p.paintText(dst, shape, st, ctx)
		return
	case ShapeImage:
		p.paintImage(dst, shape, ctx)
	}

	p.path, _ = shapePath(shape, mag, p.path)
	if fills(shape) && st.Fill.A > 0 && len(p.path) >= 3 {
		p.begin()
		p.appendFan(p.path, ctx.Transform, st.Fill.WithAlpha(ctx.Alpha))
		p.flush(dst, ebiten.FillRuleEvenOdd)
	}

	if st.Stroke.A > 0 {
		pts, closed := shapePath(shape, mag, p.path)
		p.path = pts
		c := st.Stroke.WithAlpha(ctx.Alpha)
		p.begin()
		strokeQuads(pts, closed, strokeHalfWidth(&st, mag), func(q [4]Vec2) {
			p.appendFan(q[:], ctx.Transform, c)
		})
		p.flush(dst, ebiten.FillRuleNonZero)
	}
}

func (p *EbitenPainter) begin() {
	p.verts = p.verts[:0]
	p.inds = p.inds[:0]
}

// appendFan appends pts as a triangle fan mapped by xf and colored c.
func (p *EbitenPainter) appendFan(pts []Vec2, xf Transform, c Color) {
	if len(pts) < 3 {
		return
	}
	base := uint32(len(p.verts))
	r := float32(c.R * c.A)
	g := float32(c.G * c.A)
	b := float32(c.B * c.A)
	a := float32(c.A)
	for _, pt := range pts {
		x, y := xf.Apply(pt.X, pt.Y)
		p.verts = append(p.verts, ebiten.Vertex{
			DstX: float32(x), DstY: float32(y),
			SrcX: 0.5, SrcY: 0.5,
			ColorR: r, ColorG: g, ColorB: b, ColorA: a,
		})
	}
	for i := 1; i < len(pts)-1; i++ {
		p.inds = append(p.inds, base, base+uint32(i), base+uint32(i+1))
	}
}

func (p *EbitenPainter) flush(dst *ebiten.Image, rule ebiten.FillRule) {
	if len(p.inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	op.FillRule = rule
	op.AntiAlias = true
	dst.DrawTriangles32(p.verts, p.inds, ensureWhitePixel(), &op)
}

func (p *EbitenPainter) paintText(dst *ebiten.Image, shape *Shape, st Style, ctx *RenderContext) {
	if shape.Text == "" || st.Fill.A <= 0 {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(shape.X, shape.Y)
	op.GeoM.Concat(geoM(ctx.Transform))
	op.ColorScale.ScaleWithColor(st.Fill.WithAlpha(ctx.Alpha))
	op.Filter = ebiten.FilterLinear
	text.Draw(dst, shape.Text, p.face, op)
}

func (p *EbitenPainter) paintImage(dst *ebiten.Image, shape *Shape, ctx *RenderContext) {
	if shape.Image == nil {
		return
	}
	img := p.ebitenImage(shape.Image)
	ib := img.Bounds()
	if ib.Dx() == 0 || ib.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(shape.Width/float64(ib.Dx()), shape.Height/float64(ib.Dy()))
	op.GeoM.Translate(shape.X, shape.Y)
	op.GeoM.Concat(geoM(ctx.Transform))
	op.ColorScale.ScaleAlpha(float32(ctx.Alpha))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(img, op)
}

// ebitenImage uploads src once and reuses the texture afterwards.
func (p *EbitenPainter) ebitenImage(src image.Image) *ebiten.Image {
	if img, ok := src.(*ebiten.Image); ok {
		return img
	}
	if img, ok := p.images[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	p.images[src] = img
	return img
}

// Forget releases the texture uploaded for src, if any.
func (p *EbitenPainter) Forget(src image.Image) {
	if img, ok := p.images[src]; ok {
		img.Deallocate()
		delete(p.images, src)
	}
}

// Snapshot reads the target back as a straight-alpha image.
func (p *EbitenPainter) Snapshot() *image.NRGBA {
	b := p.Target.Bounds()
	pixels := make([]byte, 4*b.Dx()*b.Dy())
	p.Target.ReadPixels(pixels)
	return unpremultiply(pixels, b.Dx(), b.Dy())
}

func geoM(t Transform) ebiten.GeoM {
	var m ebiten.GeoM
	m.SetElement(0, 0, t.A)
	m.SetElement(0, 1, t.C)
	m.SetElement(0, 2, t.Tx)
	m.SetElement(1, 0, t.B)
	m.SetElement(1, 1, t.D)
	m.SetElement(1, 2, t.Ty)
	return m
}
