package zoomtree

import "time"

// Painter is a drawing backend. Flush calls Clear once with the damaged
// region, then Paint for every shape that may overlap it, back to front.
// Painters must restrict their output to ctx.Clip.
type Painter interface {
	// Clear fills ctx.Clip with bg.
	Clear(ctx *RenderContext, bg Color)
	// Paint draws shape with style, mapped to the screen by ctx.Transform and
	// faded by ctx.Alpha.
	Paint(shape *Shape, style Style, ctx *RenderContext)
}

// RenderContext carries the per-shape state of a render pass. A Painter must
// not retain it past the call.
type RenderContext struct {
	Camera *Camera

	// Node is the node whose shape is painted; zero during Clear.
	Node NodeID

	// Transform maps the shape's local space to screen space.
	Transform Transform

	// Clip is the screen-space region being repainted.
	Clip Bounds

	// Alpha is the accumulated opacity from semantic-zoom fades.
	Alpha float64

	// Magnification is the composite magnification at the node.
	Magnification float64

	Diagnostics *Diagnostics
}

// renderWalk holds the state of one camera flush.
type renderWalk struct {
	cam     *Camera
	painter Painter
	ctx     RenderContext
	diag    *Diagnostics

	visited int
	pruned  int
	painted int
}

// Flush repaints the camera's pending damage through p and clears it. It
// validates bounds first, so mutations made since the last Update are
// included. Returns false without painting if nothing is pending.
//
// Subtrees whose screen-space bounds miss the damaged region are skipped
// entirely. Shapes are painted back to front: layers in order, and within a
// node its own shape, then its semantic placeholder, then its children in
// order. The scene must not be mutated from inside p.
func (s *Scene) Flush(cam *Camera, p Painter, diag *Diagnostics) bool {
	s.checkMutable("Flush")
	s.validate()
	region := s.damage.Pending(cam)
	if region.IsEmpty() {
		return false
	}

	var t0 time.Time
	if diag != nil {
		t0 = time.Now()
	}

	s.rendering = true
	defer func() { s.rendering = false }()

	w := renderWalk{
		cam:     cam,
		painter: p,
		diag:    diag,
		ctx: RenderContext{
			Camera:        cam,
			Transform:     cam.view,
			Clip:          region,
			Alpha:         1,
			Magnification: cam.Magnification(),
			Diagnostics:   diag,
		},
	}
	p.Clear(&w.ctx, cam.background)

	for _, l := range cam.layers {
		n := s.get(l)
		if n == nil {
			continue
		}
		s.paintNode(&w, l, n, cam.view.Multiply(s.globalTransform(n)), 1, 0)
	}
	s.damage.Clear(cam)

	if diag != nil {
		elapsed := time.Since(t0)
		diag.CamerasFlushed++
		diag.NodesVisited += w.visited
		diag.NodesPruned += w.pruned
		diag.ShapesPainted += w.painted
		diag.DamageArea += region.Area()
		diag.FlushTime += elapsed
		diag.logFlush(cam, region, w.visited, w.pruned, w.painted, elapsed)
	}
	return true
}

// Draw flushes every camera with pending damage, in camera order, and then
// writes any queued screenshots if p can produce one. Returns the number of
// cameras repainted.
func (s *Scene) Draw(p Painter, diag *Diagnostics) int {
	flushed := 0
	for _, cam := range s.cameras {
		if s.Flush(cam, p, diag) {
			flushed++
		}
	}
	if snap, ok := p.(Snapshotter); ok {
		s.flushScreenshots(snap)
	}
	return flushed
}

// paintNode paints the subtree at id. xf maps id's local space to the screen.
func (s *Scene) paintNode(w *renderWalk, id NodeID, n *node, xf Transform, alpha float64, depth int) {
	if !n.visible || alpha <= 0 {
		return
	}
	w.visited++
	w.diag.checkNode(id, n, depth)

	sb := w.cam.view.TransformBounds(s.globalBounds(n)).Expand(antialiasPad)
	if !sb.Intersects(w.ctx.Clip) {
		w.pruned++
		return
	}

	mag := xf.ScaleFactor()
	if !n.shape.IsZero() {
		s.paintShape(w, id, &n.shape, n.style, xf, alpha, mag)
	}

	childAlpha := alpha
	if sz := n.semantic; sz != nil {
		pa, ca := sz.Alphas(mag)
		if pa > 0 && !sz.Placeholder.IsZero() {
			s.paintShape(w, id, &sz.Placeholder, sz.PlaceholderStyle, xf, alpha*pa, mag)
		}
		childAlpha = alpha * ca
	}
	if childAlpha <= 0 {
		return
	}
	for _, cid := range n.children {
		c := s.get(cid)
		s.paintNode(w, cid, c, xf.Multiply(c.transform), childAlpha, depth+1)
	}
}

func (s *Scene) paintShape(w *renderWalk, id NodeID, shape *Shape, st Style, xf Transform, alpha, mag float64) {
	w.ctx.Node = id
	w.ctx.Transform = xf
	w.ctx.Alpha = alpha
	w.ctx.Magnification = mag
	w.painter.Paint(shape, st, &w.ctx)
	w.painted++
}
