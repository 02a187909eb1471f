package zoomtree

// --- Picking ---

// Pick returns the topmost visible, pickable node under the screen point
// (sx, sy) as seen through cam. Layers are searched last to first and
// children last to first, so the result is what the user sees on top.
// Within PickTolerance screen pixels of a shape's edge counts as a hit.
func (s *Scene) Pick(cam *Camera, sx, sy float64) (NodeID, bool) {
	wx, wy := cam.ScreenToWorld(sx, sy)
	return s.PickWorld(cam, wx, wy)
}

// PickWorld is Pick for a point already in world coordinates.
func (s *Scene) PickWorld(cam *Camera, wx, wy float64) (NodeID, bool) {
	s.validate()
	var slop float64
	if m := cam.Magnification(); m > 0 {
		slop = s.PickTolerance / m
	}
	for i := len(cam.layers) - 1; i >= 0; i-- {
		l := cam.layers[i]
		n := s.get(l)
		if n == nil {
			continue
		}
		xf := cam.view.Multiply(s.globalTransform(n))
		if id, ok := s.pickNode(l, n, xf, wx, wy, slop); ok {
			return id, true
		}
	}
	return NodeID{}, false
}

// pickNode searches the subtree at id in reverse paint order. xf maps id's
// local space to the screen; slop is the tolerance in world units.
func (s *Scene) pickNode(id NodeID, n *node, xf Transform, wx, wy, slop float64) (NodeID, bool) {
	if !n.visible {
		return NodeID{}, false
	}
	if !s.globalBounds(n).Expand(slop).Contains(wx, wy) {
		return NodeID{}, false
	}

	mag := xf.ScaleFactor()
	placeholder, children := 0.0, 1.0
	if n.semantic != nil {
		placeholder, children = n.semantic.Alphas(mag)
	}

	if children > 0 {
		for i := len(n.children) - 1; i >= 0; i-- {
			cid := n.children[i]
			c := s.get(cid)
			if hit, ok := s.pickNode(cid, c, xf.Multiply(c.transform), wx, wy, slop); ok {
				return hit, true
			}
		}
	}

	if !n.pickable {
		return NodeID{}, false
	}
	inv, ok := s.globalTransform(n).Invert()
	if !ok || mag <= 0 {
		return NodeID{}, false
	}
	lx, ly := inv.Apply(wx, wy)
	tol := s.PickTolerance / mag

	if placeholder > 0 && n.semantic.Placeholder.Contains(n.semantic.PlaceholderStyle, lx, ly, tol) {
		return id, true
	}
	if n.shape.Contains(n.style, lx, ly, tol) {
		return id, true
	}
	return NodeID{}, false
}

// --- Region queries ---

// FindFilter selects nodes for Find.
type FindFilter interface {
	// Accept reports whether id belongs in the result.
	Accept(s *Scene, id NodeID) bool
	// ShouldDescend reports whether id's children are searched.
	ShouldDescend(s *Scene, id NodeID) bool
}

// FindFilterFuncs adapts two functions to FindFilter. A nil function accepts
// everything.
type FindFilterFuncs struct {
	AcceptFunc  func(s *Scene, id NodeID) bool
	DescendFunc func(s *Scene, id NodeID) bool
}

// Accept calls AcceptFunc.
func (f FindFilterFuncs) Accept(s *Scene, id NodeID) bool {
	return f.AcceptFunc == nil || f.AcceptFunc(s, id)
}

// ShouldDescend calls DescendFunc.
func (f FindFilterFuncs) ShouldDescend(s *Scene, id NodeID) bool {
	return f.DescendFunc == nil || f.DescendFunc(s, id)
}

// DefaultFindFilter accepts visible, findable nodes and descends into
// visible ones.
var DefaultFindFilter FindFilter = FindFilterFuncs{
	AcceptFunc: func(s *Scene, id NodeID) bool {
		return s.Visible(id) && s.Findable(id)
	},
	DescendFunc: func(s *Scene, id NodeID) bool {
		return s.Visible(id)
	},
}

// Find returns the nodes seen through cam whose bounds intersect the
// screen-space rectangle rect and that filter accepts, in tree order. A nil
// filter means DefaultFindFilter.
func (s *Scene) Find(cam *Camera, rect Bounds, filter FindFilter) []NodeID {
	if filter == nil {
		filter = DefaultFindFilter
	}
	s.validate()
	wr := cam.inv.TransformBounds(rect)
	if wr.IsEmpty() {
		return nil
	}
	var out []NodeID
	for _, l := range cam.layers {
		if n := s.get(l); n != nil {
			out = s.findNode(l, n, wr, filter, out)
		}
	}
	return out
}

func (s *Scene) findNode(id NodeID, n *node, wr Bounds, f FindFilter, out []NodeID) []NodeID {
	if !s.globalBounds(n).Intersects(wr) {
		return out
	}
	if f.Accept(s, id) {
		out = append(out, id)
	}
	if !f.ShouldDescend(s, id) {
		return out
	}
	for _, cid := range n.children {
		out = s.findNode(cid, s.get(cid), wr, f, out)
	}
	return out
}
