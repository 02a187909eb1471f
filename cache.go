package zoomtree

// --- Invalidation ---

// invalidateLocal marks id's local bounds dirty and walks up the ancestor
// chain, stopping at the first ancestor already dirty. A dirty node always
// has a dirty parent, so the early stop is sound and repeated mutation of the
// same subtree costs O(1).
func (s *Scene) invalidateLocal(id NodeID) {
	for n := s.get(id); n != nil; n = s.get(n.parent) {
		if n.localDirty {
			return
		}
		n.localDirty = true
		n.gbDirty = true
	}
}

// invalidateTransform marks the cached global transform of id and all its
// descendants dirty. A node with a dirty global transform always has dirty
// descendants, so the walk stops there.
func (s *Scene) invalidateTransform(id NodeID) {
	n := s.get(id)
	if n == nil {
		return
	}
	n.gbDirty = true
	if n.xformDirty {
		return
	}
	n.xformDirty = true
	for _, c := range n.children {
		s.invalidateTransform(c)
	}
}

// --- Lazy recomputation ---

// LocalBounds returns the node's bounds in its own local space (before its
// own transform): its shape, its semantic placeholder and every child's
// bounds mapped into this space.
func (s *Scene) LocalBounds(id NodeID) Bounds {
	n := s.get(id)
	if n == nil {
		return Bounds{}
	}
	return s.localBounds(n)
}

func (s *Scene) localBounds(n *node) Bounds {
	if !n.localDirty {
		return n.local
	}
	b := n.shape.Bounds(n.style)
	if n.semantic != nil {
		b.Union(n.semantic.Placeholder.Bounds(n.semantic.PlaceholderStyle))
	}
	for _, cid := range n.children {
		c := s.get(cid)
		b.Union(c.transform.TransformBounds(s.localBounds(c)))
	}
	n.local = b
	n.localDirty = false
	return b
}

// GlobalTransform returns the composition of every ancestor transform and
// the node's own transform: local space to world space.
func (s *Scene) GlobalTransform(id NodeID) Transform {
	n := s.get(id)
	if n == nil {
		return Identity()
	}
	return s.globalTransform(n)
}

func (s *Scene) globalTransform(n *node) Transform {
	if !n.xformDirty {
		return n.global
	}
	if p := s.get(n.parent); p != nil {
		n.global = s.globalTransform(p).Multiply(n.transform)
	} else {
		n.global = n.transform
	}
	n.xformDirty = false
	return n.global
}

// GlobalBounds returns the node's local bounds mapped to world space. The
// value is cached until a mutation invalidates it.
func (s *Scene) GlobalBounds(id NodeID) Bounds {
	n := s.get(id)
	if n == nil {
		return Bounds{}
	}
	return s.globalBounds(n)
}

func (s *Scene) globalBounds(n *node) Bounds {
	if !n.gbDirty {
		return n.globalB
	}
	n.globalB = s.globalTransform(n).TransformBounds(s.localBounds(n))
	n.gbDirty = false
	return n.globalB
}

// LocalToGlobal maps a point from id's local space to world space.
func (s *Scene) LocalToGlobal(id NodeID, x, y float64) (float64, float64) {
	return s.GlobalTransform(id).Apply(x, y)
}

// GlobalToLocal maps a world-space point into id's local space.
func (s *Scene) GlobalToLocal(id NodeID, x, y float64) (float64, float64) {
	inv, _ := s.GlobalTransform(id).Invert()
	return inv.Apply(x, y)
}

// --- Damage bookkeeping ---

// observers returns the cameras with a layer at id or one of its ancestors.
func (s *Scene) observers(id NodeID, buf []*Camera) []*Camera {
	buf = buf[:0]
	for cur := id; !cur.IsZero(); {
		for _, cam := range s.layerCams[cur] {
			if !containsCamera(buf, cam) {
				buf = append(buf, cam)
			}
		}
		n := s.get(cur)
		if n == nil {
			break
		}
		cur = n.parent
	}
	return buf
}

func containsCamera(list []*Camera, cam *Camera) bool {
	for _, c := range list {
		if c == cam {
			return true
		}
	}
	return false
}

// touch records that id is about to change. The first touch in a tick damages
// the node's current global bounds on every observing camera, so the old
// image is erased even if the node is detached before validation. Camera
// layers inside id's subtree are touched as well.
func (s *Scene) touch(id NodeID) {
	n := s.get(id)
	if n == nil || n.changed {
		return
	}
	old := s.globalBounds(n)
	n.changed = true
	n.prevB = old
	s.changed = append(s.changed, id)

	s.camBuf = s.observers(id, s.camBuf)
	for _, cam := range s.camBuf {
		s.damage.markWorld(cam, old)
	}

	// Layers below id are placed through id's transform, so their content
	// moves with it on the cameras that show them.
	for _, cam := range s.cameras {
		for _, l := range cam.layers {
			if l != id && s.IsAncestor(id, l) {
				s.touch(l)
			}
		}
	}
}

// invalidateVolatile re-invalidates every volatile node. Called once per
// Update.
func (s *Scene) invalidateVolatile() {
	for _, id := range s.volatile {
		s.touch(id)
		s.invalidateLocal(id)
		s.invalidateTransform(id)
	}
}

// validate resolves every pending invalidation: each changed node's new
// global bounds are computed and damaged on its observers. After validate,
// every cached value read is current.
func (s *Scene) validate() {
	for _, id := range s.changed {
		n := s.get(id)
		if n == nil {
			continue
		}
		n.changed = false
		nb := s.globalBounds(n)
		s.camBuf = s.observers(id, s.camBuf)
		for _, cam := range s.camBuf {
			s.damage.markWorld(cam, nb)
		}
		if !nb.Equal(n.prevB, 0) {
			s.enqueue(SceneEvent{
				Type:      EventBoundsChanged,
				Node:      id,
				Parent:    n.parent,
				EntityID:  n.entityID,
				OldBounds: n.prevB,
				NewBounds: nb,
			})
		}
	}
	s.changed = s.changed[:0]
}

// ValidateBounds resolves pending invalidations and reports damage without
// advancing animations or draining events.
func (s *Scene) ValidateBounds() {
	s.checkMutable("ValidateBounds")
	s.validate()
}
