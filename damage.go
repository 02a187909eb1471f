package zoomtree

// antialiasPad grows world-derived damage so antialiased edges that bleed
// into the neighbouring pixel are repainted.
const antialiasPad = 1.0

// DamageManager tracks one pending screen-space damage rectangle per camera.
// Multiple damage reports for a camera are merged by union rather than
// queued, trading a slightly larger repaint for O(1) bookkeeping.
type DamageManager struct {
	pending map[*Camera]Bounds
	order   []*Camera
}

func newDamageManager() *DamageManager {
	return &DamageManager{pending: make(map[*Camera]Bounds)}
}

// MarkDamaged unions rect (screen space) into the camera's pending region,
// clamped to the camera's viewport. Empty rects and rects outside the
// viewport are ignored.
func (m *DamageManager) MarkDamaged(cam *Camera, rect Bounds) {
	r := rect.Intersection(cam.viewport)
	if r.IsEmpty() {
		return
	}
	cur, ok := m.pending[cam]
	if !ok {
		m.order = append(m.order, cam)
	}
	cur.Union(r)
	m.pending[cam] = cur
}

// DamageAll marks the camera's entire viewport.
func (m *DamageManager) DamageAll(cam *Camera) {
	m.MarkDamaged(cam, cam.viewport)
}

// markWorld damages the screen-space image of world bounds wb.
func (m *DamageManager) markWorld(cam *Camera, wb Bounds) {
	if wb.IsEmpty() {
		return
	}
	m.MarkDamaged(cam, cam.view.TransformBounds(wb).Expand(antialiasPad))
}

// Pending returns the camera's pending region, or empty bounds.
func (m *DamageManager) Pending(cam *Camera) Bounds {
	return m.pending[cam]
}

// IsDirty reports whether the camera has pending damage.
func (m *DamageManager) IsDirty(cam *Camera) bool {
	return !m.pending[cam].IsEmpty()
}

// DirtyCameras returns cameras with pending damage in the order they were
// first damaged. The returned slice MUST NOT be mutated.
func (m *DamageManager) DirtyCameras() []*Camera {
	return m.order
}

// Clear drops the camera's pending region.
func (m *DamageManager) Clear(cam *Camera) {
	if _, ok := m.pending[cam]; !ok {
		return
	}
	delete(m.pending, cam)
	for i, c := range m.order {
		if c == cam {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}
