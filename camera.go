package zoomtree

import (
	"errors"
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// Camera errors.
var (
	ErrLayerExists = errors.New("node is already a layer of this camera")
	ErrNotLayer    = errors.New("node is not a layer of this camera")
)

// Camera is a viewport onto one or more layers of the scene. Its view
// transform maps world coordinates to screen coordinates; ScreenToWorld
// applies the inverse. A layer may be observed by several cameras and a
// camera may observe several layers.
type Camera struct {
	// Name identifies the camera in diagnostics.
	Name string

	scene      *Scene
	viewport   Bounds
	view       Transform
	inv        Transform
	layers     []NodeID
	background Color
	removed    bool
}

// NewCamera creates a camera with the given screen-space viewport and an
// identity view, and adds it to the scene.
func (s *Scene) NewCamera(name string, viewport Bounds) *Camera {
	s.checkMutable("NewCamera")
	cam := &Camera{
		Name:       name,
		scene:      s,
		viewport:   viewport,
		view:       Identity(),
		inv:        Identity(),
		background: ColorWhite,
	}
	s.cameras = append(s.cameras, cam)
	s.damage.DamageAll(cam)
	return cam
}

// RemoveCamera removes a camera and forgets its pending damage.
func (s *Scene) RemoveCamera(cam *Camera) {
	s.checkMutable("RemoveCamera")
	for i, c := range s.cameras {
		if c == cam {
			s.cameras = append(s.cameras[:i], s.cameras[i+1:]...)
			break
		}
	}
	for _, id := range cam.layers {
		s.unbindLayer(id, cam)
	}
	cam.layers = nil
	cam.removed = true
	s.damage.Clear(cam)
}

// Cameras returns the scene's camera list. The returned slice MUST NOT be
// mutated.
func (s *Scene) Cameras() []*Camera {
	return s.cameras
}

// Scene returns the scene the camera belongs to.
func (c *Camera) Scene() *Scene {
	return c.scene
}

// --- View transform ---

// ViewTransform returns the world-to-screen transform.
func (c *Camera) ViewTransform() Transform {
	return c.view
}

// SetViewTransform replaces the world-to-screen transform. A singular
// transform is rejected and leaves the view unchanged. Any view change
// damages the whole viewport.
func (c *Camera) SetViewTransform(t Transform) bool {
	c.scene.checkMutable("SetViewTransform")
	t = t.sanitized()
	inv, ok := t.Invert()
	if !ok {
		return false
	}
	if t == c.view {
		return true
	}
	c.view = t
	c.inv = inv
	c.changed()
	return true
}

// Translate pans the view by (dx, dy) world units.
func (c *Camera) Translate(dx, dy float64) {
	t := c.view
	t.Translate(dx, dy)
	c.SetViewTransform(t)
}

// Scale zooms the view by factor about the world point (ax, ay), which keeps
// its screen position. Non-positive factors are ignored.
func (c *Camera) Scale(factor, ax, ay float64) {
	if factor <= 0 || math.IsNaN(factor) {
		return
	}
	t := c.view
	t.ScaleAbout(factor, ax, ay)
	c.SetViewTransform(t)
}

// ScaleAtScreen zooms the view by factor about the screen point (sx, sy).
func (c *Camera) ScaleAtScreen(factor, sx, sy float64) {
	wx, wy := c.ScreenToWorld(sx, sy)
	c.Scale(factor, wx, wy)
}

// Magnification returns the uniform scale of the view transform.
func (c *Camera) Magnification() float64 {
	return c.view.ScaleFactor()
}

// SetMagnification zooms so that Magnification equals mag, about the world
// point (ax, ay).
func (c *Camera) SetMagnification(mag, ax, ay float64) {
	cur := c.Magnification()
	if cur == 0 || mag <= 0 {
		return
	}
	c.Scale(mag/cur, ax, ay)
}

// CompositeMagnification returns the magnification at node id under this
// camera: the view scale times every transform scale down to and including
// the node. Used to choose a level of detail at render time.
func (c *Camera) CompositeMagnification(id NodeID) float64 {
	return c.view.Multiply(c.scene.GlobalTransform(id)).ScaleFactor()
}

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return c.view.Apply(wx, wy)
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return c.inv.Apply(sx, sy)
}

// VisibleBounds returns the axis-aligned world-space box the viewport shows.
func (c *Camera) VisibleBounds() Bounds {
	return c.inv.TransformBounds(c.viewport)
}

// --- Viewport and background ---

// Viewport returns the screen-space rectangle the camera renders into.
func (c *Camera) Viewport() Bounds {
	return c.viewport
}

// SetViewport changes the screen-space rectangle and damages all of it.
func (c *Camera) SetViewport(vp Bounds) {
	c.scene.checkMutable("SetViewport")
	if vp.Equal(c.viewport, 0) {
		return
	}
	c.viewport = vp
	c.changed()
}

// Background returns the fill used to clear damaged regions.
func (c *Camera) Background() Color {
	return c.background
}

// SetBackground changes the background fill and damages the viewport.
func (c *Camera) SetBackground(bg Color) {
	c.scene.checkMutable("SetBackground")
	if bg == c.background {
		return
	}
	c.background = bg
	c.changed()
}

// --- Layers ---

// Layers returns the camera's layers in paint order. The returned slice MUST
// NOT be mutated.
func (c *Camera) Layers() []NodeID {
	return c.layers
}

// AddLayer appends id to the layers this camera observes.
func (c *Camera) AddLayer(id NodeID) error {
	c.scene.checkMutable("AddLayer")
	if !c.scene.Valid(id) {
		return fmt.Errorf("zoomtree: camera %q add layer %v: %w", c.Name, id, ErrStaleNode)
	}
	for _, l := range c.layers {
		if l == id {
			return fmt.Errorf("zoomtree: camera %q add layer %q: %w", c.Name, c.scene.Name(id), ErrLayerExists)
		}
	}
	c.layers = append(c.layers, id)
	if !c.removed {
		c.scene.layerCams[id] = append(c.scene.layerCams[id], c)
	}
	c.changed()
	return nil
}

// RemoveLayer stops observing id.
func (c *Camera) RemoveLayer(id NodeID) error {
	c.scene.checkMutable("RemoveLayer")
	if !c.dropLayer(id) {
		return fmt.Errorf("zoomtree: camera %q remove layer %v: %w", c.Name, id, ErrNotLayer)
	}
	return nil
}

// HasLayer reports whether id is one of the camera's layers.
func (c *Camera) HasLayer(id NodeID) bool {
	for _, l := range c.layers {
		if l == id {
			return true
		}
	}
	return false
}

// Observes reports whether id is inside one of the camera's layers.
func (c *Camera) Observes(id NodeID) bool {
	for _, l := range c.layers {
		if c.scene.IsAncestor(l, id) {
			return true
		}
	}
	return false
}

func (c *Camera) dropLayer(id NodeID) bool {
	for i, l := range c.layers {
		if l == id {
			c.layers = append(c.layers[:i], c.layers[i+1:]...)
			c.scene.unbindLayer(id, c)
			c.changed()
			return true
		}
	}
	return false
}

func (s *Scene) unbindLayer(id NodeID, cam *Camera) {
	list := s.layerCams[id]
	for i, c := range list {
		if c == cam {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(s.layerCams, id)
	} else {
		s.layerCams[id] = list
	}
}

// changed damages the whole viewport. A view change can reveal or hide
// arbitrary content. Cameras removed from the scene are not tracked.
func (c *Camera) changed() {
	if c.removed {
		return
	}
	c.scene.damage.DamageAll(c)
	c.scene.enqueue(SceneEvent{Type: EventCameraChanged, Camera: c})
}

// --- Animated interaction ---

// AnimatePan pans by (dx, dy) world units over duration seconds.
func (c *Camera) AnimatePan(dx, dy float64, duration float32, easeFn ease.TweenFunc) *AnimationHandle {
	return c.scene.scheduler.Start(newPanAnimation(c, dx, dy, duration, easeFn))
}

// AnimateZoom multiplies the magnification by factor over duration seconds,
// keeping the world point (ax, ay) fixed on screen.
func (c *Camera) AnimateZoom(factor, ax, ay float64, duration float32, easeFn ease.TweenFunc) *AnimationHandle {
	return c.scene.scheduler.Start(newZoomAnimation(c, factor, ax, ay, duration, easeFn))
}

// StartContinuousPan pans at (vx, vy) world units per second until the
// returned handle is cancelled, as while a pan key is held.
func (c *Camera) StartContinuousPan(vx, vy float64) *AnimationHandle {
	return c.scene.scheduler.Start(&continuousPan{cam: c, vx: vx, vy: vy})
}

// StartContinuousZoom zooms by rate per second (2 doubles the magnification
// every second) about the world point (ax, ay) until cancelled.
func (c *Camera) StartContinuousZoom(rate, ax, ay float64) *AnimationHandle {
	return c.scene.scheduler.Start(&continuousZoom{cam: c, rate: rate, ax: ax, ay: ay})
}
