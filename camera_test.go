package zoomtree

import (
	"errors"
	"testing"
)

func newTestCamera(t *testing.T, s *Scene, layers ...NodeID) *Camera {
	t.Helper()
	cam := s.NewCamera("main", NewBounds(0, 0, 640, 480))
	for _, l := range layers {
		if err := cam.AddLayer(l); err != nil {
			t.Fatal(err)
		}
	}
	return cam
}

func TestCameraDefaults(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	if !cam.ViewTransform().IsIdentity() {
		t.Error("view should default to identity")
	}
	assertNear(t, "magnification", cam.Magnification(), 1)
	if cam.Background() != ColorWhite {
		t.Errorf("background = %+v", cam.Background())
	}
	if cam.Scene() != s {
		t.Error("Scene() mismatch")
	}
	if len(s.Cameras()) != 1 {
		t.Errorf("Cameras = %d, want 1", len(s.Cameras()))
	}
}

func TestCameraScaleAtOrigin(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	cam.Scale(2, 0, 0)
	assertNear(t, "magnification", cam.Magnification(), 2)
	x, y := cam.WorldToScreen(10, 0)
	assertNear(t, "sx", x, 20)
	assertNear(t, "sy", y, 0)
}

func TestCameraScaleKeepsAnchor(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	cam.Translate(-100, -50)
	before, beforeY := cam.WorldToScreen(130, 70)
	cam.Scale(3, 130, 70)
	after, afterY := cam.WorldToScreen(130, 70)
	assertNear(t, "x", after, before)
	assertNear(t, "y", afterY, beforeY)
	assertNear(t, "magnification", cam.Magnification(), 3)
}

func TestCameraTranslateWorldUnits(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	cam.Scale(2, 0, 0)
	cam.Translate(10, 0)
	// Translation is applied before the existing scale.
	x, _ := cam.WorldToScreen(0, 0)
	assertNear(t, "x", x, 20)
}

func TestCameraScreenToWorldRoundTrip(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	cam.Scale(1.5, 40, 30)
	cam.Translate(7, -3)
	wx, wy := cam.ScreenToWorld(200, 100)
	sx, sy := cam.WorldToScreen(wx, wy)
	assertNear(t, "sx", sx, 200)
	assertNear(t, "sy", sy, 100)
}

func TestCameraScaleAtScreen(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	cam.Translate(-20, 0)
	wx, wy := cam.ScreenToWorld(320, 240)
	cam.ScaleAtScreen(2, 320, 240)
	ax, ay := cam.ScreenToWorld(320, 240)
	assertNear(t, "wx", ax, wx)
	assertNear(t, "wy", ay, wy)
}

func TestCameraRejectsSingularView(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	if cam.SetViewTransform(ScaleTransform(0, 1)) {
		t.Error("singular view accepted")
	}
	if !cam.ViewTransform().IsIdentity() {
		t.Error("view changed after rejection")
	}
	cam.Scale(0, 0, 0)
	cam.Scale(-2, 0, 0)
	assertNear(t, "magnification", cam.Magnification(), 1)
}

func TestCameraSetMagnification(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	cam.Scale(3, 0, 0)
	cam.SetMagnification(0.5, 10, 10)
	assertNear(t, "magnification", cam.Magnification(), 0.5)
}

func TestCameraVisibleBounds(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	cam.Scale(2, 0, 0)
	assertBounds(t, "visible", cam.VisibleBounds(), NewBounds(0, 0, 320, 240))
}

func TestCompositeMagnification(t *testing.T) {
	s := NewScene()
	layer := s.NewGroup("layer")
	g := s.NewGroup("g")
	mustAdd(t, s, layer, g)
	s.SetTransform(layer, ScaleTransform(3, 3))
	s.SetTransform(g, ScaleTransform(0.5, 0.5))
	cam := newTestCamera(t, s, layer)
	cam.Scale(2, 0, 0)
	assertNear(t, "composite", cam.CompositeMagnification(g), 3)
}

func TestCameraViewChangeDamagesViewport(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	s.Damage().Clear(cam)

	cam.Translate(5, 5)
	assertBounds(t, "pan", s.Damage().Pending(cam), cam.Viewport())
	s.Damage().Clear(cam)

	cam.SetBackground(ColorBlack)
	assertBounds(t, "background", s.Damage().Pending(cam), cam.Viewport())
	s.Damage().Clear(cam)

	cam.SetBackground(ColorBlack)
	if s.Damage().IsDirty(cam) {
		t.Error("unchanged background damaged viewport")
	}
}

func TestCameraLayers(t *testing.T) {
	s := NewScene()
	a := s.NewGroup("a")
	b := s.NewGroup("b")
	child := s.NewGroup("child")
	mustAdd(t, s, a, child)
	cam := newTestCamera(t, s, a, b)

	if !cam.HasLayer(a) || cam.HasLayer(child) {
		t.Error("HasLayer wrong")
	}
	if !cam.Observes(child) {
		t.Error("camera does not observe node inside layer")
	}
	if err := cam.AddLayer(a); !errors.Is(err, ErrLayerExists) {
		t.Errorf("err = %v, want ErrLayerExists", err)
	}
	if err := cam.RemoveLayer(a); err != nil {
		t.Fatal(err)
	}
	if cam.Observes(child) {
		t.Error("camera observes node after layer removed")
	}
	if err := cam.RemoveLayer(a); !errors.Is(err, ErrNotLayer) {
		t.Errorf("err = %v, want ErrNotLayer", err)
	}
}

func TestLayerSharedByCameras(t *testing.T) {
	s := NewScene()
	layer := s.NewGroup("layer")
	box := rect(s, "box", 0, 0, 10, 10)
	mustAdd(t, s, layer, box)
	c1 := newTestCamera(t, s, layer)
	c2 := newTestCamera(t, s, layer)
	s.Update(0)
	s.Damage().Clear(c1)
	s.Damage().Clear(c2)

	s.SetPosition(box, 20, 0)
	s.ValidateBounds()
	if !s.Damage().IsDirty(c1) || !s.Damage().IsDirty(c2) {
		t.Error("mutation not reported to both observing cameras")
	}
}

func TestRemoveCamera(t *testing.T) {
	s := NewScene()
	layer := s.NewGroup("layer")
	cam := newTestCamera(t, s, layer)
	s.RemoveCamera(cam)
	if len(s.Cameras()) != 0 {
		t.Error("camera still listed")
	}
	if s.Damage().IsDirty(cam) {
		t.Error("removed camera still has damage")
	}
	// Mutations must not damage the removed camera.
	s.SetPosition(layer, 1, 1)
	s.ValidateBounds()
	if s.Damage().IsDirty(cam) {
		t.Error("removed camera damaged by mutation")
	}
}

func TestRemovedCameraViewChangeNotTracked(t *testing.T) {
	s := NewScene()
	layer := s.NewGroup("layer")
	cam := newTestCamera(t, s, layer)
	s.RemoveCamera(cam)

	cam.Translate(10, 0)
	cam.Scale(2, 0, 0)
	cam.SetBackground(ColorBlack)
	if s.Damage().IsDirty(cam) {
		t.Error("removed camera damaged by view change")
	}
	for _, c := range s.Damage().DirtyCameras() {
		if c == cam {
			t.Error("removed camera listed in DirtyCameras")
		}
	}
	assertNear(t, "view still updated", cam.Magnification(), 2)
}

func TestCameraChangedEvent(t *testing.T) {
	s := NewScene()
	cam := newTestCamera(t, s)
	var got []*Camera
	s.OnEvent(EventCameraChanged, func(ev SceneEvent) { got = append(got, ev.Camera) })
	cam.Translate(1, 0)
	s.Update(0)
	if len(got) != 1 || got[0] != cam {
		t.Errorf("camera events = %v", got)
	}
}
