package zoomtree

import "testing"

func TestPickRect(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	r := rect(s, "R", 0, 0, 50, 50)
	mustAdd(t, s, layer, r)

	got, ok := s.Pick(cam, 25, 25)
	if !ok || got != r {
		t.Errorf("Pick(25,25) = %v, %v; want R", got, ok)
	}
	if got, ok := s.Pick(cam, 1000, 1000); ok {
		t.Errorf("Pick(1000,1000) = %v, want none", got)
	}
}

func TestPickTopmost(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	a := rect(s, "A", 0, 0, 50, 50)
	b := rect(s, "B", 25, 25, 50, 50)
	mustAdd(t, s, layer, a)
	mustAdd(t, s, layer, b)

	if got, _ := s.Pick(cam, 30, 30); got != b {
		t.Errorf("overlap picked %s, want B", s.Name(got))
	}
	if got, _ := s.Pick(cam, 10, 10); got != a {
		t.Errorf("A-only point picked %s, want A", s.Name(got))
	}

	if err := s.SetChildIndex(layer, a, 1); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Pick(cam, 30, 30); got != a {
		t.Errorf("after reorder picked %s, want A", s.Name(got))
	}
}

func TestPickTopLayerFirst(t *testing.T) {
	s := NewScene()
	bottom := s.NewGroup("bottom")
	top := s.NewGroup("top")
	lo := rect(s, "lo", 0, 0, 50, 50)
	hi := rect(s, "hi", 0, 0, 50, 50)
	mustAdd(t, s, bottom, lo)
	mustAdd(t, s, top, hi)
	cam := s.NewCamera("c", NewBounds(0, 0, 100, 100))
	_ = cam.AddLayer(bottom)
	_ = cam.AddLayer(top)
	if got, _ := s.Pick(cam, 10, 10); got != hi {
		t.Errorf("picked %s, want hi", s.Name(got))
	}
}

func TestPickThroughCamera(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	r := rect(s, "R", 100, 100, 10, 10)
	mustAdd(t, s, layer, r)
	cam.Scale(2, 0, 0)
	if _, ok := s.Pick(cam, 105, 105); ok {
		t.Error("picked at unscaled location")
	}
	if got, ok := s.Pick(cam, 210, 210); !ok || got != r {
		t.Errorf("Pick at scaled location = %v, %v", got, ok)
	}
}

func TestPickToleranceIsScreenPixels(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	r := rect(s, "R", 0, 0, 10, 10)
	mustAdd(t, s, layer, r)
	s.PickTolerance = 2

	if _, ok := s.Pick(cam, 11.5, 5); !ok {
		t.Error("miss within tolerance")
	}
	if _, ok := s.Pick(cam, 13, 5); ok {
		t.Error("hit beyond tolerance")
	}

	// At 4x the same screen tolerance covers a quarter of the world distance.
	cam.Scale(4, 0, 0)
	if _, ok := s.Pick(cam, 41.5, 20); !ok {
		t.Error("miss within tolerance at 4x")
	}
	if _, ok := s.Pick(cam, 43, 20); ok {
		t.Error("hit beyond tolerance at 4x")
	}
}

func TestPickSkipsHiddenAndUnpickable(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	under := rect(s, "under", 0, 0, 50, 50)
	over := rect(s, "over", 0, 0, 50, 50)
	mustAdd(t, s, layer, under)
	mustAdd(t, s, layer, over)

	s.SetPickable(over, false)
	if got, _ := s.Pick(cam, 10, 10); got != under {
		t.Errorf("unpickable: picked %s, want under", s.Name(got))
	}
	s.SetPickable(over, true)
	s.SetVisible(over, false)
	if got, _ := s.Pick(cam, 10, 10); got != under {
		t.Errorf("hidden: picked %s, want under", s.Name(got))
	}
}

func TestPickUnpickableGroupStillSearchesChildren(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	g := s.NewGroup("g")
	c := rect(s, "c", 0, 0, 10, 10)
	mustAdd(t, s, layer, g)
	mustAdd(t, s, g, c)
	s.SetPickable(g, false)
	if got, _ := s.Pick(cam, 5, 5); got != c {
		t.Errorf("picked %s, want c", s.Name(got))
	}
}

func TestPickSemanticPlaceholder(t *testing.T) {
	s, cam := semanticScene(t)
	cam.SetMagnification(0.5, 0, 0)
	// Screen (25,25) is world (50,50): inside the placeholder, outside the
	// house at (10,10,20,20).
	got, ok := s.Pick(cam, 25, 25)
	if !ok || s.Name(got) != "district" {
		t.Errorf("zoomed out picked %v (%s), want district", got, s.Name(got))
	}
	// Screen (10,10) is world (20,20), inside the house, which is not shown.
	if got, _ := s.Pick(cam, 10, 10); s.Name(got) != "district" {
		t.Errorf("hidden children picked %s", s.Name(got))
	}

	cam.SetMagnification(2, 0, 0)
	if got, _ := s.Pick(cam, 40, 40); s.Name(got) != "house" {
		t.Errorf("zoomed in picked %s, want house", s.Name(got))
	}
	// Above the band the placeholder no longer counts.
	if _, ok := s.Pick(cam, 160, 160); ok {
		t.Error("placeholder picked while hidden")
	}
}

func TestPickRotated(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	g := s.NewGroup("g")
	mustAdd(t, s, layer, g)
	bar := rect(s, "bar", 0, -5, 100, 10)
	mustAdd(t, s, g, bar)
	s.SetTransform(g, TranslateTransform(200, 200).Multiply(RotateTransform(1.5707963267948966)))
	s.PickTolerance = 0

	// Rotated 90 degrees the bar runs down from (200,200).
	if got, _ := s.Pick(cam, 200, 250); got != bar {
		t.Error("missed rotated bar")
	}
	if _, ok := s.Pick(cam, 250, 200); ok {
		t.Error("hit where the unrotated bar would be")
	}
}

// --- Find ---

func TestFindDefaultFilter(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	a := rect(s, "a", 0, 0, 10, 10)
	b := rect(s, "b", 50, 50, 10, 10)
	c := rect(s, "c", 200, 200, 10, 10)
	mustAdd(t, s, layer, a)
	mustAdd(t, s, layer, b)
	mustAdd(t, s, layer, c)

	got := s.Find(cam, NewBounds(0, 0, 100, 100), nil)
	want := []NodeID{layer, a, b}
	if !equalIDs(got, want) {
		t.Errorf("Find = %v, want %v", got, want)
	}

	s.SetFindable(b, false)
	got = s.Find(cam, NewBounds(0, 0, 100, 100), nil)
	if !equalIDs(got, []NodeID{layer, a}) {
		t.Errorf("Find with unfindable b = %v", got)
	}
}

func TestFindHiddenSubtreeSkipped(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	g := s.NewGroup("g")
	mustAdd(t, s, layer, g)
	mustAdd(t, s, g, rect(s, "x", 0, 0, 10, 10))
	s.SetVisible(g, false)
	got := s.Find(cam, NewBounds(0, 0, 100, 100), nil)
	if !equalIDs(got, []NodeID{layer}) {
		t.Errorf("Find = %v, want only layer", got)
	}
}

func TestFindCustomFilter(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	g := s.NewGroup("g")
	mustAdd(t, s, layer, g)
	leaf := rect(s, "leaf", 0, 0, 10, 10)
	mustAdd(t, s, g, leaf)
	mustAdd(t, s, layer, rect(s, "other", 5, 5, 10, 10))

	leavesOnly := FindFilterFuncs{
		AcceptFunc: func(s *Scene, id NodeID) bool { return s.NumChildren(id) == 0 },
	}
	got := s.Find(cam, NewBounds(0, 0, 50, 50), leavesOnly)
	if len(got) != 2 || got[0] != leaf {
		t.Errorf("leaves = %v", got)
	}

	noDescend := FindFilterFuncs{
		DescendFunc: func(s *Scene, id NodeID) bool { return id != g },
	}
	got = s.Find(cam, NewBounds(0, 0, 50, 50), noDescend)
	for _, id := range got {
		if id == leaf {
			t.Error("Find descended into g")
		}
	}
}

func TestFindScreenRectThroughCamera(t *testing.T) {
	s, cam, layer := newRenderScene(t)
	far := rect(s, "far", 100, 100, 10, 10)
	mustAdd(t, s, layer, far)
	cam.Scale(0.5, 0, 0)
	// World (100,100) is screen (50,50).
	got := s.Find(cam, NewBounds(45, 45, 10, 10), FindFilterFuncs{})
	if !equalIDs(got, []NodeID{layer, far}) {
		t.Errorf("Find = %v", got)
	}
}

func equalIDs(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
