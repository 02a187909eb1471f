package zoomtree

import (
	"strings"
	"testing"
)

type recordingStore struct {
	events []SceneEvent
}

func (r *recordingStore) EmitEvent(ev SceneEvent) {
	r.events = append(r.events, ev)
}

func TestEventsDeliveredOnUpdate(t *testing.T) {
	s := NewScene()
	p := s.NewGroup("p")
	c := s.NewGroup("c")
	var got []SceneEvent
	s.OnEvent(EventChildAdded, func(ev SceneEvent) { got = append(got, ev) })

	mustAdd(t, s, p, c)
	if len(got) != 0 {
		t.Fatal("event delivered before Update")
	}
	if s.PendingEvents() == 0 {
		t.Fatal("no event queued")
	}
	s.Update(0)
	if len(got) != 1 {
		t.Fatalf("events = %d, want 1", len(got))
	}
	if got[0].Node != c || got[0].Parent != p {
		t.Errorf("event = %+v", got[0])
	}
	if s.PendingEvents() != 0 {
		t.Error("events left after Update")
	}
}

func TestEventsInEnqueueOrder(t *testing.T) {
	s := NewScene()
	p := s.NewGroup("p")
	c := s.NewGroup("c")
	var order []string
	record := func(ev SceneEvent) { order = append(order, ev.Type.String()) }
	for typ := EventChildAdded; typ < numSceneEventTypes; typ++ {
		s.OnEvent(typ, record)
	}

	mustAdd(t, s, p, c)
	s.SetPosition(c, 5, 0)
	if err := s.RemoveChild(p, c); err != nil {
		t.Fatal(err)
	}
	s.Update(0)

	// Bounds events come from validation, after the mutation events.
	want := "child-added,transform-changed,child-removed"
	if got := strings.Join(order, ","); !strings.HasPrefix(got, want) {
		t.Errorf("order = %s, want prefix %s", got, want)
	}
}

func TestBoundsChangedEvent(t *testing.T) {
	s := NewScene()
	box := rect(s, "box", 0, 0, 10, 10)
	s.SetEntityID(box, 99)
	s.Update(0)

	var got []SceneEvent
	s.OnEvent(EventBoundsChanged, func(ev SceneEvent) { got = append(got, ev) })
	s.SetPosition(box, 20, 0)
	s.Update(0)
	if len(got) != 1 {
		t.Fatalf("bounds events = %d, want 1", len(got))
	}
	ev := got[0]
	assertBounds(t, "old", ev.OldBounds, NewBounds(0, 0, 10, 10))
	assertBounds(t, "new", ev.NewBounds, NewBounds(20, 0, 10, 10))
	if ev.EntityID != 99 {
		t.Errorf("EntityID = %d, want 99", ev.EntityID)
	}

	// No change, no event.
	got = got[:0]
	s.SetStyle(box, DefaultStyle)
	s.Update(0)
	if len(got) != 0 {
		t.Errorf("bounds event without change: %+v", got)
	}
}

func TestHandlerMutationPanics(t *testing.T) {
	s := NewScene()
	p := s.NewGroup("p")
	c := s.NewGroup("c")
	s.OnEvent(EventChildAdded, func(ev SceneEvent) {
		s.SetPosition(ev.Node, 1, 1)
	})
	mustAdd(t, s, p, c)

	defer func() {
		r := recover()
		msg, _ := r.(string)
		if !strings.Contains(msg, "use Scene.Post") {
			t.Errorf("panic = %v", r)
		}
	}()
	s.Update(0)
}

func TestHandlerFlagSettersPanic(t *testing.T) {
	setters := map[string]func(s *Scene, id NodeID){
		"SetPickable": func(s *Scene, id NodeID) { s.SetPickable(id, false) },
		"SetFindable": func(s *Scene, id NodeID) { s.SetFindable(id, false) },
		"SetVolatile": func(s *Scene, id NodeID) { s.SetVolatile(id, true) },
		"SetEntityID": func(s *Scene, id NodeID) { s.SetEntityID(id, 7) },
	}
	for name, set := range setters {
		t.Run(name, func(t *testing.T) {
			s := NewScene()
			p := s.NewGroup("p")
			c := s.NewGroup("c")
			s.OnEvent(EventChildAdded, func(ev SceneEvent) { set(s, ev.Node) })
			mustAdd(t, s, p, c)

			defer func() {
				msg, _ := recover().(string)
				if !strings.Contains(msg, name) || !strings.Contains(msg, "use Scene.Post") {
					t.Errorf("panic = %q", msg)
				}
				if s.Volatile(c) {
					t.Error("volatile flag changed during dispatch")
				}
			}()
			s.Update(0)
		})
	}
}

func TestPostRunsAfterHandlers(t *testing.T) {
	s := NewScene()
	p := s.NewGroup("p")
	c := s.NewGroup("c")
	var moved []NodeID
	s.OnEvent(EventChildAdded, func(ev SceneEvent) {
		node := ev.Node
		s.Post(func(s *Scene) { s.SetPosition(node, 7, 0) })
	})
	s.OnEvent(EventTransformChanged, func(ev SceneEvent) {
		moved = append(moved, ev.Node)
	})
	mustAdd(t, s, p, c)
	s.Update(0)

	if tx, _ := s.Transform(c).Translation(); tx != 7 {
		t.Errorf("posted mutation not applied: tx = %v", tx)
	}
	if len(moved) != 1 || moved[0] != c {
		t.Errorf("follow-up event not delivered in same Update: %v", moved)
	}
}

func TestPostOutsideDispatch(t *testing.T) {
	s := NewScene()
	ran := false
	s.Post(func(*Scene) { ran = true })
	if ran {
		t.Fatal("posted function ran immediately")
	}
	s.Update(0)
	if !ran {
		t.Error("posted function did not run on Update")
	}
}

func TestEventRoundsBounded(t *testing.T) {
	s := NewScene()
	n := s.NewGroup("n")
	s.MaxEventRounds = 3
	// Each round's handler posts a mutation that produces another event.
	x := 0.0
	s.OnEvent(EventTransformChanged, func(SceneEvent) {
		s.Post(func(s *Scene) {
			x++
			s.SetPosition(n, x, 0)
		})
	})
	s.SetPosition(n, 100, 0)
	s.Update(0)
	if x != 3 {
		t.Errorf("rounds run = %v, want 3", x)
	}
	if s.PendingEvents() == 0 {
		t.Error("leftover events dropped")
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	s := NewScene()
	count := 0
	h := s.OnEvent(EventChildAdded, func(SceneEvent) { count++ })
	other := 0
	s.OnEvent(EventChildAdded, func(SceneEvent) { other++ })

	p := s.NewGroup("p")
	mustAdd(t, s, p, s.NewGroup("a"))
	s.Update(0)
	h.Remove()
	h.Remove()
	mustAdd(t, s, p, s.NewGroup("b"))
	s.Update(0)

	if count != 1 {
		t.Errorf("removed handler fired %d times, want 1", count)
	}
	if other != 2 {
		t.Errorf("remaining handler fired %d times, want 2", other)
	}
	var zero CallbackHandle
	zero.Remove()
}

func TestRemoveDuringDispatch(t *testing.T) {
	s := NewScene()
	var h CallbackHandle
	calls := 0
	h = s.OnEvent(EventChildAdded, func(SceneEvent) {
		calls++
		h.Remove()
	})
	p := s.NewGroup("p")
	mustAdd(t, s, p, s.NewGroup("a"))
	mustAdd(t, s, p, s.NewGroup("b"))
	s.Update(0)
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (removal applies from the next event)", calls)
	}
	calls = 0
	mustAdd(t, s, p, s.NewGroup("c"))
	s.Update(0)
	if calls != 0 {
		t.Errorf("handler fired after removal: %d", calls)
	}
}

func TestEntityStoreReceivesEvents(t *testing.T) {
	s := NewScene()
	store := &recordingStore{}
	s.SetEntityStore(store)
	p := s.NewGroup("p")
	c := s.NewGroup("c")
	s.SetEntityID(c, 5)
	mustAdd(t, s, p, c)
	if err := s.Dispose(c); err != nil {
		t.Fatal(err)
	}
	s.Update(0)

	var types []string
	for _, ev := range store.events {
		types = append(types, ev.Type.String())
	}
	got := strings.Join(types, ",")
	if !strings.HasPrefix(got, "child-added,child-removed,node-disposed") {
		t.Errorf("store events = %s", got)
	}
	last := store.events[2]
	if last.Node != c || last.EntityID != 5 {
		t.Errorf("dispose event = %+v", last)
	}
}

func TestOnEventUnknownTypePanics(t *testing.T) {
	s := NewScene()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	s.OnEvent(numSceneEventTypes, func(SceneEvent) {})
}
