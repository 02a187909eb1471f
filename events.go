package zoomtree

import "fmt"

// SceneEvent describes a change to the scene. Events are queued by mutations
// and delivered in enqueue order during Scene.Update.
type SceneEvent struct {
	Type SceneEventType

	// Node is the node the event is about; zero for camera events.
	Node NodeID
	// Parent is the parent involved (ChildAdded, ChildRemoved) or the node's
	// parent at the time of the change.
	Parent NodeID
	// EntityID is the node's ECS entity, if any.
	EntityID uint32

	// OldBounds and NewBounds are the world-space bounds before and after an
	// EventBoundsChanged.
	OldBounds Bounds
	NewBounds Bounds

	// Camera is set for EventCameraChanged.
	Camera *Camera
}

// EntityStore is the interface for optional ECS integration. When set on a
// Scene, every delivered event is also forwarded to the store.
type EntityStore interface {
	EmitEvent(event SceneEvent)
}

// CallbackHandle allows removing a registered event handler.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event SceneEventType
}

// Remove unregisters the handler so it no longer fires. Removing during
// dispatch takes effect from the next event.
func (h CallbackHandle) Remove() {
	if h.reg == nil || h.event >= numSceneEventTypes {
		return
	}
	list := h.reg.byType[h.event]
	for i := range list {
		if list[i].id == h.id {
			h.reg.byType[h.event] = append(list[:i:i], list[i+1:]...)
			return
		}
	}
}

type eventHandler struct {
	id uint32
	fn func(SceneEvent)
}

type handlerRegistry struct {
	nextID uint32
	byType [numSceneEventTypes][]eventHandler
}

// OnEvent registers fn for events of type typ. Handlers run during
// Scene.Update and must not mutate the scene directly; use Post to schedule
// follow-up mutations.
func (s *Scene) OnEvent(typ SceneEventType, fn func(SceneEvent)) CallbackHandle {
	if typ >= numSceneEventTypes {
		panic(fmt.Sprintf("zoomtree: OnEvent: unknown event type %d", typ))
	}
	s.handlers.nextID++
	id := s.handlers.nextID
	s.handlers.byType[typ] = append(s.handlers.byType[typ], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &s.handlers, event: typ}
}

// SetEntityStore sets the optional ECS bridge.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
}

// Post schedules fn to run after the handlers of the current dispatch round,
// or during the next Update when called outside dispatch. fn may mutate the
// scene; the events it causes are delivered in a later round.
func (s *Scene) Post(fn func(*Scene)) {
	s.posted = append(s.posted, fn)
}

// PendingEvents returns the number of queued, undelivered events.
func (s *Scene) PendingEvents() int {
	return len(s.events)
}

func (s *Scene) enqueue(ev SceneEvent) {
	s.events = append(s.events, ev)
}

// checkMutable panics when the scene is mutated from inside a render pass or
// an event handler.
func (s *Scene) checkMutable(op string) {
	if s.rendering {
		panic(fmt.Sprintf("zoomtree: %s called during render", op))
	}
	if s.dispatching {
		panic(fmt.Sprintf("zoomtree: %s called during event dispatch; use Scene.Post", op))
	}
}

// drainEvents delivers queued events round by round. Each round dispatches
// the events queued so far and then runs posted functions, whose mutations
// queue the next round. Stops after maxRounds; events left over are kept for
// the next Update.
func (s *Scene) drainEvents(maxRounds int) (rounds int) {
	if maxRounds <= 0 {
		maxRounds = 1
	}
	for rounds < maxRounds && (len(s.events) > 0 || len(s.posted) > 0) {
		rounds++
		batch := s.events
		s.events = s.spare[:0]

		s.dispatching = true
		for i := range batch {
			s.dispatch(batch[i])
		}
		s.dispatching = false

		for i := range batch {
			batch[i] = SceneEvent{}
		}
		s.spare = batch[:0]

		posted := s.posted
		s.posted = nil
		for _, fn := range posted {
			fn(s)
		}
		// Follow-up mutations become visible to the next round's handlers
		// with current bounds.
		s.validate()
	}
	return rounds
}

func (s *Scene) dispatch(ev SceneEvent) {
	if ev.Type >= numSceneEventTypes {
		return
	}
	for _, h := range s.handlers.byType[ev.Type] {
		h.fn(ev)
	}
	if s.store != nil {
		s.store.EmitEvent(ev)
	}
}
