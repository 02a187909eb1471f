package ecs

import (
	"github.com/phanxgames/zoomtree"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for zoomtree scene events.
var SceneEventType = events.NewEventType[zoomtree.SceneEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world. Scene
// events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) zoomtree.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event zoomtree.SceneEvent) {
	SceneEventType.Publish(s.world, event)
}
