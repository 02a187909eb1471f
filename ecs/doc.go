// Package ecs provides ECS adapters for zoomtree's scene events.
//
// The primary adapter is [NewDonburiStore], which bridges zoomtree scene
// events (child added/removed, transform and bounds changes, disposal,
// camera changes) into a [Donburi] world as typed events. Subscribe to
// [SceneEventType] in your ECS systems to receive them. Nodes are tied to
// entities with Scene.SetEntityID; the entity travels on every event.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	scene.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
