// Package zoomtree is a retained-mode 2D scene graph for zoomable user
// interfaces, with damage-tracked repainting and semantic zoom.
//
// A [Scene] owns every node in an arena; nodes are addressed by [NodeID]
// handles. Each node has a local affine [Transform], an optional [Shape] and
// [Style], and an ordered list of children. Bounds are cached and
// recomputed lazily: mutating a node invalidates only its own cache, its
// ancestors' local bounds and its descendants' global transforms.
//
// # Quick start
//
//	scene := zoomtree.NewScene()
//	layer := scene.NewGroup("layer")
//	box := scene.NewShape("box", zoomtree.RectShape(0, 0, 100, 60),
//		zoomtree.Style{Fill: zoomtree.Color{R: 0.3, G: 0.7, B: 1, A: 1}})
//	_ = scene.AddChild(layer, box)
//
//	cam := scene.NewCamera("main", zoomtree.NewBounds(0, 0, 640, 480))
//	_ = cam.AddLayer(layer)
//
//	zoomtree.Run(scene, zoomtree.RunConfig{
//		Title: "zoom", Width: 640, Height: 480, Interactive: true,
//	})
//
// For full control, implement [ebiten.Game] yourself, call [Scene.Update]
// every tick and [Scene.Draw] with an [EbitenPainter] whose target persists
// between frames. [RasterPainter] renders headlessly into an *image.RGBA.
//
// # Cameras and damage
//
// A [Camera] maps world coordinates to its screen viewport and observes one
// or more layer nodes. Every change to a node reports its old and new
// screen-space bounds to the [DamageManager] for each observing camera;
// [Scene.Flush] repaints only the union of those regions and skips subtrees
// outside it. Changing a camera's view damages its whole viewport.
//
// # Semantic zoom
//
// A group created with [Scene.NewSemanticGroup] draws a placeholder shape
// instead of its children while the camera's magnification at the group is
// below a cutoff, cross-fading within a configurable band.
//
// # Events and animation
//
// Mutations queue [SceneEvent]s that are delivered once per [Scene.Update].
// Handlers registered with [Scene.OnEvent] must not mutate the scene; they
// [Scene.Post] follow-up work instead. Animations (camera pans and zooms,
// [TweenTransform]) are driven by the scene's [Scheduler] through [gween].
// Events can be forwarded to an ECS through [EntityStore]; see the
// zoomtree/ecs module for a [Donburi] adapter.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package zoomtree
