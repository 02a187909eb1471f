package zoomtree

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at paint time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is opaque white.
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black.
var ColorBlack = Color{0, 0, 0, 1}

// ColorTransparent is the zero color; a shape with a transparent fill and
// stroke paints nothing.
var ColorTransparent = Color{}

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float64) Color {
	c.A *= a
	return c
}

// toRGBA converts a Color to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.toRGBA().RGBA()
}

// Vec2 is a 2D vector used for positions, offsets and polyline points.
type Vec2 struct {
	X, Y float64
}

// SceneEventType identifies a kind of scene mutation event.
type SceneEventType uint8

const (
	EventChildAdded       SceneEventType = iota // a node was attached to a parent
	EventChildRemoved                           // a node was detached from its parent
	EventTransformChanged                       // a node's local transform changed
	EventBoundsChanged                          // a node's validated global bounds changed
	EventNodeDisposed                           // a node and its subtree were freed
	EventCameraChanged                          // a camera's view, viewport or layers changed
	numSceneEventTypes
)

// String returns the event type name.
func (t SceneEventType) String() string {
	switch t {
	case EventChildAdded:
		return "child-added"
	case EventChildRemoved:
		return "child-removed"
	case EventTransformChanged:
		return "transform-changed"
	case EventBoundsChanged:
		return "bounds-changed"
	case EventNodeDisposed:
		return "node-disposed"
	case EventCameraChanged:
		return "camera-changed"
	default:
		return "unknown"
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
