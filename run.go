package zoomtree

import (
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int

	// ShowFPS overlays the current FPS and TPS.
	ShowFPS bool

	// Interactive enables mouse wheel zoom, left-drag pan and arrow-key pan on
	// the camera under the cursor.
	Interactive bool

	// WheelZoom is the magnification factor per wheel notch. Default 1.1.
	WheelZoom float64

	// KeyPanSpeed is the arrow-key pan speed in screen pixels per second.
	// Default 400.
	KeyPanSpeed float64

	// Script, when set, is attached to the scene and the window closes once
	// it is done.
	Script *ScriptRunner

	// Diagnostics is passed to every Draw.
	Diagnostics *Diagnostics

	// OnUpdate runs before Scene.Update each tick. Returning an error stops
	// the loop; return ebiten.Termination for a clean exit.
	OnUpdate func(s *Scene, dt float32) error

	// OnPick runs when the user clicks (presses and releases without
	// dragging) on a pickable node. Requires Interactive.
	OnPick func(s *Scene, cam *Camera, id NodeID)
}

const (
	defaultWheelZoom   = 1.1
	defaultKeyPanSpeed = 400.0
	dragThreshold      = 3.0
)

// Run opens a window and drives scene until the window is closed. The canvas
// persists between frames, so each frame only the damaged regions are
// repainted.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("zoomtree: run: invalid window size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.WheelZoom <= 1 {
		cfg.WheelZoom = defaultWheelZoom
	}
	if cfg.KeyPanSpeed <= 0 {
		cfg.KeyPanSpeed = defaultKeyPanSpeed
	}
	if cfg.Script != nil {
		scene.SetScriptRunner(cfg.Script)
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetScreenClearedEveryFrame(false)

	g := &game{scene: scene, cfg: cfg}
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene   *Scene
	cfg     RunConfig
	canvas  *ebiten.Image
	painter *EbitenPainter

	dragCam        *Camera
	dragging       bool
	pressX, pressY int
	lastX, lastY   int
}

func (g *game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	if g.cfg.OnUpdate != nil {
		if err := g.cfg.OnUpdate(g.scene, dt); err != nil {
			return err
		}
	}
	if g.cfg.Interactive {
		g.handleInput(dt)
	}
	g.scene.Update(dt)
	if g.cfg.Script != nil && g.cfg.Script.Done() && len(g.scene.screenshotQueue) == 0 {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	if g.canvas == nil || g.canvas.Bounds() != b {
		if g.canvas != nil {
			g.canvas.Deallocate()
		}
		g.canvas = ebiten.NewImage(b.Dx(), b.Dy())
		g.painter = NewEbitenPainter(g.canvas)
		for _, cam := range g.scene.cameras {
			g.scene.damage.DamageAll(cam)
		}
	}
	g.scene.Draw(g.painter, g.cfg.Diagnostics)
	screen.DrawImage(g.canvas, nil)

	if g.cfg.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// cameraAt returns the topmost camera whose viewport contains (x, y).
func (g *game) cameraAt(x, y float64) *Camera {
	cams := g.scene.cameras
	for i := len(cams) - 1; i >= 0; i-- {
		if cams[i].viewport.Contains(x, y) {
			return cams[i]
		}
	}
	return nil
}

func (g *game) handleInput(dt float32) {
	mx, my := ebiten.CursorPosition()
	fx, fy := float64(mx), float64(my)

	if _, wy := ebiten.Wheel(); wy != 0 {
		if cam := g.cameraAt(fx, fy); cam != nil {
			cam.ScaleAtScreen(math.Pow(g.cfg.WheelZoom, wy), fx, fy)
		}
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.dragCam = g.cameraAt(fx, fy)
		g.dragging = false
		g.pressX, g.pressY = mx, my
		g.lastX, g.lastY = mx, my
	}
	if g.dragCam != nil && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if !g.dragging && math.Hypot(float64(mx-g.pressX), float64(my-g.pressY)) >= dragThreshold {
			g.dragging = true
		}
		if g.dragging && (mx != g.lastX || my != g.lastY) {
			// Keep the world point under the cursor fixed.
			px, py := g.dragCam.ScreenToWorld(float64(g.lastX), float64(g.lastY))
			cx, cy := g.dragCam.ScreenToWorld(fx, fy)
			g.dragCam.Translate(cx-px, cy-py)
			g.lastX, g.lastY = mx, my
		}
	}
	if g.dragCam != nil && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if !g.dragging && g.cfg.OnPick != nil {
			if id, ok := g.scene.Pick(g.dragCam, fx, fy); ok {
				g.cfg.OnPick(g.scene, g.dragCam, id)
			}
		}
		g.dragCam = nil
	}

	var kx, ky float64
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		kx++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		kx--
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		ky++
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		ky--
	}
	if kx != 0 || ky != 0 {
		if cam := g.cameraAt(fx, fy); cam != nil {
			d := g.cfg.KeyPanSpeed * float64(dt) / cam.Magnification()
			cam.Translate(kx*d, ky*d)
		}
	}
}
