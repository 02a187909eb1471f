package zoomtree

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Animation is a time-driven effect advanced by the scene's Scheduler. Step
// advances by dt seconds and reports whether the animation has finished.
// Step runs outside event dispatch and may mutate the scene.
type Animation interface {
	Step(dt float32) (done bool)
}

// AnimationHandle controls a started animation.
type AnimationHandle struct {
	anim  Animation
	armed bool
}

// Cancel stops the animation before its next step. The state written by the
// last completed step remains. Cancelling twice is a no-op.
func (h *AnimationHandle) Cancel() {
	if h != nil {
		h.armed = false
	}
}

// Active reports whether the animation is still scheduled.
func (h *AnimationHandle) Active() bool {
	return h != nil && h.armed
}

// Scheduler advances animations. It never sleeps or spawns goroutines; time
// moves only when Tick is called, normally from Scene.Update.
type Scheduler struct {
	running []*AnimationHandle
	ticking bool
	started []*AnimationHandle
}

// Start schedules anim. Its first step happens on the next Tick.
func (s *Scheduler) Start(anim Animation) *AnimationHandle {
	h := &AnimationHandle{anim: anim, armed: true}
	if s.ticking {
		s.started = append(s.started, h)
	} else {
		s.running = append(s.running, h)
	}
	return h
}

// Tick advances every armed animation by dt seconds and drops finished and
// cancelled ones. Animations started during Tick first step on the next Tick.
func (s *Scheduler) Tick(dt float32) {
	s.ticking = true
	keep := s.running[:0]
	for _, h := range s.running {
		if !h.armed {
			continue
		}
		if h.anim.Step(dt) {
			h.armed = false
			continue
		}
		if h.armed {
			keep = append(keep, h)
		}
	}
	for i := len(keep); i < len(s.running); i++ {
		s.running[i] = nil
	}
	s.running = append(keep, s.started...)
	s.started = s.started[:0]
	s.ticking = false
}

// Len returns the number of scheduled animations.
func (s *Scheduler) Len() int {
	n := 0
	for _, h := range s.running {
		if h.armed {
			n++
		}
	}
	for _, h := range s.started {
		if h.armed {
			n++
		}
	}
	return n
}

// CancelAll cancels every scheduled animation.
func (s *Scheduler) CancelAll() {
	for _, h := range s.running {
		h.armed = false
	}
	for _, h := range s.started {
		h.armed = false
	}
}

// --- Tweens ---

// tweenGroup drives up to six float fields with gween and hands the current
// values to apply after each step.
type tweenGroup struct {
	tweens [6]*gween.Tween
	count  int
	vals   [6]float64
	apply  func(vals []float64) bool
}

func newTweenGroup(from, to []float64, duration float32, fn ease.TweenFunc, apply func([]float64) bool) *tweenGroup {
	if fn == nil {
		fn = ease.Linear
	}
	g := &tweenGroup{count: len(from), apply: apply}
	for i := range from {
		g.tweens[i] = gween.New(float32(from[i]), float32(to[i]), duration, fn)
		g.vals[i] = from[i]
	}
	return g
}

func (g *tweenGroup) Step(dt float32) bool {
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		g.vals[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	if !g.apply(g.vals[:g.count]) {
		return true
	}
	return allDone
}

// TweenTransform animates the node's local transform component-wise to to
// over duration seconds. The animation stops early if the node is disposed.
func TweenTransform(s *Scene, id NodeID, to Transform, duration float32, fn ease.TweenFunc) *AnimationHandle {
	from := s.Transform(id)
	g := newTweenGroup(
		[]float64{from.A, from.B, from.C, from.D, from.Tx, from.Ty},
		[]float64{to.A, to.B, to.C, to.D, to.Tx, to.Ty},
		duration, fn,
		func(v []float64) bool {
			if !s.Valid(id) {
				return false
			}
			t := Transform{A: v[0], B: v[1], C: v[2], D: v[3], Tx: v[4], Ty: v[5]}
			if duration <= 0 {
				t = to
			}
			s.SetTransform(id, t)
			return true
		})
	return s.scheduler.Start(g)
}

// TweenPosition animates only the translation of the node's transform.
func TweenPosition(s *Scene, id NodeID, toX, toY float64, duration float32, fn ease.TweenFunc) *AnimationHandle {
	from := s.Transform(id)
	g := newTweenGroup(
		[]float64{from.Tx, from.Ty},
		[]float64{toX, toY},
		duration, fn,
		func(v []float64) bool {
			if !s.Valid(id) {
				return false
			}
			s.SetPosition(id, v[0], v[1])
			return true
		})
	return s.scheduler.Start(g)
}

// newPanAnimation pans cam by (dx, dy) world units. The tween tracks the
// cumulative offset and each step applies the delta since the previous step,
// so it composes with other view changes made meanwhile.
func newPanAnimation(cam *Camera, dx, dy float64, duration float32, fn ease.TweenFunc) Animation {
	var px, py float64
	return newTweenGroup([]float64{0, 0}, []float64{dx, dy}, duration, fn, func(v []float64) bool {
		x, y := v[0], v[1]
		if duration <= 0 {
			x, y = dx, dy
		}
		cam.Translate(x-px, y-py)
		px, py = x, y
		return true
	})
}

// newZoomAnimation scales cam by factor about (ax, ay). The tween runs over
// log(factor) so the zoom speed is perceptually even.
func newZoomAnimation(cam *Camera, factor, ax, ay float64, duration float32, fn ease.TweenFunc) Animation {
	if factor <= 0 || math.IsNaN(factor) {
		factor = 1
	}
	target := math.Log(factor)
	var applied float64
	return newTweenGroup([]float64{0}, []float64{target}, duration, fn, func(v []float64) bool {
		l := v[0]
		if duration <= 0 {
			l = target
		}
		cam.Scale(math.Exp(l-applied), ax, ay)
		applied = l
		return true
	})
}

// continuousPan pans at a constant world-space velocity until cancelled.
type continuousPan struct {
	cam    *Camera
	vx, vy float64
}

func (p *continuousPan) Step(dt float32) bool {
	d := float64(dt)
	p.cam.Translate(p.vx*d, p.vy*d)
	return false
}

// continuousZoom zooms at a constant exponential rate until cancelled.
type continuousZoom struct {
	cam    *Camera
	rate   float64
	ax, ay float64
}

func (z *continuousZoom) Step(dt float32) bool {
	if z.rate <= 0 {
		return true
	}
	z.cam.Scale(math.Pow(z.rate, float64(dt)), z.ax, z.ay)
	return false
}

// AnimationFunc adapts a plain function to Animation.
type AnimationFunc func(dt float32) bool

// Step calls f(dt).
func (f AnimationFunc) Step(dt float32) bool { return f(dt) }
