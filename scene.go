package zoomtree

const (
	defaultPickTolerance  = 2.0
	defaultMaxEventRounds = 8
)

// Scene owns the node arena, cameras, damage tracking, the event queue and
// the animation scheduler. A Scene is not safe for concurrent use: all calls
// must come from one goroutine.
type Scene struct {
	// PickTolerance is the hit slop in screen pixels used by Pick.
	PickTolerance float64

	// MaxEventRounds bounds how many dispatch rounds Update runs when posted
	// follow-ups keep producing events.
	MaxEventRounds int

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	nodes []node
	free  []uint32

	cameras   []*Camera
	layerCams map[NodeID][]*Camera
	damage    *DamageManager
	scheduler Scheduler

	// Nodes touched since the last validate, and nodes re-invalidated every
	// update.
	changed  []NodeID
	volatile []NodeID
	camBuf   []*Camera

	events   []SceneEvent
	spare    []SceneEvent
	posted   []func(*Scene)
	handlers handlerRegistry
	store    EntityStore

	rendering   bool
	dispatching bool

	screenshotQueue []string
	script          *ScriptRunner
}

// NewScene creates an empty scene.
func NewScene() *Scene {
	return &Scene{
		PickTolerance:  defaultPickTolerance,
		MaxEventRounds: defaultMaxEventRounds,
		ScreenshotDir:  "screenshots",
		layerCams:      make(map[NodeID][]*Camera),
		damage:         newDamageManager(),
	}
}

// Scheduler returns the scene's animation scheduler.
func (s *Scene) Scheduler() *Scheduler {
	return &s.scheduler
}

// Damage returns the scene's damage manager.
func (s *Scene) Damage() *DamageManager {
	return s.damage
}

// Update advances the scene by dt seconds: the script runner steps, animations
// tick, volatile nodes are invalidated, bounds are validated (reporting
// damage) and queued events are delivered. After Update every cached bounds
// value is current and the damage manager holds everything Draw must repaint.
func (s *Scene) Update(dt float32) {
	s.checkMutable("Update")
	if s.script != nil {
		s.script.step(s)
	}
	s.scheduler.Tick(dt)
	s.invalidateVolatile()
	s.validate()
	s.drainEvents(s.MaxEventRounds)
	s.validate()
}

// SetScriptRunner attaches a ScriptRunner, stepped once per Update. nil
// detaches.
func (s *Scene) SetScriptRunner(r *ScriptRunner) {
	s.script = r
}
