package zoomtree

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tanema/gween/ease"
)

// scriptStep represents a single action in a script.
type scriptStep struct {
	Action   string  `json:"action"`
	Label    string  `json:"label,omitempty"`
	Camera   string  `json:"camera,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	DX       float64 `json:"dx,omitempty"`
	DY       float64 `json:"dy,omitempty"`
	Factor   float64 `json:"factor,omitempty"`
	Duration float32 `json:"duration,omitempty"`
	Frames   int     `json:"frames,omitempty"`
}

// script is the top-level JSON structure for a script.
type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences camera moves, picks and screenshots across updates
// for automated visual testing. Attach to a Scene via SetScriptRunner.
//
// Actions:
//
//	pan        dx, dy world units; animated when duration > 0
//	zoom       factor about screen point x, y; animated when duration > 0
//	pick       records the node under screen point x, y under label
//	wait       frames updates
//	screenshot label
//
// Every action applies to the camera named by "camera", or the scene's first
// camera when empty.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	anim      *AnimationHandle
	picks     map[string]NodeID
	errs      []error
}

// LoadScript parses a JSON script and returns a runner ready to be attached
// to a Scene via SetScriptRunner.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "pan", "zoom", "pick", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps, picks: make(map[string]NodeID)}, nil
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Pick returns the node recorded by the pick step with the given label. ok
// is false if the step has not run or hit nothing.
func (r *ScriptRunner) Pick(label string) (NodeID, bool) {
	id, ok := r.picks[label]
	return id, ok && !id.IsZero()
}

// Err returns the errors met while running steps, joined.
func (r *ScriptRunner) Err() error {
	return errors.Join(r.errs...)
}

// step advances the runner by one update. Called from Scene.Update.
func (r *ScriptRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for a running camera animation to finish before advancing.
	if r.anim.Active() {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	r.exec(s, st)

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.anim.Active() {
		r.done = true
	}
}

func (r *ScriptRunner) exec(s *Scene, st scriptStep) {
	if st.Action == "wait" {
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this update counts as one
		}
		return
	}
	if st.Action == "screenshot" {
		s.Screenshot(st.Label)
		return
	}

	cam := r.camera(s, st.Camera)
	if cam == nil {
		r.errs = append(r.errs, fmt.Errorf("script %s %q: no camera %q", st.Action, st.Label, st.Camera))
		return
	}
	switch st.Action {
	case "pan":
		if st.Duration > 0 {
			r.anim = cam.AnimatePan(st.DX, st.DY, st.Duration, ease.InOutQuad)
		} else {
			cam.Translate(st.DX, st.DY)
		}
	case "zoom":
		wx, wy := cam.ScreenToWorld(st.X, st.Y)
		if st.Duration > 0 {
			r.anim = cam.AnimateZoom(st.Factor, wx, wy, st.Duration, ease.InOutQuad)
		} else {
			cam.Scale(st.Factor, wx, wy)
		}
	case "pick":
		id, _ := s.Pick(cam, st.X, st.Y)
		r.picks[st.Label] = id
	}
}

func (r *ScriptRunner) camera(s *Scene, name string) *Camera {
	for _, c := range s.cameras {
		if name == "" || c.Name == name {
			return c
		}
	}
	return nil
}
