// Package input converts key transitions into a normalized movement
// sample. The sampler itself is event-driven and backend-free; the ebiten
// poller in keyboard.go synthesizes the transitions for a real keyboard,
// and headless harnesses feed them directly. Everything here runs on the
// simulation goroutine.
package input

import (
	"github.com/go-gl/mathgl/mgl64"

	cfg "github.com/SeloSlav/saltgrass-client/config"
)

// Sample is the published input state: a unit (or zero) direction vector
// and the sprint flag.
type Sample struct {
	Direction mgl64.Vec2
	Sprinting bool
}

// Sampler tracks held actions and recomputes the sample on every
// transition. One-shot action presses queue up for the session to turn
// into server calls.
type Sampler struct {
	held      [cfg.ActionCount]bool
	uiCapture bool

	current  Sample
	lastRead Sample
	readOnce bool

	pressed []cfg.ActionID
}

// NewSampler returns a sampler with nothing held.
func NewSampler() *Sampler {
	return &Sampler{}
}

// KeyDown records an action press. Ignored entirely while a UI surface
// has capture.
func (s *Sampler) KeyDown(a cfg.ActionID) {
	if s.uiCapture || a <= cfg.ActionNone || a >= cfg.ActionCount {
		return
	}
	if !s.held[a] {
		s.held[a] = true
		s.pressed = append(s.pressed, a)
		s.recompute()
	}
}

// KeyUp records an action release. Ignored while a UI surface has capture.
func (s *Sampler) KeyUp(a cfg.ActionID) {
	if s.uiCapture || a <= cfg.ActionNone || a >= cfg.ActionCount {
		return
	}
	if s.held[a] {
		s.held[a] = false
		s.recompute()
	}
}

// FocusLost clears all held keys and pending presses. Browsers and OS
// window managers eat the matching key-up events, so anything held at
// blur would otherwise stick forever.
func (s *Sampler) FocusLost() {
	s.held = [cfg.ActionCount]bool{}
	s.pressed = s.pressed[:0]
	s.recompute()
}

// SetUICapture routes key events away from movement while a UI surface
// (chat box, rename field) is focused. Enabling capture also clears held
// keys so the avatar stops instead of walking on a stale direction.
func (s *Sampler) SetUICapture(captured bool) {
	if captured && !s.uiCapture {
		s.held = [cfg.ActionCount]bool{}
		s.pressed = s.pressed[:0]
		s.recompute()
	}
	s.uiCapture = captured
}

// Held reports whether an action is currently held.
func (s *Sampler) Held(a cfg.ActionID) bool {
	if a <= cfg.ActionNone || a >= cfg.ActionCount {
		return false
	}
	return s.held[a]
}

// Sample returns the current sample and whether it differs from the
// previous read, so downstream work can skip unchanged frames.
func (s *Sampler) Sample() (Sample, bool) {
	changed := !s.readOnce || s.current != s.lastRead
	s.lastRead = s.current
	s.readOnce = true
	return s.current, changed
}

// TakePressed drains the one-shot presses recorded since the last call.
func (s *Sampler) TakePressed() []cfg.ActionID {
	if len(s.pressed) == 0 {
		return nil
	}
	out := make([]cfg.ActionID, len(s.pressed))
	copy(out, s.pressed)
	s.pressed = s.pressed[:0]
	return out
}

// recompute rebuilds the direction from held keys: unit contributions per
// key, summed, then normalized so diagonals are not faster.
func (s *Sampler) recompute() {
	var dir mgl64.Vec2
	if s.held[cfg.ActionMoveUp] {
		dir = dir.Add(mgl64.Vec2{0, -1})
	}
	if s.held[cfg.ActionMoveDown] {
		dir = dir.Add(mgl64.Vec2{0, 1})
	}
	if s.held[cfg.ActionMoveLeft] {
		dir = dir.Add(mgl64.Vec2{-1, 0})
	}
	if s.held[cfg.ActionMoveRight] {
		dir = dir.Add(mgl64.Vec2{1, 0})
	}
	if l := dir.Len(); l > 0 {
		dir = dir.Mul(1 / l)
	}

	s.current = Sample{
		Direction: dir,
		Sprinting: s.held[cfg.ActionSprint],
	}
}
