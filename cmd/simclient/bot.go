package main

import (
	"time"

	cfg "github.com/SeloSlav/saltgrass-client/config"
	"github.com/SeloSlav/saltgrass-client/input"
)

// legDuration is how long the bot holds each walk direction.
const legDuration = 2 * time.Second

type walkLeg struct {
	action cfg.ActionID
	sprint bool
}

// walkLegs cycles the bot clockwise; sprint on the horizontal legs so
// sends carry both effective-sprint states.
var walkLegs = []walkLeg{
	{cfg.ActionMoveRight, true},
	{cfg.ActionMoveDown, false},
	{cfg.ActionMoveLeft, true},
	{cfg.ActionMoveUp, false},
}

// bot drives the sampler with scripted key transitions so a headless run
// still exercises the whole predict-send-ack path.
type bot struct {
	enabled  bool
	leg      int
	legSince time.Time
	started  bool
}

func newBot(enabled bool) *bot {
	return &bot{enabled: enabled}
}

// drive runs on the simulation goroutine right before each frame.
func (b *bot) drive(s *input.Sampler, now time.Time) {
	if !b.enabled {
		return
	}

	if !b.started {
		b.started = true
		b.legSince = now
		b.press(s, walkLegs[b.leg])
		return
	}

	if now.Sub(b.legSince) < legDuration {
		return
	}

	b.release(s, walkLegs[b.leg])
	b.leg = (b.leg + 1) % len(walkLegs)
	b.legSince = now
	b.press(s, walkLegs[b.leg])

	// One jump per lap, on the lap boundary.
	if b.leg == 0 {
		s.KeyUp(cfg.ActionJump)
		s.KeyDown(cfg.ActionJump)
	}
}

func (b *bot) press(s *input.Sampler, leg walkLeg) {
	s.KeyDown(leg.action)
	if leg.sprint {
		s.KeyDown(cfg.ActionSprint)
	} else {
		s.KeyUp(cfg.ActionSprint)
	}
}

func (b *bot) release(s *input.Sampler, leg walkLeg) {
	s.KeyUp(leg.action)
}
