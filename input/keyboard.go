package input

import (
	"github.com/hajimehoshi/ebiten/v2"

	cfg "github.com/SeloSlav/saltgrass-client/config"
)

// KeyPoller bridges a polled keyboard to the event-driven sampler by
// synthesizing down/up transitions per action. keyState is swappable so
// tests can script a keyboard without a display.
type KeyPoller struct {
	prev     [cfg.ActionCount]bool
	keyState func(ebiten.Key) bool
}

// NewKeyPoller returns a poller reading the real keyboard.
func NewKeyPoller() *KeyPoller {
	return &KeyPoller{keyState: ebiten.IsKeyPressed}
}

// NewKeyPollerWithState returns a poller with an injected key source.
func NewKeyPollerWithState(keyState func(ebiten.Key) bool) *KeyPoller {
	return &KeyPoller{keyState: keyState}
}

// Poll reads every bound action once and feeds edges to the sampler.
// Call once per frame before sampling.
func (p *KeyPoller) Poll(s *Sampler) {
	for action := cfg.ActionNone + 1; action < cfg.ActionCount; action++ {
		pressed := p.actionPressed(action)
		if pressed == p.prev[action] {
			continue
		}
		p.prev[action] = pressed
		if pressed {
			s.KeyDown(action)
		} else {
			s.KeyUp(action)
		}
	}
}

// Reset forgets held state, pairing with Sampler.FocusLost when the
// window blurs.
func (p *KeyPoller) Reset() {
	p.prev = [cfg.ActionCount]bool{}
}

func (p *KeyPoller) actionPressed(action cfg.ActionID) bool {
	binding, ok := cfg.Input.Bindings[action]
	if !ok {
		return false
	}
	for _, k := range binding.Keys {
		if p.keyState(k) {
			return true
		}
	}
	return false
}
