package session

import (
	"time"

	"github.com/SeloSlav/saltgrass-client/protocol"
)

// RemoteView is a remote player as the renderer should draw it: smoothed
// position plus the row flags that pick the sprite.
type RemoteView struct {
	ID     protocol.PlayerID
	Name   string
	X, Y   float64
	Facing protocol.FacingDirection

	IsSprinting  bool
	IsCrouching  bool
	IsKnockedOut bool
	IsDead       bool
}

// RenderSnapshot is the fully-formed frame state handed to readers. The
// session swaps in a fresh pointer each frame; readers on other
// goroutines always see a complete snapshot, never a half-written one.
type RenderSnapshot struct {
	Generated time.Time

	LocalActive bool
	LocalID     protocol.PlayerID
	LocalX      float64
	LocalY      float64
	LocalFacing protocol.FacingDirection
	AutoWalking bool

	Remotes []RemoteView
}
