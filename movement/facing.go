package movement

import (
	"github.com/go-gl/mathgl/mgl64"

	cfg "github.com/SeloSlav/saltgrass-client/config"
	"github.com/SeloSlav/saltgrass-client/protocol"
)

// DeriveFacing returns the facing for one frame's displacement. The
// dominant axis wins and horizontal beats vertical on exact ties. Below
// the threshold the previous facing persists, so idle frames and float
// noise never flicker the sprite. Knocked-out movers crawl too slowly for
// the regular threshold, so they get a lower one.
func DeriveFacing(prev protocol.FacingDirection, delta mgl64.Vec2, knockedOut bool) protocol.FacingDirection {
	threshold := cfg.Facing.Threshold
	if knockedOut {
		threshold = cfg.Facing.KnockedOutThreshold
	}

	dx, dy := delta.X(), delta.Y()
	ax, ay := abs(dx), abs(dy)
	if ax < threshold && ay < threshold {
		return prev
	}

	if ax >= ay {
		if dx < 0 {
			return protocol.FacingLeft
		}
		return protocol.FacingRight
	}
	if dy < 0 {
		return protocol.FacingUp
	}
	return protocol.FacingDown
}

// FacingVector returns the unit vector for a facing direction.
func FacingVector(f protocol.FacingDirection) mgl64.Vec2 {
	switch f {
	case protocol.FacingUp:
		return mgl64.Vec2{0, -1}
	case protocol.FacingLeft:
		return mgl64.Vec2{-1, 0}
	case protocol.FacingRight:
		return mgl64.Vec2{1, 0}
	default:
		return mgl64.Vec2{0, 1}
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
