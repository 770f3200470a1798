package collision

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	cfg "github.com/SeloSlav/saltgrass-client/config"
)

// Result is the outcome of resolving one frame of movement.
type Result struct {
	Position mgl64.Vec2
	Collided bool
	Hits     []Hit // every overlapping shape, nearest first
}

// Resolve moves a circle of moverRadius from one point toward another and
// returns a destination that overlaps nothing. Only the nearest hit shapes
// the response; the rest are reported for diagnostics. The response slides
// along the contact surface instead of stopping dead, pushes out of any
// real penetration, and keeps a fixed minimum separation so floating-point
// noise at the boundary cannot re-trigger contact on the next frame.
func Resolve(from, to mgl64.Vec2, moverRadius float64, shapes []Shape) Result {
	to = clampToWorld(to, moverRadius)

	hits := collectHits(from, to, moverRadius, shapes)
	if len(hits) == 0 {
		return Result{Position: to}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].Shape.ID < hits[j].Shape.ID
	})
	primary := hits[0]

	// Slide: drop the displacement component pointing into the surface,
	// keep the tangential remainder.
	displacement := to.Sub(from)
	inward := displacement.Dot(primary.Normal)
	slide := displacement
	if inward < 0 {
		slide = displacement.Sub(primary.Normal.Mul(inward))
	}
	resolved := from.Add(slide)

	// Push out of real overlap. The extra separation keeps the mover far
	// enough away that the same contact cannot immediately recur.
	if primary.Penetration > cfg.Collision.PenetrationEpsilon {
		resolved = resolved.Add(primary.Normal.Mul(primary.Penetration + cfg.Collision.MinimumSeparation))
	}

	// Stalled against the surface with no tangential freedom: nudge along
	// the tangent so consecutive frames never return the same position.
	if resolved.Sub(from).Len() < cfg.Collision.StuckSlideEpsilon {
		tangent := mgl64.Vec2{-primary.Normal.Y(), primary.Normal.X()}
		resolved = from.Add(tangent.Mul(cfg.Collision.MinimumSeparation))
	}

	resolved = enforceSeparation(resolved, moverRadius, primary)

	return Result{
		Position: clampToWorld(resolved, moverRadius),
		Collided: true,
		Hits:     hits,
	}
}

// collectHits tests the mover's destination against every shape and
// returns the overlapping ones with contact data.
func collectHits(from, to mgl64.Vec2, moverRadius float64, shapes []Shape) []Hit {
	var hits []Hit
	for _, s := range shapes {
		hit, ok := testShape(from, to, moverRadius, s)
		if ok {
			hits = append(hits, hit)
		}
	}
	return hits
}

func testShape(from, to mgl64.Vec2, moverRadius float64, s Shape) (Hit, bool) {
	switch s.Kind {
	case KindBox:
		return testBox(from, to, moverRadius, s)
	default:
		return testCircle(from, to, moverRadius, s)
	}
}

func testCircle(from, to mgl64.Vec2, moverRadius float64, s Shape) (Hit, bool) {
	combined := moverRadius + s.Radius
	offset := to.Sub(s.Center)
	distSq := offset.Dot(offset)
	if distSq >= combined*combined {
		return Hit{}, false
	}

	dist := offset.Len()
	return Hit{
		Shape:       s,
		Normal:      contactNormal(from.Sub(s.Center), to.Sub(from)),
		Penetration: combined - dist,
		Distance:    s.SurfaceDistance(from),
	}, true
}

func testBox(from, to mgl64.Vec2, moverRadius float64, s Shape) (Hit, bool) {
	// Cheap reject: point-in-box against the box expanded by the mover
	// radius on all sides.
	if abs(to.X()-s.Center.X()) >= s.HalfW+moverRadius ||
		abs(to.Y()-s.Center.Y()) >= s.HalfH+moverRadius {
		return Hit{}, false
	}

	// True circle/box test via the closest point on the unexpanded box.
	closest := s.ClosestPoint(to)
	gap := to.Sub(closest)
	dist := gap.Len()

	var penetration float64
	if dist > 0 {
		if dist >= moverRadius {
			return Hit{}, false
		}
		penetration = moverRadius - dist
	} else {
		// Destination is inside the box itself: depth to the nearest face
		// plus the mover radius.
		penetration = moverRadius + insideDepth(to, s)
	}

	return Hit{
		Shape:       s,
		Normal:      boxNormal(from, to, s),
		Penetration: penetration,
		Distance:    s.SurfaceDistance(from),
	}, true
}

// contactNormal derives the unit normal from the mover's origin side so a
// destination that overshoots the shape center still pushes back toward
// where the mover came from. Degenerate geometry falls back to opposing
// the displacement, then to straight up.
func contactNormal(fromOffset, displacement mgl64.Vec2) mgl64.Vec2 {
	if l := fromOffset.Len(); l > 0 {
		return fromOffset.Mul(1 / l)
	}
	if l := displacement.Len(); l > 0 {
		return displacement.Mul(-1 / l)
	}
	return mgl64.Vec2{0, -1}
}

// boxNormal is contactNormal for boxes: radial from the closest point on
// the box to the mover's origin, or the nearest-face axis when the origin
// is inside the box.
func boxNormal(from, to mgl64.Vec2, s Shape) mgl64.Vec2 {
	closest := s.ClosestPoint(from)
	radial := from.Sub(closest)
	if radial.Len() > 0 {
		return radial.Normalize()
	}
	return faceNormal(from, s, to.Sub(from))
}

// faceNormal picks the axis normal of the box face nearest to p.
func faceNormal(p mgl64.Vec2, s Shape, displacement mgl64.Vec2) mgl64.Vec2 {
	dxLeft := p.X() - (s.Center.X() - s.HalfW)
	dxRight := (s.Center.X() + s.HalfW) - p.X()
	dyTop := p.Y() - (s.Center.Y() - s.HalfH)
	dyBottom := (s.Center.Y() + s.HalfH) - p.Y()

	minD := dxLeft
	n := mgl64.Vec2{-1, 0}
	if dxRight < minD {
		minD = dxRight
		n = mgl64.Vec2{1, 0}
	}
	if dyTop < minD {
		minD = dyTop
		n = mgl64.Vec2{0, -1}
	}
	if dyBottom < minD {
		n = mgl64.Vec2{0, 1}
	}
	if minD < 0 {
		// p is outside the box after all; oppose the displacement instead
		return contactNormal(mgl64.Vec2{}, displacement)
	}
	return n
}

// insideDepth returns the distance from p to the nearest box face, for a
// point inside the box.
func insideDepth(p mgl64.Vec2, s Shape) float64 {
	dx := s.HalfW - abs(p.X()-s.Center.X())
	dy := s.HalfH - abs(p.Y()-s.Center.Y())
	if dx < dy {
		return dx
	}
	return dy
}

// enforceSeparation forces the resolved position to at least the contact
// distance plus the minimum separation from the primary shape.
func enforceSeparation(resolved mgl64.Vec2, moverRadius float64, primary Hit) mgl64.Vec2 {
	switch primary.Shape.Kind {
	case KindBox:
		closest := primary.Shape.ClosestPoint(resolved)
		gap := resolved.Sub(closest)
		dist := gap.Len()
		required := moverRadius + cfg.Collision.MinimumSeparation
		if dist >= required {
			return resolved
		}
		dir := primary.Normal
		if dist > 0 {
			dir = gap.Mul(1 / dist)
		}
		return closest.Add(dir.Mul(required))
	default:
		offset := resolved.Sub(primary.Shape.Center)
		dist := offset.Len()
		required := moverRadius + primary.Shape.Radius + cfg.Collision.MinimumSeparation
		if dist >= required {
			return resolved
		}
		dir := primary.Normal
		if dist > 0 {
			dir = offset.Mul(1 / dist)
		}
		return primary.Shape.Center.Add(dir.Mul(required))
	}
}

// clampToWorld keeps the mover's center inside the world with its radius
// as margin.
func clampToWorld(p mgl64.Vec2, moverRadius float64) mgl64.Vec2 {
	return mgl64.Vec2{
		clamp(p.X(), moverRadius, cfg.World.WidthPx()-moverRadius),
		clamp(p.Y(), moverRadius, cfg.World.HeightPx()-moverRadius),
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
