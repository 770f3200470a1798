// Package collision turns replicated entities into primitive shapes and
// resolves swept circle movement against them. The resolver handles the
// single nearest contact per frame; multi-contact situations settle over
// consecutive frames as the mover keeps sliding.
package collision

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ShapeKind discriminates the shape union.
type ShapeKind uint8

const (
	KindCircle ShapeKind = iota
	KindBox
)

// Shape is a collision primitive built from one world entity. Center is the
// visual base of the sprite, already shifted by the profile's OffsetY.
// Circle shapes use Radius; box shapes use HalfW/HalfH.
type Shape struct {
	Kind   ShapeKind
	ID     uint64
	Entity string

	Center mgl64.Vec2
	Radius float64
	HalfW  float64
	HalfH  float64
}

// Circle returns a circle shape.
func Circle(id uint64, entity string, center mgl64.Vec2, radius float64) Shape {
	return Shape{Kind: KindCircle, ID: id, Entity: entity, Center: center, Radius: radius}
}

// Box returns an axis-aligned box shape.
func Box(id uint64, entity string, center mgl64.Vec2, halfW, halfH float64) Shape {
	return Shape{Kind: KindBox, ID: id, Entity: entity, Center: center, HalfW: halfW, HalfH: halfH}
}

// ClosestPoint returns the point on the shape's boundary or interior
// closest to p. For circles this is along the ray from the center; for
// boxes it clamps p into the box extents.
func (s Shape) ClosestPoint(p mgl64.Vec2) mgl64.Vec2 {
	switch s.Kind {
	case KindBox:
		return mgl64.Vec2{
			clamp(p.X(), s.Center.X()-s.HalfW, s.Center.X()+s.HalfW),
			clamp(p.Y(), s.Center.Y()-s.HalfH, s.Center.Y()+s.HalfH),
		}
	default:
		delta := p.Sub(s.Center)
		dist := delta.Len()
		if dist <= s.Radius || dist == 0 {
			return p
		}
		return s.Center.Add(delta.Mul(s.Radius / dist))
	}
}

// SurfaceDistance returns the distance from p to the shape's boundary,
// floored at zero when p is inside or on it.
func (s Shape) SurfaceDistance(p mgl64.Vec2) float64 {
	switch s.Kind {
	case KindBox:
		return p.Sub(s.ClosestPoint(p)).Len()
	default:
		d := p.Sub(s.Center).Len() - s.Radius
		if d < 0 {
			return 0
		}
		return d
	}
}

// Bounds returns the shape's axis-aligned extent.
func (s Shape) Bounds() (minX, minY, maxX, maxY float64) {
	switch s.Kind {
	case KindBox:
		return s.Center.X() - s.HalfW, s.Center.Y() - s.HalfH,
			s.Center.X() + s.HalfW, s.Center.Y() + s.HalfH
	default:
		return s.Center.X() - s.Radius, s.Center.Y() - s.Radius,
			s.Center.X() + s.Radius, s.Center.Y() + s.Radius
	}
}

// Hit describes one overlap between the mover and a shape.
type Hit struct {
	Shape       Shape
	Normal      mgl64.Vec2 // unit vector pointing from the shape toward the mover
	Penetration float64    // overlap depth at the attempted destination
	Distance    float64    // surface distance from the mover's origin, for ordering
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
