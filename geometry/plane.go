package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Plane is a point on the plane and its unit normal. A zero normal marks a
// degenerate plane, onto which every point projects to itself.
type Plane struct {
	Normal r3.Vec
	Point  r3.Vec
}

// NewPlane builds the plane through point with the given normal. The normal
// is normalized; a zero length normal is kept as zero.
func NewPlane(normal, point r3.Vec) Plane {
	if r3.Norm(normal) > 0 {
		normal = r3.Unit(normal)
	}
	return Plane{
		Normal: normal,
		Point:  point,
	}
}

func (pl Plane) IsDegenerate() bool {
	return pl.Normal == r3.Vec{}
}

// SignedDistance of p along the plane normal
func (pl Plane) SignedDistance(p r3.Vec) float64 {
	return r3.Dot(r3.Sub(p, pl.Point), pl.Normal)
}

// Project returns the orthogonal projection of p onto the plane, the closest
// point on the plane to p.
func (pl Plane) Project(p r3.Vec) r3.Vec {
	if pl.IsDegenerate() {
		return p
	}
	return r3.Sub(p, r3.Scale(pl.SignedDistance(p), pl.Normal))
}
