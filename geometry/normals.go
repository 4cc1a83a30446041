package geometry

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// PolygonNormal computes the unit normal of a polygon loop using Newell's
// method, which is stable for non planar quads. Degenerate loops return zero.
func PolygonNormal(loop []r3.Vec) (n r3.Vec) {
	var (
		nv = len(loop)
	)
	if nv < 3 {
		return
	}
	for i := 0; i < nv; i++ {
		cur, next := loop[i], loop[(i+1)%nv]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	if r3.Norm(n) == 0 {
		return r3.Vec{}
	}
	return r3.Unit(n)
}
