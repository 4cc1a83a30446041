package patch

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/quadnurbs/geometry"
	"github.com/notargets/quadnurbs/nurbs"
)

const (
	GridSize      = 4 // Control points per patch direction
	DefaultDegree = 3
)

// Quad holds the global vertex indices of a quadrilateral face in winding
// order. Its boundary edges are 0-1, 1-2, 2-3 and 3-0.
type Quad [4]int

// VertexFrame is the local surface approximation at one quad corner
type VertexFrame struct {
	Position      r3.Vec
	Plane         geometry.Plane // Tangent plane through Position
	Weight        float64        // Rational weight of the corner control point
	TangentWeight float64        // Raw handle length, used as TangentWeight/3
}

// Params collects everything needed to build the patch of one quad. Frames
// are indexed by the quad's local corner order.
type Params struct {
	Face       int // Index of the face in its mesh, for diagnostics only
	Quad       Quad
	Frames     [4]VertexFrame
	FaceWeight float64
	DegreeU    int
	DegreeV    int
}

/*
BuildPatch constructs the 4x4 rational control net of a quad.

	V0 ------ [E01] --- [E02] --- V1
	|          |         |        |
	[E11] --- [F1] ---- [F2] --- [E21]
	|          |         |        |
	[E12] --- [F3] ---- [F4] --- [E22]
	|          |         |        |
	V3 ------ [E31] --- [E32] --- V2

Each boundary point is pulled from its nearest corner toward the adjacent
corner by a third of that corner's tangent weight, then projected onto the
corner's tangent plane. Interior points combine both displacements of a
corner, scaled by the face weight. Corners are used as is.

The edge weight table is only read. Degrees are not range checked here.
*/
func BuildPatch(p *Params, table EdgeWeightTable) (s *nurbs.Surface, err error) {
	var (
		P  [4]r3.Vec
		tw [4]float64
		fw = p.FaceWeight
	)
	for i, f := range p.Frames {
		P[i] = f.Position
		tw[i] = f.TangentWeight / 3.
	}
	edgePoint := func(i, j int) r3.Vec {
		pt := r3.Add(P[i], r3.Scale(tw[i], r3.Sub(P[j], P[i])))
		return p.Frames[i].Plane.Project(pt)
	}
	facePoint := func(i, j, k int) r3.Vec {
		dv1 := r3.Scale(tw[i], r3.Sub(P[j], P[i]))
		dv2 := r3.Scale(tw[i], r3.Sub(P[k], P[i]))
		pt := r3.Add(P[i], r3.Add(r3.Scale(fw, dv1), r3.Scale(fw, dv2)))
		return p.Frames[i].Plane.Project(pt)
	}
	var (
		e01, e02 = edgePoint(0, 1), edgePoint(1, 0)
		e11, e21 = edgePoint(0, 3), edgePoint(1, 2)
		e12, e22 = edgePoint(3, 0), edgePoint(2, 1)
		e31, e32 = edgePoint(3, 2), edgePoint(2, 3)
		f1, f2   = facePoint(0, 1, 3), facePoint(1, 0, 2)
		f3, f4   = facePoint(3, 0, 2), facePoint(2, 3, 1)
	)
	controlPoints := []r3.Vec{
		P[0], e01, e02, P[1],
		e11, f1, f2, e21,
		e12, f3, f4, e22,
		P[3], e31, e32, P[2],
	}

	var (
		q                  = p.Quad
		e0w, e1w, e2w, e3w float64
	)
	if e0w, err = table.Lookup(q[0], q[1]); err != nil {
		return nil, err
	}
	if e1w, err = table.Lookup(q[0], q[3]); err != nil {
		return nil, err
	}
	if e2w, err = table.Lookup(q[1], q[2]); err != nil {
		return nil, err
	}
	if e3w, err = table.Lookup(q[2], q[3]); err != nil {
		return nil, err
	}
	vw := func(i int) float64 { return p.Frames[i].Weight }
	weights := []float64{
		vw(0), e0w, e0w, vw(1),
		e1w, fw, fw, e2w,
		e1w, fw, fw, e2w,
		vw(3), e3w, e3w, vw(2),
	}

	var knotsU, knotsV []float64
	if knotsU, err = nurbs.GenerateKnotVector(p.DegreeU, GridSize, true); err != nil {
		return nil, fmt.Errorf("face %d, degree U: %w", p.Face, err)
	}
	if knotsV, err = nurbs.GenerateKnotVector(p.DegreeV, GridSize, true); err != nil {
		return nil, fmt.Errorf("face %d, degree V: %w", p.Face, err)
	}
	return nurbs.NewSurface(p.DegreeU, p.DegreeV, GridSize, GridSize,
		controlPoints, weights, knotsU, knotsV)
}
