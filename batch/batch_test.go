package batch

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/quadnurbs/InputParameters"
	"github.com/notargets/quadnurbs/mesh"
	"github.com/notargets/quadnurbs/patch"
	"github.com/notargets/quadnurbs/utils"
)

// gridMesh is an nx by ny grid of quads over a gently curved height field
func gridMesh(nx, ny int) *mesh.SurfaceMesh {
	msh := &mesh.SurfaceMesh{}
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			x, y := float64(i), float64(j)
			msh.Vertices = append(msh.Vertices, r3.Vec{X: x, Y: y, Z: 0.1 * math.Sin(x) * math.Cos(y)})
		}
	}
	id := func(i, j int) int { return j*(nx+1) + i }
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			msh.Faces = append(msh.Faces, []int{id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)})
		}
	}
	return msh
}

func TestRunSkipsNonQuads(t *testing.T) {
	var buf bytes.Buffer
	orig := utils.Logger()
	utils.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { utils.SetLogger(orig) })

	msh := gridMesh(2, 1)
	quadsOnly, err := Run(&Input{Vertices: msh.Vertices, Faces: msh.Faces}, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, quadsOnly.Len())
	assert.Empty(t, quadsOnly.Diagnostics)

	// Add a triangle between the quads in face order
	faces := [][]int{msh.Faces[0], {1, 2, 4}, msh.Faces[1]}
	res, err := Run(&Input{Vertices: msh.Vertices, Faces: faces, Normals: msh.VertexNormals()}, Options{})
	require.NoError(t, err)
	assert.Equal(t, len(faces)-1, res.Len())
	assert.Equal(t, []int{0, 2}, res.FaceIndex)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, 1, res.Diagnostics[0].Face)
	assert.Equal(t, 3, res.Diagnostics[0].NumVertices)
	assert.Contains(t, res.Diagnostics[0].Message, "not a Quad")
	assert.Contains(t, buf.String(), "face is not a quad")

	// The extra edges from the triangle do not change the quads
	for i := 0; i < 2; i++ {
		assert.Equal(t, quadsOnly.ControlPoints[i], res.ControlPoints[i])
		assert.Equal(t, quadsOnly.Weights[i], res.Weights[i])
	}
}

func TestRunOutputs(t *testing.T) {
	msh := gridMesh(3, 2)
	in := &Input{
		Vertices:      msh.Vertices,
		Faces:         msh.Faces,
		VertexWeights: []float64{2},
		FaceWeights:   []float64{1, 0.5},
		EdgeWeights:   []float64{0.75},
		DegreesU:      []int{2},
	}
	res, err := Run(in, Options{})
	require.NoError(t, err)
	require.Equal(t, 6, res.Len())
	for i, s := range res.Surfaces {
		assert.Equal(t, 2, s.DegreeU())
		assert.Equal(t, 3, s.DegreeV())
		assert.Equal(t, s.ControlPoints(), res.ControlPoints[i])
		assert.Equal(t, s.Weights(), res.Weights[i])
		face := msh.Faces[res.FaceIndex[i]]
		// Corners
		assert.Equal(t, msh.Vertices[face[0]], s.ControlPoint(0, 0))
		assert.Equal(t, msh.Vertices[face[1]], s.ControlPoint(0, 3))
		assert.Equal(t, msh.Vertices[face[2]], s.ControlPoint(3, 3))
		assert.Equal(t, msh.Vertices[face[3]], s.ControlPoint(3, 0))
		assert.Equal(t, 2., s.Weight(0, 0))
		assert.Equal(t, 0.75, s.Weight(0, 1))
	}
	// Face weights padded from the last value
	assert.Equal(t, 1., res.Surfaces[0].Weight(1, 1))
	for i := 1; i < 6; i++ {
		assert.Equal(t, 0.5, res.Surfaces[i].Weight(1, 1))
	}
	// Inputs are not modified by padding or edge derivation
	assert.Nil(t, in.Edges)
	assert.Equal(t, []float64{2}, in.VertexWeights)
}

func TestRunSharedEdges(t *testing.T) {
	msh := gridMesh(3, 3)
	msh.EnsureEdges()
	weights := make([]float64, len(msh.Edges))
	for i := range weights {
		weights[i] = 1 + 0.1*float64(i)
	}
	res, err := Run(&Input{Vertices: msh.Vertices, Edges: msh.Edges, Faces: msh.Faces, EdgeWeights: weights}, Options{})
	require.NoError(t, err)
	// Neighbors in x share their right/left side, neighbors in y their top/bottom side
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			k := j*3 + i
			if i < 2 {
				for _, row := range []int{1, 2} {
					assert.Equal(t, res.Surfaces[k].Weight(row, 3), res.Surfaces[k+1].Weight(row, 0))
				}
			}
			if j < 2 {
				for _, col := range []int{1, 2} {
					assert.Equal(t, res.Surfaces[k].Weight(3, col), res.Surfaces[k+3].Weight(0, col))
				}
			}
		}
	}
}

func TestRunLooseEdges(t *testing.T) {
	// A quad with a loose edge hanging off one corner
	msh, err := mesh.ReadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nv 0 2 0\nf 1 2 3 4\nl 4 5\n"))
	require.NoError(t, err)
	require.Len(t, msh.Edges, 5)
	ip := InputParameters.NewQuadsToNurbsParameters()
	ip.EdgeWeights = []float64{1, 2, 3, 4, 5}
	res, err := Run(NewInput(msh, ip), Options{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	s := res.Surfaces[0]
	// Face edges in winding order (0,1) (1,2) (2,3) (0,3), the loose edge is last
	assert.Equal(t, 1., s.Weight(0, 1))
	assert.Equal(t, 2., s.Weight(1, 3))
	assert.Equal(t, 3., s.Weight(3, 1))
	assert.Equal(t, 4., s.Weight(1, 0))
}

func TestRunParallel(t *testing.T) {
	msh := gridMesh(9, 7)
	in := &Input{Vertices: msh.Vertices, Faces: msh.Faces, TangentWeights: []float64{1.5}}
	seq, err := Run(in, Options{ParallelDegree: 1})
	require.NoError(t, err)
	for _, np := range []int{2, 4, 16, 100} {
		par, err := Run(in, Options{ParallelDegree: np})
		require.NoError(t, err)
		assert.Equal(t, seq.FaceIndex, par.FaceIndex)
		assert.Equal(t, seq.ControlPoints, par.ControlPoints)
		assert.Equal(t, seq.Weights, par.Weights)
	}
}

func TestRunErrors(t *testing.T) {
	msh := gridMesh(2, 2)
	{ // Explicit edge list missing a quad side
		msh.EnsureEdges()
		edges := msh.Edges[1:]
		for _, np := range []int{1, 3} {
			_, err := Run(&Input{Vertices: msh.Vertices, Edges: edges, Faces: msh.Faces}, Options{ParallelDegree: np})
			assert.True(t, errors.Is(err, patch.ErrMissingEdgeWeight))
			assert.Contains(t, err.Error(), "face 0")
		}
	}
	{ // Degree out of range
		_, err := Run(&Input{Vertices: msh.Vertices, Faces: msh.Faces, DegreesV: []int{3, 4}}, Options{})
		assert.Error(t, err)
		_, err = Run(&Input{Vertices: msh.Vertices, Faces: msh.Faces, DegreesU: []int{1}}, Options{})
		assert.Error(t, err)
	}
	{ // Bad references and mismatched normals
		_, err := Run(&Input{Vertices: msh.Vertices, Faces: [][]int{{0, 1, 2, 99}}}, Options{})
		assert.Error(t, err)
		_, err = Run(&Input{Vertices: msh.Vertices, Faces: msh.Faces, Normals: []r3.Vec{{Z: 1}}}, Options{})
		assert.Error(t, err)
	}
}

func TestRunAll(t *testing.T) {
	ip := InputParameters.NewQuadsToNurbsParameters()
	ip.DegreeU = 2
	ins := []*Input{NewInput(gridMesh(1, 1), ip), NewInput(gridMesh(2, 3), ip)}
	results, err := RunAll(ins, Options{ParallelDegree: 2})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].Len())
	assert.Equal(t, 6, results[1].Len())
	assert.Equal(t, 2, results[1].Surfaces[5].DegreeU())

	bad := gridMesh(1, 1)
	bad.Faces[0][3] = 42
	_, err = RunAll([]*Input{ins[0], NewInput(bad, ip)}, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mesh 1")
}
