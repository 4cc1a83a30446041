package batch

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/quadnurbs/InputParameters"
	"github.com/notargets/quadnurbs/geometry"
	"github.com/notargets/quadnurbs/mesh"
	"github.com/notargets/quadnurbs/nurbs"
	"github.com/notargets/quadnurbs/patch"
	"github.com/notargets/quadnurbs/utils"
)

const (
	DefaultVertexWeight  = 1.
	DefaultEdgeWeight    = 1.
	DefaultFaceWeight    = 1.
	DefaultTangentWeight = 1.
)

// Input is one mesh and its per element parameters. Every parameter list may
// be shorter than the element list it applies to, it is padded by repeating
// its last value. Edges and Normals are derived from the faces when empty.
type Input struct {
	Vertices []r3.Vec
	Edges    [][2]int
	Faces    [][]int
	Normals  []r3.Vec

	VertexWeights  []float64 // Per vertex
	TangentWeights []float64 // Per vertex
	EdgeWeights    []float64 // Per edge
	FaceWeights    []float64 // Per face
	DegreesU       []int     // Per face
	DegreesV       []int     // Per face
}

// NewInput pairs a mesh with the parameters of a run
func NewInput(msh *mesh.SurfaceMesh, ip *InputParameters.QuadsToNurbsParameters) *Input {
	return &Input{
		Vertices:       msh.Vertices,
		Edges:          msh.Edges,
		Faces:          msh.Faces,
		VertexWeights:  ip.VertexWeights,
		TangentWeights: ip.TangentWeights,
		EdgeWeights:    ip.EdgeWeights,
		FaceWeights:    ip.FaceWeights,
		DegreesU:       []int{ip.DegreeU},
		DegreesV:       []int{ip.DegreeV},
	}
}

type Options struct {
	ParallelDegree int // Number of goroutines building patches, 1 or less runs inline
}

// Diagnostic records a face that was skipped
type Diagnostic struct {
	Face        int
	NumVertices int
	Message     string
}

// Result holds parallel output sequences, one entry per quad in face order
type Result struct {
	Surfaces      []*nurbs.Surface
	ControlPoints [][]r3.Vec
	Weights       [][]float64
	FaceIndex     []int // Index of the source face of each entry
	Diagnostics   []Diagnostic
}

func (r *Result) Len() int {
	return len(r.Surfaces)
}

// Run builds one patch per quad face of in. Non quad faces are skipped with a
// diagnostic. Any failure building a patch aborts the whole run.
func Run(in *Input, opts Options) (res *Result, err error) {
	var (
		logger = utils.Logger()
		msh    = &mesh.SurfaceMesh{Vertices: in.Vertices, Edges: in.Edges, Faces: in.Faces}
		nv     = len(in.Vertices)
	)
	if err = msh.Validate(); err != nil {
		return nil, err
	}
	msh.EnsureEdges()

	var (
		nf             = len(msh.Faces)
		vertexWeights  = utils.FullList(in.VertexWeights, nv, DefaultVertexWeight)
		tangentWeights = utils.FullList(in.TangentWeights, nv, DefaultTangentWeight)
		edgeWeights    = utils.FullList(in.EdgeWeights, len(msh.Edges), DefaultEdgeWeight)
		faceWeights    = utils.FullList(in.FaceWeights, nf, DefaultFaceWeight)
		degreesU       = utils.FullList(in.DegreesU, nf, patch.DefaultDegree)
		degreesV       = utils.FullList(in.DegreesV, nf, patch.DefaultDegree)
		normals        = in.Normals
	)
	switch len(normals) {
	case 0:
		normals = msh.VertexNormals()
	case nv:
	default:
		return nil, fmt.Errorf("have %d normals for %d vertices", len(normals), nv)
	}
	for i, tw := range tangentWeights {
		if tw < InputParameters.MinTangentWeight || tw > InputParameters.MaxTangentWeight {
			logger.Debug("tangent weight out of range", "vertex", i, "weight", tw)
		}
	}

	planes := make([]geometry.Plane, nv)
	for i := range planes {
		planes[i] = geometry.NewPlane(normals[i], in.Vertices[i])
	}

	var table patch.EdgeWeightTable
	if table, err = patch.NewEdgeWeightTable(msh.Edges, edgeWeights); err != nil {
		return nil, err
	}

	res = &Result{}
	params := make([]*patch.Params, 0, nf)
	for f, face := range msh.Faces {
		if len(face) != 4 {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Face:        f,
				NumVertices: len(face),
				Message:     fmt.Sprintf("Face #%d is not a Quad, skip it", f),
			})
			logger.Info("face is not a quad, skipping", "face", f, "vertices", len(face))
			continue
		}
		for _, d := range []int{degreesU[f], degreesV[f]} {
			if d < InputParameters.MinDegree || d > InputParameters.MaxDegree {
				return nil, fmt.Errorf("face %d: degree %d must be in [%d,%d]",
					f, d, InputParameters.MinDegree, InputParameters.MaxDegree)
			}
		}
		p := &patch.Params{
			Face:       f,
			FaceWeight: faceWeights[f],
			DegreeU:    degreesU[f],
			DegreeV:    degreesV[f],
		}
		for i, vi := range face {
			p.Quad[i] = vi
			p.Frames[i] = patch.VertexFrame{
				Position:      in.Vertices[vi],
				Plane:         planes[vi],
				Weight:        vertexWeights[vi],
				TangentWeight: tangentWeights[vi],
			}
		}
		params = append(params, p)
	}
	logger.Debug("batch prepared", "vertices", nv, "edges", len(msh.Edges),
		"faces", nf, "quads", len(params), "workers", opts.ParallelDegree)

	surfaces := make([]*nurbs.Surface, len(params))
	if err = build(params, table, surfaces, opts.ParallelDegree); err != nil {
		return nil, err
	}

	res.Surfaces = surfaces
	res.ControlPoints = make([][]r3.Vec, len(params))
	res.Weights = make([][]float64, len(params))
	res.FaceIndex = make([]int, len(params))
	for i, s := range surfaces {
		res.ControlPoints[i] = s.ControlPoints()
		res.Weights[i] = s.Weights()
		res.FaceIndex[i] = params[i].Face
		if utils.IsNan(res.ControlPoints[i]) {
			logger.Warn("patch has NaN control points", "face", params[i].Face)
		}
	}
	return
}

// build fills surfaces[i] from params[i]. The table is only read, and each
// worker writes its own contiguous range of surfaces.
func build(params []*patch.Params, table patch.EdgeWeightTable, surfaces []*nurbs.Surface, np int) (err error) {
	buildRange := func(kMin, kMax int) error {
		for k := kMin; k < kMax; k++ {
			s, err := patch.BuildPatch(params[k], table)
			if err != nil {
				return fmt.Errorf("face %d: %w", params[k].Face, err)
			}
			surfaces[k] = s
		}
		return nil
	}
	if np <= 1 || len(params) < 2 {
		return buildRange(0, len(params))
	}
	var (
		pm   = utils.NewPartitionMap(np, len(params))
		errs = make([]error, pm.ParallelDegree)
		wg   = sync.WaitGroup{}
	)
	for n := 0; n < pm.ParallelDegree; n++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			kMin, kMax := pm.GetBucketRange(n)
			errs[n] = buildRange(kMin, kMax)
		}(n)
	}
	wg.Wait()
	// First failure in face order
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// RunAll processes several meshes with the same options
func RunAll(ins []*Input, opts Options) (results []*Result, err error) {
	results = make([]*Result, len(ins))
	for i, in := range ins {
		if results[i], err = Run(in, opts); err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
	}
	return
}
