package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/quadnurbs/geometry"
	"github.com/notargets/quadnurbs/types"
)

// SurfaceMesh is a polygon mesh: vertex positions, an optional explicit edge
// list, and faces as loops of vertex indices.
type SurfaceMesh struct {
	Vertices []r3.Vec
	Edges    [][2]int
	Faces    [][]int
}

// EdgesFromFaces lists the unique boundary edges of all faces in first seen
// order. Each edge is stored with its lower vertex index first.
func EdgesFromFaces(faces [][]int) (edges [][2]int) {
	var (
		seen = make(map[types.EdgeKey]struct{})
	)
	for _, face := range faces {
		nv := len(face)
		if nv < 2 {
			continue
		}
		for i := 0; i < nv; i++ {
			e := [2]int{face[i], face[(i+1)%nv]}
			if e[0] == e[1] || !types.CanPack(e[0], e[1]) {
				continue
			}
			key := types.NewEdgeKey(e)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, key.GetVertices(false))
		}
	}
	return
}

// addLooseEdges completes the edge list with the face edges, then appends the
// loose edges read from polyline records that no face already uses. Meshes
// without loose edges keep an empty list so it is derived later.
func (m *SurfaceMesh) addLooseEdges(lines [][2]int) {
	if len(lines) == 0 {
		return
	}
	m.Edges = EdgesFromFaces(m.Faces)
	seen := make(map[types.EdgeKey]struct{}, len(m.Edges))
	for _, e := range m.Edges {
		seen[types.NewEdgeKey(e)] = struct{}{}
	}
	for _, e := range lines {
		if e[0] == e[1] {
			continue
		}
		key := types.NewEdgeKey(e)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		m.Edges = append(m.Edges, key.GetVertices(false))
	}
}

// FaceNormal returns the unit normal of face f
func (m *SurfaceMesh) FaceNormal(f int) r3.Vec {
	var (
		face = m.Faces[f]
		loop = make([]r3.Vec, len(face))
	)
	for i, vi := range face {
		loop[i] = m.Vertices[vi]
	}
	return geometry.PolygonNormal(loop)
}

// VertexNormals accumulates the unit normals of the faces around each vertex
// and normalizes the sum. Vertices used by no face, or whose face normals
// cancel out, get a zero normal.
func (m *SurfaceMesh) VertexNormals() (normals []r3.Vec) {
	normals = make([]r3.Vec, len(m.Vertices))
	for f, face := range m.Faces {
		fn := m.FaceNormal(f)
		for _, vi := range face {
			normals[vi] = r3.Add(normals[vi], fn)
		}
	}
	for i, n := range normals {
		if r3.Norm(n) > 0 {
			normals[i] = r3.Unit(n)
		}
	}
	return
}

// EnsureEdges derives the edge list from the faces when none was supplied
func (m *SurfaceMesh) EnsureEdges() {
	if len(m.Edges) == 0 {
		m.Edges = EdgesFromFaces(m.Faces)
	}
}

// Validate checks that every edge and face references an existing vertex
func (m *SurfaceMesh) Validate() error {
	var (
		nv = len(m.Vertices)
	)
	for i, e := range m.Edges {
		for _, vi := range e {
			if vi < 0 || vi >= nv {
				return fmt.Errorf("edge %d references vertex %d, mesh has %d vertices", i, vi, nv)
			}
		}
	}
	for f, face := range m.Faces {
		for _, vi := range face {
			if vi < 0 || vi >= nv {
				return fmt.Errorf("face %d references vertex %d, mesh has %d vertices", f, vi, nv)
			}
		}
	}
	return nil
}

// FaceCounts tallies faces by vertex count
func (m *SurfaceMesh) FaceCounts() (counts map[int]int) {
	counts = make(map[int]int)
	for _, face := range m.Faces {
		counts[len(face)]++
	}
	return
}

func (m *SurfaceMesh) PrintStatistics() {
	fmt.Printf("Mesh Statistics:\n")
	fmt.Printf("  Vertices: %d\n", len(m.Vertices))
	fmt.Printf("  Edges: %d\n", len(m.Edges))
	fmt.Printf("  Faces: %d\n", len(m.Faces))
	counts := m.FaceCounts()
	fmt.Printf("  Face types:\n")
	for nv := 0; nv <= maxKey(counts); nv++ {
		if count, ok := counts[nv]; ok {
			fmt.Printf("    %s: %d\n", polygonName(nv), count)
		}
	}
}

func maxKey(counts map[int]int) (max int) {
	for k := range counts {
		if k > max {
			max = k
		}
	}
	return
}

func polygonName(nv int) string {
	switch nv {
	case 3:
		return "Triangle"
	case 4:
		return "Quad"
	default:
		return fmt.Sprintf("%d-gon", nv)
	}
}
