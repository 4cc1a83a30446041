package mesh

import (
	"fmt"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/spatial/r3"
)

// meshFile is the YAML (or JSON) layout of a surface mesh:
//
//	Vertices: [[0,0,0], [1,0,0], [1,1,0], [0,1,0]]
//	Edges: [[0,1], [1,2]]   # optional
//	Faces: [[0,1,2,3]]
type meshFile struct {
	Vertices [][3]float64 `json:"Vertices"`
	Edges    [][2]int     `json:"Edges,omitempty"`
	Faces    [][]int      `json:"Faces"`
}

func ReadYAML(data []byte) (msh *SurfaceMesh, err error) {
	var mf meshFile
	if err = yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("parsing mesh: %w", err)
	}
	msh = &SurfaceMesh{
		Vertices: make([]r3.Vec, len(mf.Vertices)),
		Edges:    mf.Edges,
		Faces:    mf.Faces,
	}
	for i, v := range mf.Vertices {
		msh.Vertices[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	if err = msh.Validate(); err != nil {
		return nil, err
	}
	return
}

// EncodeYAML writes the mesh in the layout read by ReadYAML
func (m *SurfaceMesh) EncodeYAML() ([]byte, error) {
	mf := meshFile{
		Vertices: make([][3]float64, len(m.Vertices)),
		Edges:    m.Edges,
		Faces:    m.Faces,
	}
	for i, v := range m.Vertices {
		mf.Vertices[i] = [3]float64{v.X, v.Y, v.Z}
	}
	return yaml.Marshal(mf)
}
