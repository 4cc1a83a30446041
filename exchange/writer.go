package exchange

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/quadnurbs/batch"
	"github.com/notargets/quadnurbs/nurbs"
)

// PatchRecord is the serialized form of one surface. Weights hold one row per
// u index, ControlPoints are row-major like the surface.
type PatchRecord struct {
	Mesh          int          `json:"Mesh,omitempty"`
	Face          int          `json:"Face"`
	DegreeU       int          `json:"DegreeU"`
	DegreeV       int          `json:"DegreeV"`
	SizeU         int          `json:"SizeU"`
	SizeV         int          `json:"SizeV"`
	KnotsU        []float64    `json:"KnotsU"`
	KnotsV        []float64    `json:"KnotsV"`
	ControlPoints [][3]float64 `json:"ControlPoints"`
	Weights       [][]float64  `json:"Weights"`
}

type SkippedFace struct {
	Mesh        int    `json:"Mesh,omitempty"`
	Face        int    `json:"Face"`
	NumVertices int    `json:"NumVertices"`
	Message     string `json:"Message"`
}

type PatchFile struct {
	Title   string        `json:"Title,omitempty"`
	Patches []PatchRecord `json:"Patches"`
	Skipped []SkippedFace `json:"Skipped,omitempty"`
}

func NewPatchRecord(face int, s *nurbs.Surface) (pr PatchRecord) {
	pr = PatchRecord{
		Face:    face,
		DegreeU: s.DegreeU(),
		DegreeV: s.DegreeV(),
		SizeU:   s.SizeU(),
		SizeV:   s.SizeV(),
		KnotsU:  s.KnotsU(),
		KnotsV:  s.KnotsV(),
	}
	for _, row := range s.ControlGrid() {
		for _, pt := range row {
			pr.ControlPoints = append(pr.ControlPoints, [3]float64{pt.X, pt.Y, pt.Z})
		}
	}
	W := s.WeightMatrix()
	nr, _ := W.Dims()
	pr.Weights = make([][]float64, nr)
	for i := 0; i < nr; i++ {
		pr.Weights[i] = mat.Row(nil, i, W)
	}
	return
}

// NewPatchFile collects every surface and skipped face of one or more batch
// results. Records carry the index of their result as the mesh number.
func NewPatchFile(title string, results ...*batch.Result) (pf *PatchFile) {
	pf = &PatchFile{
		Title:   title,
		Patches: []PatchRecord{},
	}
	for m, res := range results {
		for i, s := range res.Surfaces {
			pr := NewPatchRecord(res.FaceIndex[i], s)
			pr.Mesh = m
			pf.Patches = append(pf.Patches, pr)
		}
		for _, d := range res.Diagnostics {
			pf.Skipped = append(pf.Skipped, SkippedFace{
				Mesh:        m,
				Face:        d.Face,
				NumVertices: d.NumVertices,
				Message:     d.Message,
			})
		}
	}
	return
}

// Surface rebuilds and validates the surface held by a record
func (pr *PatchRecord) Surface() (*nurbs.Surface, error) {
	var (
		weights []float64
	)
	if len(pr.Weights) != pr.SizeU {
		return nil, fmt.Errorf("face %d: have %d weight rows, want %d", pr.Face, len(pr.Weights), pr.SizeU)
	}
	for _, row := range pr.Weights {
		weights = append(weights, row...)
	}
	return nurbs.NewSurface(pr.DegreeU, pr.DegreeV, pr.SizeU, pr.SizeV,
		vecs(pr.ControlPoints), weights, pr.KnotsU, pr.KnotsV)
}

func WriteYAML(w io.Writer, pf *PatchFile) error {
	data, err := yaml.Marshal(pf)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func WriteJSON(w io.Writer, pf *PatchFile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(pf)
}

// ReadPatchFile reads a patch file written by WriteYAML or WriteJSON
func ReadPatchFile(data []byte) (pf *PatchFile, err error) {
	pf = &PatchFile{}
	if err = yaml.Unmarshal(data, pf); err != nil {
		return nil, err
	}
	return
}

// Write dispatches on one of the output formats: yaml, json or obj
func Write(w io.Writer, format string, pf *PatchFile) error {
	switch format {
	case "yaml", "yml":
		return WriteYAML(w, pf)
	case "json":
		return WriteJSON(w, pf)
	case "obj":
		return WriteOBJ(w, pf)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
