package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"
)

const (
	MinDegree, MaxDegree               = 2, 3
	MinTangentWeight, MaxTangentWeight = 0., 3.
)

var OutputFormats = []string{"yaml", "json", "obj"}

// Parameters obtained from the YAML input file. Weight lists are per
// element; short lists are padded by repeating their last value.
type QuadsToNurbsParameters struct {
	Title          string    `json:"Title"`
	DegreeU        int       `json:"DegreeU"`
	DegreeV        int       `json:"DegreeV"`
	VertexWeights  []float64 `json:"VertexWeights"`
	EdgeWeights    []float64 `json:"EdgeWeights"`
	FaceWeights    []float64 `json:"FaceWeights"`
	TangentWeights []float64 `json:"TangentWeights"`
	ParallelDegree int       `json:"ParallelDegree"`
	OutputFormat   string    `json:"OutputFormat"`
}

// NewQuadsToNurbsParameters returns parameters with every default set
func NewQuadsToNurbsParameters() (ip *QuadsToNurbsParameters) {
	ip = &QuadsToNurbsParameters{}
	ip.ApplyDefaults()
	return
}

// Parse fills in the defaults for every field absent from data. Fields
// given explicitly are kept as written, even zero, and left to Validate.
func (ip *QuadsToNurbsParameters) Parse(data []byte) error {
	ip.ApplyDefaults()
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	ip.OutputFormat = strings.ToLower(ip.OutputFormat)
	return nil
}

// ApplyDefaults fills zero valued fields
func (ip *QuadsToNurbsParameters) ApplyDefaults() {
	if ip.DegreeU == 0 {
		ip.DegreeU = 3
	}
	if ip.DegreeV == 0 {
		ip.DegreeV = 3
	}
	for _, w := range []*[]float64{&ip.VertexWeights, &ip.EdgeWeights, &ip.FaceWeights, &ip.TangentWeights} {
		if len(*w) == 0 {
			*w = []float64{1.}
		}
	}
	if ip.ParallelDegree < 1 {
		ip.ParallelDegree = 1
	}
	if ip.OutputFormat == "" {
		ip.OutputFormat = "yaml"
	}
	ip.OutputFormat = strings.ToLower(ip.OutputFormat)
}

// Validate enforces the bounds of each parameter
func (ip *QuadsToNurbsParameters) Validate() error {
	for _, d := range []struct {
		name string
		val  int
	}{{"DegreeU", ip.DegreeU}, {"DegreeV", ip.DegreeV}} {
		if d.val < MinDegree || d.val > MaxDegree {
			return fmt.Errorf("%s = %d, must be in [%d,%d]", d.name, d.val, MinDegree, MaxDegree)
		}
	}
	if ip.ParallelDegree < 1 {
		return fmt.Errorf("ParallelDegree = %d, must be at least 1", ip.ParallelDegree)
	}
	for i, tw := range ip.TangentWeights {
		if tw < MinTangentWeight || tw > MaxTangentWeight {
			return fmt.Errorf("TangentWeights[%d] = %g, must be in [%g,%g]",
				i, tw, MinTangentWeight, MaxTangentWeight)
		}
	}
	for _, f := range OutputFormats {
		if ip.OutputFormat == f {
			return nil
		}
	}
	return fmt.Errorf("OutputFormat %q is not one of %v", ip.OutputFormat, OutputFormats)
}

func (ip *QuadsToNurbsParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d,%d]\t\t\t= Degree U,V\n", ip.DegreeU, ip.DegreeV)
	fmt.Printf("%v\t\t\t= Vertex Weights\n", ip.VertexWeights)
	fmt.Printf("%v\t\t\t= Edge Weights\n", ip.EdgeWeights)
	fmt.Printf("%v\t\t\t= Face Weights\n", ip.FaceWeights)
	fmt.Printf("%v\t\t\t= Tangent Weights\n", ip.TangentWeights)
	fmt.Printf("[%d]\t\t\t\t= Parallel Degree\n", ip.ParallelDegree)
	fmt.Printf("[%s]\t\t\t= Output Format\n", ip.OutputFormat)
}
