package nurbs

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

const Epsilon = 1.e-10

var ErrInvalidSurface = errors.New("invalid nurbs surface")

// Surface describes a rational B-spline surface. Control points and weights
// are stored row-major, the u index selecting the row:
//
//	index = u*sizeV + v
//
// A Surface is immutable once built; accessors return copies.
type Surface struct {
	degreeU, degreeV int
	sizeU, sizeV     int
	controlPoints    []r3.Vec
	weights          []float64
	knotsU, knotsV   KnotVec
}

// NewSurface copies its inputs into a validated Surface
func NewSurface(degreeU, degreeV, sizeU, sizeV int, controlPoints []r3.Vec, weights, knotsU, knotsV []float64) (s *Surface, err error) {
	s = &Surface{
		degreeU:       degreeU,
		degreeV:       degreeV,
		sizeU:         sizeU,
		sizeV:         sizeV,
		controlPoints: append([]r3.Vec(nil), controlPoints...),
		weights:       append([]float64(nil), weights...),
		knotsU:        KnotVec(knotsU).Clone(),
		knotsV:        KnotVec(knotsV).Clone(),
	}
	if err = s.Validate(); err != nil {
		return nil, err
	}
	return
}

// Validate checks the sizes and knot vectors for consistency
func (s *Surface) Validate() error {
	switch {
	case s.degreeU < 1 || s.degreeV < 1:
		return fmt.Errorf("%w: degrees must be positive, have (%d,%d)",
			ErrInvalidSurface, s.degreeU, s.degreeV)
	case s.sizeU <= s.degreeU || s.sizeV <= s.degreeV:
		return fmt.Errorf("%w: control grid %dx%d is too small for degrees (%d,%d)",
			ErrInvalidSurface, s.sizeU, s.sizeV, s.degreeU, s.degreeV)
	case len(s.controlPoints) != s.sizeU*s.sizeV:
		return fmt.Errorf("%w: have %d control points, want %d",
			ErrInvalidSurface, len(s.controlPoints), s.sizeU*s.sizeV)
	case len(s.weights) != len(s.controlPoints):
		return fmt.Errorf("%w: have %d weights for %d control points",
			ErrInvalidSurface, len(s.weights), len(s.controlPoints))
	case floats.HasNaN(s.weights):
		return fmt.Errorf("%w: NaN weight", ErrInvalidSurface)
	}
	if err := checkKnots("u", s.knotsU, s.degreeU, s.sizeU); err != nil {
		return err
	}
	return checkKnots("v", s.knotsV, s.degreeV, s.sizeV)
}

func checkKnots(dir string, kv KnotVec, degree, size int) error {
	if len(kv) != size+degree+1 {
		return fmt.Errorf("%w: %s knot vector has %d knots, want %d",
			ErrInvalidSurface, dir, len(kv), size+degree+1)
	}
	if !kv.IsNonDecreasing() {
		return fmt.Errorf("%w: %s knot vector is decreasing", ErrInvalidSurface, dir)
	}
	return nil
}

func (s *Surface) DegreeU() int { return s.degreeU }
func (s *Surface) DegreeV() int { return s.degreeV }
func (s *Surface) SizeU() int   { return s.sizeU }
func (s *Surface) SizeV() int   { return s.sizeV }

func (s *Surface) ControlPoint(u, v int) r3.Vec {
	return s.controlPoints[u*s.sizeV+v]
}

func (s *Surface) Weight(u, v int) float64 {
	return s.weights[u*s.sizeV+v]
}

// ControlPoints returns the flattened row-major control points
func (s *Surface) ControlPoints() []r3.Vec {
	return append([]r3.Vec(nil), s.controlPoints...)
}

// Weights returns the flattened row-major weights
func (s *Surface) Weights() []float64 {
	return append([]float64(nil), s.weights...)
}

// ControlGrid returns the control points as sizeU rows of sizeV points
func (s *Surface) ControlGrid() (grid [][]r3.Vec) {
	grid = make([][]r3.Vec, s.sizeU)
	for u := range grid {
		grid[u] = append([]r3.Vec(nil), s.controlPoints[u*s.sizeV:(u+1)*s.sizeV]...)
	}
	return
}

// WeightMatrix returns the weights as a sizeU x sizeV matrix
func (s *Surface) WeightMatrix() *mat.Dense {
	return mat.NewDense(s.sizeU, s.sizeV, s.Weights())
}

func (s *Surface) KnotsU() []float64 { return s.knotsU.Clone() }
func (s *Surface) KnotsV() []float64 { return s.knotsV.Clone() }

func (s *Surface) DomainU() (min, max float64) { return s.knotsU.Domain(s.degreeU) }
func (s *Surface) DomainV() (min, max float64) { return s.knotsV.Domain(s.degreeV) }

// IsClamped reports whether the surface interpolates its corner control points
func (s *Surface) IsClamped() bool {
	return s.knotsU.IsClamped(s.degreeU) && s.knotsV.IsClamped(s.degreeV)
}
