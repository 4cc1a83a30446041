package nurbs

import (
	"fmt"

	"github.com/notargets/quadnurbs/utils"
)

// GenerateKnotVector builds a uniform knot vector on [0,1] for a B-spline of
// the given degree with numCtrlPts control points. A clamped vector repeats
// each end knot degree+1 times and spaces the interior knots evenly. The
// length is always numCtrlPts + degree + 1.
func GenerateKnotVector(degree, numCtrlPts int, clamped bool) (knots []float64, err error) {
	if degree < 1 || numCtrlPts < 1 {
		err = fmt.Errorf("degree (%d) and number of control points (%d) must be positive",
			degree, numCtrlPts)
		return
	}
	if !clamped {
		knots = utils.Linspace(0, 1, numCtrlPts+degree+1)
		return
	}
	var (
		numSegments = numCtrlPts - (degree + 1)
	)
	if numSegments < 0 {
		err = fmt.Errorf("a clamped knot vector of degree %d needs at least %d control points, have %d",
			degree, degree+1, numCtrlPts)
		return
	}
	knots = make([]float64, 0, numCtrlPts+degree+1)
	for i := 0; i < degree; i++ {
		knots = append(knots, 0)
	}
	knots = append(knots, utils.Linspace(0, 1, numSegments+2)...)
	for i := 0; i < degree; i++ {
		knots = append(knots, 1)
	}
	return
}

// KnotVec is a non-decreasing sequence of knot values
type KnotVec []float64

func (kv KnotVec) Clone() KnotVec {
	return append(KnotVec(nil), kv...)
}

func (kv KnotVec) IsNonDecreasing() bool {
	for i := 1; i < len(kv); i++ {
		if kv[i] < kv[i-1]-Epsilon {
			return false
		}
	}
	return true
}

// IsClamped reports whether the first and last knot values repeat at least
// degree+1 times
func (kv KnotVec) IsClamped(degree int) bool {
	if len(kv) < 2*(degree+1) {
		return false
	}
	_, mults := kv.Multiplicities()
	return mults[0] >= degree+1 && mults[len(mults)-1] >= degree+1
}

// Domain is the parameter range spanned by the basis functions of the given degree
func (kv KnotVec) Domain(degree int) (min, max float64) {
	min, max = kv[degree], kv[len(kv)-degree-1]
	return
}

// Multiplicities returns each distinct knot value and its repeat count
func (kv KnotVec) Multiplicities() (values []float64, mults []int) {
	if len(kv) == 0 {
		return
	}
	values = []float64{kv[0]}
	mults = []int{0}
	for _, knot := range kv {
		if cur := values[len(values)-1]; knot-cur > Epsilon || cur-knot > Epsilon {
			values = append(values, knot)
			mults = append(mults, 0)
		}
		mults[len(mults)-1]++
	}
	return
}
