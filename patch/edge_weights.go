package patch

import (
	"errors"
	"fmt"

	"github.com/notargets/quadnurbs/types"
)

var ErrMissingEdgeWeight = errors.New("edge weight not found")

// EdgeWeightTable maps an undirected mesh edge to its rational weight. It is
// built once per batch and only read afterwards, so one table can be shared by
// any number of concurrent patch builds.
type EdgeWeightTable struct {
	weights map[types.EdgeKey]float64
}

// NewEdgeWeightTable pairs edges[i] with weights[i]. When an edge is listed
// more than once the last weight wins.
func NewEdgeWeightTable(edges [][2]int, weights []float64) (tbl EdgeWeightTable, err error) {
	if len(weights) < len(edges) {
		err = fmt.Errorf("have %d edge weights for %d edges", len(weights), len(edges))
		return
	}
	tbl.weights = make(map[types.EdgeKey]float64, len(edges))
	for i, e := range edges {
		if !types.CanPack(e[0], e[1]) {
			err = fmt.Errorf("edge %d has invalid vertex indices (%d,%d)", i, e[0], e[1])
			return EdgeWeightTable{}, err
		}
		tbl.weights[types.NewEdgeKey(e)] = weights[i]
	}
	return
}

// Lookup returns the weight of the edge between vertices i and j, in either order
func (tbl EdgeWeightTable) Lookup(i, j int) (w float64, err error) {
	var (
		ok bool
	)
	if types.CanPack(i, j) {
		if w, ok = tbl.weights[types.NewEdgeKey([2]int{i, j})]; ok {
			return
		}
	}
	err = fmt.Errorf("%w: (%d,%d)", ErrMissingEdgeWeight, i, j)
	return
}

func (tbl EdgeWeightTable) Len() int {
	return len(tbl.weights)
}
