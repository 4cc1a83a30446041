package types

import (
	"fmt"
	"math"
)

/*
EdgeKey stores the two vertex indices of an undirected edge packed into one uint64.
An edge between vertices [4] and [0] is always stored as [0,4], so both traversal
directions of a shared edge produce the same key.
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// Two 32 bit unsigned indices, lowest index in the low word
	var (
		limit = math.MaxUint32
	)
	for _, vert := range verts {
		if vert < 0 || vert > limit {
			panic(fmt.Errorf("unable to pack two ints into a uint64, have %d and %d as inputs",
				verts[0], verts[1]))
		}
	}
	var i1, i2 int
	if verts[0] <= verts[1] {
		i1, i2 = verts[0], verts[1]
	} else {
		i1, i2 = verts[1], verts[0]
	}
	packed = EdgeKey(i1 + i2<<32)
	return
}

// CanPack reports whether both indices fit in an EdgeKey
func CanPack(i, j int) bool {
	return i >= 0 && j >= 0 && i <= math.MaxUint32 && j <= math.MaxUint32
}

func (ek EdgeKey) GetVertices(rev bool) (verts [2]int) {
	var (
		enTmp EdgeKey
	)
	enTmp = ek >> 32
	verts[1] = int(enTmp)
	verts[0] = int(ek - enTmp*(1<<32))
	if rev {
		verts[0], verts[1] = verts[1], verts[0]
	}
	return
}

func (ek EdgeKey) String() string {
	v := ek.GetVertices(false)
	return fmt.Sprintf("(%d,%d)", v[0], v[1])
}
