package types

import (
	"fmt"
	"math"
	"sort"
)

/*
EdgeKey is an always positive number that stores an edge's vertices as indices in a way that can be compared
An edge between vertices [4] and [0] will always be stored as [0,4], in the ascending order of the index values
*/
type EdgeKey uint64

func NewEdgeKey(verts [2]int) (packed EdgeKey) {
	// Two 32 bit unsigned integers packed into one word, lowest index first
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

/*
FaceKey identifies a face (or any vertex set) independent of the ordering or the starting point of its vertex loop.
Two faces sharing the same vertex set have the same key.
*/
type FaceKey string

func NewFaceKey(verts []int) FaceKey {
	sorted := make([]int, len(verts))
	copy(sorted, verts)
	sort.Ints(sorted)
	return FaceKey(fmt.Sprintf("%v", sorted))
}

// EntityKey names the mesh entity a degree of freedom sits on.
type EntityKey struct {
	Kind EntityKind
	Key  string
}

type EntityKind uint8

const (
	VertexEntity EntityKind = iota
	EdgeEntity
	FaceEntity
	CellEntity
)

func (k EntityKind) String() string {
	switch k {
	case VertexEntity:
		return "Vertex"
	case EdgeEntity:
		return "Edge"
	case FaceEntity:
		return "Face"
	case CellEntity:
		return "Cell"
	}
	return fmt.Sprintf("EntityKind(%d)", k)
}

func NewVertexEntity(v int) EntityKey {
	return EntityKey{Kind: VertexEntity, Key: fmt.Sprintf("%d", v)}
}

func NewEdgeEntity(a, b int) EntityKey {
	return EntityKey{Kind: EdgeEntity, Key: fmt.Sprintf("%d", NewEdgeKey([2]int{a, b}))}
}

func NewFaceEntity(verts []int) EntityKey {
	return EntityKey{Kind: FaceEntity, Key: string(NewFaceKey(verts))}
}

func NewCellEntity(element int) EntityKey {
	return EntityKey{Kind: CellEntity, Key: fmt.Sprintf("%d", element)}
}
