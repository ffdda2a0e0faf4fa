package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypes(t *testing.T) {
	{ // Test packed int for edge labeling
		en := NewEdgeKey([2]int{1, 0})
		assert.Equal(t, EdgeKey(1<<32), en)
		assert.Equal(t, [2]int{0, 1}, en.GetVertices(false))
		assert.Equal(t, [2]int{1, 0}, en.GetVertices(true))

		en = NewEdgeKey([2]int{100, 1})
		assert.Equal(t, EdgeKey(100*(1<<32)+1), en)
		assert.Equal(t, [2]int{1, 100}, en.GetVertices(false))

		en = NewEdgeKey([2]int{1<<32 - 1, 1<<32 - 1})
		assert.Equal(t, EdgeKey(1<<64-1), en)
		assert.Equal(t, [2]int{1<<32 - 1, 1<<32 - 1}, en.GetVertices(false))

		assert.Panics(t, func() { NewEdgeKey([2]int{-1, 2}) })
	}
	{ // Face keys ignore loop start and direction
		assert.Equal(t, NewFaceKey([]int{3, 1, 2, 7}), NewFaceKey([]int{7, 2, 1, 3}))
		assert.NotEqual(t, NewFaceKey([]int{3, 1, 2}), NewFaceKey([]int{3, 1, 2, 7}))
		verts := []int{5, 4, 3}
		NewFaceKey(verts)
		assert.Equal(t, []int{5, 4, 3}, verts)
	}
	{ // Entity keys
		assert.Equal(t, NewEdgeEntity(4, 9), NewEdgeEntity(9, 4))
		assert.NotEqual(t, NewVertexEntity(4), NewCellEntity(4))
		assert.Equal(t, "Edge", EdgeEntity.String())
	}
	{
		tokens := []string{"Dirichlet", " neumann", "NONE", "neuman"}
		flags := []BCFLAG{BC_Dirichlet, BC_Neumann, BC_None, BC_Neumann}
		for i, token := range tokens {
			bc, err := NewBCFLAG(token)
			require.NoError(t, err)
			assert.Equal(t, flags[i], bc)
		}
		_, err := NewBCFLAG("wall")
		assert.Error(t, err)
		assert.Equal(t, "Dirichlet", BC_Dirichlet.String())
	}
}
