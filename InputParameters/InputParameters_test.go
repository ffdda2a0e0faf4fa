package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/types"
)

func TestParse(t *testing.T) {
	fileInput := []byte(`
Title: Test Case
Grid: triangles
GridSize: [3, 2]
Problem: quadratic
PolynomialOrder: 2
BoundarySamples: 2
Solver: cholesky
ParallelDegree: 4
BCs:
  Neumann: [right, Top]
`)
	ip := NewFEMParameters()
	require.NoError(t, ip.Parse(fileInput))
	assert.Equal(t, "Test Case", ip.Title)
	assert.Equal(t, "triangles", ip.Grid)
	assert.Equal(t, []int{3, 2}, ip.GridSize)
	assert.Equal(t, 2, ip.PolynomialOrder)
	assert.Equal(t, 4, ip.QuadOrder())
	assert.Equal(t, "cholesky", ip.Solver)
	// unset keys keep their defaults
	assert.Equal(t, "lagrange", ip.Discretization)
	assert.Equal(t, 1e-12, ip.Tolerance)
	assert.Equal(t, []string{"right", "Top"}, ip.BCs["Neumann"])
	ip.Print()

	fn, err := ip.BoundaryTagger(nil)
	require.NoError(t, err)
	assert.Equal(t, types.BC_Neumann, fn(r3.Vec{X: 1, Y: 0.5}, 0))
	assert.Equal(t, types.BC_Neumann, fn(r3.Vec{X: 0.5, Y: 1}, 0))
	assert.Equal(t, types.BC_Dirichlet, fn(r3.Vec{X: 0, Y: 0.5}, 0))

	ip.BCs = map[string][]string{"Robin": {"left"}}
	_, err = ip.BoundaryTagger(nil)
	assert.Error(t, err)
	ip.BCs = map[string][]string{"Neumann": {"inside"}}
	_, err = ip.BoundaryTagger(nil)
	assert.Error(t, err)

	// markers resolve names that are not sides
	ip.BCs = map[string][]string{"Neumann": {"outlet"}}
	find := func(c r3.Vec) (string, bool) {
		if c.X > 2 {
			return "outlet", true
		}
		return "", false
	}
	fn, err = ip.BoundaryTagger(find)
	require.NoError(t, err)
	assert.Equal(t, types.BC_Neumann, fn(r3.Vec{X: 3, Y: 0.5}, 0))
	assert.Equal(t, types.BC_Dirichlet, fn(r3.Vec{X: 0, Y: 0.5}, 0))
}
