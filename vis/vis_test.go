package vis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/basis"
	"github.com/notargets/polyfem/mesh"
)

func space(t *testing.T, m mesh.Mesh) *basis.Space {
	s, err := basis.Build(m, mesh.ComputeElementTags(m), basis.Options{Order: 1})
	require.NoError(t, err)
	return s
}

func area(vm *VisMesh, faces [][3]int) (a float64) {
	for _, f := range faces {
		p0, p1, p2 := vm.Points[f[0]], vm.Points[f[1]], vm.Points[f[2]]
		a += 0.5 * r3.Norm(r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0)))
	}
	return
}

func TestBuildVisMesh(t *testing.T) {
	{
		s := space(t, mesh.NewUnitSquareQuads(2, 2))
		vm, err := BuildVisMesh(s, 2)
		require.NoError(t, err)
		assert.Equal(t, 36, len(vm.Points))
		assert.Equal(t, 32, len(vm.Faces))
		assert.Equal(t, []int{0, 8, 16, 24, 32}, vm.ElementRanges)
		assert.InDelta(t, 1., area(vm, vm.Faces), 1e-14)
		for _, f := range vm.Faces {
			p0, p1, p2 := vm.Points[f[0]], vm.Points[f[1]], vm.Points[f[2]]
			assert.True(t, r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0)).Z > 0)
		}
		{ // a linear field is reproduced at the vis points
			fun := make([]float64, s.NumBases)
			for i, p := range s.Nodes {
				fun[i] = 1 + 2*p.X - p.Y
			}
			res := vm.Interpolate(s, fun, 1)
			for i, p := range vm.Points {
				assert.InDelta(t, 1+2*p.X-p.Y, res.At(i, 0), 1e-14)
			}
		}
		{
			valid, faces := SliceElements(s.Mesh.NormalizedBarycenters(), 0, 0.5, vm)
			assert.Equal(t, []bool{true, false, true, false}, valid)
			assert.Equal(t, 16, len(faces))
			assert.Equal(t, vm.Faces[16:24], faces[8:])
		}
	}
	{
		vm, err := BuildVisMesh(space(t, mesh.NewUnitSquareTriangles(2, 2)), 3)
		require.NoError(t, err)
		assert.Equal(t, 8*10, len(vm.Points))
		assert.Equal(t, 8*9, len(vm.Faces))
		assert.InDelta(t, 1., area(vm, vm.Faces), 1e-14)
	}
	{
		m, err := mesh.NewPlanarMesh([]r3.Vec{{}, {X: 2}, {X: 2, Y: 1}, {X: 1, Y: 2}, {Y: 1}}, [][]int{{0, 1, 2, 3, 4}})
		require.NoError(t, err)
		s := space(t, m)
		vm, err := BuildVisMesh(s, 2)
		require.NoError(t, err)
		assert.Equal(t, 3*4, len(vm.Faces))
		assert.InDelta(t, 3., area(vm, vm.Faces), 1e-14)
		fun := make([]float64, s.NumBases)
		for i, p := range s.Nodes {
			fun[i] = p.X + p.Y
		}
		res := vm.Interpolate(s, fun, 1)
		for i, p := range vm.Points {
			assert.InDelta(t, p.X+p.Y, res.At(i, 0), 1e-12)
		}
	}
	{ // hex faces cover the cube surface with outward normals
		m := mesh.NewUnitCubeHexes(1, 1, 1)
		vm, err := BuildVisMesh(space(t, m), 1)
		require.NoError(t, err)
		assert.Equal(t, 12, len(vm.Faces))
		assert.InDelta(t, 6., area(vm, vm.Faces), 1e-14)
		center := r3.Vec{X: 0.5, Y: 0.5, Z: 0.5}
		for _, f := range vm.Faces {
			p0, p1, p2 := vm.Points[f[0]], vm.Points[f[1]], vm.Points[f[2]]
			n := r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
			assert.True(t, r3.Dot(n, r3.Sub(p0, center)) > 0)
		}
	}
	{
		m := mesh.NewUnitCubeTets(1, 1, 1)
		vm, err := BuildVisMesh(space(t, m), 2)
		require.NoError(t, err)
		assert.Equal(t, 6*4*4, len(vm.Faces))
		assert.Equal(t, 7, len(vm.ElementRanges))
	}
}
