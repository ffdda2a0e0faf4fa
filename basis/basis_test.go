package basis

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/mesh"
	"github.com/notargets/polyfem/types"
)

func build(t *testing.T, m mesh.Mesh, order int) *Space {
	space, err := Build(m, mesh.ComputeElementTags(m), Options{Order: order, BoundarySamples: 1})
	require.NoError(t, err)
	return space
}

// field evaluates sum_k phi_k(x) sum_links w u[index] on one element.
func field(eb *ElementBases, x []float64, u []float64) (v float64) {
	for _, b := range eb.Bases {
		phi := b.Value(x)
		for _, l := range b.Global {
			v += phi * l.Weight * u[l.Index]
		}
	}
	return
}

func nodal(space *Space, fn func(p r3.Vec) float64) (u []float64) {
	u = make([]float64, space.NumBases)
	for i, p := range space.Nodes {
		u[i] = fn(p)
	}
	return
}

func refPoint(s Shape) []float64 {
	switch s {
	case QuadShape:
		return []float64{0.3, 0.6}
	case HexShape:
		return []float64{0.3, 0.6, 0.2}
	case TriangleShape:
		return []float64{0.2, 0.3}
	}
	return []float64{0.2, 0.3, 0.1}
}

func pentagonMesh(t *testing.T) *mesh.PlanarMesh {
	m, err := mesh.NewPlanarMesh([]r3.Vec{{}, {X: 2}, {X: 2, Y: 1}, {X: 1, Y: 2}, {Y: 1}}, [][]int{{0, 1, 2, 3, 4}})
	require.NoError(t, err)
	return m
}

func pyramidMesh(t *testing.T) *mesh.VolumetricMesh {
	verts := []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}, {X: 0.5, Y: 0.5, Z: 1}}
	faces := [][][]int{{{0, 3, 2, 1}, {0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}}
	m, err := mesh.NewVolumetricMesh(verts, [][]int{{0, 1, 2, 3, 4}}, faces)
	require.NoError(t, err)
	return m
}

func TestPartitionOfUnity(t *testing.T) {
	meshes := []mesh.Mesh{
		mesh.NewUnitSquareQuads(2, 2),
		mesh.NewUnitSquareTriangles(2, 2),
		mesh.NewUnitCubeHexes(1, 1, 1),
		mesh.NewUnitCubeTets(1, 1, 1),
	}
	for _, m := range meshes {
		for order := 1; order <= 2; order++ {
			space := build(t, m, order)
			for e := range space.Bases {
				eb := &space.Bases[e]
				x := refPoint(eb.Shape)
				var sum float64
				for _, b := range eb.Bases {
					sum += b.Value(x)
					var wsum float64
					for _, l := range b.Global {
						wsum += l.Weight
					}
					assert.InDelta(t, 1., wsum, 1e-14)
				}
				assert.InDelta(t, 1., sum, 1e-13, "%s order %d", eb.Shape, order)
			}
		}
	}
	{ // Polygon and polyhedron, in physical coordinates
		for _, order := range []int{1, 2} {
			space := build(t, pentagonMesh(t), order)
			eb := &space.Bases[0]
			for _, x := range [][]float64{{1, 1}, {0.5, 0.5}, {1.5, 0.7}, {0.1, 0.9}} {
				var sum float64
				for _, b := range eb.Bases {
					sum += b.Value(x)
				}
				assert.InDelta(t, 1., sum, 1e-13)
			}
			for _, b := range eb.Bases {
				var wsum float64
				for _, l := range b.Global {
					wsum += l.Weight
				}
				assert.InDelta(t, 1., wsum, 1e-14)
			}
		}
		space := build(t, pyramidMesh(t), 1)
		for _, x := range [][]float64{{0.5, 0.5, 0.3}, {0.3, 0.6, 0.1}} {
			var sum float64
			for _, b := range space.Bases[0].Bases {
				sum += b.Value(x)
			}
			assert.InDelta(t, 1., sum, 1e-13)
		}
	}
}

func TestGlobalNumbering(t *testing.T) {
	{
		space := build(t, mesh.NewUnitSquareQuads(2, 2), 1)
		assert.Equal(t, 9, space.NumBases)
		assert.Equal(t, 8, len(space.BoundaryNodes))
		assert.Equal(t, space.BoundaryNodes, space.DirichletNodes)
		// elements 0 and 1 share vertices 1 and 4
		idx := func(e, lv int) int { return space.Bases[e].Bases[lv].Global[0].Index }
		assert.Equal(t, idx(0, 1), idx(1, 0))
		assert.Equal(t, idx(0, 2), idx(1, 3))
		assert.Equal(t, idx(0, 2), idx(3, 0))
		assert.True(t, space.Bases[0].IsoParametric)
		for _, key := range space.Entities {
			assert.Equal(t, types.VertexEntity, key.Kind)
		}
		for e := range space.Bases {
			for lv, b := range space.Bases[e].Bases {
				assert.Equal(t, space.Mesh.Point(space.Mesh.ElementVertices(e)[lv]), b.Global[0].Node)
			}
		}
		assert.False(t, space.IsBoundaryNode(idx(0, 2)))
		assert.True(t, space.IsBoundaryNode(idx(0, 0)))
	}
	{
		assert.Equal(t, 25, build(t, mesh.NewUnitSquareQuads(2, 2), 2).NumBases)
		assert.Equal(t, 25, build(t, mesh.NewUnitSquareTriangles(2, 2), 2).NumBases)
		assert.Equal(t, 27, build(t, mesh.NewUnitCubeHexes(1, 1, 1), 2).NumBases)
		assert.Equal(t, 27, build(t, mesh.NewUnitCubeTets(1, 1, 1), 2).NumBases)
		space := build(t, mesh.NewUnitCubeHexes(2, 2, 2), 2)
		assert.Equal(t, 125, space.NumBases)
		assert.Equal(t, 125-27, len(space.BoundaryNodes))
		assert.False(t, space.Bases[0].IsoParametric)
	}
	{ // Dirichlet nodes follow the facet tags
		m := mesh.NewUnitSquareQuads(2, 2)
		m.SetBoundaryTags(func(c r3.Vec, f int) types.BCFLAG {
			if c.X < 1e-9 {
				return types.BC_Dirichlet
			}
			return types.BC_Neumann
		})
		space := build(t, m, 1)
		assert.Equal(t, 8, len(space.BoundaryNodes))
		assert.Equal(t, 3, len(space.DirichletNodes))
		for _, i := range space.DirichletNodes {
			assert.Equal(t, 0., space.Nodes[i].X)
		}
	}
	{ // Parallel construction gives the same numbering
		m := mesh.NewUnitSquareTriangles(4, 4)
		tags := mesh.ComputeElementTags(m)
		serial, err := Build(m, tags, Options{Order: 2})
		require.NoError(t, err)
		parallel, err := Build(m, tags, Options{Order: 2, ParallelDegree: 3, Partition: mesh.PartitionSpatial})
		require.NoError(t, err)
		require.Equal(t, serial.NumBases, parallel.NumBases)
		for e := range serial.Bases {
			for k := range serial.Bases[e].Bases {
				assert.Equal(t, serial.Bases[e].Bases[k].Global, parallel.Bases[e].Bases[k].Global)
			}
		}
	}
}

func TestPolynomialReproduction(t *testing.T) {
	quadratic := func(p r3.Vec) float64 { return p.X*p.X + p.X*p.Y + 0.5*p.Y*p.Y - p.Z*p.Y + p.Z*p.Z + p.X }
	linear := func(p r3.Vec) float64 { return 1 + 2*p.X - 3*p.Y + 0.5*p.Z }
	meshes := []mesh.Mesh{
		mesh.NewUnitSquareQuads(2, 2),
		mesh.NewUnitSquareTriangles(2, 2),
		mesh.NewUnitCubeHexes(2, 1, 1),
		mesh.NewUnitCubeTets(1, 1, 1),
	}
	for _, m := range meshes {
		for order, fn := range map[int]func(r3.Vec) float64{1: linear, 2: quadratic} {
			space := build(t, m, order)
			u := nodal(space, fn)
			for e := range space.Bases {
				eb := &space.Bases[e]
				x := refPoint(eb.Shape)
				phys := eb.EvalGeomMapping(mat.NewDense(1, len(x), x)).RawRowView(0)
				p := r3.Vec{X: phys[0], Y: phys[1]}
				if len(phys) == 3 {
					p.Z = phys[2]
				}
				assert.InDelta(t, fn(p), field(eb, x, u), 1e-13, "%s order %d", eb.Shape, order)
			}
		}
	}
	{ // Mean value bases reproduce linear fields through the weighted links
		for _, order := range []int{1, 2} {
			space := build(t, pentagonMesh(t), order)
			u := nodal(space, linear)
			for _, x := range [][]float64{{1, 1}, {0.5, 0.5}, {1.5, 0.7}} {
				assert.InDelta(t, linear(r3.Vec{X: x[0], Y: x[1]}), field(&space.Bases[0], x, u), 1e-12)
			}
		}
	}
	{ // Star basis on a pyramid
		space := build(t, pyramidMesh(t), 1)
		u := nodal(space, linear)
		for _, x := range [][]float64{{0.5, 0.5, 0.3}, {0.3, 0.6, 0.1}, {0.7, 0.4, 0.5}} {
			assert.InDelta(t, linear(r3.Vec{X: x[0], Y: x[1], Z: x[2]}), field(&space.Bases[0], x, u), 1e-13)
		}
	}
}

func TestGradients(t *testing.T) {
	const h = 1e-6
	check := func(b Basis, x []float64) {
		g := make([]float64, len(x))
		b.Gradient(x, g)
		for d := range x {
			xp, xm := append([]float64{}, x...), append([]float64{}, x...)
			xp[d] += h
			xm[d] -= h
			fd := (b.Value(xp) - b.Value(xm)) / (2 * h)
			assert.InDelta(t, fd, g[d], 1e-6)
		}
	}
	for _, m := range []mesh.Mesh{mesh.NewUnitSquareQuads(1, 1), mesh.NewUnitCubeTets(1, 1, 1),
		mesh.NewUnitCubeHexes(1, 1, 1), mesh.NewUnitSquareTriangles(1, 1)} {
		space := build(t, m, 2)
		eb := &space.Bases[0]
		for _, b := range eb.Bases {
			check(b, refPoint(eb.Shape))
		}
	}
	{
		space := build(t, pentagonMesh(t), 1)
		for _, b := range space.Bases[0].Bases {
			check(b, []float64{0.7, 0.9})
			check(b, []float64{1.6, 0.4})
		}
	}
	{
		space := build(t, pyramidMesh(t), 1)
		for _, b := range space.Bases[0].Bases {
			check(b, []float64{0.45, 0.5, 0.3})
		}
	}
}

func TestGeometry(t *testing.T) {
	{
		space := build(t, mesh.NewUnitSquareQuads(2, 2), 1)
		eb := &space.Bases[3]
		assert.Equal(t, QuadShape, eb.Shape)
		J := eb.Jacobian([]float64{0.2, 0.7})
		assert.InDelta(t, 0.25, mat.Det(J), 1e-14)
		phys := eb.EvalGeomMapping(mat.NewDense(2, 2, []float64{0, 0, 1, 1}))
		assert.Equal(t, []float64{0.5, 0.5, 1, 1}, phys.RawMatrix().Data)
		q, err := eb.Quadrature(2)
		require.NoError(t, err)
		assert.InDelta(t, 1., floats.Sum(q.Weights), 1e-14)
	}
	{ // Triangles integrate to the reference area
		space := build(t, mesh.NewUnitSquareTriangles(1, 1), 1)
		eb := &space.Bases[0]
		assert.Equal(t, TriangleShape, eb.Shape)
		q, err := eb.Quadrature(1)
		require.NoError(t, err)
		assert.Equal(t, 1, q.Size())
		assert.InDelta(t, 0.5, q.Weights[0], 1e-15)
	}
	{ // Polytopes integrate in physical space with an identity map
		space := build(t, pentagonMesh(t), 1)
		eb := &space.Bases[0]
		assert.Equal(t, PolygonShape, eb.Shape)
		assert.Equal(t, mesh.BoundaryPolytope, eb.Type)
		assert.InDelta(t, 1., mat.Det(eb.Jacobian([]float64{1, 1})), 1e-15)
		q, err := eb.Quadrature(2)
		require.NoError(t, err)
		assert.InDelta(t, 3., floats.Sum(q.Weights), 1e-13)
		// x integrates to the first moment
		var mx float64
		for i, w := range q.Weights {
			mx += w * q.Points.At(i, 0)
		}
		assert.InDelta(t, 3., mx, 1e-12)
		assert.Equal(t, 5*2, eb.Size())

		space = build(t, pyramidMesh(t), 1)
		q, err = space.Bases[0].Quadrature(1)
		require.NoError(t, err)
		assert.InDelta(t, 1./3, floats.Sum(q.Weights), 1e-14)
		assert.Equal(t, PolyhedronShape, space.Bases[0].Shape)
	}
}

func TestConformity(t *testing.T) {
	// 3x3 grid whose center cell is a pentagon with a hanging vertex on its lower edge
	var verts []r3.Vec
	for j := 0; j < 4; j++ {
		for i := 0; i < 4; i++ {
			verts = append(verts, r3.Vec{X: float64(i) / 3, Y: float64(j) / 3})
		}
	}
	verts = append(verts, r3.Vec{X: 0.5, Y: 1. / 3})
	var elems [][]int
	for j := 0; j < 3; j++ {
		for i := 0; i < 3; i++ {
			id := func(i, j int) int { return j*4 + i }
			elems = append(elems, []int{id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)})
		}
	}
	elems[1] = []int{1, 2, 6, 16, 5}
	elems[4] = []int{5, 16, 6, 10, 9}
	m, err := mesh.NewPlanarMesh(verts, elems)
	require.NoError(t, err)
	space := build(t, m, 1)
	require.Equal(t, mesh.InteriorPolytope, space.Bases[4].Type)
	// arbitrary nodal values
	u := make([]float64, space.NumBases)
	for i := range u {
		u[i] = math.Sin(float64(3*i + 1))
	}
	// the edge between vertices 6 and 10 at x = 2/3 is shared by the pentagon and quad 5
	for _, s := range []float64{0.1, 0.5, 0.8} {
		poly := field(&space.Bases[4], []float64{2. / 3, 1./3 + s/3}, u)
		quad := field(&space.Bases[5], []float64{0, s}, u)
		assert.InDelta(t, quad, poly, 1e-10)
	}
}

func TestConformityBetweenSamples(t *testing.T) {
	{ // Order 2 pentagon next to Q2 quads: the trace is piecewise linear between the samples
		var verts []r3.Vec
		for j := 0; j < 4; j++ {
			for i := 0; i < 4; i++ {
				verts = append(verts, r3.Vec{X: float64(i) / 3, Y: float64(j) / 3})
			}
		}
		verts = append(verts, r3.Vec{X: 0.5, Y: 1. / 3})
		var elems [][]int
		for j := 0; j < 3; j++ {
			for i := 0; i < 3; i++ {
				id := func(i, j int) int { return j*4 + i }
				elems = append(elems, []int{id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)})
			}
		}
		elems[1] = []int{1, 2, 6, 16, 5}
		elems[4] = []int{5, 16, 6, 10, 9}
		m, err := mesh.NewPlanarMesh(verts, elems)
		require.NoError(t, err)
		// y^2 has second derivative 2/9 along the edge x = 2/3 in the edge parameter s
		fn := func(p r3.Vec) float64 { return p.X*p.X + p.Y*p.Y }
		mismatch := func(ns int, s float64) float64 {
			space, err := Build(m, mesh.ComputeElementTags(m), Options{Order: 2, BoundarySamples: ns})
			require.NoError(t, err)
			u := nodal(space, fn)
			poly := field(&space.Bases[4], []float64{2. / 3, 1./3 + s/3}, u)
			quad := field(&space.Bases[5], []float64{0, s}, u)
			assert.InDelta(t, fn(r3.Vec{X: 2. / 3, Y: 1./3 + s/3}), quad, 1e-13)
			return poly - quad
		}
		for _, s := range []float64{0, 0.5, 1} {
			assert.InDelta(t, 0., mismatch(1, s), 1e-12)
		}
		for _, s := range []float64{0.25, 0.5, 0.75} {
			assert.InDelta(t, 0., mismatch(3, s), 1e-12)
		}
		// linear interpolation error of a quadratic at a segment midpoint, (2/9) (1/(ns+1))^2 / 8
		assert.InDelta(t, 1./144, mismatch(1, 0.25), 1e-12)
		assert.InDelta(t, 1./144, mismatch(1, 0.75), 1e-12)
		assert.InDelta(t, 1./576, mismatch(3, 0.125), 1e-12)
	}
	{ // Pyramid on top of a Q1 hex: the shared face agrees on its edges and center, not inside the fan
		verts := []r3.Vec{
			{}, {X: 1}, {X: 1, Y: 1}, {Y: 1},
			{Z: 1}, {X: 1, Z: 1}, {X: 1, Y: 1, Z: 1}, {Y: 1, Z: 1},
			{X: 0.5, Y: 0.5, Z: 2},
		}
		cells := [][]int{{0, 1, 2, 3, 4, 5, 6, 7}, {4, 5, 6, 7, 8}}
		faces := [][][]int{nil, {{4, 7, 6, 5}, {4, 5, 8}, {5, 6, 8}, {6, 7, 8}, {7, 4, 8}}}
		m, err := mesh.NewVolumetricMesh(verts, cells, faces)
		require.NoError(t, err)
		space := build(t, m, 1)
		require.Equal(t, HexShape, space.Bases[0].Shape)
		require.Equal(t, PolyhedronShape, space.Bases[1].Shape)
		linear := func(p r3.Vec) float64 { return 1 + 2*p.X - 3*p.Y + 0.5*p.Z }
		twist := func(p r3.Vec) float64 { return p.X * p.Y }
		mismatch := func(fn func(r3.Vec) float64, x, y float64) float64 {
			u := nodal(space, fn)
			return field(&space.Bases[1], []float64{x, y, 1}, u) - field(&space.Bases[0], []float64{x, y, 1}, u)
		}
		for _, p := range [][2]float64{{0.25, 0.25}, {0.6, 0.3}, {0.1, 0.8}} {
			assert.InDelta(t, 0., mismatch(linear, p[0], p[1]), 1e-12)
		}
		for _, p := range [][2]float64{{0.5, 0.5}, {0.3, 0}, {1, 0.7}, {0.4, 1}} {
			assert.InDelta(t, 0., mismatch(twist, p[0], p[1]), 1e-12)
		}
		// bilinear gives 1/16, the fan 1/8 on the ray from corner 4 to the face center
		assert.InDelta(t, 1./16, mismatch(twist, 0.25, 0.25), 1e-12)
	}
}

func TestPolygonFlux(t *testing.T) {
	{
		for _, c := range []struct{ order, ns int }{{1, 1}, {1, 4}, {2, 1}, {2, 2}, {2, 5}} {
			sigma, err := edgeWeights(c.order, c.ns)
			require.NoError(t, err)
			require.Len(t, sigma, c.ns+2)
			for p := 0; p <= c.order; p++ {
				var sum float64
				for j, s := range sigma {
					sum += s * math.Pow(float64(j)/float64(c.ns+1), float64(p))
				}
				assert.InDelta(t, 1/float64(p+1), sum, 1e-14, "order %d ns %d degree %d", c.order, c.ns, p)
			}
		}
		// one sample per edge at order 2 is Simpson's rule
		sigma, err := edgeWeights(2, 1)
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1. / 6, 4. / 6, 1. / 6}, sigma, 1e-14)
		_, err = edgeWeights(2, 0)
		assert.Error(t, err)
	}
	{ // The fluxes of a closed boundary sum to zero and reproduce |K| grad x
		for _, order := range []int{1, 2} {
			space := build(t, pentagonMesh(t), order)
			eb := &space.Bases[0]
			require.Len(t, eb.Flux, len(eb.Bases))
			var sum, moment [2]float64
			for k, f := range eb.Flux {
				sum[0], sum[1] = sum[0]+f[0], sum[1]+f[1]
				// sample position from its links
				var x float64
				for _, l := range eb.Bases[k].Global {
					x += l.Weight * l.Node.X
				}
				moment[0], moment[1] = moment[0]+x*f[0], moment[1]+x*f[1]
			}
			assert.InDelta(t, 0., sum[0], 1e-14)
			assert.InDelta(t, 0., sum[1], 1e-14)
			assert.InDelta(t, 3., moment[0], 1e-13)
			assert.InDelta(t, 0., moment[1], 1e-13)
		}
	}
}

func TestMeanValueNearBoundary(t *testing.T) {
	// a large pentagon: a point 1e-3 inside the bottom edge is not on it, however big the polygon
	var (
		scale = 1e6
		mv    = &meanValue{tol: 1e-12 * 3 * scale}
	)
	for _, p := range [][2]float64{{0, 0}, {2, 0}, {2, 1}, {1, 2}, {0, 1}} {
		mv.s = append(mv.s, r2.Vec{X: scale * p[0], Y: scale * p[1]})
	}
	for _, x := range []r2.Vec{{X: scale, Y: 1e-3}, {X: 0.5 * scale, Y: 1e-2}} {
		phi, _ := mv.coordinates(x)
		var y, sum float64
		for i, s := range mv.s {
			y += phi[i] * s.Y
			sum += phi[i]
		}
		assert.InDelta(t, 1., sum, 1e-12)
		assert.InDelta(t, x.Y, y, 1e-5*x.Y)
	}
	{ // exactly on the edge the coordinates are the linear ones of its end points
		phi, _ := mv.coordinates(r2.Vec{X: 0.5 * scale})
		assert.InDelta(t, 0.75, phi[0], 1e-14)
		assert.InDelta(t, 0.25, phi[1], 1e-14)
	}
}

func TestBasisErrors(t *testing.T) {
	{ // Collinear pentagon
		m, err := mesh.NewPlanarMesh([]r3.Vec{{}, {X: 1}, {X: 2}, {X: 3}, {X: 4}}, [][]int{{0, 1, 2, 3, 4}})
		require.NoError(t, err)
		tags := mesh.ComputeElementTags(m)
		require.Equal(t, mesh.BoundaryPolytope, tags[0])
		_, err = Build(m, tags, Options{Order: 1})
		require.Error(t, err)
		var be *BasisConstructionError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, 0, be.Element)
		assert.True(t, errors.Is(err, ErrDegenerateElement))
	}
	{ // Self intersecting polygon
		m, err := mesh.NewPlanarMesh([]r3.Vec{{}, {X: 2}, {Y: 2}, {X: 2, Y: 2}, {X: 1, Y: 3}}, [][]int{{0, 1, 2, 3, 4}})
		require.NoError(t, err)
		_, err = Build(m, mesh.ComputeElementTags(m), Options{Order: 1})
		assert.True(t, errors.Is(err, ErrDegenerateElement))
	}
	{ // Undefined elements never get a basis
		m, err := mesh.NewPlanarMesh([]r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}, [][]int{{0, 1, 2, 3}, {0, 2, 2}})
		require.NoError(t, err)
		_, err = Build(m, mesh.ComputeElementTags(m), Options{Order: 1})
		var be *BasisConstructionError
		require.True(t, errors.As(err, &be))
		assert.Equal(t, 1, be.Element)
		assert.Equal(t, mesh.Undefined, be.Type)
		assert.True(t, errors.Is(err, mesh.ErrClassification))
	}
	{ // Unsupported discretizations
		m := mesh.NewUnitSquareQuads(1, 1)
		tags := mesh.ComputeElementTags(m)
		_, err := Build(m, tags, Options{Order: 3})
		assert.True(t, errors.Is(err, ErrUnsupportedDiscretization))
		_, err = Build(m, tags, Options{Order: 1, Discretization: "spline"})
		assert.True(t, errors.Is(err, ErrUnsupportedDiscretization))
		pm := pyramidMesh(t)
		_, err = Build(pm, mesh.ComputeElementTags(pm), Options{Order: 2})
		assert.True(t, errors.Is(err, ErrUnsupportedDiscretization))
	}
	{ // Every failing element is reported
		m, err := mesh.NewPlanarMesh([]r3.Vec{{}, {X: 1}, {X: 2}, {X: 3}, {X: 4}, {X: 5}},
			[][]int{{0, 1, 2, 3, 4}, {1, 2, 3, 4, 5}})
		require.NoError(t, err)
		_, err = Build(m, mesh.ComputeElementTags(m), Options{Order: 1, ParallelDegree: 2})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "element 0")
		assert.Contains(t, err.Error(), "element 1")
	}
}
