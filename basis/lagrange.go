package basis

import (
	"github.com/notargets/polyfem/mesh"
)

// lagrange1D evaluates the i-th Lagrange polynomial on equispaced nodes of [0,1] and its derivative.
func lagrange1D(order, i int, t float64) (v, dv float64) {
	switch order {
	case 1:
		if i == 0 {
			return 1 - t, -1
		}
		return t, 1
	case 2:
		switch i {
		case 0:
			return 2*t*t - 3*t + 1, 4*t - 3
		case 1:
			return 4 * t * (1 - t), 4 - 8*t
		}
		return 2*t*t - t, 4*t - 1
	}
	panic("lagrange1D supports orders 1 and 2")
}

// tensorLagrange is the Q_order function of lattice node (node[0], ..., node[dim-1]), coordinates in 0..order.
type tensorLagrange struct {
	order int
	node  []int
}

func (f tensorLagrange) Value(x []float64) (v float64) {
	v = 1
	for d, n := range f.node {
		l, _ := lagrange1D(f.order, n, x[d])
		v *= l
	}
	return
}

func (f tensorLagrange) Gradient(x, g []float64) {
	for d := range f.node {
		g[d] = 1
		for dd, n := range f.node {
			l, dl := lagrange1D(f.order, n, x[dd])
			if dd == d {
				g[d] *= dl
			} else {
				g[d] *= l
			}
		}
	}
}

/*
tensorNodes lists the lattice nodes of Q_order on [0,1]^dim. The cube corners come first in local vertex order,
so for order 1 local function i belongs to element vertex i; the remaining order 2 nodes follow lexicographically.
*/
func tensorNodes(dim, order int) (nodes [][]int) {
	nc := 1 << dim
	for lv := 0; lv < nc; lv++ {
		bits := mesh.CubeCornerBits(dim, lv)
		for d := range bits {
			bits[d] *= order
		}
		nodes = append(nodes, bits)
	}
	if order == 1 {
		return
	}
	p := make([]int, dim)
	var rec func(d int)
	rec = func(d int) {
		if d < 0 {
			for _, c := range p {
				if c == 1 {
					nodes = append(nodes, append([]int{}, p...))
					return
				}
			}
			return
		}
		for c := 0; c <= order; c++ {
			p[d] = c
			rec(d - 1)
		}
	}
	rec(dim - 1)
	return
}

// latticeCorners returns the local cube vertices spanning the entity of a Q_order lattice node.
func latticeCorners(dim, order int, node []int) []int {
	half := make([]int, dim)
	for d, c := range node {
		half[d] = c * 2 / order
	}
	return mesh.LatticeCorners(dim, half)
}

/*
barycentric returns the barycentric coordinates of x in the unit simplex with vertices 0, e_1, ..., e_dim:
l_0 = 1 - sum(x) and l_k = x_{k-1}.
*/
func barycentric(x []float64) (l []float64) {
	l = make([]float64, len(x)+1)
	l[0] = 1
	for d, xd := range x {
		l[0] -= xd
		l[d+1] = xd
	}
	return
}

func barycentricGrad(k int, g []float64) {
	for d := range g {
		switch {
		case k == 0:
			g[d] = -1
		case d == k-1:
			g[d] = 1
		default:
			g[d] = 0
		}
	}
}

// simplexLagrange is the P_order function of vertex a (b < 0) or of the midpoint of edge (a, b).
type simplexLagrange struct {
	order int
	a, b  int
}

func (f simplexLagrange) Value(x []float64) float64 {
	l := barycentric(x)
	switch {
	case f.order == 1:
		return l[f.a]
	case f.b < 0:
		return l[f.a] * (2*l[f.a] - 1)
	}
	return 4 * l[f.a] * l[f.b]
}

func (f simplexLagrange) Gradient(x, g []float64) {
	var (
		l      = barycentric(x)
		ga, gb = make([]float64, len(g)), make([]float64, len(g))
	)
	barycentricGrad(f.a, ga)
	switch {
	case f.order == 1:
		copy(g, ga)
	case f.b < 0:
		for d := range g {
			g[d] = (4*l[f.a] - 1) * ga[d]
		}
	default:
		barycentricGrad(f.b, gb)
		for d := range g {
			g[d] = 4 * (l[f.b]*ga[d] + l[f.a]*gb[d])
		}
	}
}

var (
	triangleEdges = [][2]int{{0, 1}, {1, 2}, {2, 0}}
	tetEdges      = [][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {1, 3}, {2, 3}}
)

// simplexNodes lists the P_order nodes: the vertices, then for order 2 the edge midpoints.
func simplexNodes(dim, order int) (nodes []simplexLagrange) {
	for v := 0; v <= dim; v++ {
		nodes = append(nodes, simplexLagrange{order: order, a: v, b: -1})
	}
	if order == 1 {
		return
	}
	edges := triangleEdges
	if dim == 3 {
		edges = tetEdges
	}
	for _, e := range edges {
		nodes = append(nodes, simplexLagrange{order: order, a: e[0], b: e[1]})
	}
	return
}
