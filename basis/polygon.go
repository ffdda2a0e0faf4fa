package basis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/geometry2D"
	"github.com/notargets/polyfem/mesh"
	"github.com/notargets/polyfem/utils"
)

/*
meanValue holds the boundary samples of a polygon, counter clockwise. Its coordinates are Floater's mean value
weights w_i = (tan(a_{i-1}/2) + tan(a_i/2)) / |s_i - x|, normalized to sum to one, where a_i is the angle at x
spanned by samples i and i+1. They reproduce linear functions and interpolate linearly along the boundary.
*/
type meanValue struct {
	s   []r2.Vec
	tol float64
}

// onSegmentTol bounds |sin| of the angle a boundary segment subtends at x.
const onSegmentTol = 1e-12

// coordinates returns the weights of every sample at x and their gradients.
func (mv *meanValue) coordinates(x r2.Vec) (phi []float64, grad []r2.Vec) {
	var (
		n = len(mv.s)
		r = make([]r2.Vec, n)
		d = make([]float64, n)
	)
	phi, grad = make([]float64, n), make([]r2.Vec, n)
	for i, s := range mv.s {
		r[i] = r2.Sub(s, x)
		d[i] = r2.Norm(r[i])
		if d[i] <= mv.tol {
			phi[i] = 1
			return
		}
	}
	var (
		t  = make([]float64, n)
		dt = make([]r2.Vec, n)
	)
	for i := 0; i < n; i++ {
		var (
			j    = (i + 1) % n
			a, b = r[i], r[j]
			C    = r2.Cross(a, b)
			D    = r2.Dot(a, b)
		)
		if math.Abs(C) <= onSegmentTol*d[i]*d[j] && D < 0 {
			// x on the boundary segment between samples i and j
			for k := range phi {
				phi[k] = 0
			}
			phi[i], phi[j] = d[j]/(d[i]+d[j]), d[i]/(d[i]+d[j])
			for k := range grad {
				grad[k] = r2.Vec{}
			}
			return
		}
		alpha := math.Atan2(C, D)
		t[i] = math.Tan(alpha / 2)
		dC := r2.Vec{X: a.Y - b.Y, Y: b.X - a.X}
		dD := r2.Scale(-1, r2.Add(a, b))
		dAlpha := r2.Scale(1/(C*C+D*D), r2.Sub(r2.Scale(D, dC), r2.Scale(C, dD)))
		dt[i] = r2.Scale(0.5*(1+t[i]*t[i]), dAlpha)
	}
	var (
		W  float64
		dW r2.Vec
		w  = make([]float64, n)
		dw = make([]r2.Vec, n)
	)
	for i := 0; i < n; i++ {
		p := (i + n - 1) % n
		w[i] = (t[p] + t[i]) / d[i]
		dd := r2.Scale(-1/d[i], r[i])
		dw[i] = r2.Sub(r2.Scale(1/d[i], r2.Add(dt[p], dt[i])), r2.Scale(w[i]/d[i], dd))
		W += w[i]
		dW = r2.Add(dW, dw[i])
	}
	for i := 0; i < n; i++ {
		phi[i] = w[i] / W
		grad[i] = r2.Scale(1/W, r2.Sub(dw[i], r2.Scale(phi[i], dW)))
	}
	return
}

type meanValueFunction struct {
	mv *meanValue
	k  int
}

func (f meanValueFunction) Value(x []float64) float64 {
	phi, _ := f.mv.coordinates(r2.Vec{X: x[0], Y: x[1]})
	return phi[f.k]
}

func (f meanValueFunction) Gradient(x, g []float64) {
	_, grad := f.mv.coordinates(r2.Vec{X: x[0], Y: x[1]})
	g[0], g[1] = grad[f.k].X, grad[f.k].Y
}

/*
polygonElement builds the mean value basis of a polygon. Every vertex and every one of the ns interior samples
per edge carries one local function. A sample at parameter t on edge (a, b) is tied to the DOFs of that edge by
the 1D Lagrange weights of the trace, so along a shared edge the polygon reproduces the trace of its Lagrange
neighbor at every sample.
*/
func (b *builder) polygonElement(e int, eb *ElementBases) (err error) {
	var (
		pm       = b.m.(*mesh.PlanarMesh)
		verts    = append([]int{}, pm.ElementVertices(e)...)
		poly     = pm.ElementPolygon(e)
		bb       = geometry2D.NewBoundingBox(poly)
		h        = bb.Diameter()
		ns       = b.opts.BoundarySamples
		order    = b.opts.Order
		nv       = len(verts)
		mv       = &meanValue{tol: 1e-12 * h}
		links    [][]Local2Global
		ccw      []r2.Vec
		tris     [][3]int
		reversed bool
	)
	if h == 0 || math.Abs(geometry2D.SignedArea(poly)) <= 1e-12*h*h {
		return fmt.Errorf("%w: polygon has zero area", ErrDegenerateElement)
	}
	if !geometry2D.IsSimple(poly) {
		return fmt.Errorf("%w: polygon boundary intersects itself", ErrDegenerateElement)
	}
	if ccw, reversed = geometry2D.Orient(poly); reversed {
		for i, j := 0, nv-1; i < j; i, j = i+1, j-1 {
			verts[i], verts[j] = verts[j], verts[i]
		}
	}
	if ns < order-1 {
		ns = order - 1
	}
	for i := 0; i < nv; i++ {
		a, c := verts[i], verts[(i+1)%nv]
		pa, pc := ccw[i], ccw[(i+1)%nv]
		mv.s = append(mv.s, pa)
		links = append(links, []Local2Global{b.vertexLink(a, 1)})
		for j := 1; j <= ns; j++ {
			t := float64(j) / float64(ns+1)
			mv.s = append(mv.s, r2.Add(pa, r2.Scale(t, r2.Sub(pc, pa))))
			var l []Local2Global
			for k := 0; k <= order; k++ {
				wk, _ := lagrange1D(order, k, t)
				switch k {
				case 0:
					l = append(l, b.vertexLink(a, wk))
				case order:
					l = append(l, b.vertexLink(c, wk))
				default:
					l = append(l, b.edgeLink(a, c, wk))
				}
			}
			links = append(links, l)
		}
	}
	eb.Bases = make([]Basis, len(mv.s))
	for k := range mv.s {
		eb.Bases[k] = Basis{ShapeFunction: meanValueFunction{mv: mv, k: k}, Global: links[k]}
	}
	if eb.Flux, err = boundaryFlux(ccw, ns, order); err != nil {
		return
	}
	if tris, err = geometry2D.EarClip(ccw); err != nil {
		return fmt.Errorf("%w: %v", ErrDegenerateElement, err)
	}
	for _, tri := range tris {
		var pts []r3.Vec
		for _, i := range tri {
			pts = append(pts, r3.Vec{X: ccw[i].X, Y: ccw[i].Y})
		}
		eb.cells = append(eb.cells, subCell{pts: pts, measure: geometry2D.TriangleArea(ccw[tri[0]], ccw[tri[1]], ccw[tri[2]])})
	}
	return
}

/*
edgeWeights returns weights for the ns+2 equally spaced samples of [0, 1], ends included, that integrate
polynomials up to degree order exactly: the trapezoid weights of the samples, moved as little as possible to
meet the moment conditions. Order 1 leaves the trapezoid weights unchanged.
*/
func edgeWeights(order, ns int) (sigma []float64, err error) {
	var (
		n = ns + 2
		h = 1 / float64(ns+1)
		V = mat.NewDense(order+1, n, nil)
		r = mat.NewVecDense(order+1, nil)
	)
	if n < order+1 {
		return nil, fmt.Errorf("%d samples cannot integrate degree %d exactly", n, order)
	}
	sigma = utils.ConstArray(n, h)
	sigma[0], sigma[n-1] = h/2, h/2
	for p := 0; p <= order; p++ {
		var s float64
		for j := 0; j < n; j++ {
			v := utils.POW(float64(j)*h, p)
			V.Set(p, j, v)
			s += v * sigma[j]
		}
		r.SetVec(p, 1/float64(p+1)-s)
	}
	var (
		VVt  mat.Dense
		y, d mat.VecDense
	)
	VVt.Mul(V, V.T())
	if err = y.SolveVec(&VVt, r); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, err
		}
		err = nil
	}
	d.MulVec(V.T(), &y)
	floats.Add(sigma, d.RawVector().Data)
	return
}

/*
boundaryFlux integrates every sample function of a counter clockwise polygon times the outward normal along the
boundary. The edge traces are taken as the order degree Lagrange traces of the neighbors, so the fluxes of the
two sides of a shared edge cancel.
*/
func boundaryFlux(ccw []r2.Vec, ns, order int) (flux [][]float64, err error) {
	var (
		nv    = len(ccw)
		nloc  = nv * (ns + 1)
		sigma []float64
	)
	if sigma, err = edgeWeights(order, ns); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedDiscretization, err)
	}
	flux = make([][]float64, nloc)
	for k := range flux {
		flux[k] = make([]float64, 2)
	}
	for i := 0; i < nv; i++ {
		// outward normal scaled by the edge length
		e := r2.Sub(ccw[(i+1)%nv], ccw[i])
		for j, s := range sigma {
			k := (i*(ns+1) + j) % nloc
			flux[k][0] += s * e.Y
			flux[k][1] -= s * e.X
		}
	}
	return
}
