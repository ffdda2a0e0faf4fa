package quadrature

import (
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/polyfem/utils"
)

var (
	tableOnce [Hex + 1]sync.Once
	tables    [Hex + 1][]Quadrature
)

func tableFor(f ShapeFamily) []Quadrature {
	tableOnce[f].Do(func() {
		t := make([]Quadrature, MaxOrder(f)+1)
		for order := range t {
			t[order] = buildRule(order, f)
			if err := Validate(t[order], f); err != nil {
				panic(fmt.Errorf("order %d: %w", order, err))
			}
		}
		tables[f] = t
	})
	return tables[f]
}

func buildRule(order int, f ShapeFamily) Quadrature {
	switch f {
	case Segment, Quad, Hex:
		return tensorRule(f.Dim(), order/2+1)
	case Triangle:
		switch {
		case order <= 1:
			return newRule([][]float64{{1. / 3., 1. / 3.}}, []float64{1})
		case order == 2:
			return newRule([][]float64{
				{1. / 6., 1. / 6.},
				{2. / 3., 1. / 6.},
				{1. / 6., 2. / 3.},
			}, []float64{1. / 3., 1. / 3., 1. / 3.})
		}
		return collapsedTriangle((order + 3) / 2)
	case Tet:
		switch {
		case order <= 1:
			return newRule([][]float64{{0.25, 0.25, 0.25}}, []float64{1})
		case order == 2:
			a := (5 + 3*math.Sqrt(5)) / 20
			b := (5 - math.Sqrt(5)) / 20
			return newRule([][]float64{
				{b, b, b},
				{a, b, b},
				{b, a, b},
				{b, b, a},
			}, []float64{0.25, 0.25, 0.25, 0.25})
		}
		return collapsedTet((order + 4) / 2)
	}
	panic(fmt.Errorf("unknown shape family %d", f))
}

func newRule(pts [][]float64, w []float64) (q Quadrature) {
	q = Quadrature{
		Points:  mat.NewDense(len(pts), len(pts[0]), nil),
		Weights: w,
	}
	for i, p := range pts {
		q.Points.SetRow(i, p)
	}
	return
}

// gauss01 returns the n point Gauss-Legendre rule on [0,1].
func gauss01(n int) (x, w []float64) {
	x, w = make([]float64, n), make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	return
}

func tensorRule(dim, n int) (q Quadrature) {
	var (
		x, w  = gauss01(n)
		np    = int(utils.POW(float64(n), dim))
		pts   = mat.NewDense(np, dim, nil)
		wts   = utils.ConstArray(np, 1)
		index = make([]int, dim)
	)
	for p := 0; p < np; p++ {
		for d := 0; d < dim; d++ {
			pts.Set(p, d, x[index[d]])
			wts[p] *= w[index[d]]
		}
		// Advance the multi-index, first coordinate fastest
		for d := 0; d < dim; d++ {
			index[d]++
			if index[d] < n {
				break
			}
			index[d] = 0
		}
	}
	q = Quadrature{Points: pts, Weights: wts}
	normalize(q.Weights)
	return
}

// Collapsed (Duffy) rule: x = u(1-v), y = v with Jacobian (1-v).
func collapsedTriangle(n int) (q Quadrature) {
	var (
		x, w = gauss01(n)
		pts  = mat.NewDense(n*n, 2, nil)
		wts  = make([]float64, n*n)
	)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			u, v := x[i], x[j]
			p := j*n + i
			pts.Set(p, 0, u*(1-v))
			pts.Set(p, 1, v)
			wts[p] = w[i] * w[j] * (1 - v)
		}
	}
	q = Quadrature{Points: pts, Weights: wts}
	normalize(q.Weights)
	return
}

// Collapsed rule: x = u(1-v)(1-w), y = v(1-w), z = w with Jacobian (1-v)(1-w)^2.
func collapsedTet(n int) (q Quadrature) {
	var (
		x, w = gauss01(n)
		pts  = mat.NewDense(n*n*n, 3, nil)
		wts  = make([]float64, n*n*n)
	)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				a, b, c := x[i], x[j], x[k]
				p := (k*n+j)*n + i
				pts.Set(p, 0, a*(1-b)*(1-c))
				pts.Set(p, 1, b*(1-c))
				pts.Set(p, 2, c)
				wts[p] = w[i] * w[j] * w[k] * (1 - b) * (1 - c) * (1 - c)
			}
		}
	}
	q = Quadrature{Points: pts, Weights: wts}
	normalize(q.Weights)
	return
}

func normalize(w []float64) {
	sum := utils.KahanSum(w)
	for i := range w {
		w[i] /= sum
	}
}
