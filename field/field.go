package field

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/polyfem/assembly"
	"github.com/notargets/polyfem/basis"
	"github.com/notargets/polyfem/problem"
	"github.com/notargets/polyfem/utils"
)

var ErrNoExactSolution = errors.New("problem has no exact solution")

// PointSet gives the evaluation points of an element in the coordinates its bases take.
type PointSet func(eb *basis.ElementBases) *mat.Dense

// SamePoints evaluates every element at the same local points.
func SamePoints(pts *mat.Dense) PointSet {
	return func(*basis.ElementBases) *mat.Dense { return pts }
}

// InterpolateElement evaluates the discrete field fun, dim components per DOF, at pts of one element.
func InterpolateElement(eb *basis.ElementBases, fun []float64, dim int, pts *mat.Dense) (res *mat.Dense) {
	np, _ := pts.Dims()
	res = mat.NewDense(np, dim, nil)
	for _, b := range eb.Bases {
		v := b.Eval(pts)
		for _, l := range b.Global {
			for p := 0; p < np; p++ {
				row := res.RawRowView(p)
				for a := 0; a < dim; a++ {
					row[a] += l.Weight * v[p] * fun[l.Index*dim+a]
				}
			}
		}
	}
	return
}

// Interpolate stacks the per element results of InterpolateElement, element by element.
func Interpolate(space *basis.Space, fun []float64, dim int, pts PointSet) (res *mat.Dense) {
	var (
		blocks []*mat.Dense
		total  int
	)
	if len(fun) != space.NumBases*dim {
		panic(fmt.Errorf("field has %d values, expected %d x %d", len(fun), space.NumBases, dim))
	}
	for e := range space.Bases {
		b := InterpolateElement(&space.Bases[e], fun, dim, pts(&space.Bases[e]))
		n, _ := b.Dims()
		blocks = append(blocks, b)
		total += n
	}
	res = mat.NewDense(total, dim, nil)
	var offset int
	for _, b := range blocks {
		n, _ := b.Dims()
		res.Slice(offset, offset+n, 0, dim).(*mat.Dense).Copy(b)
		offset += n
	}
	return
}

// PointwiseError is the euclidean norm of the difference of each row.
func PointwiseError(a, b *mat.Dense) (err []float64) {
	var diff mat.Dense
	diff.Sub(a, b)
	n, _ := diff.Dims()
	err = make([]float64, n)
	for i := range err {
		err[i] = mat.Norm(diff.RowView(i), 2)
	}
	return
}

type Errors struct {
	L2, H1Semi, Linf, Lp float64
	P                    float64 // exponent of Lp
	HasH1                bool
}

const LpExponent = 8

func (e Errors) String() string {
	s := fmt.Sprintf("L2 = %.6e, Linf = %.6e, L%g = %.6e", e.L2, e.Linf, e.P, e.Lp)
	if e.HasH1 {
		s += fmt.Sprintf(", H1 semi = %.6e", e.H1Semi)
	}
	return s
}

/*
ComputeErrors integrates the difference between the discrete solution and the exact one over the quadrature
points of every element. The H1 seminorm needs the exact gradient and is only computed when the problem provides it.
*/
func ComputeErrors(vals []assembly.ElementValues, sol []float64, prob problem.Problem, dim int) (errs Errors, err error) {
	if !prob.HasExact() {
		return errs, fmt.Errorf("%w: %s", ErrNoExactSolution, prob.Name())
	}
	var (
		nc       = problem.Components(prob, dim)
		gp, hasG = prob.(problem.GradientProvider)
		l2, lp   float64
		h1       float64
	)
	errs.P, errs.HasH1 = LpExponent, hasG
	for e := range vals {
		ev := &vals[e]
		var (
			nq    = ev.NumPoints()
			exact = prob.Exact(ev.Points, dim)
			u     = make([]float64, nc)
			gu    = make([]float64, nc*dim)
			gex   *mat.Dense
		)
		if hasG {
			gex = gp.ExactGrad(ev.Points, dim)
		}
		for q := 0; q < nq; q++ {
			for i := range u {
				u[i] = 0
			}
			for i := range gu {
				gu[i] = 0
			}
			for k, b := range ev.Bases {
				var (
					phi  = ev.Values[k][q]
					grad = ev.Grads[k].RawRowView(q)
				)
				for _, l := range b.Global {
					for a := 0; a < nc; a++ {
						c := l.Weight * sol[l.Index*nc+a]
						u[a] += c * phi
						for d := 0; d < dim; d++ {
							gu[a*dim+d] += c * grad[d]
						}
					}
				}
			}
			var d2 float64
			for a := 0; a < nc; a++ {
				d := u[a] - exact.At(q, a)
				d2 += d * d
			}
			w := ev.Weights[q]
			l2 += w * d2
			lp += w * utils.POW(d2, LpExponent/2)
			errs.Linf = math.Max(errs.Linf, math.Sqrt(d2))
			if hasG {
				for i, g := range gu {
					d := g - gex.At(q, i)
					h1 += w * d * d
				}
			}
		}
	}
	errs.L2 = math.Sqrt(l2)
	errs.Lp = math.Pow(lp, 1./LpExponent)
	errs.H1Semi = math.Sqrt(h1)
	return
}
