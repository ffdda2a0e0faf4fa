package assembly

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/polyfem/basis"
	"github.com/notargets/polyfem/utils"
)

var (
	ErrInvertedElement = errors.New("inverted element")
	ErrNotConverged    = errors.New("solver did not converge")
)

type AssemblyError struct {
	Element int
	Err     error
}

func (e *AssemblyError) Error() string {
	return fmt.Sprintf("assembly failed for element %d: %v", e.Element, e.Err)
}

func (e *AssemblyError) Unwrap() error { return e.Err }

/*
ElementValues caches everything the local assemblers need on one element: the physical quadrature points, the
weights already multiplied by |det J|, and for each local basis its values and physical gradients at every point.
*/
type ElementValues struct {
	Element int
	Points  *mat.Dense  // nq x dim, physical
	Weights []float64   // w_q |det J(x_q)|
	Values  [][]float64 // [basis][q]
	Grads   []*mat.Dense
	Bases   []basis.Basis
}

func (ev *ElementValues) NumPoints() int { return len(ev.Weights) }

func (ev *ElementValues) Dim() int {
	_, dim := ev.Points.Dims()
	return dim
}

// ComputeValues evaluates every element of the space on its quadrature rule of the given order, np workers.
func ComputeValues(space *basis.Space, quadOrder, np int) (vals []ElementValues, err error) {
	var (
		ne     = len(space.Bases)
		groups = utils.NewPartitionMap(np, ne).Groups()
	)
	vals = make([]ElementValues, ne)
	err = utils.RunGroups(groups, func(worker int, elems []int) (werr error) {
		for _, e := range elems {
			werr = multierr.Append(werr, elementValues(&space.Bases[e], quadOrder, &vals[e]))
		}
		return
	})
	if err != nil {
		return nil, err
	}
	return
}

func elementValues(eb *basis.ElementBases, quadOrder int, ev *ElementValues) (err error) {
	q, err := eb.Quadrature(quadOrder)
	if err != nil {
		return &AssemblyError{Element: eb.Element, Err: err}
	}
	var (
		nq  = q.Size()
		dim = eb.Dim
		nb  = eb.Size()
	)
	*ev = ElementValues{
		Element: eb.Element,
		Weights: make([]float64, nq),
		Values:  make([][]float64, nb),
		Grads:   make([]*mat.Dense, nb),
		Bases:   eb.Bases,
	}
	for k := range ev.Bases {
		ev.Values[k] = ev.Bases[k].Eval(q.Points)
		ev.Grads[k] = ev.Bases[k].EvalGrad(q.Points)
	}
	if eb.Shape.IsPolytope() {
		// polytope functions and rules already live in physical space
		ev.Points = mat.DenseCopyOf(q.Points)
		copy(ev.Weights, q.Weights)
		if eb.Flux != nil {
			correctGradients(ev, eb.Flux)
		}
		return
	}
	ev.Points = eb.EvalGeomMapping(q.Points)
	var (
		sign float64
		Jinv mat.Dense
		g    = make([]float64, dim)
	)
	for i := 0; i < nq; i++ {
		J := eb.Jacobian(q.Points.RawRowView(i))
		det := mat.Det(J)
		scale := utils.POW(mat.Norm(J, math.Inf(1)), dim)
		if math.Abs(det) <= 1e-12*scale {
			return &AssemblyError{Element: eb.Element,
				Err: fmt.Errorf("%w: vanishing Jacobian determinant %g at quadrature point %d", ErrInvertedElement, det, i)}
		}
		if sign == 0 {
			sign = math.Copysign(1, det)
		} else if sign*det < 0 {
			return &AssemblyError{Element: eb.Element,
				Err: fmt.Errorf("%w: Jacobian determinant changes sign inside the element", ErrInvertedElement)}
		}
		if err = Jinv.Inverse(J); err != nil {
			return &AssemblyError{Element: eb.Element, Err: fmt.Errorf("%w: %v", ErrInvertedElement, err)}
		}
		ev.Weights[i] = q.Weights[i] * math.Abs(det)
		// grad_x phi = J^-T grad_xi phi
		for k := range ev.Grads {
			row := ev.Grads[k].RawRowView(i)
			copy(g, row)
			for a := 0; a < dim; a++ {
				row[a] = 0
				for b := 0; b < dim; b++ {
					row[a] += Jinv.At(b, a) * g[b]
				}
			}
		}
	}
	return
}

/*
correctGradients shifts the gradients of function k by the constant (flux[k] - sum_q w_q grad phi_k) / |K|, so
the quadrature of every gradient matches its boundary integral. Linear fields keep their exact gradient and the
linear patch test passes whatever the accuracy of the rule.
*/
func correctGradients(ev *ElementValues, flux [][]float64) {
	var (
		area = floats.Sum(ev.Weights)
		c    = make([]float64, ev.Dim())
	)
	for k, G := range ev.Grads {
		copy(c, flux[k])
		for q, w := range ev.Weights {
			floats.AddScaled(c, -w, G.RawRowView(q))
		}
		floats.Scale(1/area, c)
		for q := range ev.Weights {
			floats.Add(G.RawRowView(q), c)
		}
	}
}
