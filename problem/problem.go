package problem

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

/*
Problem describes the PDE data the pipeline needs: the source term, the Dirichlet values and, when known, the
exact solution. Every function takes points one per row and returns one row per point with dim columns for
vector problems and one column for scalar ones.
*/
type Problem interface {
	Name() string
	IsScalar() bool
	RHS(pts *mat.Dense, dim int) *mat.Dense
	BC(pts *mat.Dense, dim int) *mat.Dense
	HasExact() bool
	Exact(pts *mat.Dense, dim int) *mat.Dense
}

// GradientProvider is implemented by problems with a known exact gradient; row q holds d u_a / d x_b at
// column a*dim + b.
type GradientProvider interface {
	ExactGrad(pts *mat.Dense, dim int) *mat.Dense
}

// Components is the number of unknowns per node.
func Components(p Problem, dim int) int {
	if p.IsScalar() {
		return 1
	}
	return dim
}

var registry = map[string]func() Problem{
	"linear":         func() Problem { return Linear{} },
	"quadratic":      func() Problem { return Quadratic{} },
	"zero_bc":        func() Problem { return ZeroBC{} },
	"elastic_linear": func() Problem { return ElasticLinear{} },
}

func Names() (names []string) {
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

func New(name string) (p Problem, err error) {
	ctor, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown problem %q, available: %s", name, strings.Join(Names(), ", "))
	}
	return ctor(), nil
}

// evalRows applies fn to every point, fn writing one row of the result.
func evalRows(pts *mat.Dense, ncols int, fn func(x []float64, row []float64)) (r *mat.Dense) {
	np, _ := pts.Dims()
	r = mat.NewDense(np, ncols, nil)
	for i := 0; i < np; i++ {
		fn(pts.RawRowView(i), r.RawRowView(i))
	}
	return
}

// coord returns x[d], or 0 past the point dimension.
func coord(x []float64, d int) float64 {
	if d < len(x) {
		return x[d]
	}
	return 0
}
