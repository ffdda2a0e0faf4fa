package quadrature

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/polyfem/utils"
)

type ShapeFamily uint8

const (
	Segment ShapeFamily = iota
	Triangle
	Quad
	Tet
	Hex
)

var FamilyNameMap = map[string]ShapeFamily{
	"segment":  Segment,
	"line":     Segment,
	"triangle": Triangle,
	"tri":      Triangle,
	"quad":     Quad,
	"tet":      Tet,
	"hex":      Hex,
}

func (f ShapeFamily) String() string {
	switch f {
	case Segment:
		return "Segment"
	case Triangle:
		return "Triangle"
	case Quad:
		return "Quad"
	case Tet:
		return "Tet"
	case Hex:
		return "Hex"
	}
	return fmt.Sprintf("ShapeFamily(%d)", f)
}

func NewShapeFamily(name string) (f ShapeFamily, err error) {
	var ok bool
	if f, ok = FamilyNameMap[strings.ToLower(name)]; !ok {
		err = fmt.Errorf("unknown shape family %q", name)
	}
	return
}

func (f ShapeFamily) Dim() int {
	switch f {
	case Segment:
		return 1
	case Triangle, Quad:
		return 2
	}
	return 3
}

func (f ShapeFamily) IsSimplex() bool { return f == Triangle || f == Tet }

// ReferenceVolume is the measure of the reference element: [0,1]^d for tensor families, the unit simplex otherwise.
func ReferenceVolume(f ShapeFamily) float64 {
	switch f {
	case Triangle:
		return 0.5
	case Tet:
		return 1. / 6.
	}
	return 1
}

var ErrUnsupportedOrder = errors.New("unsupported quadrature order")

type UnsupportedOrderError struct {
	Family ShapeFamily
	Order  int
	Max    int
}

func (e *UnsupportedOrderError) Error() string {
	return fmt.Sprintf("quadrature order %d is not available for %s, supported orders are 0 to %d",
		e.Order, e.Family, e.Max)
}

func (e *UnsupportedOrderError) Unwrap() error { return ErrUnsupportedOrder }

/*
Quadrature holds one point per row of Points, in reference coordinates, and the matching weights.
Rules returned by GetQuadrature sum to 1 for every family; simplex callers apply ScaleToSimplex to obtain
the true reference measure.
*/
type Quadrature struct {
	Points  *mat.Dense
	Weights []float64
}

func (q Quadrature) Size() int { return len(q.Weights) }

func (q Quadrature) Dim() int {
	_, nc := q.Points.Dims()
	return nc
}

func (q Quadrature) Clone() Quadrature {
	w := make([]float64, len(q.Weights))
	copy(w, q.Weights)
	return Quadrature{Points: mat.DenseCopyOf(q.Points), Weights: w}
}

// ScaleToSimplex multiplies the weights by the reference simplex measure, 1/2 for triangles and 1/6 for tets.
func (q Quadrature) ScaleToSimplex(f ShapeFamily) Quadrature {
	scale := ReferenceVolume(f)
	for i := range q.Weights {
		q.Weights[i] *= scale
	}
	return q
}

func (q Quadrature) Integrate(f func(x []float64) float64) float64 {
	vals := make([]float64, q.Size())
	for i := range vals {
		vals[i] = q.Weights[i] * f(q.Points.RawRowView(i))
	}
	return utils.KahanSum(vals)
}

func MaxOrder(f ShapeFamily) int {
	switch f {
	case Segment, Quad, Triangle:
		return 30
	}
	return 20
}

// GetQuadrature returns a copy of the tabulated rule exact for polynomials of degree <= order.
func GetQuadrature(order int, f ShapeFamily) (q Quadrature, err error) {
	if f > Hex {
		err = fmt.Errorf("unknown shape family %d", f)
		return
	}
	if order < 0 || order > MaxOrder(f) {
		err = &UnsupportedOrderError{Family: f, Order: order, Max: MaxOrder(f)}
		return
	}
	q = tableFor(f)[order].Clone()
	return
}

// Validate checks the weight sum against 1 and that all points lie in the closed reference domain.
func Validate(q Quadrature, f ShapeFamily) error {
	const tol = 1e-14
	if q.Dim() != f.Dim() {
		return fmt.Errorf("%s rule has points of dimension %d", f, q.Dim())
	}
	if sum := utils.KahanSum(q.Weights); math.Abs(sum-1) > tol {
		return fmt.Errorf("%s weights sum to %.17g", f, sum)
	}
	for i := 0; i < q.Size(); i++ {
		if !inDomain(q.Points.RawRowView(i), f, tol) {
			return fmt.Errorf("%s point %d at %v is outside the reference domain", f, i, q.Points.RawRowView(i))
		}
	}
	return nil
}

func inDomain(x []float64, f ShapeFamily, tol float64) bool {
	var sum float64
	for _, xi := range x {
		if xi < -tol || xi > 1+tol {
			return false
		}
		sum += xi
	}
	if f.IsSimplex() {
		return sum <= 1+tol
	}
	return true
}
