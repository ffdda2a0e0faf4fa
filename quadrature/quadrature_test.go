package quadrature

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/polyfem/utils"
)

func factorial(n int) (f float64) {
	f = 1
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}
	return
}

// exactMonomial integrates x^a y^b z^c over the reference element, normalized to unit measure.
func exactMonomial(f ShapeFamily, pw []int) float64 {
	switch f {
	case Triangle:
		return 2 * factorial(pw[0]) * factorial(pw[1]) / factorial(pw[0]+pw[1]+2)
	case Tet:
		return 6 * factorial(pw[0]) * factorial(pw[1]) * factorial(pw[2]) / factorial(pw[0]+pw[1]+pw[2]+3)
	}
	v := 1.
	for _, p := range pw {
		v /= float64(p + 1)
	}
	return v
}

func monomial(pw []int) func(x []float64) float64 {
	return func(x []float64) (v float64) {
		v = 1
		for d, p := range pw {
			v *= utils.POW(x[d], p)
		}
		return
	}
}

// powers lists exponent tuples with total degree <= order for simplices, each exponent <= order otherwise.
func powers(f ShapeFamily, order int) (list [][]int) {
	dim := f.Dim()
	var rec func(prefix []int)
	rec = func(prefix []int) {
		if len(prefix) == dim {
			total := 0
			for _, p := range prefix {
				total += p
			}
			if f.IsSimplex() && total > order {
				return
			}
			list = append(list, append([]int{}, prefix...))
			return
		}
		for p := 0; p <= order; p++ {
			rec(append(prefix, p))
		}
	}
	rec(nil)
	return
}

func TestQuadratureTables(t *testing.T) {
	families := []ShapeFamily{Segment, Triangle, Quad, Tet, Hex}
	{ // Weight sums and point locations for every tabulated order
		for _, f := range families {
			for order := 0; order <= MaxOrder(f); order++ {
				q, err := GetQuadrature(order, f)
				require.NoError(t, err)
				require.NoError(t, Validate(q, f), "%s order %d", f, order)
				assert.Equal(t, f.Dim(), q.Dim())
			}
		}
	}
	{ // Exactness on monomials up to the requested order
		for _, f := range families {
			maxTested := 8
			if f.Dim() == 3 {
				maxTested = 5
			}
			for order := 0; order <= maxTested; order++ {
				q, err := GetQuadrature(order, f)
				require.NoError(t, err)
				for _, pw := range powers(f, order) {
					assert.InDelta(t, exactMonomial(f, pw), q.Integrate(monomial(pw)), 1e-13,
						"%s order %d powers %v", f, order, pw)
				}
			}
		}
	}
	{ // Hand tabulated simplex rules
		q, _ := GetQuadrature(1, Triangle)
		assert.Equal(t, 1, q.Size())
		assert.Equal(t, []float64{1. / 3., 1. / 3.}, q.Points.RawRowView(0))
		q, _ = GetQuadrature(2, Triangle)
		assert.Equal(t, 3, q.Size())
		q, _ = GetQuadrature(2, Tet)
		assert.Equal(t, 4, q.Size())
		assert.InDelta(t, (5-math.Sqrt(5))/20, q.Points.At(0, 0), 1e-16)
	}
	{ // Explicit simplex scale step
		q, _ := GetQuadrature(3, Triangle)
		assert.InDelta(t, 0.5, utils.KahanSum(q.ScaleToSimplex(Triangle).Weights), 1e-15)
		q, _ = GetQuadrature(3, Tet)
		assert.InDelta(t, 1./6., utils.KahanSum(q.ScaleToSimplex(Tet).Weights), 1e-15)
		q, _ = GetQuadrature(3, Quad)
		assert.InDelta(t, 1., utils.KahanSum(q.ScaleToSimplex(Quad).Weights), 1e-15)
	}
	{ // Returned rules are copies
		q1, _ := GetQuadrature(2, Quad)
		q1.Weights[0] = 100
		q1.Points.Set(0, 0, -5)
		q2, _ := GetQuadrature(2, Quad)
		assert.NotEqual(t, 100., q2.Weights[0])
		assert.NotEqual(t, -5., q2.Points.At(0, 0))
	}
}

func TestUnsupportedOrder(t *testing.T) {
	for _, order := range []int{999, -1, MaxOrder(Hex) + 1} {
		_, err := GetQuadrature(order, Hex)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedOrder))
		var uoe *UnsupportedOrderError
		require.True(t, errors.As(err, &uoe))
		assert.Equal(t, order, uoe.Order)
		assert.Equal(t, Hex, uoe.Family)
	}
	_, err := GetQuadrature(999, Triangle)
	assert.ErrorIs(t, err, ErrUnsupportedOrder)
	_, err = GetQuadrature(1, ShapeFamily(42))
	assert.Error(t, err)
}

func TestShapeFamily(t *testing.T) {
	f, err := NewShapeFamily("Tri")
	require.NoError(t, err)
	assert.Equal(t, Triangle, f)
	assert.Equal(t, "Triangle", f.String())
	_, err = NewShapeFamily("prism")
	assert.Error(t, err)
	assert.Equal(t, 0.5, ReferenceVolume(Triangle))
	assert.True(t, Tet.IsSimplex())
	assert.False(t, Hex.IsSimplex())
}
