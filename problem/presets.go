package problem

import (
	"gonum.org/v1/gonum/mat"
)

// Linear is -lap u = 0 with u = 1 + 2x - 3y + z/2, reproduced exactly by every order 1 basis.
type Linear struct{}

var linearGrad = [3]float64{2, -3, 0.5}

func (Linear) Name() string   { return "linear" }
func (Linear) IsScalar() bool { return true }
func (Linear) HasExact() bool { return true }

func (Linear) RHS(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, 1, func(x, row []float64) {})
}

func (p Linear) BC(pts *mat.Dense, dim int) *mat.Dense { return p.Exact(pts, dim) }

func (Linear) Exact(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, 1, func(x, row []float64) {
		row[0] = 1
		for d := 0; d < dim; d++ {
			row[0] += linearGrad[d] * coord(x, d)
		}
	})
}

func (Linear) ExactGrad(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, dim, func(x, row []float64) { copy(row, linearGrad[:dim]) })
}

// Quadratic is -lap u = -2 dim with u = |x|^2.
type Quadratic struct{}

func (Quadratic) Name() string   { return "quadratic" }
func (Quadratic) IsScalar() bool { return true }
func (Quadratic) HasExact() bool { return true }

func (Quadratic) RHS(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, 1, func(x, row []float64) { row[0] = -2 * float64(dim) })
}

func (p Quadratic) BC(pts *mat.Dense, dim int) *mat.Dense { return p.Exact(pts, dim) }

func (Quadratic) Exact(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, 1, func(x, row []float64) {
		for d := 0; d < dim; d++ {
			row[0] += coord(x, d) * coord(x, d)
		}
	})
}

func (Quadratic) ExactGrad(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, dim, func(x, row []float64) {
		for d := range row {
			row[d] = 2 * coord(x, d)
		}
	})
}

// ZeroBC is -lap u = 1 with homogeneous Dirichlet data; no closed form solution.
type ZeroBC struct{}

func (ZeroBC) Name() string   { return "zero_bc" }
func (ZeroBC) IsScalar() bool { return true }
func (ZeroBC) HasExact() bool { return false }

func (ZeroBC) RHS(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, 1, func(x, row []float64) { row[0] = 1 })
}

func (ZeroBC) BC(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, 1, func(x, row []float64) {})
}

func (ZeroBC) Exact(pts *mat.Dense, dim int) *mat.Dense { return nil }

/*
ElasticLinear is linear elasticity without body force and an affine displacement u = A x, whose stress is constant;
any basis with linear precision reproduces it.
*/
type ElasticLinear struct{}

var elasticA = [3][3]float64{
	{0.1, 0.2, -0.1},
	{-0.05, 0.3, 0.05},
	{0.02, -0.1, 0.15},
}

func (ElasticLinear) Name() string   { return "elastic_linear" }
func (ElasticLinear) IsScalar() bool { return false }
func (ElasticLinear) HasExact() bool { return true }

func (ElasticLinear) RHS(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, dim, func(x, row []float64) {})
}

func (p ElasticLinear) BC(pts *mat.Dense, dim int) *mat.Dense { return p.Exact(pts, dim) }

func (ElasticLinear) Exact(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, dim, func(x, row []float64) {
		for a := range row {
			for b := 0; b < dim; b++ {
				row[a] += elasticA[a][b] * coord(x, b)
			}
		}
	})
}

func (ElasticLinear) ExactGrad(pts *mat.Dense, dim int) *mat.Dense {
	return evalRows(pts, dim*dim, func(x, row []float64) {
		for a := 0; a < dim; a++ {
			copy(row[a*dim:(a+1)*dim], elasticA[a][:dim])
		}
	})
}
