package utils

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"
	"github.com/james-bowman/sparse/blas"
	"gonum.org/v1/gonum/mat"
)

/*
SparseAccumulator collects scattered (i, j, v) triplets in a COO matrix; duplicates are summed when it is
compressed. Each worker owns one; they are merged into a single accumulator before conversion.
*/
type SparseAccumulator struct {
	M *sparse.COO
}

func NewSparseAccumulator(nr, nc int) *SparseAccumulator {
	return &SparseAccumulator{M: sparse.NewCOO(nr, nc, nil, nil, nil)}
}

func (sa *SparseAccumulator) Dims() (r, c int) { return sa.M.Dims() }

// NNZ counts stored triplets, duplicates included.
func (sa *SparseAccumulator) NNZ() int { return sa.M.NNZ() }

func (sa *SparseAccumulator) Add(i, j int, v float64) {
	nr, nc := sa.M.Dims()
	if i < 0 || i >= nr || j < 0 || j >= nc {
		panic(fmt.Errorf("index (%d,%d) out of range for %dx%d matrix", i, j, nr, nc))
	}
	sa.M.Set(i, j, v)
}

func (sa *SparseAccumulator) At(i, j int) float64 { return sa.M.At(i, j) }

// Merge appends the triplets of other to the receiver; other is left unchanged.
func (sa *SparseAccumulator) Merge(other *SparseAccumulator) {
	nr, nc := sa.M.Dims()
	or, oc := other.M.Dims()
	if or != nr || oc != nc {
		panic(fmt.Errorf("dimension mismatch merging %dx%d into %dx%d", or, oc, nr, nc))
	}
	other.M.DoNonZero(func(i, j int, v float64) {
		sa.M.Set(i, j, v)
	})
}

// ToCSR compresses the triplets in insertion order, so equal inputs give bitwise equal sums.
func (sa *SparseAccumulator) ToCSR() (R CSR) {
	return CSR{M: sa.M.ToCSR()}
}

type CSR struct {
	M *sparse.CSR
}

// Dims and At satisfy the read side of mat.Matrix.
func (m CSR) Dims() (r, c int)              { return m.M.Dims() }
func (m CSR) At(i, j int) float64           { return m.M.At(i, j) }
func (m CSR) RawMatrix() *blas.SparseMatrix { return m.M.RawMatrix() }
func (m CSR) NNZ() int                      { return m.M.NNZ() }

func (m CSR) ToDense() *mat.Dense { return m.M.ToDense() }

// DoRowNonZero calls fn for every stored entry of row i.
func (m CSR) DoRowNonZero(i int, fn func(i, j int, v float64)) { m.M.DoRowNonZero(i, fn) }

// MulVecTo overwrites y with A x.
func (m CSR) MulVecTo(y, x []float64) {
	for i := range y {
		y[i] = 0
	}
	m.M.MulVecTo(y, false, x)
}

func (m CSR) Diagonal() (diag []float64) {
	nr, _ := m.Dims()
	diag = make([]float64, nr)
	m.M.DoNonZero(func(i, j int, v float64) {
		if i == j {
			diag[i] += v
		}
	})
	return
}

func (m CSR) IsSymmetric(tol float64) (sym bool) {
	nr, nc := m.Dims()
	if nr != nc {
		return false
	}
	sym = true
	m.M.DoNonZero(func(i, j int, v float64) {
		if sym && math.Abs(v-m.At(j, i)) > tol {
			sym = false
		}
	})
	return
}
