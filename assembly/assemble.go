package assembly

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/polyfem/utils"
)

// FieldFunc evaluates a field at points in dim space dimensions, one point per row.
type FieldFunc func(pts *mat.Dense, dim int) *mat.Dense

/*
AssembleMatrix scatters the local matrices of every element into the global sparse matrix. Entry (i, j) of an
element goes to every pair of links of bases i and j, scaled by the product of the link weights. Each of the np
workers accumulates privately; the buffers are merged in worker order before compression, so the sums do not
depend on scheduling.
*/
func AssembleMatrix(vals []ElementValues, local LocalAssembler, nBases, np int) (K utils.CSR, err error) {
	if len(vals) == 0 {
		return utils.NewSparseAccumulator(0, 0).ToCSR(), nil
	}
	var (
		nc     = local.Components(vals[0].Dim())
		n      = nBases * nc
		groups = utils.NewPartitionMap(np, len(vals)).Groups()
		accs   = make([]*utils.SparseAccumulator, len(groups))
	)
	err = utils.RunGroups(groups, func(worker int, elems []int) error {
		acc := utils.NewSparseAccumulator(n, n)
		for _, e := range elems {
			ev := &vals[e]
			Ke := local.Assemble(ev)
			if r, c := Ke.Dims(); r != len(ev.Bases)*nc || c != r {
				return &AssemblyError{Element: ev.Element,
					Err: fmt.Errorf("local matrix is %dx%d for %d bases of %d components", r, c, len(ev.Bases), nc)}
			}
			if utils.IsNan(Ke) {
				return &AssemblyError{Element: ev.Element, Err: fmt.Errorf("local matrix has NaN entries")}
			}
			for i, bi := range ev.Bases {
				for j, bj := range ev.Bases {
					for a := 0; a < nc; a++ {
						for b := 0; b < nc; b++ {
							v := Ke.At(i*nc+a, j*nc+b)
							for _, li := range bi.Global {
								for _, lj := range bj.Global {
									acc.Add(li.Index*nc+a, lj.Index*nc+b, li.Weight*lj.Weight*v)
								}
							}
						}
					}
				}
			}
		}
		accs[worker] = acc
		return nil
	})
	if err != nil {
		return K, err
	}
	for w := 1; w < len(accs); w++ {
		accs[0].Merge(accs[w])
	}
	return accs[0].ToCSR(), nil
}

/*
AssembleRHS integrates the source f against every basis: b[g*nc+a] += w_g sum_q w_q phi(x_q) f_a(x_q). f is
called with the spatial dimension and must return at least nc columns.
*/
func AssembleRHS(vals []ElementValues, f FieldFunc, nBases, nc int) (b []float64) {
	b = make([]float64, nBases*nc)
	for e := range vals {
		ev := &vals[e]
		fq := f(ev.Points, ev.Dim())
		for k, bk := range ev.Bases {
			for a := 0; a < nc; a++ {
				var sum float64
				for q, w := range ev.Weights {
					sum += w * ev.Values[k][q] * fq.At(q, a)
				}
				for _, l := range bk.Global {
					b[l.Index*nc+a] += l.Weight * sum
				}
			}
		}
	}
	return
}

// ExpandDOFs turns node indices into the rows of every component, row = index*dim + a.
func ExpandDOFs(nodes []int, dim int) (dofs []int) {
	dofs = make([]int, 0, len(nodes)*dim)
	for _, n := range nodes {
		for a := 0; a < dim; a++ {
			dofs = append(dofs, n*dim+a)
		}
	}
	return
}

/*
ApplyDirichlet imposes x_d = values[k] for d = dofs[k]. The known values are moved to the right hand side, the
rows and columns of the constrained DOFs are cleared and an identity placed on the diagonal, so a symmetric K
stays symmetric. b is modified in place; the returned matrix is new.
*/
func ApplyDirichlet(K utils.CSR, b []float64, dofs []int, values []float64) (R utils.CSR, err error) {
	var (
		nr, nc = K.Dims()
		fixed  = make(map[int]float64, len(dofs))
	)
	switch {
	case nr != nc:
		return R, fmt.Errorf("matrix is %dx%d, expected square", nr, nc)
	case len(b) != nr:
		return R, fmt.Errorf("right hand side has %d entries for %d rows", len(b), nr)
	case len(dofs) != len(values):
		return R, fmt.Errorf("%d Dirichlet values for %d DOFs", len(values), len(dofs))
	}
	for k, d := range dofs {
		if d < 0 || d >= nr {
			return R, fmt.Errorf("Dirichlet DOF %d out of range [0,%d)", d, nr)
		}
		fixed[d] = values[k]
	}
	acc := utils.NewSparseAccumulator(nr, nc)
	for i := 0; i < nr; i++ {
		if _, ok := fixed[i]; ok {
			continue
		}
		K.DoRowNonZero(i, func(i, j int, v float64) {
			if g, ok := fixed[j]; ok {
				b[i] -= v * g
				return
			}
			acc.Add(i, j, v)
		})
	}
	for d, g := range fixed {
		acc.Add(d, d, 1)
		b[d] = g
	}
	return acc.ToCSR(), nil
}
