package assembly

import (
	"gonum.org/v1/gonum/mat"
)

/*
LocalAssembler computes the element matrix of a bilinear form. Rows and columns are ordered by local basis then
component, local DOF i*Components + a.
*/
type LocalAssembler interface {
	Name() string
	Components(dim int) int
	Assemble(ev *ElementValues) *mat.Dense
}

// Laplacian is the scalar stiffness form (grad u, grad v).
type Laplacian struct{}

func (Laplacian) Name() string           { return "laplacian" }
func (Laplacian) Components(dim int) int { return 1 }
func (Laplacian) Assemble(ev *ElementValues) (K *mat.Dense) {
	nb := len(ev.Bases)
	K = mat.NewDense(nb, nb, nil)
	for i := 0; i < nb; i++ {
		for j := i; j < nb; j++ {
			var sum float64
			for q, w := range ev.Weights {
				sum += w * mat.Dot(ev.Grads[i].RowView(q), ev.Grads[j].RowView(q))
			}
			K.Set(i, j, sum)
			K.Set(j, i, sum)
		}
	}
	return
}

// Mass is the L2 form (u, v).
type Mass struct{}

func (Mass) Name() string           { return "mass" }
func (Mass) Components(dim int) int { return 1 }
func (Mass) Assemble(ev *ElementValues) (M *mat.Dense) {
	nb := len(ev.Bases)
	M = mat.NewDense(nb, nb, nil)
	for i := 0; i < nb; i++ {
		for j := i; j < nb; j++ {
			var sum float64
			for q, w := range ev.Weights {
				sum += w * ev.Values[i][q] * ev.Values[j][q]
			}
			M.Set(i, j, sum)
			M.Set(j, i, sum)
		}
	}
	return
}

/*
LinearElasticity is the isotropic form lambda (div u, div v) + 2 mu (eps(u), eps(v)). For the test function
phi_i e_a and trial function phi_j e_b the integrand is

	lambda d_a phi_i d_b phi_j + mu d_a phi_j d_b phi_i + mu delta_ab grad phi_i . grad phi_j
*/
type LinearElasticity struct {
	Lambda, Mu float64
}

func (LinearElasticity) Name() string           { return "linear_elasticity" }
func (LinearElasticity) Components(dim int) int { return dim }
func (le LinearElasticity) Assemble(ev *ElementValues) (K *mat.Dense) {
	var (
		nb  = len(ev.Bases)
		dim = ev.Dim()
	)
	K = mat.NewDense(nb*dim, nb*dim, nil)
	for q, w := range ev.Weights {
		for i := 0; i < nb; i++ {
			gi := ev.Grads[i].RawRowView(q)
			for j := 0; j < nb; j++ {
				gj := ev.Grads[j].RawRowView(q)
				var dot float64
				for d := 0; d < dim; d++ {
					dot += gi[d] * gj[d]
				}
				for a := 0; a < dim; a++ {
					for b := 0; b < dim; b++ {
						v := le.Lambda*gi[a]*gj[b] + le.Mu*gj[a]*gi[b]
						if a == b {
							v += le.Mu * dot
						}
						r, c := i*dim+a, j*dim+b
						K.Set(r, c, K.At(r, c)+w*v)
					}
				}
			}
		}
	}
	return
}
