package assembly

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/polyfem/utils"
)

type SolverType uint8

const (
	SolverCG SolverType = iota
	SolverCholesky
)

var SolverNameMap = map[string]SolverType{
	"cg":       SolverCG,
	"cholesky": SolverCholesky,
}

func (st SolverType) String() string {
	for name, s := range SolverNameMap {
		if s == st {
			return name
		}
	}
	return fmt.Sprintf("SolverType(%d)", st)
}

func NewSolverType(name string) (st SolverType, err error) {
	var ok bool
	if st, ok = SolverNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("unknown solver %q, expected cg or cholesky", name)
	}
	return
}

type SolverOptions struct {
	Tolerance     float64 // relative residual, default 1e-12
	MaxIterations int     // default 10 * n
}

// Solve dispatches to the chosen solver; iters is zero for the direct solver.
func Solve(st SolverType, K utils.CSR, b []float64, opts SolverOptions) (x []float64, iters int, err error) {
	switch st {
	case SolverCG:
		return SolveCG(K, b, opts)
	case SolverCholesky:
		x, err = SolveCholesky(K, b)
		return
	}
	return nil, 0, fmt.Errorf("unknown solver %s", st)
}

/*
SolveCG solves K x = b for symmetric positive definite K with Jacobi preconditioned conjugate gradients. The
products go through the sparse library's CSR kernel.
*/
func SolveCG(K utils.CSR, b []float64, opts SolverOptions) (x []float64, iters int, err error) {
	var (
		n       = len(b)
		tol     = opts.Tolerance
		maxIter = opts.MaxIterations
	)
	if tol <= 0 {
		tol = 1e-12
	}
	if maxIter <= 0 {
		maxIter = 10 * n
	}
	x = make([]float64, n)
	bnorm := floats.Norm(b, 2)
	if bnorm == 0 {
		return
	}
	var (
		diag = K.Diagonal()
		r    = make([]float64, n)
		z    = make([]float64, n)
		p    = make([]float64, n)
		Ap   = make([]float64, n)
	)
	for i, d := range diag {
		if d <= 0 {
			return nil, 0, fmt.Errorf("non positive diagonal %g in row %d", d, i)
		}
	}
	copy(r, b)
	floats.DivTo(z, r, diag)
	copy(p, z)
	rz := floats.Dot(r, z)
	for iters = 1; iters <= maxIter; iters++ {
		K.MulVecTo(Ap, p)
		pAp := floats.Dot(p, Ap)
		if pAp <= 0 {
			return x, iters, fmt.Errorf("%w: matrix is not positive definite (p.Ap = %g)", ErrNotConverged, pAp)
		}
		alpha := rz / pAp
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, Ap)
		if floats.Norm(r, 2) <= tol*bnorm {
			return
		}
		floats.DivTo(z, r, diag)
		rzNew := floats.Dot(r, z)
		beta := rzNew / rz
		rz = rzNew
		floats.AddScaledTo(p, z, beta, p)
	}
	return x, maxIter, fmt.Errorf("%w: residual %g after %d iterations", ErrNotConverged, floats.Norm(r, 2)/bnorm, maxIter)
}

// SolveCholesky factors the densified matrix; meant for small systems and for checking the iterative solver.
func SolveCholesky(K utils.CSR, b []float64) (x []float64, err error) {
	var (
		n, _ = K.Dims()
		D    = K.ToDense()
		S    = mat.NewSymDense(n, nil)
		ch   mat.Cholesky
		xv   mat.VecDense
	)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			S.SetSym(i, j, 0.5*(D.At(i, j)+D.At(j, i)))
		}
	}
	if !ch.Factorize(S) {
		return nil, fmt.Errorf("%w: matrix is not positive definite", ErrNotConverged)
	}
	if err = ch.SolveVecTo(&xv, mat.NewVecDense(n, append([]float64{}, b...))); err != nil {
		if _, ok := err.(mat.Condition); !ok {
			return nil, err
		}
		err = nil
	}
	x = append([]float64{}, xv.RawVector().Data...)
	if utils.IsNan(x) || math.IsInf(floats.Norm(x, 1), 0) {
		return nil, fmt.Errorf("%w: singular system", ErrNotConverged)
	}
	return
}
