package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/notargets/polyfem/InputParameters"
	"github.com/notargets/polyfem/field"
)

type ConvergenceRow struct {
	Refinements int
	NumElements int
	NumBases    int
	H           float64 // longest edge
	Errors      field.Errors
}

/*
ConvergenceStudy runs the pipeline on nRefs successive uniform refinements of the parameter mesh. The problem
must have an exact solution.
*/
func ConvergenceStudy(params *InputParameters.FEMParameters, nRefs int, opts ...Option) (rows []ConvergenceRow, err error) {
	if params == nil {
		params = InputParameters.NewFEMParameters()
	}
	for r := 0; r < nRefs; r++ {
		p := *params
		p.Refinements = params.Refinements + r
		var s *State
		if s, err = New(&p, opts...); err != nil {
			return
		}
		if err = s.RunAll(); err != nil {
			return nil, fmt.Errorf("refinement %d: %w", p.Refinements, err)
		}
		if s.Errors == nil {
			return nil, fmt.Errorf("problem %s has no exact solution to measure convergence against", s.Problem.Name())
		}
		_, h := s.Mesh.MeshSize()
		rows = append(rows, ConvergenceRow{
			Refinements: p.Refinements,
			NumElements: s.Mesh.NumElements(),
			NumBases:    s.Space.NumBases,
			H:           h,
			Errors:      *s.Errors,
		})
	}
	return
}

type Rates struct {
	L2, H1Semi, Linf float64
}

// ConvergenceRates returns the observed orders log(e_i/e_i+1) / log(h_i/h_i+1) between consecutive rows.
func ConvergenceRates(rows []ConvergenceRow) (rates []Rates) {
	rate := func(e0, e1, h0, h1 float64) float64 {
		if e0 <= 0 || e1 <= 0 {
			return math.NaN()
		}
		return math.Log(e0/e1) / math.Log(h0/h1)
	}
	for i := 1; i < len(rows); i++ {
		a, b := rows[i-1], rows[i]
		rates = append(rates, Rates{
			L2:     rate(a.Errors.L2, b.Errors.L2, a.H, b.H),
			H1Semi: rate(a.Errors.H1Semi, b.Errors.H1Semi, a.H, b.H),
			Linf:   rate(a.Errors.Linf, b.Errors.Linf, a.H, b.H),
		})
	}
	return
}

var CSVHeader = []string{"Title", "NumDOFs", "Order", "H", "L2", "H1Semi", "Linf", "Lp"}

// WriteCSV appends one record per row in the layout read by tools/convOrder.
func WriteCSV(w io.Writer, header bool, title string, order int, rows []ConvergenceRow) error {
	cw := csv.NewWriter(w)
	if header {
		if err := cw.Write(CSVHeader); err != nil {
			return err
		}
	}
	g := func(v float64) string { return strconv.FormatFloat(v, 'g', 10, 64) }
	for _, r := range rows {
		rec := []string{title, strconv.Itoa(r.NumBases), strconv.Itoa(order), g(r.H),
			g(r.Errors.L2), g(r.Errors.H1Semi), g(r.Errors.Linf), g(r.Errors.Lp)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
