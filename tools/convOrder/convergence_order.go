package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
)

var (
	csvFile string
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study")
	flag.Parse()
	csvFile = *csvFilePtr
	if len(csvFile) == 0 {
		flag.Usage()
		os.Exit(1)
	}
	fmt.Printf("Input file: %v\n", csvFile)
	f, err := os.Open(csvFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	studies, err := readCSV(bufio.NewReader(f))
	if err != nil {
		panic(err)
	}
	keys := make([]string, 0, len(studies))
	for k := range studies {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		cs := studies[k]
		fmt.Printf("Title = %s, Order = %d\n", cs.title, cs.order)
		fmt.Printf("%8s %10s %12s %6s %12s %6s %12s %6s\n", "DOFs", "h", "L2", "rate", "H1 semi", "rate", "Linf", "rate")
		for i := range cs.numDOFs {
			var r [3]float64
			if i > 0 {
				r = [3]float64{cs.rate(cs.l2, i), cs.rate(cs.h1, i), cs.rate(cs.linf, i)}
			}
			fmt.Printf("%8d %10.4g %12.4e %6.2f %12.4e %6.2f %12.4e %6.2f\n",
				cs.numDOFs[i], cs.h[i], cs.l2[i], r[0], cs.h1[i], r[1], cs.linf[i], r[2])
		}
	}
}

type ConvergenceStudy struct {
	title        string
	order        int
	numDOFs      []int
	h            []float64
	l2, h1, linf []float64
	lp           []float64
}

func NewConvergenceStudy(title string, order int) *ConvergenceStudy {
	return &ConvergenceStudy{
		title: title,
		order: order,
	}
}

func (cs *ConvergenceStudy) Add(numDOFs int, h, l2, h1, linf, lp float64) {
	cs.numDOFs = append(cs.numDOFs, numDOFs)
	cs.h = append(cs.h, h)
	cs.l2 = append(cs.l2, l2)
	cs.h1 = append(cs.h1, h1)
	cs.linf = append(cs.linf, linf)
	cs.lp = append(cs.lp, lp)
}

// rate is the observed order between entries i-1 and i, log(e0/e1) / log(h0/h1).
func (cs *ConvergenceStudy) rate(e []float64, i int) float64 {
	if e[i-1] <= 0 || e[i] <= 0 || cs.h[i-1] == cs.h[i] {
		return math.NaN()
	}
	return math.Log(e[i-1]/e[i]) / math.Log(cs.h[i-1]/cs.h[i])
}

// readCSV groups the records by title and order; the first record is the header.
func readCSV(rd io.Reader) (studies map[string]*ConvergenceStudy, err error) {
	var (
		records [][]string
		ok      bool
		cs      *ConvergenceStudy
	)
	studies = make(map[string]*ConvergenceStudy)
	r := csv.NewReader(rd)
	if records, err = r.ReadAll(); err != nil {
		return
	}
	for i, rec := range records {
		if i == 0 || rec[0] == "Title" {
			continue
		}
		if len(rec) < 8 {
			return nil, fmt.Errorf("line %d: have %d fields, want 8", i+1, len(rec))
		}
		title, ndoftxt, ntxt := rec[0], rec[1], rec[2]
		n, _ := strconv.Atoi(ntxt)
		ndofs, _ := strconv.Atoi(ndoftxt)
		combTitle := title + ntxt
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, n)
			studies[combTitle] = cs
		}
		var v [5]float64
		for j := range v {
			if v[j], err = strconv.ParseFloat(rec[3+j], 64); err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
		}
		cs.Add(ndofs, v[0], v[1], v[2], v[3], v[4])
	}
	return
}
