package InputParameters

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/types"
)

// Parameters obtained from the YAML input file
type FEMParameters struct {
	Title           string              `yaml:"Title"`
	MeshFile        string              `yaml:"MeshFile"`  // OBJ or SU2 mesh, overrides Grid
	Grid            string              `yaml:"Grid"`      // quads, triangles, hexes or tets on the unit square/cube
	GridSize        []int               `yaml:"GridSize"`  // cells per direction
	Refinements     int                 `yaml:"Refinements"`
	Problem         string              `yaml:"Problem"`
	PolynomialOrder int                 `yaml:"PolynomialOrder"`
	Discretization  string              `yaml:"Discretization"`
	QuadratureOrder int                 `yaml:"QuadratureOrder"` // 0 means 2*PolynomialOrder
	BoundarySamples int                 `yaml:"BoundarySamples"`
	Lambda          float64             `yaml:"Lambda"`
	Mu              float64             `yaml:"Mu"`
	Solver          string              `yaml:"Solver"`
	Tolerance       float64             `yaml:"Tolerance"`
	MaxIterations   int                 `yaml:"MaxIterations"`
	ParallelDegree  int                 `yaml:"ParallelDegree"`
	Partition       string              `yaml:"Partition"`
	BCs             map[string][]string `yaml:"BCs"` // BC name to sides (left, right, bottom, top, front, back) or SU2 markers
}

func NewFEMParameters() *FEMParameters {
	return &FEMParameters{
		Title:           "Poisson",
		Grid:            "quads",
		GridSize:        []int{4, 4, 4},
		Problem:         "linear",
		PolynomialOrder: 1,
		Discretization:  "lagrange",
		BoundarySamples: 1,
		Lambda:          1,
		Mu:              1,
		Solver:          "cg",
		Tolerance:       1e-12,
		ParallelDegree:  1,
		Partition:       "contiguous",
	}
}

// Parse overlays the YAML document on the receiver, so unset keys keep their current values.
func (ip *FEMParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *FEMParameters) QuadOrder() int {
	if ip.QuadratureOrder > 0 {
		return ip.QuadratureOrder
	}
	return 2 * ip.PolynomialOrder
}

var sideNames = []string{"left", "right", "bottom", "top", "front", "back"}

/*
BoundaryTagger turns BCs into a tag function. A BC names sides of the unit square or cube, or markers of the
mesh file that find resolves from a facet center; find may be nil for generated meshes. A boundary facet on a
named marker or side gets that BC, every other boundary facet stays Dirichlet.
*/
func (ip *FEMParameters) BoundaryTagger(find func(c r3.Vec) (string, bool)) (fn func(c r3.Vec, f int) types.BCFLAG, err error) {
	bySide := make(map[string]types.BCFLAG)
	for name, sides := range ip.BCs {
		var bc types.BCFLAG
		if bc, err = types.NewBCFLAG(name); err != nil {
			return
		}
		for _, side := range sides {
			side = strings.TrimSpace(side)
			if !isSide(strings.ToLower(side)) {
				if find == nil {
					return nil, fmt.Errorf("unknown side %q for BC %s, expected one of %v", side, name, sideNames)
				}
				bySide[side] = bc
				continue
			}
			bySide[strings.ToLower(side)] = bc
		}
	}
	const tol = 1e-10
	fn = func(c r3.Vec, f int) types.BCFLAG {
		if find != nil {
			if marker, ok := find(c); ok {
				if bc, ok := bySide[marker]; ok {
					return bc
				}
			}
		}
		on := map[string]bool{
			"left": c.X < tol, "right": c.X > 1-tol,
			"bottom": c.Y < tol, "top": c.Y > 1-tol,
			"front": c.Z < tol, "back": c.Z > 1-tol,
		}
		for _, side := range sideNames {
			if bc, ok := bySide[side]; ok && on[side] {
				return bc
			}
		}
		return types.BC_Dirichlet
	}
	return
}

func isSide(s string) bool {
	for _, n := range sideNames {
		if n == s {
			return true
		}
	}
	return false
}

func (ip *FEMParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	if len(ip.MeshFile) != 0 {
		fmt.Printf("[%s]\t= Mesh File\n", ip.MeshFile)
	} else {
		fmt.Printf("[%s] %v\t\t= Grid\n", ip.Grid, ip.GridSize)
	}
	fmt.Printf("[%d]\t\t\t\t= Refinements\n", ip.Refinements)
	fmt.Printf("[%s]\t\t\t= Problem\n", ip.Problem)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	fmt.Printf("[%d]\t\t\t\t= Quadrature Order\n", ip.QuadOrder())
	fmt.Printf("[%d]\t\t\t\t= Boundary Samples\n", ip.BoundarySamples)
	fmt.Printf("%8.5f\t\t= Lambda\n", ip.Lambda)
	fmt.Printf("%8.5f\t\t= Mu\n", ip.Mu)
	fmt.Printf("[%s]\t\t\t= Solver\n", ip.Solver)
	fmt.Printf("[%d]\t\t\t\t= Parallel Degree (%s)\n", ip.ParallelDegree, ip.Partition)
	keys := make([]string, len(ip.BCs))
	i := 0
	for k := range ip.BCs {
		keys[i] = k
		i++
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Printf("BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
