package basis

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/mesh"
	"github.com/notargets/polyfem/quadrature"
	"github.com/notargets/polyfem/types"
)

var (
	ErrDegenerateElement         = errors.New("degenerate element")
	ErrUnsupportedDiscretization = errors.New("unsupported discretization")
)

// BasisConstructionError names the element whose local basis could not be built.
type BasisConstructionError struct {
	Element int
	Type    mesh.ElementType
	Err     error
}

func (e *BasisConstructionError) Error() string {
	return fmt.Sprintf("basis construction failed for element %d (%s): %v", e.Element, e.Type, e.Err)
}

func (e *BasisConstructionError) Unwrap() error { return e.Err }

// Local2Global links a local shape function to one global DOF.
type Local2Global struct {
	Index  int
	Weight float64
	Node   r3.Vec
}

// ShapeFunction is evaluated at reference coordinates, or at physical coordinates for polytopes.
type ShapeFunction interface {
	Value(x []float64) float64
	Gradient(x, g []float64)
}

type Basis struct {
	ShapeFunction
	Global []Local2Global
}

// Eval returns the function value at every row of pts.
func (b Basis) Eval(pts *mat.Dense) (v []float64) {
	np, _ := pts.Dims()
	v = make([]float64, np)
	for i := 0; i < np; i++ {
		v[i] = b.Value(pts.RawRowView(i))
	}
	return
}

// EvalGrad returns the gradient at every row of pts, one row per point.
func (b Basis) EvalGrad(pts *mat.Dense) (g *mat.Dense) {
	np, dim := pts.Dims()
	g = mat.NewDense(np, dim, nil)
	for i := 0; i < np; i++ {
		b.Gradient(pts.RawRowView(i), g.RawRowView(i))
	}
	return
}

// Shape is the element family a basis was built for, fixed at construction.
type Shape uint8

const (
	TriangleShape Shape = iota
	QuadShape
	PolygonShape
	TetShape
	HexShape
	PolyhedronShape
)

func (s Shape) String() string {
	switch s {
	case TriangleShape:
		return "Triangle"
	case QuadShape:
		return "Quad"
	case PolygonShape:
		return "Polygon"
	case TetShape:
		return "Tet"
	case HexShape:
		return "Hex"
	case PolyhedronShape:
		return "Polyhedron"
	}
	return fmt.Sprintf("Shape(%d)", s)
}

// Family is the quadrature family of the element, or of its sub-simplices for polytopes.
func (s Shape) Family() quadrature.ShapeFamily {
	switch s {
	case QuadShape:
		return quadrature.Quad
	case HexShape:
		return quadrature.Hex
	case TetShape, PolyhedronShape:
		return quadrature.Tet
	}
	return quadrature.Triangle
}

func (s Shape) IsPolytope() bool { return s == PolygonShape || s == PolyhedronShape }

// subCell is a physical simplex of a polytope's quadrature partition.
type subCell struct {
	pts     []r3.Vec
	measure float64
}

/*
ElementBases holds the local shape functions of one element. For triangles, quads, tets and hexes the functions
and the geometric map live on the reference element; for polygons and polyhedra they are defined directly in
physical coordinates, the geometric map is the identity and the quadrature comes from a partition of the cell
into simplices.
*/
type ElementBases struct {
	Element       int
	Type          mesh.ElementType
	Shape         Shape
	Dim           int
	IsoParametric bool
	Bases         []Basis
	// Flux[k] is the boundary integral of function k times the outward normal, set for polygons. The assembled
	// gradients are shifted by a constant per function so that their quadrature sums equal it.
	Flux [][]float64

	geom  []Basis
	cells []subCell
}

func (eb *ElementBases) Size() int { return len(eb.Bases) }

// EvalGeomMapping maps reference points (one per row) to physical coordinates.
func (eb *ElementBases) EvalGeomMapping(ref *mat.Dense) (phys *mat.Dense) {
	if eb.geom == nil {
		return mat.DenseCopyOf(ref)
	}
	np, _ := ref.Dims()
	phys = mat.NewDense(np, eb.Dim, nil)
	for i := 0; i < np; i++ {
		x, row := ref.RawRowView(i), phys.RawRowView(i)
		for _, g := range eb.geom {
			v := g.Value(x)
			node := vecSlice(g.Global[0].Node)
			for d := range row {
				row[d] += v * node[d]
			}
		}
	}
	return
}

// Jacobian returns J[i][j] = d x_i / d xi_j at reference point x.
func (eb *ElementBases) Jacobian(x []float64) (J *mat.Dense) {
	J = mat.NewDense(eb.Dim, eb.Dim, nil)
	if eb.geom == nil {
		for d := 0; d < eb.Dim; d++ {
			J.Set(d, d, 1)
		}
		return
	}
	grad := make([]float64, eb.Dim)
	for _, g := range eb.geom {
		g.Gradient(x, grad)
		node := vecSlice(g.Global[0].Node)
		for i := 0; i < eb.Dim; i++ {
			for j := 0; j < eb.Dim; j++ {
				J.Set(i, j, J.At(i, j)+node[i]*grad[j])
			}
		}
	}
	return
}

/*
Quadrature returns the integration rule of the element. Reference elements get the tabulated rule, scaled to
the reference simplex measure for triangles and tets. Polytopes get physical points and weights gathered from
their sub-simplices; polygons use two extra orders since mean value functions are not polynomial.
*/
func (eb *ElementBases) Quadrature(order int) (q quadrature.Quadrature, err error) {
	fam := eb.Shape.Family()
	if eb.cells == nil {
		if q, err = quadrature.GetQuadrature(order, fam); err != nil {
			return
		}
		if fam.IsSimplex() {
			q = q.ScaleToSimplex(fam)
		}
		return
	}
	if eb.Shape == PolygonShape && order+2 <= quadrature.MaxOrder(fam) {
		order += 2
	}
	var base quadrature.Quadrature
	if base, err = quadrature.GetQuadrature(order, fam); err != nil {
		return
	}
	var (
		nq  = base.Size()
		pts = mat.NewDense(nq*len(eb.cells), eb.Dim, nil)
	)
	q.Weights = make([]float64, 0, nq*len(eb.cells))
	for c, cell := range eb.cells {
		p0 := vecSlice(cell.pts[0])
		for k := 0; k < nq; k++ {
			xi, row := base.Points.RawRowView(k), pts.RawRowView(c*nq+k)
			copy(row, p0[:eb.Dim])
			for a := range xi {
				pa := vecSlice(cell.pts[a+1])
				for d := range row {
					row[d] += xi[a] * (pa[d] - p0[d])
				}
			}
			q.Weights = append(q.Weights, base.Weights[k]*cell.measure)
		}
	}
	q.Points = pts
	return
}

func vecSlice(v r3.Vec) []float64 { return []float64{v.X, v.Y, v.Z} }

/*
Space is the discrete function space over a mesh: the bases of every element and the global DOF numbering they
share. Global DOF i sits on the mesh entity Entities[i] at position Nodes[i].
*/
type Space struct {
	Mesh           mesh.Mesh
	Tags           []mesh.ElementType
	Bases          []ElementBases
	NumBases       int
	Nodes          []r3.Vec
	Entities       []types.EntityKey
	BoundaryNodes  []int
	DirichletNodes []int
	Order          int
}

func (s *Space) Dim() int { return s.Mesh.Dimension() }

// IsBoundaryNode reports whether a global DOF lies on the mesh boundary.
func (s *Space) IsBoundaryNode(i int) bool {
	k := sort.SearchInts(s.BoundaryNodes, i)
	return k < len(s.BoundaryNodes) && s.BoundaryNodes[k] == i
}
