package mesh

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/types"
)

/*
Mesh is implemented by exactly two types, PlanarMesh and VolumetricMesh. The unexported method keeps the
set closed; callers switch on IsVolume or on the concrete type.

Index arguments are checked: an out of range element, vertex, facet or edge index panics with *IndexError.
*/
type Mesh interface {
	IsVolume() bool
	Dimension() int
	NumElements() int
	NumVertices() int
	NumElementVertices(e int) int
	ElementVertices(e int) []int
	VertexGlobalIndex(e, lv int) int
	Point(v int) r3.Vec
	ElementPoints(e int) []r3.Vec
	ElementShape(e int) Shape

	VertexElements(v int) []int
	NumFacets() int
	Facet(f int) []int
	FacetElements(f int) []int
	ElementFacets(e int) []int
	FacetID(verts []int) (int, bool)
	IsBoundaryFacet(f int) bool
	FacetTag(f int) types.BCFLAG
	SetBoundaryTags(fn TagFunc)
	NumEdges() int
	Edge(id int) [2]int
	EdgeElements(id int) []int
	EdgeID(a, b int) (int, bool)
	IsBoundaryEdge(id int) bool
	IsBoundaryElement(e int) bool
	IsBoundaryVertex(v int) bool

	Edges() (p0, p1 []r3.Vec)
	Barycenters() []r3.Vec
	NormalizedBarycenters() []r3.Vec
	MeshSize() (avg, max float64)
	TriangulateFaces() (pts []r3.Vec, tris [][3]int, ranges []int)
	Refine(n int) (Mesh, error)

	isMesh()
}

// TagFunc assigns a boundary condition to a boundary facet given its vertex average.
type TagFunc func(center r3.Vec, facet int) types.BCFLAG

// Shape is the geometric family of an element, decided from its vertex count and face description.
type Shape uint8

const (
	Invalid Shape = iota
	Simplex
	Cube
	Polytope
)

func (s Shape) String() string {
	switch s {
	case Invalid:
		return "Invalid"
	case Simplex:
		return "Simplex"
	case Cube:
		return "Cube"
	case Polytope:
		return "Polytope"
	}
	return fmt.Sprintf("Shape(%d)", s)
}

var (
	ErrMeshLoad       = errors.New("mesh load error")
	ErrIndex          = errors.New("index out of range")
	ErrClassification = errors.New("element classification error")
)

type MeshLoadError struct {
	Path   string
	Line   int
	Reason string
}

func (e *MeshLoadError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("mesh load error: %s:%d: %s", e.Path, e.Line, e.Reason)
	case e.Line > 0:
		return fmt.Sprintf("mesh load error: line %d: %s", e.Line, e.Reason)
	case e.Path != "":
		return fmt.Sprintf("mesh load error: %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("mesh load error: %s", e.Reason)
}

func (e *MeshLoadError) Unwrap() error { return ErrMeshLoad }

type IndexError struct {
	Kind  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Kind, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndex }

func checkIndex(kind string, i, n int) {
	if i < 0 || i >= n {
		panic(&IndexError{Kind: kind, Index: i, Len: n})
	}
}

type ClassificationError struct {
	Element int
	Reason  string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("element %d cannot be classified: %s", e.Element, e.Reason)
}

func (e *ClassificationError) Unwrap() error { return ErrClassification }
