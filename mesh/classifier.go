package mesh

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

type ElementType uint8

const (
	RegularInteriorCube ElementType = iota
	SimpleSingularInteriorCube
	MultiSingularInteriorCube
	RegularBoundaryCube
	SingularBoundaryCube
	InteriorPolytope
	BoundaryPolytope
	SimplexElement // triangles and tets
	Undefined
)

var elementTypeNames = []string{
	"RegularInteriorCube",
	"SimpleSingularInteriorCube",
	"MultiSingularInteriorCube",
	"RegularBoundaryCube",
	"SingularBoundaryCube",
	"InteriorPolytope",
	"BoundaryPolytope",
	"Simplex",
	"Undefined",
}

func (t ElementType) String() string {
	if int(t) < len(elementTypeNames) {
		return elementTypeNames[t]
	}
	return fmt.Sprintf("ElementType(%d)", t)
}

func (t ElementType) IsCube() bool     { return t <= SingularBoundaryCube }
func (t ElementType) IsPolytope() bool { return t == InteriorPolytope || t == BoundaryPolytope }

/*
ComputeElementTags classifies every element from topology alone.

Cubes are quads in 2D and hexes in 3D. Their regularity is decided by vertices in 2D and by edges in 3D: a
vertex (edge) is regular when every incident element is a cube and its valence is 4 in the interior or at most
2 on the boundary. An interior cube with no singular vertex (edge) is regular, with one it is simple singular,
with more it is multi singular; boundary cubes are regular or singular.
*/
func ComputeElementTags(m Mesh) (tags []ElementType) {
	var (
		ne = m.NumElements()
	)
	tags = make([]ElementType, ne)
	nonManifold := make([]bool, ne)
	for f := 0; f < m.NumFacets(); f++ {
		if elems := m.FacetElements(f); len(elems) > 2 {
			for _, e := range elems {
				nonManifold[e] = true
			}
		}
	}
	var singular func(e int) int
	if m.IsVolume() {
		singularEdge := make([]bool, m.NumEdges())
		for id := range singularEdge {
			singularEdge[id] = isSingular(m, m.EdgeElements(id), m.IsBoundaryEdge(id))
		}
		singular = func(e int) (count int) {
			for _, id := range elementEdges(m, e) {
				if singularEdge[id] {
					count++
				}
			}
			return
		}
	} else {
		singularVert := make([]bool, m.NumVertices())
		for v := range singularVert {
			singularVert[v] = isSingular(m, m.VertexElements(v), m.IsBoundaryVertex(v))
		}
		singular = func(e int) (count int) {
			for _, v := range m.ElementVertices(e) {
				if singularVert[v] {
					count++
				}
			}
			return
		}
	}
	for e := 0; e < ne; e++ {
		if nonManifold[e] {
			tags[e] = Undefined
			continue
		}
		boundary := m.IsBoundaryElement(e)
		switch m.ElementShape(e) {
		case Invalid:
			tags[e] = Undefined
		case Simplex:
			tags[e] = SimplexElement
		case Polytope:
			if boundary {
				tags[e] = BoundaryPolytope
			} else {
				tags[e] = InteriorPolytope
			}
		case Cube:
			s := singular(e)
			switch {
			case boundary && s == 0:
				tags[e] = RegularBoundaryCube
			case boundary:
				tags[e] = SingularBoundaryCube
			case s == 0:
				tags[e] = RegularInteriorCube
			case s == 1:
				tags[e] = SimpleSingularInteriorCube
			default:
				tags[e] = MultiSingularInteriorCube
			}
		}
	}
	return
}

func isSingular(m Mesh, elems []int, onBoundary bool) bool {
	for _, e := range elems {
		if m.ElementShape(e) != Cube {
			return true
		}
	}
	if onBoundary {
		return len(elems) > 2
	}
	return len(elems) != 4
}

// elementEdges lists the edge ids of an element, each once.
func elementEdges(m Mesh, e int) (ids []int) {
	seen := make(map[int]bool)
	for _, f := range m.ElementFacets(e) {
		loop := m.Facet(f)
		for i := range loop {
			if id, ok := m.EdgeID(loop[i], loop[(i+1)%len(loop)]); ok && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return
}

// ValidateTags reports every Undefined element as a *ClassificationError, combined with multierr.
func ValidateTags(m Mesh, tags []ElementType) (err error) {
	for e, tag := range tags {
		if tag != Undefined {
			continue
		}
		err = multierr.Append(err, &ClassificationError{Element: e, Reason: undefinedReason(m, e)})
	}
	return
}

func undefinedReason(m Mesh, e int) string {
	switch t := m.(type) {
	case *PlanarMesh:
		if r := t.reasons[e]; r != "" {
			return r
		}
	case *VolumetricMesh:
		if r := t.reasons[e]; r != "" {
			return r
		}
	}
	return "non manifold facet"
}

func TagCounts(tags []ElementType) (counts map[ElementType]int) {
	counts = make(map[ElementType]int)
	for _, t := range tags {
		counts[t]++
	}
	return
}

// FormatTagCounts prints the non zero counts in ElementType order.
func FormatTagCounts(counts map[ElementType]int) string {
	var (
		keys  []int
		parts []string
	)
	for t := range counts {
		keys = append(keys, int(t))
	}
	sort.Ints(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", ElementType(k), counts[ElementType(k)]))
	}
	return strings.Join(parts, " ")
}
