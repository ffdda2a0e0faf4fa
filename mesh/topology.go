package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/types"
)

/*
topology is the connectivity shared by both mesh variants. Facets are edges in 2D and faces in 3D; they are
deduplicated on their sorted vertex set, so a facet seen from two elements has one id.
*/
type topology struct {
	vertices []r3.Vec
	elements [][]int
	shapes   []Shape
	reasons  []string // why an element is Invalid

	elemFacets [][]int
	facets     [][]int // vertex loop as first seen
	facetElems [][]int
	facetIndex map[types.FaceKey]int
	facetTags  []types.BCFLAG
	tagFn      TagFunc

	edges      [][2]int
	edgeElems  [][]int
	edgeIndex  map[types.EdgeKey]int
	edgeOnBdry []bool

	vertElems  [][]int
	vertOnBdry []bool
}

// build fills the connectivity; facetsOf returns the facet loops of a valid element.
func (t *topology) build(facetsOf func(e int) [][]int) {
	var (
		ne = len(t.elements)
		nv = len(t.vertices)
	)
	t.elemFacets = make([][]int, ne)
	t.facetIndex = make(map[types.FaceKey]int)
	t.edgeIndex = make(map[types.EdgeKey]int)
	t.vertElems = make([][]int, nv)
	for e, verts := range t.elements {
		seen := make(map[int]bool, len(verts))
		for _, v := range verts {
			if !seen[v] {
				t.vertElems[v] = append(t.vertElems[v], e)
				seen[v] = true
			}
		}
		if t.shapes[e] == Invalid {
			continue
		}
		loops := facetsOf(e)
		t.elemFacets[e] = make([]int, len(loops))
		for lf, loop := range loops {
			key := types.NewFaceKey(loop)
			fid, exists := t.facetIndex[key]
			if !exists {
				fid = len(t.facets)
				t.facets = append(t.facets, append([]int{}, loop...))
				t.facetElems = append(t.facetElems, nil)
				t.facetIndex[key] = fid
			}
			t.facetElems[fid] = append(t.facetElems[fid], e)
			t.elemFacets[e][lf] = fid
			for i := range loop {
				a, b := loop[i], loop[(i+1)%len(loop)]
				if len(loop) == 2 && i == 1 {
					break
				}
				t.addEdge(a, b, e)
			}
		}
	}
	t.facetTags = make([]types.BCFLAG, len(t.facets))
	t.edgeOnBdry = make([]bool, len(t.edges))
	t.vertOnBdry = make([]bool, nv)
	for f, loop := range t.facets {
		if len(t.facetElems[f]) != 1 {
			continue
		}
		t.facetTags[f] = types.BC_Dirichlet
		for i := range loop {
			a, b := loop[i], loop[(i+1)%len(loop)]
			t.vertOnBdry[a] = true
			if id, ok := t.EdgeID(a, b); ok {
				t.edgeOnBdry[id] = true
			}
		}
	}
}

func (t *topology) addEdge(a, b, e int) {
	key := types.NewEdgeKey([2]int{a, b})
	id, exists := t.edgeIndex[key]
	if !exists {
		id = len(t.edges)
		t.edges = append(t.edges, key.GetVertices(false))
		t.edgeElems = append(t.edgeElems, nil)
		t.edgeIndex[key] = id
	}
	for _, other := range t.edgeElems[id] {
		if other == e {
			return
		}
	}
	t.edgeElems[id] = append(t.edgeElems[id], e)
}

func hasDuplicates(verts []int) bool {
	seen := make(map[int]bool, len(verts))
	for _, v := range verts {
		if seen[v] {
			return true
		}
		seen[v] = true
	}
	return false
}

func (t *topology) describe(kind string) string {
	return fmt.Sprintf("%s: %d vertices, %d elements, %d facets", kind, len(t.vertices), len(t.elements), len(t.facets))
}

func (t *topology) NumElements() int { return len(t.elements) }
func (t *topology) NumVertices() int { return len(t.vertices) }

func (t *topology) NumElementVertices(e int) int {
	checkIndex("element", e, len(t.elements))
	return len(t.elements[e])
}

func (t *topology) ElementVertices(e int) []int {
	checkIndex("element", e, len(t.elements))
	return t.elements[e]
}

func (t *topology) VertexGlobalIndex(e, lv int) int {
	checkIndex("element", e, len(t.elements))
	checkIndex("local vertex", lv, len(t.elements[e]))
	return t.elements[e][lv]
}

func (t *topology) Point(v int) r3.Vec {
	checkIndex("vertex", v, len(t.vertices))
	return t.vertices[v]
}

func (t *topology) ElementPoints(e int) (pts []r3.Vec) {
	verts := t.ElementVertices(e)
	pts = make([]r3.Vec, len(verts))
	for i, v := range verts {
		pts[i] = t.vertices[v]
	}
	return
}

func (t *topology) ElementShape(e int) Shape {
	checkIndex("element", e, len(t.elements))
	return t.shapes[e]
}

func (t *topology) VertexElements(v int) []int {
	checkIndex("vertex", v, len(t.vertices))
	return t.vertElems[v]
}

func (t *topology) NumFacets() int { return len(t.facets) }

func (t *topology) Facet(f int) []int {
	checkIndex("facet", f, len(t.facets))
	return t.facets[f]
}

func (t *topology) FacetElements(f int) []int {
	checkIndex("facet", f, len(t.facets))
	return t.facetElems[f]
}

func (t *topology) ElementFacets(e int) []int {
	checkIndex("element", e, len(t.elements))
	return t.elemFacets[e]
}

func (t *topology) FacetID(verts []int) (f int, ok bool) {
	f, ok = t.facetIndex[types.NewFaceKey(verts)]
	return
}

func (t *topology) IsBoundaryFacet(f int) bool {
	checkIndex("facet", f, len(t.facets))
	return len(t.facetElems[f]) == 1
}

func (t *topology) FacetTag(f int) types.BCFLAG {
	checkIndex("facet", f, len(t.facets))
	return t.facetTags[f]
}

// SetBoundaryTags reassigns the tag of every boundary facet; interior facets stay BC_None.
func (t *topology) SetBoundaryTags(fn TagFunc) {
	t.tagFn = fn
	for f := range t.facets {
		if len(t.facetElems[f]) == 1 {
			t.facetTags[f] = fn(t.facetCenter(f), f)
		}
	}
}

func (t *topology) facetCenter(f int) (c r3.Vec) {
	for _, v := range t.facets[f] {
		c = r3.Add(c, t.vertices[v])
	}
	return r3.Scale(1/float64(len(t.facets[f])), c)
}

func (t *topology) NumEdges() int { return len(t.edges) }

func (t *topology) Edge(id int) [2]int {
	checkIndex("edge", id, len(t.edges))
	return t.edges[id]
}

func (t *topology) EdgeElements(id int) []int {
	checkIndex("edge", id, len(t.edges))
	return t.edgeElems[id]
}

func (t *topology) EdgeID(a, b int) (id int, ok bool) {
	if a < 0 || b < 0 {
		return
	}
	id, ok = t.edgeIndex[types.NewEdgeKey([2]int{a, b})]
	return
}

func (t *topology) IsBoundaryEdge(id int) bool {
	checkIndex("edge", id, len(t.edges))
	return t.edgeOnBdry[id]
}

func (t *topology) IsBoundaryElement(e int) bool {
	for _, f := range t.ElementFacets(e) {
		if len(t.facetElems[f]) == 1 {
			return true
		}
	}
	return false
}

func (t *topology) IsBoundaryVertex(v int) bool {
	checkIndex("vertex", v, len(t.vertices))
	return t.vertOnBdry[v]
}

func (t *topology) Edges() (p0, p1 []r3.Vec) {
	p0, p1 = make([]r3.Vec, len(t.edges)), make([]r3.Vec, len(t.edges))
	for i, e := range t.edges {
		p0[i], p1[i] = t.vertices[e[0]], t.vertices[e[1]]
	}
	return
}

func (t *topology) Barycenters() (bary []r3.Vec) {
	bary = make([]r3.Vec, len(t.elements))
	for e, verts := range t.elements {
		if len(verts) == 0 {
			continue
		}
		for _, v := range verts {
			bary[e] = r3.Add(bary[e], t.vertices[v])
		}
		bary[e] = r3.Scale(1/float64(len(verts)), bary[e])
	}
	return
}

// NormalizedBarycenters shifts and scales each axis of the barycenters to [0,1]; a flat axis maps to 0.
func (t *topology) NormalizedBarycenters() (bary []r3.Vec) {
	bary = t.Barycenters()
	if len(bary) == 0 {
		return
	}
	lo, hi := bary[0], bary[0]
	for _, b := range bary {
		lo = r3.Vec{X: math.Min(lo.X, b.X), Y: math.Min(lo.Y, b.Y), Z: math.Min(lo.Z, b.Z)}
		hi = r3.Vec{X: math.Max(hi.X, b.X), Y: math.Max(hi.Y, b.Y), Z: math.Max(hi.Z, b.Z)}
	}
	scale := func(x, lo, hi float64) float64 {
		if hi-lo <= 0 {
			return 0
		}
		return (x - lo) / (hi - lo)
	}
	for i, b := range bary {
		bary[i] = r3.Vec{X: scale(b.X, lo.X, hi.X), Y: scale(b.Y, lo.Y, hi.Y), Z: scale(b.Z, lo.Z, hi.Z)}
	}
	return
}

// MeshSize returns the average and the largest edge length.
func (t *topology) MeshSize() (avg, max float64) {
	if len(t.edges) == 0 {
		return
	}
	for _, e := range t.edges {
		l := r3.Norm(r3.Sub(t.vertices[e[1]], t.vertices[e[0]]))
		avg += l
		max = math.Max(max, l)
	}
	avg /= float64(len(t.edges))
	return
}
