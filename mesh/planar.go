package mesh

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/geometry2D"
)

// PlanarMesh is a 2D mesh of triangles, quads and simple polygons, with vertices in the z = 0 plane.
type PlanarMesh struct {
	topology
}

func (m *PlanarMesh) isMesh()        {}
func (m *PlanarMesh) IsVolume() bool { return false }
func (m *PlanarMesh) Dimension() int { return 2 }
func (m *PlanarMesh) String() string { return m.describe("PlanarMesh") }

/*
NewPlanarMesh builds the connectivity of a polygonal mesh. Each element is a vertex loop; elements with fewer
than three vertices or a repeated vertex are kept and reported Invalid by ElementShape, so that the classifier
can flag them.
*/
func NewPlanarMesh(vertices []r3.Vec, elements [][]int) (m *PlanarMesh, err error) {
	if err = checkInput(vertices, elements); err != nil {
		return
	}
	for i, v := range vertices {
		if v.Z != 0 {
			err = &MeshLoadError{Reason: fmt.Sprintf("vertex %d has z = %g in a planar mesh", i, v.Z)}
			return
		}
	}
	m = &PlanarMesh{}
	m.vertices = append([]r3.Vec{}, vertices...)
	m.elements = copyElements(elements)
	m.shapes = make([]Shape, len(elements))
	m.reasons = make([]string, len(elements))
	for e, verts := range m.elements {
		m.shapes[e], m.reasons[e] = planarShape(verts)
	}
	m.build(func(e int) (loops [][]int) {
		verts := m.elements[e]
		n := len(verts)
		loops = make([][]int, n)
		for i := range verts {
			loops[i] = []int{verts[i], verts[(i+1)%n]}
		}
		return
	})
	return
}

func planarShape(verts []int) (s Shape, reason string) {
	switch {
	case len(verts) < 3:
		return Invalid, fmt.Sprintf("%d vertices", len(verts))
	case hasDuplicates(verts):
		return Invalid, "repeated vertex"
	case len(verts) == 3:
		return Simplex, ""
	case len(verts) == 4:
		return Cube, ""
	}
	return Polytope, ""
}

func checkInput(vertices []r3.Vec, elements [][]int) error {
	if len(vertices) == 0 {
		return &MeshLoadError{Reason: "no vertices"}
	}
	if len(elements) == 0 {
		return &MeshLoadError{Reason: "no elements"}
	}
	for i, v := range vertices {
		if math.IsNaN(v.X+v.Y+v.Z) || math.IsInf(v.X+v.Y+v.Z, 0) {
			return &MeshLoadError{Reason: fmt.Sprintf("vertex %d is not finite", i)}
		}
	}
	for e, verts := range elements {
		for _, v := range verts {
			if v < 0 || v >= len(vertices) {
				return &MeshLoadError{Reason: fmt.Sprintf("element %d references vertex %d, mesh has %d vertices",
					e, v, len(vertices))}
			}
		}
	}
	return nil
}

func copyElements(elements [][]int) (out [][]int) {
	out = make([][]int, len(elements))
	for e, verts := range elements {
		out[e] = append([]int{}, verts...)
	}
	return
}

// ElementPolygon returns the element's vertices projected to the plane, in mesh order.
func (m *PlanarMesh) ElementPolygon(e int) (poly []r2.Vec) {
	pts := m.ElementPoints(e)
	poly = make([]r2.Vec, len(pts))
	for i, p := range pts {
		poly[i] = r2.Vec{X: p.X, Y: p.Y}
	}
	return
}

// TriangulateFaces ear clips every valid element; ranges[e]:ranges[e+1] indexes the triangles of element e.
func (m *PlanarMesh) TriangulateFaces() (pts []r3.Vec, tris [][3]int, ranges []int) {
	pts = append([]r3.Vec{}, m.vertices...)
	ranges = make([]int, m.NumElements()+1)
	for e, verts := range m.elements {
		ranges[e] = len(tris)
		if m.shapes[e] == Invalid {
			continue
		}
		poly, reversed := geometry2D.Orient(m.ElementPolygon(e))
		local, err := geometry2D.EarClip(poly)
		if err != nil {
			// fall back to a fan, still a valid covering for convex elements
			local = local[:0]
			for i := 1; i+1 < len(poly); i++ {
				local = append(local, [3]int{0, i, i + 1})
			}
		}
		n := len(verts)
		for _, tri := range local {
			var g [3]int
			for k, i := range tri {
				if reversed {
					i = n - 1 - i
				}
				g[k] = verts[i]
			}
			tris = append(tris, g)
		}
	}
	ranges[m.NumElements()] = len(tris)
	return
}
