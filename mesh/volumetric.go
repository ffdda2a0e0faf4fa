package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// VolumetricMesh is a 3D mesh of tets, hexes and polyhedra. Polyhedra carry an explicit list of face loops.
type VolumetricMesh struct {
	topology
	cellFaces [][][]int // nil for tets and hexes
}

func (m *VolumetricMesh) isMesh()        {}
func (m *VolumetricMesh) IsVolume() bool { return true }
func (m *VolumetricMesh) Dimension() int { return 3 }
func (m *VolumetricMesh) String() string { return m.describe("VolumetricMesh") }

/*
Local face loops of the reference tet and hex, outward oriented for a positively oriented cell.
Hex vertices 0-3 are the bottom loop and 4-7 the top loop above them.
*/
var (
	TetFaces = [][]int{{0, 2, 1}, {0, 1, 3}, {1, 2, 3}, {0, 3, 2}}
	HexFaces = [][]int{
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4},
		{1, 2, 6, 5},
		{2, 3, 7, 6},
		{3, 0, 4, 7},
	}
)

/*
NewVolumetricMesh builds the connectivity of a 3D mesh. cellFaces may be nil; when cellFaces[e] is non nil the
cell is a polyhedron described by those face loops, given as global vertex indices that must belong to the cell.
Cells without faces are tets (4 vertices) or hexes (8 vertices); anything else is kept and reported Invalid.
*/
func NewVolumetricMesh(vertices []r3.Vec, cells [][]int, cellFaces [][][]int) (m *VolumetricMesh, err error) {
	if err = checkInput(vertices, cells); err != nil {
		return
	}
	if cellFaces != nil && len(cellFaces) != len(cells) {
		err = &MeshLoadError{Reason: fmt.Sprintf("%d face lists for %d cells", len(cellFaces), len(cells))}
		return
	}
	m = &VolumetricMesh{
		cellFaces: make([][][]int, len(cells)),
	}
	m.vertices = append([]r3.Vec{}, vertices...)
	m.elements = copyElements(cells)
	m.shapes = make([]Shape, len(cells))
	m.reasons = make([]string, len(cells))
	for e, verts := range m.elements {
		var faces [][]int
		if cellFaces != nil {
			faces = cellFaces[e]
		}
		if faces != nil {
			inCell := make(map[int]bool, len(verts))
			for _, v := range verts {
				inCell[v] = true
			}
			for f, loop := range faces {
				for _, v := range loop {
					if !inCell[v] {
						err = &MeshLoadError{Reason: fmt.Sprintf("cell %d face %d uses vertex %d not in the cell", e, f, v)}
						return
					}
				}
			}
			m.cellFaces[e] = copyElements(faces)
		}
		m.shapes[e], m.reasons[e] = volumeShape(verts, m.cellFaces[e])
	}
	m.build(m.CellFaceLoops)
	return
}

func volumeShape(verts []int, faces [][]int) (s Shape, reason string) {
	switch {
	case len(verts) < 4:
		return Invalid, fmt.Sprintf("%d vertices", len(verts))
	case hasDuplicates(verts):
		return Invalid, "repeated vertex"
	case faces != nil:
		if len(faces) < 4 {
			return Invalid, fmt.Sprintf("polyhedron with %d faces", len(faces))
		}
		for _, f := range faces {
			if len(f) < 3 || hasDuplicates(f) {
				return Invalid, "degenerate face"
			}
		}
		return Polytope, ""
	case len(verts) == 4:
		return Simplex, ""
	case len(verts) == 8:
		return Cube, ""
	}
	return Invalid, fmt.Sprintf("%d vertex cell without a face description", len(verts))
}

// CellFaceLoops returns the face loops of a cell as global vertex indices.
func (m *VolumetricMesh) CellFaceLoops(e int) (loops [][]int) {
	checkIndex("element", e, len(m.elements))
	if m.cellFaces[e] != nil {
		return m.cellFaces[e]
	}
	var local [][]int
	switch m.shapes[e] {
	case Simplex:
		local = TetFaces
	case Cube:
		local = HexFaces
	default:
		return nil
	}
	verts := m.elements[e]
	loops = make([][]int, len(local))
	for f, lf := range local {
		loops[f] = make([]int, len(lf))
		for i, lv := range lf {
			loops[f][i] = verts[lv]
		}
	}
	return
}

// TriangulateFaces fans every face loop of every valid cell from its first vertex.
func (m *VolumetricMesh) TriangulateFaces() (pts []r3.Vec, tris [][3]int, ranges []int) {
	pts = append([]r3.Vec{}, m.vertices...)
	ranges = make([]int, m.NumElements()+1)
	for e := range m.elements {
		ranges[e] = len(tris)
		for _, loop := range m.CellFaceLoops(e) {
			for i := 1; i+1 < len(loop); i++ {
				tris = append(tris, [3]int{loop[0], loop[i], loop[i+1]})
			}
		}
	}
	ranges[m.NumElements()] = len(tris)
	return
}
