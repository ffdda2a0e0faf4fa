package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

/*
Refine applies n uniform subdivisions and returns a new mesh; the receiver is not modified.
Planar: triangles split into 4 through their edge midpoints, quads and polygons split into one quad per vertex
joining edge midpoints to the vertex average. Volumetric: hexes split into 8. Boundary tags assigned with
SetBoundaryTags are reapplied to the refined mesh.
*/
func (m *PlanarMesh) Refine(n int) (out Mesh, err error) {
	cur := m
	for i := 0; i < n; i++ {
		if cur, err = cur.refineOnce(); err != nil {
			return
		}
	}
	out = cur
	return
}

func (m *PlanarMesh) refineOnce() (r *PlanarMesh, err error) {
	var (
		nv    = m.NumVertices()
		verts = append([]r3.Vec{}, m.vertices...)
		elems [][]int
	)
	for _, e := range m.edges {
		verts = append(verts, r3.Scale(0.5, r3.Add(m.vertices[e[0]], m.vertices[e[1]])))
	}
	mid := func(a, b int) int {
		id, _ := m.EdgeID(a, b)
		return nv + id
	}
	for e, ev := range m.elements {
		switch m.shapes[e] {
		case Invalid:
			err = fmt.Errorf("refine: %w", &ClassificationError{Element: e, Reason: m.reasons[e]})
			return
		case Simplex:
			a, b, c := ev[0], ev[1], ev[2]
			mab, mbc, mca := mid(a, b), mid(b, c), mid(c, a)
			elems = append(elems,
				[]int{a, mab, mca},
				[]int{mab, b, mbc},
				[]int{mca, mbc, c},
				[]int{mab, mbc, mca})
		default:
			center := len(verts)
			var c r3.Vec
			for _, v := range ev {
				c = r3.Add(c, m.vertices[v])
			}
			verts = append(verts, r3.Scale(1/float64(len(ev)), c))
			k := len(ev)
			for i, v := range ev {
				next, prev := ev[(i+1)%k], ev[(i+k-1)%k]
				elems = append(elems, []int{v, mid(v, next), center, mid(prev, v)})
			}
		}
	}
	if r, err = NewPlanarMesh(verts, elems); err != nil {
		return
	}
	if m.tagFn != nil {
		r.SetBoundaryTags(m.tagFn)
	}
	return
}

func (m *VolumetricMesh) Refine(n int) (out Mesh, err error) {
	cur := m
	for i := 0; i < n; i++ {
		if cur, err = cur.refineOnce(); err != nil {
			return
		}
	}
	out = cur
	return
}

func (m *VolumetricMesh) refineOnce() (r *VolumetricMesh, err error) {
	var (
		verts     = append([]r3.Vec{}, m.vertices...)
		cells     [][]int
		edgeMid   = make(map[int]int)
		faceMid   = make(map[int]int)
		addCenter = func(ids []int) int {
			var c r3.Vec
			for _, v := range ids {
				c = r3.Add(c, m.vertices[v])
			}
			verts = append(verts, r3.Scale(1/float64(len(ids)), c))
			return len(verts) - 1
		}
	)
	for e, ev := range m.elements {
		if m.shapes[e] != Cube {
			err = fmt.Errorf("refine: element %d is a %s, only hexes can be refined", e, m.shapes[e])
			return
		}
		cellMid := addCenter(ev)
		lattice := func(p []int) int {
			corners := LatticeCorners(3, p)
			g := make([]int, len(corners))
			for i, lv := range corners {
				g[i] = ev[lv]
			}
			switch len(g) {
			case 1:
				return g[0]
			case 2:
				id, _ := m.EdgeID(g[0], g[1])
				if _, ok := edgeMid[id]; !ok {
					edgeMid[id] = addCenter(g)
				}
				return edgeMid[id]
			case 4:
				f, _ := m.FacetID(g)
				if _, ok := faceMid[f]; !ok {
					faceMid[f] = addCenter(g)
				}
				return faceMid[f]
			}
			return cellMid
		}
		for child := 0; child < 8; child++ {
			cc := CubeCornerBits(3, child)
			cell := make([]int, 8)
			for lv := 0; lv < 8; lv++ {
				d := CubeCornerBits(3, lv)
				cell[lv] = lattice([]int{cc[0] + d[0], cc[1] + d[1], cc[2] + d[2]})
			}
			cells = append(cells, cell)
		}
	}
	if r, err = NewVolumetricMesh(verts, cells, nil); err != nil {
		return
	}
	if m.tagFn != nil {
		r.SetBoundaryTags(m.tagFn)
	}
	return
}

// CubeCornerBits returns the reference coordinates (0 or 1 per axis) of local cube vertex lv.
func CubeCornerBits(dim, lv int) (bits []int) {
	loop := [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	bits = []int{loop[lv%4][0], loop[lv%4][1]}
	if dim == 3 {
		bits = append(bits, lv/4)
	}
	return
}

// CubeCornerIndex is the inverse of CubeCornerBits.
func CubeCornerIndex(bits []int) (lv int) {
	switch {
	case bits[0] == 0 && bits[1] == 0:
		lv = 0
	case bits[0] == 1 && bits[1] == 0:
		lv = 1
	case bits[0] == 1 && bits[1] == 1:
		lv = 2
	default:
		lv = 3
	}
	if len(bits) == 3 {
		lv += 4 * bits[2]
	}
	return
}

/*
LatticeCorners maps a point of the half unit lattice of the reference cube, coordinates in {0,1,2}, to the
local cube vertices spanning the smallest cube entity containing it: one vertex, the two ends of an edge, the
four corners of a face, or all corners for the cell center.
*/
func LatticeCorners(dim int, p []int) (corners []int) {
	choices := make([][]int, dim)
	for d := 0; d < dim; d++ {
		switch p[d] {
		case 0:
			choices[d] = []int{0}
		case 2:
			choices[d] = []int{1}
		default:
			choices[d] = []int{0, 1}
		}
	}
	bits := make([]int, dim)
	var rec func(d int)
	rec = func(d int) {
		if d == dim {
			corners = append(corners, CubeCornerIndex(bits))
			return
		}
		for _, b := range choices[d] {
			bits[d] = b
			rec(d + 1)
		}
	}
	rec(0)
	return
}
