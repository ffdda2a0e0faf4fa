package mesh

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// NewUnitSquareQuads tiles [0,1]^2 with nx by ny counter clockwise quads.
func NewUnitSquareQuads(nx, ny int) *PlanarMesh {
	verts, id := gridVertices2D(nx, ny)
	elems := make([][]int, 0, nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			elems = append(elems, []int{id(i, j), id(i+1, j), id(i+1, j+1), id(i, j+1)})
		}
	}
	return mustPlanar(verts, elems)
}

// NewUnitSquareTriangles splits each cell of an nx by ny grid along its rising diagonal.
func NewUnitSquareTriangles(nx, ny int) *PlanarMesh {
	verts, id := gridVertices2D(nx, ny)
	elems := make([][]int, 0, 2*nx*ny)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			elems = append(elems,
				[]int{id(i, j), id(i+1, j), id(i+1, j+1)},
				[]int{id(i, j), id(i+1, j+1), id(i, j+1)})
		}
	}
	return mustPlanar(verts, elems)
}

func gridVertices2D(nx, ny int) (verts []r3.Vec, id func(i, j int) int) {
	if nx < 1 || ny < 1 {
		panic(fmt.Errorf("grid needs at least one cell per direction, have %dx%d", nx, ny))
	}
	id = func(i, j int) int { return j*(nx+1) + i }
	verts = make([]r3.Vec, (nx+1)*(ny+1))
	for j := 0; j <= ny; j++ {
		for i := 0; i <= nx; i++ {
			verts[id(i, j)] = r3.Vec{X: float64(i) / float64(nx), Y: float64(j) / float64(ny)}
		}
	}
	return
}

func mustPlanar(verts []r3.Vec, elems [][]int) *PlanarMesh {
	m, err := NewPlanarMesh(verts, elems)
	if err != nil {
		panic(err)
	}
	return m
}

// NewUnitCubeHexes tiles [0,1]^3 with positively oriented hexes.
func NewUnitCubeHexes(nx, ny, nz int) *VolumetricMesh {
	verts, id := gridVertices3D(nx, ny, nz)
	cells := make([][]int, 0, nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				cells = append(cells, []int{
					id(i, j, k), id(i+1, j, k), id(i+1, j+1, k), id(i, j+1, k),
					id(i, j, k+1), id(i+1, j, k+1), id(i+1, j+1, k+1), id(i, j+1, k+1),
				})
			}
		}
	}
	return mustVolumetric(verts, cells, nil)
}

/*
NewUnitCubeTets splits every grid cell into the six Kuhn tets sharing its main diagonal. Each tet walks from
corner (0,0,0) to (1,1,1) one axis at a time, so neighboring cells agree on the diagonals of shared faces.
*/
func NewUnitCubeTets(nx, ny, nz int) *VolumetricMesh {
	verts, id := gridVertices3D(nx, ny, nz)
	perms := [][3]int{{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0}}
	cells := make([][]int, 0, 6*nx*ny*nz)
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				for _, p := range perms {
					c := [3]int{i, j, k}
					tet := []int{id(c[0], c[1], c[2])}
					for _, axis := range p {
						c[axis]++
						tet = append(tet, id(c[0], c[1], c[2]))
					}
					if SignedTetVolume(verts[tet[0]], verts[tet[1]], verts[tet[2]], verts[tet[3]]) < 0 {
						tet[2], tet[3] = tet[3], tet[2]
					}
					cells = append(cells, tet)
				}
			}
		}
	}
	return mustVolumetric(verts, cells, nil)
}

func gridVertices3D(nx, ny, nz int) (verts []r3.Vec, id func(i, j, k int) int) {
	if nx < 1 || ny < 1 || nz < 1 {
		panic(fmt.Errorf("grid needs at least one cell per direction, have %dx%dx%d", nx, ny, nz))
	}
	id = func(i, j, k int) int { return (k*(ny+1)+j)*(nx+1) + i }
	verts = make([]r3.Vec, (nx+1)*(ny+1)*(nz+1))
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				verts[id(i, j, k)] = r3.Vec{
					X: float64(i) / float64(nx),
					Y: float64(j) / float64(ny),
					Z: float64(k) / float64(nz),
				}
			}
		}
	}
	return
}

func mustVolumetric(verts []r3.Vec, cells [][]int, faces [][][]int) *VolumetricMesh {
	m, err := NewVolumetricMesh(verts, cells, faces)
	if err != nil {
		panic(err)
	}
	return m
}

func SignedTetVolume(a, b, c, d r3.Vec) float64 {
	return r3.Dot(r3.Sub(b, a), r3.Cross(r3.Sub(c, a), r3.Sub(d, a))) / 6
}
