package vis

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/basis"
	"github.com/notargets/polyfem/field"
	"github.com/notargets/polyfem/geometry2D"
	"github.com/notargets/polyfem/mesh"
)

/*
VisMesh is a triangle surface sampling every element. Faces[ElementRanges[e]:ElementRanges[e+1]] belong to
element e, and LocalPoints[e] holds the same samples in the coordinates the element bases take (reference
coordinates, physical ones for polytopes), so a discrete field interpolated with PointSet lines up with Points.
Planar triangles are counter clockwise; volumetric faces have their normal pointing out of their element.
*/
type VisMesh struct {
	Points        []r3.Vec
	Faces         [][3]int
	ElementRanges []int
	LocalPoints   []*mat.Dense
}

func (vm *VisMesh) PointSet() field.PointSet {
	return func(eb *basis.ElementBases) *mat.Dense { return vm.LocalPoints[eb.Element] }
}

// Interpolate evaluates a discrete field at every vis point.
func (vm *VisMesh) Interpolate(space *basis.Space, fun []float64, dim int) *mat.Dense {
	return field.Interpolate(space, fun, dim, vm.PointSet())
}

// patch is a local sampling: points in basis coordinates and triangles over them.
type patch struct {
	pts  [][]float64
	tris [][3]int
}

func (p *patch) add(q patch) {
	off := len(p.pts)
	p.pts = append(p.pts, q.pts...)
	for _, t := range q.tris {
		p.tris = append(p.tris, [3]int{t[0] + off, t[1] + off, t[2] + off})
	}
}

func lerp(a, b []float64, t float64) (c []float64) {
	c = make([]float64, len(a))
	for d := range a {
		c[d] = a[d] + t*(b[d]-a[d])
	}
	return
}

// subdivideTriangle splits triangle (a, b, c) into n*n similar triangles.
func subdivideTriangle(a, b, c []float64, n int) (p patch) {
	idx := make(map[[2]int]int)
	for j := 0; j <= n; j++ {
		for i := 0; i+j <= n; i++ {
			s, t := float64(i)/float64(n), float64(j)/float64(n)
			x := make([]float64, len(a))
			for d := range x {
				x[d] = a[d] + s*(b[d]-a[d]) + t*(c[d]-a[d])
			}
			idx[[2]int{i, j}] = len(p.pts)
			p.pts = append(p.pts, x)
		}
	}
	for j := 0; j < n; j++ {
		for i := 0; i+j < n; i++ {
			p.tris = append(p.tris, [3]int{idx[[2]int{i, j}], idx[[2]int{i + 1, j}], idx[[2]int{i, j + 1}]})
			if i+j < n-1 {
				p.tris = append(p.tris, [3]int{idx[[2]int{i + 1, j}], idx[[2]int{i + 1, j + 1}], idx[[2]int{i, j + 1}]})
			}
		}
	}
	return
}

// gridQuad samples the bilinear patch with corners c00, c10, c11, c01 on an (n+1)^2 grid.
func gridQuad(c00, c10, c11, c01 []float64, n int) (p patch) {
	for j := 0; j <= n; j++ {
		t := float64(j) / float64(n)
		lo, hi := lerp(c00, c01, t), lerp(c10, c11, t)
		for i := 0; i <= n; i++ {
			p.pts = append(p.pts, lerp(lo, hi, float64(i)/float64(n)))
		}
	}
	id := func(i, j int) int { return j*(n+1) + i }
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			p.tris = append(p.tris, [3]int{id(i, j), id(i+1, j), id(i+1, j+1)}, [3]int{id(i, j), id(i+1, j+1), id(i, j+1)})
		}
	}
	return
}

var (
	unitSquare = [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	unitCube   = [][]float64{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}, {0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}}
	cubeFaces  = [][4]int{{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4}, {1, 2, 6, 5}, {2, 3, 7, 6}, {3, 0, 4, 7}}
	unitTet    = [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	tetFaces   = [][3]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}}
)

func localPatch(space *basis.Space, eb *basis.ElementBases, n int) (p patch, err error) {
	switch eb.Shape {
	case basis.QuadShape:
		p = gridQuad(unitSquare[0], unitSquare[1], unitSquare[2], unitSquare[3], n)
	case basis.TriangleShape:
		p = subdivideTriangle([]float64{0, 0}, []float64{1, 0}, []float64{0, 1}, n)
	case basis.HexShape:
		for _, f := range cubeFaces {
			p.add(gridQuad(unitCube[f[0]], unitCube[f[1]], unitCube[f[2]], unitCube[f[3]], n))
		}
	case basis.TetShape:
		for _, f := range tetFaces {
			p.add(subdivideTriangle(unitTet[f[0]], unitTet[f[1]], unitTet[f[2]], n))
		}
	case basis.PolygonShape:
		var (
			poly   = space.Mesh.(*mesh.PlanarMesh).ElementPolygon(eb.Element)
			ccw, _ = geometry2D.Orient(poly)
			tris   [][3]int
		)
		if tris, err = geometry2D.EarClip(ccw); err != nil {
			return
		}
		v := func(q r2.Vec) []float64 { return []float64{q.X, q.Y} }
		for _, t := range tris {
			p.add(subdivideTriangle(v(ccw[t[0]]), v(ccw[t[1]]), v(ccw[t[2]]), n))
		}
	case basis.PolyhedronShape:
		vm := space.Mesh.(*mesh.VolumetricMesh)
		v := func(q r3.Vec) []float64 { return []float64{q.X, q.Y, q.Z} }
		for _, loop := range vm.CellFaceLoops(eb.Element) {
			var c r3.Vec
			for _, i := range loop {
				c = r3.Add(c, vm.Point(i))
			}
			c = r3.Scale(1/float64(len(loop)), c)
			for i := range loop {
				a, b := vm.Point(loop[i]), vm.Point(loop[(i+1)%len(loop)])
				p.add(subdivideTriangle(v(c), v(a), v(b), n))
			}
		}
	default:
		err = fmt.Errorf("no vis sampling for shape %s", eb.Shape)
	}
	return
}

/*
BuildVisMesh samples every element with resolution subdivisions per edge and maps the samples to physical
space through the geometric map of each element.
*/
func BuildVisMesh(space *basis.Space, resolution int) (vm *VisMesh, err error) {
	if resolution < 1 {
		resolution = 1
	}
	var (
		dim  = space.Dim()
		bary = space.Mesh.Barycenters()
	)
	vm = &VisMesh{
		ElementRanges: []int{0},
		LocalPoints:   make([]*mat.Dense, len(space.Bases)),
	}
	for e := range space.Bases {
		eb := &space.Bases[e]
		var p patch
		if p, err = localPatch(space, eb, resolution); err != nil {
			return nil, fmt.Errorf("element %d: %w", e, err)
		}
		local := mat.NewDense(len(p.pts), dim, nil)
		for i, x := range p.pts {
			local.SetRow(i, x)
		}
		vm.LocalPoints[e] = local
		phys := eb.EvalGeomMapping(local)
		off := len(vm.Points)
		for i := range p.pts {
			row := phys.RawRowView(i)
			q := r3.Vec{X: row[0], Y: row[1]}
			if dim == 3 {
				q.Z = row[2]
			}
			vm.Points = append(vm.Points, q)
		}
		for _, t := range p.tris {
			f := [3]int{t[0] + off, t[1] + off, t[2] + off}
			if !outward(vm.Points[f[0]], vm.Points[f[1]], vm.Points[f[2]], bary[e], dim) {
				f[1], f[2] = f[2], f[1]
			}
			vm.Faces = append(vm.Faces, f)
		}
		vm.ElementRanges = append(vm.ElementRanges, len(vm.Faces))
	}
	return
}

// outward reports whether triangle (a, b, c) is counter clockwise in 2D, or faces away from center in 3D.
func outward(a, b, c, center r3.Vec, dim int) bool {
	n := r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
	if dim == 2 {
		return n.Z >= 0
	}
	g := r3.Scale(1./3, r3.Add(a, r3.Add(b, c)))
	return r3.Dot(n, r3.Sub(g, center)) >= 0
}

/*
SliceElements keeps the elements whose normalized barycenter lies below pos along axis coord, and returns their
vis faces in element order.
*/
func SliceElements(normBary []r3.Vec, coord int, pos float64, vm *VisMesh) (valid []bool, faces [][3]int) {
	valid = make([]bool, len(normBary))
	for e, b := range normBary {
		c := b.X
		switch coord {
		case 1:
			c = b.Y
		case 2:
			c = b.Z
		}
		if valid[e] = c < pos; valid[e] {
			faces = append(faces, vm.Faces[vm.ElementRanges[e]:vm.ElementRanges[e+1]]...)
		}
	}
	return
}
