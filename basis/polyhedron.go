package basis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/mesh"
)

// starTet is one tet of a star partition; coef[c][k] is the value of local function k at corner c.
type starTet struct {
	p0   r3.Vec
	inv  [3]r3.Vec // rows map x - p0 to barycentric coordinates 1..3
	coef [4][]float64
}

func (t *starTet) lambda(x r3.Vec) (l [4]float64) {
	y := r3.Sub(x, t.p0)
	l[1], l[2], l[3] = r3.Dot(t.inv[0], y), r3.Dot(t.inv[1], y), r3.Dot(t.inv[2], y)
	l[0] = 1 - l[1] - l[2] - l[3]
	return
}

/*
starCell partitions a polyhedron into tets joining its center to every face, each face first fanned from its
own center. Center and face centers are vertex averages, so the piecewise linear hat functions reproduce
linear fields.
*/
type starCell struct {
	tets []starTet
}

// locate returns the tet containing x, or the one it is closest to entering.
func (sc *starCell) locate(x r3.Vec) (t *starTet, l [4]float64) {
	best := math.Inf(-1)
	for i := range sc.tets {
		li := sc.tets[i].lambda(x)
		m := math.Min(math.Min(li[0], li[1]), math.Min(li[2], li[3]))
		if m > best {
			best, t, l = m, &sc.tets[i], li
		}
	}
	return
}

type starFunction struct {
	sc *starCell
	k  int
}

func (f starFunction) Value(x []float64) (v float64) {
	t, l := f.sc.locate(r3.Vec{X: x[0], Y: x[1], Z: x[2]})
	for c := 0; c < 4; c++ {
		v += l[c] * t.coef[c][f.k]
	}
	return
}

func (f starFunction) Gradient(x, g []float64) {
	t, _ := f.sc.locate(r3.Vec{X: x[0], Y: x[1], Z: x[2]})
	var grad r3.Vec
	for c := 1; c < 4; c++ {
		grad = r3.Add(grad, r3.Scale(t.coef[c][f.k]-t.coef[0][f.k], t.inv[c-1]))
	}
	g[0], g[1], g[2] = grad.X, grad.Y, grad.Z
}

func average(pts []r3.Vec) (c r3.Vec) {
	for _, p := range pts {
		c = r3.Add(c, p)
	}
	return r3.Scale(1/float64(len(pts)), c)
}

// polyhedronElement builds the order 1 star basis of a polyhedron, one function per cell vertex.
func (b *builder) polyhedronElement(e int, eb *ElementBases) (err error) {
	if b.opts.Order != 1 {
		return fmt.Errorf("%w: polyhedra support order 1 only, have %d", ErrUnsupportedDiscretization, b.opts.Order)
	}
	var (
		vm     = b.m.(*mesh.VolumetricMesh)
		verts  = vm.ElementVertices(e)
		pts    = vm.ElementPoints(e)
		nv     = len(verts)
		local  = make(map[int]int, nv)
		center = average(pts)
		sc     = &starCell{}
		cellC  = make([]float64, nv)
		h      float64
		sign   float64
	)
	for i, v := range verts {
		local[v] = i
		cellC[i] = 1 / float64(nv)
		for _, q := range pts {
			h = math.Max(h, r3.Norm(r3.Sub(pts[i], q)))
		}
	}
	unit := func(i int) (c []float64) {
		c = make([]float64, nv)
		c[i] = 1
		return
	}
	addTet := func(corners [4]r3.Vec, coef [4][]float64) error {
		var (
			c1  = r3.Sub(corners[1], corners[0])
			c2  = r3.Sub(corners[2], corners[0])
			c3  = r3.Sub(corners[3], corners[0])
			det = r3.Dot(c1, r3.Cross(c2, c3))
		)
		if math.Abs(det) <= 1e-12*h*h*h {
			return fmt.Errorf("%w: zero volume tet in the star of the cell center", ErrDegenerateElement)
		}
		if sign == 0 {
			sign = math.Copysign(1, det)
		} else if sign*det < 0 {
			return fmt.Errorf("%w: cell is not star shaped from its center or its faces are inconsistently oriented",
				ErrDegenerateElement)
		}
		t := starTet{
			p0:   corners[0],
			inv:  [3]r3.Vec{r3.Scale(1/det, r3.Cross(c2, c3)), r3.Scale(1/det, r3.Cross(c3, c1)), r3.Scale(1/det, r3.Cross(c1, c2))},
			coef: coef,
		}
		sc.tets = append(sc.tets, t)
		eb.cells = append(eb.cells, subCell{pts: corners[:], measure: math.Abs(det) / 6})
		return nil
	}
	for _, loop := range vm.CellFaceLoops(e) {
		m := len(loop)
		if m == 3 {
			if err = addTet([4]r3.Vec{center, vm.Point(loop[0]), vm.Point(loop[1]), vm.Point(loop[2])},
				[4][]float64{cellC, unit(local[loop[0]]), unit(local[loop[1]]), unit(local[loop[2]])}); err != nil {
				return
			}
			continue
		}
		var (
			facePts = make([]r3.Vec, m)
			faceC   = make([]float64, nv)
		)
		for i, v := range loop {
			facePts[i] = vm.Point(v)
			faceC[local[v]] = 1 / float64(m)
		}
		fc := average(facePts)
		for i := 0; i < m; i++ {
			a, c := loop[i], loop[(i+1)%m]
			if err = addTet([4]r3.Vec{center, fc, vm.Point(a), vm.Point(c)},
				[4][]float64{cellC, faceC, unit(local[a]), unit(local[c])}); err != nil {
				return
			}
		}
	}
	eb.Bases = make([]Basis, nv)
	for i, v := range verts {
		eb.Bases[i] = Basis{ShapeFunction: starFunction{sc: sc, k: i}, Global: []Local2Global{b.vertexLink(v, 1)}}
	}
	return
}
