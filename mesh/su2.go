package mesh

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// From here: https://su2code.github.io/docs_v7/Mesh-File/
type SU2ElementType uint8

const (
	ELType_LINE          SU2ElementType = 3
	ELType_Triangle      SU2ElementType = 5
	ELType_Quadrilateral SU2ElementType = 9
	ELType_Tetrahedral   SU2ElementType = 10
	ELType_Hexahedral    SU2ElementType = 12
	ELType_Prism         SU2ElementType = 13
	ELType_Pyramid       SU2ElementType = 14
)

var su2VertexCount = map[SU2ElementType]int{
	ELType_LINE:          2,
	ELType_Triangle:      3,
	ELType_Quadrilateral: 4,
	ELType_Tetrahedral:   4,
	ELType_Hexahedral:    8,
	ELType_Prism:         6,
	ELType_Pyramid:       5,
}

// Local face loops of the cells that become polyhedra, in VTK vertex order.
var (
	prismFaces   = [][]int{{0, 1, 2}, {3, 5, 4}, {0, 3, 4, 1}, {1, 4, 5, 2}, {2, 5, 3, 0}}
	pyramidFaces = [][]int{{0, 3, 2, 1}, {0, 1, 4}, {1, 2, 4}, {2, 3, 4}, {3, 0, 4}}
)

// Marker is a named group of boundary facets, each given by its corner points.
type Marker struct {
	Name   string
	Facets [][]r3.Vec
}

type Markers []Marker

/*
Find returns the name of the first marker with a facet containing c. Containment is geometric, so facets of a
refined mesh still find the marker of the facet they were split from.
*/
func (mk Markers) Find(c r3.Vec) (name string, ok bool) {
	for _, m := range mk {
		for _, f := range m.Facets {
			if facetContains(f, c) {
				return m.Name, true
			}
		}
	}
	return
}

func facetContains(f []r3.Vec, c r3.Vec) bool {
	const tol = 1e-8
	if len(f) == 2 {
		d := r3.Sub(f[1], f[0])
		l2 := r3.Dot(d, d)
		if l2 == 0 {
			return false
		}
		t := r3.Dot(r3.Sub(c, f[0]), d) / l2
		if t < -tol || t > 1+tol {
			return false
		}
		return r3.Norm(r3.Sub(c, r3.Add(f[0], r3.Scale(t, d)))) <= tol*math.Sqrt(l2)
	}
	// Newell normal; the facet is planar and convex
	var n r3.Vec
	for i := range f {
		n = r3.Add(n, r3.Cross(f[i], f[(i+1)%len(f)]))
	}
	area := r3.Norm(n)
	if area == 0 {
		return false
	}
	n = r3.Scale(1/area, n)
	h := math.Sqrt(area)
	if math.Abs(r3.Dot(r3.Sub(c, f[0]), n)) > tol*h {
		return false
	}
	for i := range f {
		edge := r3.Sub(f[(i+1)%len(f)], f[i])
		if r3.Dot(r3.Cross(edge, r3.Sub(c, f[i])), n) < -tol*h*h {
			return false
		}
	}
	return true
}

type su2Reader struct {
	scanner *bufio.Scanner
	line    int
}

// getLine returns the next line that is neither blank nor a % comment.
func (r *su2Reader) getLine() (line string, err error) {
	for r.scanner.Scan() {
		r.line++
		line = strings.TrimSpace(r.scanner.Text())
		if len(line) != 0 && !strings.HasPrefix(line, "%") {
			return
		}
	}
	if err = r.scanner.Err(); err == nil {
		err = io.EOF
	}
	return
}

func (r *su2Reader) errorf(format string, args ...interface{}) error {
	return &MeshLoadError{Line: r.line, Reason: fmt.Sprintf(format, args...)}
}

// getToken reads a "KEY= value" line and returns value.
func (r *su2Reader) getToken(key string) (token string, err error) {
	var line string
	if line, err = r.getLine(); err != nil {
		if err == io.EOF {
			err = r.errorf("early end of file, expected %s", key)
		}
		return
	}
	return r.parseToken(line, key)
}

func (r *su2Reader) parseToken(line, key string) (token string, err error) {
	ind := strings.Index(line, "=")
	if ind < 0 || strings.TrimSpace(line[:ind]) != key {
		return "", r.errorf("badly formed input line [%s], expected %s=", line, key)
	}
	return strings.TrimSpace(line[ind+1:]), nil
}

func (r *su2Reader) readNumber(key string) (num int, err error) {
	var token string
	if token, err = r.getToken(key); err != nil {
		return
	}
	if num, err = strconv.Atoi(strings.Fields(token + " x")[0]); err != nil || num < 0 {
		return 0, r.errorf("unable to read number from token: [%s]", token)
	}
	return
}

// readConnectivity reads n element lines: a type code followed by its vertex indices.
func (r *su2Reader) readConnectivity(n, nv int) (types []SU2ElementType, conn [][]int, err error) {
	for k := 0; k < n; k++ {
		var line string
		if line, err = r.getLine(); err != nil {
			return nil, nil, r.errorf("early end of file in element %d of %d", k, n)
		}
		fields := strings.Fields(line)
		code, cerr := strconv.Atoi(fields[0])
		cnt, ok := su2VertexCount[SU2ElementType(code)]
		if cerr != nil || !ok {
			return nil, nil, r.errorf("unknown element type %q", fields[0])
		}
		if len(fields) < cnt+1 {
			return nil, nil, r.errorf("element type %d needs %d vertices", code, cnt)
		}
		verts := make([]int, cnt)
		for i := range verts {
			if verts[i], cerr = strconv.Atoi(fields[i+1]); cerr != nil || verts[i] < 0 || (nv > 0 && verts[i] >= nv) {
				return nil, nil, r.errorf("bad vertex index %q", fields[i+1])
			}
		}
		types = append(types, SU2ElementType(code))
		conn = append(conn, verts)
	}
	return
}

/*
ReadSU2 reads a native SU2 mesh. Two dimensional files give a PlanarMesh of triangles and quads; three
dimensional files give a VolumetricMesh where tets and hexes keep their shape and prisms and pyramids become
polyhedra. The markers come back as named boundary facets.
*/
func ReadSU2(rd io.Reader) (m Mesh, markers Markers, err error) {
	var (
		r     = &su2Reader{scanner: bufio.NewScanner(rd)}
		ndim  int
		ne    int
		types []SU2ElementType
		elems [][]int
		verts []r3.Vec
	)
	if ndim, err = r.readNumber("NDIME"); err != nil {
		return
	}
	if ndim != 2 && ndim != 3 {
		return nil, nil, r.errorf("NDIME= %d, expected 2 or 3", ndim)
	}
	if ne, err = r.readNumber("NELEM"); err != nil {
		return
	}
	if types, elems, err = r.readConnectivity(ne, 0); err != nil {
		return
	}
	np, err := r.readNumber("NPOIN")
	if err != nil {
		return
	}
	for i := 0; i < np; i++ {
		var line string
		if line, err = r.getLine(); err != nil {
			return nil, nil, r.errorf("early end of file in point %d of %d", i, np)
		}
		fields := strings.Fields(line)
		if len(fields) < ndim {
			return nil, nil, r.errorf("point needs %d coordinates", ndim)
		}
		var x [3]float64
		for d := 0; d < ndim; d++ {
			if x[d], err = strconv.ParseFloat(fields[d], 64); err != nil {
				return nil, nil, r.errorf("bad coordinate %q", fields[d])
			}
		}
		verts = append(verts, r3.Vec{X: x[0], Y: x[1], Z: x[2]})
	}
	for _, ev := range elems {
		for _, v := range ev {
			if v >= np {
				return nil, nil, r.errorf("element vertex %d refers to an undefined point", v)
			}
		}
	}
	if markers, err = r.readMarkers(ndim, verts); err != nil {
		return
	}
	if ndim == 2 {
		for k, t := range types {
			if t != ELType_Triangle && t != ELType_Quadrilateral {
				return nil, nil, &MeshLoadError{Reason: fmt.Sprintf("element %d: type %d in a 2D mesh", k, t)}
			}
		}
		var pm *PlanarMesh
		if pm, err = NewPlanarMesh(verts, elems); err != nil {
			return nil, nil, err
		}
		return pm, markers, nil
	}
	var cellFaces [][][]int
	for k, t := range types {
		var local [][]int
		switch t {
		case ELType_Tetrahedral:
			ev := elems[k]
			if SignedTetVolume(verts[ev[0]], verts[ev[1]], verts[ev[2]], verts[ev[3]]) < 0 {
				ev[2], ev[3] = ev[3], ev[2]
			}
		case ELType_Hexahedral:
		case ELType_Prism:
			local = prismFaces
		case ELType_Pyramid:
			local = pyramidFaces
		default:
			return nil, nil, &MeshLoadError{Reason: fmt.Sprintf("element %d: type %d in a 3D mesh", k, t)}
		}
		if local == nil {
			continue
		}
		if cellFaces == nil {
			cellFaces = make([][][]int, len(elems))
		}
		for _, lf := range local {
			loop := make([]int, len(lf))
			for i, lv := range lf {
				loop[i] = elems[k][lv]
			}
			cellFaces[k] = append(cellFaces[k], loop)
		}
	}
	vm, err := NewVolumetricMesh(verts, elems, cellFaces)
	if err != nil {
		return nil, nil, err
	}
	return vm, markers, nil
}

// readMarkers reads the optional NMARK section.
func (r *su2Reader) readMarkers(ndim int, verts []r3.Vec) (markers Markers, err error) {
	var line, token string
	if line, err = r.getLine(); err == io.EOF {
		return nil, nil
	} else if err != nil {
		return
	}
	if token, err = r.parseToken(line, "NMARK"); err != nil {
		return
	}
	nm, err := strconv.Atoi(token)
	if err != nil {
		return nil, r.errorf("unable to read number from token: [%s]", token)
	}
	for n := 0; n < nm; n++ {
		var (
			mk    Marker
			ne    int
			types []SU2ElementType
			conn  [][]int
		)
		if mk.Name, err = r.getToken("MARKER_TAG"); err != nil {
			return
		}
		if ne, err = r.readNumber("MARKER_ELEMS"); err != nil {
			return
		}
		if types, conn, err = r.readConnectivity(ne, len(verts)); err != nil {
			return
		}
		for i, t := range types {
			if (ndim == 2) != (t == ELType_LINE) || (ndim == 3 && t != ELType_Triangle && t != ELType_Quadrilateral) {
				return nil, r.errorf("marker %s: element type %d is not a boundary facet of a %dD mesh", mk.Name, t, ndim)
			}
			pts := make([]r3.Vec, len(conn[i]))
			for j, v := range conn[i] {
				pts[j] = verts[v]
			}
			mk.Facets = append(mk.Facets, pts)
		}
		markers = append(markers, mk)
	}
	return
}

func LoadSU2(path string) (m Mesh, markers Markers, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(path); err != nil {
		return nil, nil, &MeshLoadError{Path: path, Reason: err.Error()}
	}
	defer file.Close()
	if m, markers, err = ReadSU2(file); err != nil {
		if le, ok := err.(*MeshLoadError); ok {
			le.Path = path
		}
		return nil, nil, err
	}
	return
}
