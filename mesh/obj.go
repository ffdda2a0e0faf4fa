package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

/*
ReadOBJ reads a planar polygon mesh in Wavefront OBJ form. Only "v x y [z]" and "f i j k ..." records are used;
face tokens may carry texture and normal references (i/t/n) and negative indices count back from the last
vertex read. Other records and comments are skipped. All z coordinates must be zero.
*/
func ReadOBJ(r io.Reader) (m *PlanarMesh, err error) {
	var (
		scanner = bufio.NewScanner(r)
		verts   []r3.Vec
		elems   [][]int
		lineNum int
	)
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		switch fields[0] {
		case "v":
			if len(fields) < 3 {
				return nil, &MeshLoadError{Line: lineNum, Reason: "vertex needs at least two coordinates"}
			}
			var x [3]float64
			for i, tok := range fields[1:] {
				if i == 3 {
					break // optional w
				}
				if x[i], err = strconv.ParseFloat(tok, 64); err != nil {
					return nil, &MeshLoadError{Line: lineNum, Reason: fmt.Sprintf("bad coordinate %q", tok)}
				}
			}
			if x[2] != 0 {
				return nil, &MeshLoadError{Line: lineNum, Reason: fmt.Sprintf("z = %g, only planar meshes are supported", x[2])}
			}
			verts = append(verts, r3.Vec{X: x[0], Y: x[1]})
		case "f":
			if len(fields) < 4 {
				return nil, &MeshLoadError{Line: lineNum, Reason: "face needs at least three vertices"}
			}
			face := make([]int, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				idx, perr := strconv.Atoi(strings.SplitN(tok, "/", 2)[0])
				switch {
				case perr != nil || idx == 0:
					return nil, &MeshLoadError{Line: lineNum, Reason: fmt.Sprintf("bad face index %q", tok)}
				case idx < 0:
					idx += len(verts)
				default:
					idx--
				}
				if idx < 0 || idx >= len(verts) {
					return nil, &MeshLoadError{Line: lineNum, Reason: fmt.Sprintf("face index %q refers to an undefined vertex", tok)}
				}
				face = append(face, idx)
			}
			elems = append(elems, face)
		}
	}
	if err = scanner.Err(); err != nil {
		return nil, &MeshLoadError{Line: lineNum, Reason: err.Error()}
	}
	return NewPlanarMesh(verts, elems)
}

func LoadOBJ(path string) (m *PlanarMesh, err error) {
	var (
		file *os.File
	)
	if file, err = os.Open(path); err != nil {
		return nil, &MeshLoadError{Path: path, Reason: err.Error()}
	}
	defer file.Close()
	if m, err = ReadOBJ(file); err != nil {
		if le, ok := err.(*MeshLoadError); ok {
			le.Path = path
		}
		return nil, err
	}
	return
}
