package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/notargets/polyfem/InputParameters"
	"github.com/notargets/polyfem/mesh"
)

/*
MeshFromParams loads MeshFile when given, otherwise generates the unit square or cube Grid. Files ending in .su2
are read as SU2 and return their boundary markers; anything else is read as OBJ.
*/
func MeshFromParams(ip *InputParameters.FEMParameters) (m mesh.Mesh, markers mesh.Markers, err error) {
	if len(ip.MeshFile) != 0 {
		if strings.EqualFold(filepath.Ext(ip.MeshFile), ".su2") {
			return mesh.LoadSU2(ip.MeshFile)
		}
		var pm *mesh.PlanarMesh
		if pm, err = mesh.LoadOBJ(ip.MeshFile); err != nil {
			return
		}
		return pm, nil, nil
	}
	n := func(d int) int {
		switch {
		case d < len(ip.GridSize) && ip.GridSize[d] > 0:
			return ip.GridSize[d]
		case len(ip.GridSize) > 0 && ip.GridSize[0] > 0:
			return ip.GridSize[0]
		}
		return 4
	}
	switch strings.ToLower(strings.TrimSpace(ip.Grid)) {
	case "quads", "":
		m = mesh.NewUnitSquareQuads(n(0), n(1))
	case "triangles":
		m = mesh.NewUnitSquareTriangles(n(0), n(1))
	case "hexes":
		m = mesh.NewUnitCubeHexes(n(0), n(1), n(2))
	case "tets":
		m = mesh.NewUnitCubeTets(n(0), n(1), n(2))
	default:
		err = fmt.Errorf("unknown grid %q, expected quads, triangles, hexes or tets", ip.Grid)
	}
	return
}
