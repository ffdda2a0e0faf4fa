//go:build metis

package mesh

import (
	"fmt"

	metis "github.com/notargets/go-metis"
)

// metisPartition minimizes communication volume of the element dual graph, weighting cells by vertex count.
func metisPartition(m Mesh, nparts int) (part []int, err error) {
	var (
		xadj, adjncy, adjwgt = DualGraph(m)
		vwgt                 = make([]int32, m.NumElements())
		opts                 = make([]int32, metis.NoOptions)
	)
	for e := range vwgt {
		vwgt[e] = int32(m.NumElementVertices(e))
	}
	if err = metis.SetDefaultOptions(opts); err != nil {
		return nil, fmt.Errorf("failed to set METIS options: %w", err)
	}
	opts[metis.OptionObjType] = metis.ObjTypeVol
	ubvec := []float32{1.05}
	p32, _, err := metis.PartGraphKwayWeighted(xadj, adjncy, vwgt, adjwgt, int32(nparts), nil, ubvec, opts)
	if err != nil {
		return nil, fmt.Errorf("METIS partitioning failed: %w", err)
	}
	part = make([]int, len(p32))
	for e, p := range p32 {
		part[e] = int(p)
	}
	return
}
