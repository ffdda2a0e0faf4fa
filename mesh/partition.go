package mesh

import (
	"errors"
	"fmt"
	"sort"

	"github.com/notargets/polyfem/utils"
)

type PartitionMethod uint8

const (
	PartitionContiguous PartitionMethod = iota
	PartitionSpatial
	PartitionMetis
)

var PartitionMethodNames = map[string]PartitionMethod{
	"contiguous": PartitionContiguous,
	"spatial":    PartitionSpatial,
	"metis":      PartitionMetis,
}

func (pm PartitionMethod) String() string {
	for name, m := range PartitionMethodNames {
		if m == pm {
			return name
		}
	}
	return fmt.Sprintf("PartitionMethod(%d)", pm)
}

func NewPartitionMethod(name string) (pm PartitionMethod, err error) {
	var ok bool
	if pm, ok = PartitionMethodNames[name]; !ok {
		err = fmt.Errorf("unknown partition method %q", name)
	}
	return
}

var ErrMetisUnavailable = errors.New("metis partitioning requires building with -tags metis")

/*
PartitionElements splits the elements into at most nparts groups, every element in exactly one group and each
group sorted. Contiguous splits the index range evenly. Spatial orders elements along the longest axis of the
normalized barycenters (ties broken by the other axes) before the even split, so groups are compact slabs.
Metis uses a k-way cut of the element dual graph.
*/
func PartitionElements(m Mesh, nparts int, method PartitionMethod) (groups [][]int, err error) {
	var (
		ne = m.NumElements()
	)
	if nparts < 1 {
		nparts = 1
	}
	if nparts > ne {
		nparts = ne
	}
	switch method {
	case PartitionContiguous:
		groups = utils.NewPartitionMap(nparts, ne).Groups()
	case PartitionSpatial:
		groups = spatialGroups(m, nparts)
	case PartitionMetis:
		if nparts == 1 {
			groups = utils.NewPartitionMap(1, ne).Groups()
			return
		}
		var part []int
		if part, err = metisPartition(m, nparts); err != nil {
			return
		}
		groups = make([][]int, nparts)
		for e, p := range part {
			groups[p] = append(groups[p], e)
		}
		groups = dropEmpty(groups)
	default:
		err = fmt.Errorf("unknown partition method %d", method)
	}
	return
}

func spatialGroups(m Mesh, nparts int) (groups [][]int) {
	var (
		bary  = m.NormalizedBarycenters()
		order = make([]int, len(bary))
		pm    = utils.NewPartitionMap(nparts, len(bary))
	)
	for i := range order {
		order[i] = i
	}
	key := func(e int) [3]float64 { return [3]float64{bary[e].X, bary[e].Y, bary[e].Z} }
	axes := longestAxes(m)
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := key(order[a]), key(order[b])
		for _, ax := range axes {
			if ka[ax] != kb[ax] {
				return ka[ax] < kb[ax]
			}
		}
		return false
	})
	groups = make([][]int, nparts)
	for bn := range groups {
		groups[bn] = make([]int, 0, pm.GetBucketDimension(bn))
	}
	// rank k of the ordering goes to the bucket holding k
	for k, e := range order {
		bn, _, _ := pm.GetBucket(k)
		groups[bn] = append(groups[bn], e)
	}
	for _, g := range groups {
		sort.Ints(g)
	}
	return
}

// longestAxes returns the coordinate axes ordered by decreasing barycenter spread.
func longestAxes(m Mesh) (axes []int) {
	var (
		bary   = m.Barycenters()
		lo, hi [3]float64
	)
	for i, b := range bary {
		x := [3]float64{b.X, b.Y, b.Z}
		for d := 0; d < 3; d++ {
			if i == 0 || x[d] < lo[d] {
				lo[d] = x[d]
			}
			if i == 0 || x[d] > hi[d] {
				hi[d] = x[d]
			}
		}
	}
	axes = []int{0, 1, 2}
	sort.SliceStable(axes, func(a, b int) bool {
		return hi[axes[a]]-lo[axes[a]] > hi[axes[b]]-lo[axes[b]]
	})
	return
}

func dropEmpty(groups [][]int) (out [][]int) {
	for _, g := range groups {
		if len(g) != 0 {
			out = append(out, g)
		}
	}
	return
}

/*
DualGraph returns the element adjacency through shared facets in CSR form (xadj, adjncy), the input format of
graph partitioners. Facet weights are the facet vertex counts.
*/
func DualGraph(m Mesh) (xadj, adjncy, adjwgt []int32) {
	ne := m.NumElements()
	xadj = make([]int32, ne+1)
	for e := 0; e < ne; e++ {
		for _, f := range m.ElementFacets(e) {
			for _, nbr := range m.FacetElements(f) {
				if nbr != e {
					adjncy = append(adjncy, int32(nbr))
					adjwgt = append(adjwgt, int32(len(m.Facet(f))))
				}
			}
		}
		xadj[e+1] = int32(len(adjncy))
	}
	return
}
