//go:build !metis

package mesh

func metisPartition(m Mesh, nparts int) ([]int, error) {
	return nil, ErrMetisUnavailable
}
