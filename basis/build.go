package basis

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/notargets/polyfem/mesh"
	"github.com/notargets/polyfem/types"
	"github.com/notargets/polyfem/utils"
)

type Options struct {
	Order           int    // polynomial order, 1 or 2
	Discretization  string // "lagrange"; "spline" is recognized and rejected
	BoundarySamples int    // interior samples per polygon edge
	ParallelDegree  int
	Partition       mesh.PartitionMethod
	Logger          logr.Logger
}

type builder struct {
	m      mesh.Mesh
	opts   Options
	index  map[types.EntityKey]int
	nodes  []r3.Vec
	entity []types.EntityKey
}

/*
Build constructs the bases of every element and their shared global numbering.

Numbering runs first and sequentially: each node is keyed by the mesh entity it sits on and the first element
reaching an entity assigns the next index, so equal entities get equal indices on every element. Per element
construction then runs on ParallelDegree workers over a partition of the elements, reading the numbering only.
Every failing element is reported; an Undefined tag fails with an error wrapping mesh.ErrClassification.
*/
func Build(m mesh.Mesh, tags []mesh.ElementType, opts Options) (space *Space, err error) {
	var (
		start = time.Now()
		ne    = m.NumElements()
		log   = opts.Logger
	)
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	switch {
	case opts.Discretization != "" && opts.Discretization != "lagrange":
		return nil, fmt.Errorf("%w: basis type %q", ErrUnsupportedDiscretization, opts.Discretization)
	case opts.Order < 1 || opts.Order > 2:
		return nil, fmt.Errorf("%w: order %d, supported orders are 1 and 2", ErrUnsupportedDiscretization, opts.Order)
	case len(tags) != ne:
		return nil, fmt.Errorf("%d element tags for %d elements", len(tags), ne)
	}
	b := &builder{
		m:     m,
		opts:  opts,
		index: make(map[types.EntityKey]int),
	}
	for e := 0; e < ne; e++ {
		if tags[e] == mesh.Undefined {
			continue
		}
		for _, n := range b.elementNodes(e) {
			b.register(n.key, n.pos)
		}
	}
	space = &Space{
		Mesh:     m,
		Tags:     tags,
		Bases:    make([]ElementBases, ne),
		NumBases: len(b.nodes),
		Nodes:    b.nodes,
		Entities: b.entity,
		Order:    opts.Order,
	}
	space.BoundaryNodes, space.DirichletNodes = b.boundaryNodes()
	groups, err := mesh.PartitionElements(m, opts.ParallelDegree, opts.Partition)
	if err != nil {
		return nil, err
	}
	err = utils.RunGroups(groups, func(worker int, elems []int) (werr error) {
		for _, e := range elems {
			werr = multierr.Append(werr, b.element(e, tags[e], &space.Bases[e]))
		}
		return
	})
	if err != nil {
		return nil, err
	}
	log.V(1).Info("built bases", "elements", ne, "dofs", space.NumBases, "order", opts.Order,
		"workers", len(groups), "elapsed", time.Since(start))
	return
}

type node struct {
	key types.EntityKey
	pos r3.Vec
}

func (b *builder) register(key types.EntityKey, pos r3.Vec) int {
	if i, ok := b.index[key]; ok {
		return i
	}
	i := len(b.nodes)
	b.index[key] = i
	b.nodes = append(b.nodes, pos)
	b.entity = append(b.entity, key)
	return i
}

// elementNodes lists the DOF nodes of an element in local order.
func (b *builder) elementNodes(e int) (nodes []node) {
	var (
		verts = b.m.ElementVertices(e)
		dim   = b.m.Dimension()
		order = b.opts.Order
	)
	vertexNode := func(v int) node { return node{types.NewVertexEntity(v), b.m.Point(v)} }
	edgeNode := func(v0, v1 int) node {
		return node{types.NewEdgeEntity(v0, v1), r3.Scale(0.5, r3.Add(b.m.Point(v0), b.m.Point(v1)))}
	}
	switch b.m.ElementShape(e) {
	case mesh.Cube:
		for _, p := range tensorNodes(dim, order) {
			corners := latticeCorners(dim, order, p)
			g := make([]int, len(corners))
			pts := make([]r3.Vec, len(corners))
			for i, lv := range corners {
				g[i], pts[i] = verts[lv], b.m.Point(verts[lv])
			}
			n := node{pos: average(pts)}
			switch {
			case len(g) == 1:
				n.key = types.NewVertexEntity(g[0])
			case len(g) == 2:
				n.key = types.NewEdgeEntity(g[0], g[1])
			case len(g) == 1<<dim:
				n.key = types.NewCellEntity(e)
			default:
				n.key = types.NewFaceEntity(g)
			}
			nodes = append(nodes, n)
		}
	case mesh.Simplex:
		for _, f := range simplexNodes(dim, order) {
			if f.b < 0 {
				nodes = append(nodes, vertexNode(verts[f.a]))
			} else {
				nodes = append(nodes, edgeNode(verts[f.a], verts[f.b]))
			}
		}
	case mesh.Polytope:
		for i, v := range verts {
			nodes = append(nodes, vertexNode(v))
			if order == 2 && !b.m.IsVolume() {
				nodes = append(nodes, edgeNode(v, verts[(i+1)%len(verts)]))
			}
		}
	}
	return
}

func (b *builder) vertexLink(v int, w float64) Local2Global {
	i := b.index[types.NewVertexEntity(v)]
	return Local2Global{Index: i, Weight: w, Node: b.nodes[i]}
}

func (b *builder) edgeLink(v0, v1 int, w float64) Local2Global {
	i := b.index[types.NewEdgeEntity(v0, v1)]
	return Local2Global{Index: i, Weight: w, Node: b.nodes[i]}
}

// boundaryNodes collects the DOFs on entities of boundary facets, and the subset on Dirichlet facets.
func (b *builder) boundaryNodes() (boundary, dirichlet []int) {
	var (
		onBdry = make(map[int]bool)
		onDir  = make(map[int]bool)
	)
	for f := 0; f < b.m.NumFacets(); f++ {
		if !b.m.IsBoundaryFacet(f) {
			continue
		}
		var (
			loop = b.m.Facet(f)
			keys []types.EntityKey
		)
		for i, v := range loop {
			keys = append(keys, types.NewVertexEntity(v))
			if len(loop) > 2 || i == 0 {
				keys = append(keys, types.NewEdgeEntity(v, loop[(i+1)%len(loop)]))
			}
		}
		if b.m.IsVolume() {
			keys = append(keys, types.NewFaceEntity(loop))
		}
		for _, k := range keys {
			if i, ok := b.index[k]; ok {
				onBdry[i] = true
				if b.m.FacetTag(f) == types.BC_Dirichlet {
					onDir[i] = true
				}
			}
		}
	}
	toSorted := func(set map[int]bool) (s []int) {
		for i := range set {
			s = append(s, i)
		}
		sort.Ints(s)
		return
	}
	return toSorted(onBdry), toSorted(onDir)
}

// element fills eb for element e; failures come back as *BasisConstructionError.
func (b *builder) element(e int, tag mesh.ElementType, eb *ElementBases) (err error) {
	*eb = ElementBases{
		Element: e,
		Type:    tag,
		Dim:     b.m.Dimension(),
	}
	vol := b.m.IsVolume()
	switch b.m.ElementShape(e) {
	case mesh.Simplex:
		eb.Shape = TriangleShape
		if vol {
			eb.Shape = TetShape
		}
	case mesh.Cube:
		eb.Shape = QuadShape
		if vol {
			eb.Shape = HexShape
		}
	case mesh.Polytope:
		eb.Shape = PolygonShape
		if vol {
			eb.Shape = PolyhedronShape
		}
	}
	switch {
	case tag == mesh.Undefined:
		err = &mesh.ClassificationError{Element: e, Reason: "element type is Undefined"}
	case eb.Shape == PolygonShape:
		err = b.polygonElement(e, eb)
	case eb.Shape == PolyhedronShape:
		err = b.polyhedronElement(e, eb)
	default:
		b.lagrangeElement(e, eb)
	}
	if err != nil {
		return &BasisConstructionError{Element: e, Type: tag, Err: err}
	}
	return
}

/*
lagrangeElement builds Q_order or P_order functions on the reference element. The geometric map uses the order
1 functions of the element vertices, so order 1 is iso-parametric and order 2 carries a separate map.
*/
func (b *builder) lagrangeElement(e int, eb *ElementBases) {
	var (
		verts = b.m.ElementVertices(e)
		nodes = b.elementNodes(e)
		order = b.opts.Order
	)
	functions := func(order int) (fns []ShapeFunction) {
		if eb.Shape == TriangleShape || eb.Shape == TetShape {
			for _, f := range simplexNodes(eb.Dim, order) {
				fns = append(fns, f)
			}
			return
		}
		for _, p := range tensorNodes(eb.Dim, order) {
			fns = append(fns, tensorLagrange{order: order, node: p})
		}
		return
	}
	for i, f := range functions(order) {
		idx := b.index[nodes[i].key]
		eb.Bases = append(eb.Bases, Basis{
			ShapeFunction: f,
			Global:        []Local2Global{{Index: idx, Weight: 1, Node: b.nodes[idx]}},
		})
	}
	if order == 1 {
		eb.IsoParametric = true
		eb.geom = eb.Bases
		return
	}
	for i, f := range functions(1) {
		v := verts[i]
		eb.geom = append(eb.geom, Basis{
			ShapeFunction: f,
			Global:        []Local2Global{{Index: v, Weight: 1, Node: b.m.Point(v)}},
		})
	}
}
