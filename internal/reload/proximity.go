package reload

import (
	"sort"

	"github.com/banshee-data/contact.report/internal/graph"
	"gonum.org/v1/gonum/spatial/r2"
)

// pair indexes two nodes of a frame's node slice, i < j.
type pair struct{ i, j int }

// pairIndex proposes the node pairs that may be within radius of each other.
// It may over-report; it must never miss a pair within radius.
type pairIndex interface {
	candidates(nodes []graph.Node, radius float64) []pair
}

func newPairIndex(kind IndexKind) pairIndex {
	if kind == IndexKDTree {
		return kdIndex{}
	}
	return pairwiseIndex{}
}

type pairwiseIndex struct{}

func (pairwiseIndex) candidates(nodes []graph.Node, _ float64) []pair {
	out := make([]pair, 0, len(nodes)*(len(nodes)-1)/2)
	for i := 0; i < len(nodes)-1; i++ {
		for j := i + 1; j < len(nodes); j++ {
			out = append(out, pair{i, j})
		}
	}
	return out
}

// proximity keeps the graph's edges equal to the set of node pairs within
// threshold of each other.
type proximity struct {
	g         *graph.Graph
	threshold float64
	index     pairIndex
}

// update re-evaluates every candidate pair and every existing edge, in node
// insertion order, so that both index kinds emit the same mutations.
func (p *proximity) update() error {
	nodes := p.g.Nodes()
	if len(nodes) < 2 {
		return nil
	}

	pos := make(map[string]int, len(nodes))
	for i, n := range nodes {
		pos[n.ID] = i
	}
	seen := make(map[pair]struct{})
	var pairs []pair
	add := func(q pair) {
		if _, ok := seen[q]; !ok {
			seen[q] = struct{}{}
			pairs = append(pairs, q)
		}
	}
	for _, q := range p.index.candidates(nodes, p.threshold) {
		add(q)
	}
	for _, e := range p.g.Edges() {
		add(pair{pos[e.A], pos[e.B]})
	}
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].i != pairs[b].i {
			return pairs[a].i < pairs[b].i
		}
		return pairs[a].j < pairs[b].j
	})

	for _, q := range pairs {
		n1, n2 := nodes[q.i], nodes[q.j]
		d := distance(n1.Pos, n2.Pos)
		_, linked := p.g.Edge(n1.ID, n2.ID)
		var err error
		switch {
		case !linked && d <= p.threshold:
			err = p.g.AddEdge(n1.ID, n2.ID, d)
		case linked && d > p.threshold:
			err = p.g.RemoveEdge(n1.ID, n2.ID)
		case linked:
			err = p.g.SetEdgeDistance(n1.ID, n2.ID, d)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// distance is the planar Euclidean distance between two positions.
func distance(a, b graph.Position) float64 {
	return r2.Norm(r2.Sub(a.Vec(), b.Vec()))
}
