package reload

import (
	"github.com/banshee-data/contact.report/internal/graph"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// kdIndex finds candidate pairs with one radius query per node on a k-d tree
// rebuilt for the frame.
type kdIndex struct{}

// radiusSlack widens the squared query radius so rounding never drops a pair
// that the exact distance check would accept.
const radiusSlack = 1e-9

func (kdIndex) candidates(nodes []graph.Node, radius float64) []pair {
	if len(nodes) < 2 {
		return nil
	}
	pts := make(nodePoints, len(nodes))
	for i, n := range nodes {
		pts[i] = nodePoint{idx: i, x: n.Pos.X, y: n.Pos.Y}
	}
	queries := make(nodePoints, len(pts))
	copy(queries, pts)

	tree := kdtree.New(pts, false)
	rsq := radius * radius * (1 + radiusSlack)

	var out []pair
	for _, q := range queries {
		keep := kdtree.NewDistKeeper(rsq)
		tree.NearestSet(keep, q)
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			j := c.Comparable.(nodePoint).idx
			if j > q.idx {
				out = append(out, pair{q.idx, j})
			}
		}
	}
	return out
}

type nodePoint struct {
	idx  int
	x, y float64
}

func (p nodePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(nodePoint)
	if d == 0 {
		return p.x - q.x
	}
	return p.y - q.y
}

func (p nodePoint) Dims() int { return 2 }

// Distance returns the squared Euclidean distance, as kdtree expects.
func (p nodePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(nodePoint)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type nodePoints []nodePoint

func (p nodePoints) Index(i int) kdtree.Comparable { return p[i] }
func (p nodePoints) Len() int                      { return len(p) }
func (p nodePoints) Slice(start, end int) kdtree.Interface {
	return p[start:end]
}
func (p nodePoints) Pivot(d kdtree.Dim) int {
	return plane{dim: d, pts: p}.Pivot()
}

// plane sorts node points along one dimension for median partitioning.
type plane struct {
	dim kdtree.Dim
	pts nodePoints
}

func (p plane) Len() int      { return len(p.pts) }
func (p plane) Swap(i, j int) { p.pts[i], p.pts[j] = p.pts[j], p.pts[i] }
func (p plane) Less(i, j int) bool {
	if p.dim == 0 {
		return p.pts[i].x < p.pts[j].x
	}
	return p.pts[i].y < p.pts[j].y
}
func (p plane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.pts = p.pts[start:end]
	return p
}
