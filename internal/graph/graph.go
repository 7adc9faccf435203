// Package graph is the working graph of a reload run: one node per active
// trajectory and one edge per pair of nodes currently within the proximity
// threshold. Every mutation is reported to a Sink so that the run can be
// recorded and replayed.
package graph

import (
	"errors"
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"
)

var (
	ErrNodeExists   = errors.New("node already exists")
	ErrNodeNotFound = errors.New("node not found")
	ErrEdgeExists   = errors.New("edge already exists")
	ErrEdgeNotFound = errors.New("edge not found")
)

// Position is a node's location in both projected and geographic form.
type Position struct {
	X   float64
	Y   float64
	Lat float64
	Lon float64
}

// Vec returns the projected coordinates.
func (p Position) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Node is an active trajectory.
type Node struct {
	ID  string
	Pos Position
}

// Edge is a proximity relation between two nodes. A was inserted into the
// graph before B.
type Edge struct {
	ID       string
	A        string
	B        string
	Distance float64
}

// EdgeID returns the identifier of the edge between a and b, a first.
func EdgeID(a, b string) string { return a + "__" + b }

type pairKey struct{ lo, hi string }

func keyOf(a, b string) pairKey {
	if a < b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

// Graph is not safe for concurrent use.
type Graph struct {
	sink  Sink
	time  int64
	order []string
	nodes map[string]*Node
	seq   map[string]uint64
	next  uint64
	edges map[pairKey]*Edge
	byID  map[string]pairKey
}

// New returns an empty graph reporting to sink. A nil sink discards events.
func New(sink Sink) *Graph {
	if sink == nil {
		sink = Discard
	}
	return &Graph{
		sink:  sink,
		nodes: make(map[string]*Node),
		seq:   make(map[string]uint64),
		edges: make(map[pairKey]*Edge),
		byID:  make(map[string]pairKey),
	}
}

// Time returns the timestamp of the last frame boundary.
func (g *Graph) Time() int64 { return g.time }

// StepBegins marks the start of a frame.
func (g *Graph) StepBegins(t int64) {
	g.time = t
	g.sink.Emit(Event{Kind: StepBegins, Time: t})
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.order) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns a copy of node id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// HasNode reports whether node id exists.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns copies of all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, len(g.order))
	for i, id := range g.order {
		out[i] = *g.nodes[id]
	}
	return out
}

// AddNode creates node id at pos.
func (g *Graph) AddNode(id string, pos Position) error {
	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("%w: %s", ErrNodeExists, id)
	}
	g.nodes[id] = &Node{ID: id, Pos: pos}
	g.order = append(g.order, id)
	g.seq[id] = g.next
	g.next++
	g.sink.Emit(Event{Kind: NodeAdded, ID: id, Pos: pos})
	return nil
}

// SetPosition moves node id to pos.
func (g *Graph) SetPosition(id string, pos Position) error {
	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n.Pos = pos
	g.sink.Emit(Event{Kind: NodeMoved, ID: id, Pos: pos})
	return nil
}

// RemoveNode removes node id after removing its incident edges.
func (g *Graph) RemoveNode(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	for _, e := range g.Edges() {
		if e.A == id || e.B == id {
			if err := g.RemoveEdge(e.A, e.B); err != nil {
				return err
			}
		}
	}
	delete(g.nodes, id)
	delete(g.seq, id)
	for i, o := range g.order {
		if o == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	g.sink.Emit(Event{Kind: NodeRemoved, ID: id})
	return nil
}

// Edge returns a copy of the edge between a and b in either order.
func (g *Graph) Edge(a, b string) (Edge, bool) {
	e, ok := g.edges[keyOf(a, b)]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Edges returns copies of all edges ordered by the insertion order of their
// endpoints.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := g.seq[out[i].A], g.seq[out[j].A]
		if ai != aj {
			return ai < aj
		}
		return g.seq[out[i].B] < g.seq[out[j].B]
	})
	return out
}

// AddEdge links a and b and sets the edge distance. The endpoints are
// reordered so that the edge's A is the older node.
func (g *Graph) AddEdge(a, b string, distance float64) error {
	if g.seq[b] < g.seq[a] {
		a, b = b, a
	}
	return g.addEdge(EdgeID(a, b), a, b, distance, true)
}

func (g *Graph) addEdge(id, a, b string, distance float64, withDistance bool) error {
	if a == b {
		return fmt.Errorf("%w: self loop on %s", ErrEdgeExists, a)
	}
	if !g.HasNode(a) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, a)
	}
	if !g.HasNode(b) {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, b)
	}
	k := keyOf(a, b)
	if _, ok := g.edges[k]; ok {
		return fmt.Errorf("%w: %s", ErrEdgeExists, id)
	}
	g.edges[k] = &Edge{ID: id, A: a, B: b}
	g.byID[id] = k
	g.sink.Emit(Event{Kind: EdgeAdded, ID: id, A: a, B: b})
	if withDistance {
		return g.setDistance(k, distance)
	}
	return nil
}

// SetEdgeDistance updates the distance of the edge between a and b.
func (g *Graph) SetEdgeDistance(a, b string, distance float64) error {
	return g.setDistance(keyOf(a, b), distance)
}

func (g *Graph) setDistance(k pairKey, distance float64) error {
	e, ok := g.edges[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, EdgeID(k.lo, k.hi))
	}
	e.Distance = distance
	g.sink.Emit(Event{Kind: EdgeDistance, ID: e.ID, Distance: distance})
	return nil
}

// RemoveEdge removes the edge between a and b.
func (g *Graph) RemoveEdge(a, b string) error {
	k := keyOf(a, b)
	e, ok := g.edges[k]
	if !ok {
		return fmt.Errorf("%w: %s", ErrEdgeNotFound, EdgeID(a, b))
	}
	delete(g.edges, k)
	delete(g.byID, e.ID)
	g.sink.Emit(Event{Kind: EdgeRemoved, ID: e.ID})
	return nil
}

// Clear drops every node and edge without emitting events.
func (g *Graph) Clear() {
	g.time = 0
	g.order = nil
	g.next = 0
	g.nodes = make(map[string]*Node)
	g.seq = make(map[string]uint64)
	g.edges = make(map[pairKey]*Edge)
	g.byID = make(map[string]pairKey)
}
