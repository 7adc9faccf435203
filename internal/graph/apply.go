package graph

import "fmt"

// Apply replays a recorded event onto g, re-emitting it to g's sink.
// Applying a recording's events in order onto an empty graph rebuilds the
// state the recording was made from.
func (g *Graph) Apply(e Event) error {
	switch e.Kind {
	case StepBegins:
		g.StepBegins(e.Time)
		return nil
	case NodeAdded:
		return g.AddNode(e.ID, e.Pos)
	case NodeRemoved:
		return g.RemoveNode(e.ID)
	case NodeMoved:
		return g.SetPosition(e.ID, e.Pos)
	case EdgeAdded:
		return g.addEdge(e.ID, e.A, e.B, 0, false)
	case EdgeRemoved:
		k, ok := g.byID[e.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrEdgeNotFound, e.ID)
		}
		return g.RemoveEdge(k.lo, k.hi)
	case EdgeDistance:
		k, ok := g.byID[e.ID]
		if !ok {
			return fmt.Errorf("%w: %s", ErrEdgeNotFound, e.ID)
		}
		return g.setDistance(k, e.Distance)
	default:
		return fmt.Errorf("unknown event kind %s", e.Kind)
	}
}
