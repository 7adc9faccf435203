package reload

import (
	"github.com/banshee-data/contact.report/internal/graph"
	"github.com/banshee-data/contact.report/internal/trace"
	"gonum.org/v1/gonum/spatial/r2"
)

// frameBuilder places every active trajectory's node at the frame time.
type frameBuilder struct {
	g    *graph.Graph
	mode Interpolation
}

// build updates the nodes of every cursor for date. The caller has already
// emitted the frame boundary and advances the winner afterwards.
func (b *frameBuilder) build(date int64, cursors []*trace.Cursor) error {
	for _, c := range cursors {
		if err := b.place(date, c); err != nil {
			return err
		}
	}
	return nil
}

func (b *frameBuilder) place(date int64, c *trace.Cursor) error {
	t := c.Trajectory()

	if c.Exhausted() {
		// The last sample was consumed by an earlier step. The node stays
		// at its terminal position until the frontier moves past it.
		if b.g.HasNode(t.ID) && t.Last().Time < date {
			return b.g.RemoveNode(t.ID)
		}
		return nil
	}

	cur, err := c.Current()
	if err != nil {
		return err
	}
	if c.IsLast() && cur.Time < date {
		c.Finish()
		if b.g.HasNode(t.ID) {
			return b.g.RemoveNode(t.ID)
		}
		return nil
	}
	if c.Position() == 0 && cur.Time > date {
		// Not started yet.
		return nil
	}

	pos, err := b.position(date, c, cur)
	if err != nil {
		return err
	}
	if !b.g.HasNode(t.ID) {
		if err := b.g.AddNode(t.ID, positionOf(t.First())); err != nil {
			return err
		}
	}
	return b.g.SetPosition(t.ID, pos)
}

func (b *frameBuilder) position(date int64, c *trace.Cursor, cur trace.Sample) (graph.Position, error) {
	if b.mode == InterpolateStraddle && cur.Time > date {
		prev, err := c.Previous()
		if err != nil {
			return graph.Position{}, err
		}
		pos, _ := interpolate(prev, cur, date)
		return pos, nil
	}
	if !c.HasNext() {
		return positionOf(cur), nil
	}
	next, err := c.PeekNext()
	if err != nil {
		return graph.Position{}, err
	}
	pos, _ := interpolate(cur, next, date)
	return pos, nil
}

// interpolate places date on the segment a→b and returns the position and
// the ratio used. A zero-length span yields a itself.
func interpolate(a, b trace.Sample, date int64) (graph.Position, float64) {
	ratio := 0.0
	if span := b.Time - a.Time; span != 0 {
		ratio = float64(date-a.Time) / float64(span)
	}
	va, vb := r2.Vec{X: a.X, Y: a.Y}, r2.Vec{X: b.X, Y: b.Y}
	v := r2.Add(va, r2.Scale(ratio, r2.Sub(vb, va)))
	return graph.Position{
		X:   v.X,
		Y:   v.Y,
		Lat: a.Lat + ratio*(b.Lat-a.Lat),
		Lon: a.Lon + ratio*(b.Lon-a.Lon),
	}, ratio
}

func positionOf(s trace.Sample) graph.Position {
	return graph.Position{X: s.X, Y: s.Y, Lat: s.Lat, Lon: s.Lon}
}
