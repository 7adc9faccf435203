package reload

import "github.com/banshee-data/contact.report/internal/trace"

// Scheduler performs the earliest-wins k-way merge over one cursor per
// trajectory.
type Scheduler struct {
	cursors []*trace.Cursor
}

// NewScheduler builds one cursor per trajectory, in input order. That order
// breaks ties between equal timestamps.
func NewScheduler(trajs []*trace.Trajectory) *Scheduler {
	s := &Scheduler{cursors: make([]*trace.Cursor, len(trajs))}
	for i, t := range trajs {
		s.cursors[i] = trace.NewCursor(t)
	}
	return s
}

// Cursors returns the cursors in input order.
func (s *Scheduler) Cursors() []*trace.Cursor { return s.cursors }

// SelectNext returns the non-exhausted cursor with the earliest current
// sample, the first one on ties, or nil once every cursor is exhausted.
func (s *Scheduler) SelectNext() *trace.Cursor {
	var (
		winner *trace.Cursor
		best   int64
	)
	for _, c := range s.cursors {
		if c.Exhausted() {
			continue
		}
		t := c.Trajectory().At(c.Position()).Time
		if winner == nil || t < best {
			winner, best = c, t
		}
	}
	return winner
}
