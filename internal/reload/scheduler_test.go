package reload

import (
	"testing"

	"github.com/banshee-data/contact.report/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func traj(id string, pts ...trace.Sample) *trace.Trajectory {
	return trace.New(id, pts)
}

func at(t int64, x, y float64) trace.Sample {
	return trace.Sample{Time: t, X: x, Y: y}
}

func TestSchedulerMergeOrder(t *testing.T) {
	t.Parallel()

	s := NewScheduler([]*trace.Trajectory{
		traj("a", at(0, 0, 0), at(5, 0, 0), at(9, 0, 0)),
		traj("b", at(0, 0, 0), at(3, 0, 0)),
		traj("c", at(5, 0, 0)),
	})
	require.Len(t, s.Cursors(), 3)

	type pick struct {
		id   string
		time int64
	}
	var got []pick
	for c := s.SelectNext(); c != nil; c = s.SelectNext() {
		cur, err := c.Current()
		require.NoError(t, err)
		got = append(got, pick{c.Trajectory().ID, cur.Time})
		c.Advance()
	}

	// Ties go to the trajectory listed first.
	assert.Equal(t, []pick{
		{"a", 0}, {"b", 0}, {"b", 3}, {"a", 5}, {"c", 5}, {"a", 9},
	}, got)
	assert.Nil(t, s.SelectNext())
}

func TestSchedulerSkipsFinishedCursors(t *testing.T) {
	t.Parallel()

	s := NewScheduler([]*trace.Trajectory{
		traj("a", at(0, 0, 0)),
		traj("b", at(7, 0, 0)),
	})
	s.Cursors()[0].Finish()

	c := s.SelectNext()
	require.NotNil(t, c)
	assert.Equal(t, "b", c.Trajectory().ID)
}
