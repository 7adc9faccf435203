package reload

import (
	"testing"

	"github.com/banshee-data/contact.report/internal/graph"
	"github.com/banshee-data/contact.report/internal/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpolate(t *testing.T) {
	t.Parallel()

	a := trace.Sample{Time: 10, X: 0, Y: 0, Lat: 45, Lon: 7}
	b := trace.Sample{Time: 20, X: 10, Y: -20, Lat: 46, Lon: 9}

	tests := []struct {
		name  string
		date  int64
		ratio float64
		want  graph.Position
	}{
		{"at start", 10, 0, graph.Position{X: 0, Y: 0, Lat: 45, Lon: 7}},
		{"quarter", 12, 0.2, graph.Position{X: 2, Y: -4, Lat: 45.2, Lon: 7.4}},
		{"half", 15, 0.5, graph.Position{X: 5, Y: -10, Lat: 45.5, Lon: 8}},
		{"at end", 20, 1, graph.Position{X: 10, Y: -20, Lat: 46, Lon: 9}},
		{"before start", 5, -0.5, graph.Position{X: -5, Y: 10, Lat: 44.5, Lon: 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			pos, ratio := interpolate(a, b, tt.date)
			assert.InDelta(t, tt.ratio, ratio, 1e-12)
			assert.InDelta(t, tt.want.X, pos.X, 1e-9)
			assert.InDelta(t, tt.want.Y, pos.Y, 1e-9)
			assert.InDelta(t, tt.want.Lat, pos.Lat, 1e-9)
			assert.InDelta(t, tt.want.Lon, pos.Lon, 1e-9)
		})
	}
}

func TestInterpolateZeroSpan(t *testing.T) {
	t.Parallel()

	a := trace.Sample{Time: 4, X: 1, Y: 2}
	b := trace.Sample{Time: 4, X: 9, Y: 9}
	pos, ratio := interpolate(a, b, 4)
	assert.Zero(t, ratio)
	assert.Equal(t, graph.Position{X: 1, Y: 2}, pos)
}

func TestInterpolateStaysOnSegment(t *testing.T) {
	t.Parallel()

	a := trace.Sample{Time: 0, X: -3, Y: 7}
	b := trace.Sample{Time: 1000, X: 12, Y: -1}
	for date := int64(0); date < 1000; date += 37 {
		pos, ratio := interpolate(a, b, date)
		require.GreaterOrEqual(t, ratio, 0.0)
		require.Less(t, ratio, 1.0)

		// Collinear with a and b, between them.
		cross := (b.X-a.X)*(pos.Y-a.Y) - (b.Y-a.Y)*(pos.X-a.X)
		assert.InDelta(t, 0, cross, 1e-9)
		assert.GreaterOrEqual(t, pos.X, a.X)
		assert.LessOrEqual(t, pos.X, b.X)
	}
}

func TestFrameBuilderNotStarted(t *testing.T) {
	t.Parallel()

	g := graph.New(nil)
	b := &frameBuilder{g: g, mode: InterpolateStraddle}
	c := trace.NewCursor(traj("late", at(10, 1, 1), at(20, 2, 2)))

	require.NoError(t, b.build(5, []*trace.Cursor{c}))
	assert.False(t, g.HasNode("late"))

	require.NoError(t, b.build(10, []*trace.Cursor{c}))
	n, ok := g.Node("late")
	require.True(t, ok)
	assert.Equal(t, graph.Position{X: 1, Y: 1}, n.Pos)
}

func TestFrameBuilderExpiresLastSample(t *testing.T) {
	t.Parallel()

	g := graph.New(nil)
	b := &frameBuilder{g: g, mode: InterpolateStraddle}
	c := trace.NewCursor(traj("gone", at(0, 0, 0), at(3, 3, 0)))

	require.NoError(t, b.build(0, []*trace.Cursor{c}))
	c.Advance()
	require.True(t, g.HasNode("gone"))

	// The pending last sample is behind the frontier.
	require.NoError(t, b.build(8, []*trace.Cursor{c}))
	assert.False(t, g.HasNode("gone"))
	assert.True(t, c.Exhausted())
}
