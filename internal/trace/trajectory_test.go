package trace

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSortsStably(t *testing.T) {
	t.Parallel()

	in := []Sample{
		{Time: 10, X: 1},
		{Time: 5, X: 2},
		{Time: 10, X: 3},
		{Time: 5, X: 4},
	}
	tr := New("a", in)

	require.Equal(t, 4, tr.Len())
	got := tr.Samples()
	assert.Equal(t, []float64{2, 4, 1, 3}, []float64{got[0].X, got[1].X, got[2].X, got[3].X})
	assert.Equal(t, int64(5), tr.First().Time)
	assert.Equal(t, int64(10), tr.Last().Time)

	// The caller's slice is neither reordered nor aliased.
	assert.Equal(t, int64(10), in[0].Time)
	got[0].X = 99
	assert.Equal(t, 2.0, tr.At(0).X)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		traj *Trajectory
		ok   bool
	}{
		{"valid", New("a", []Sample{{Time: 1}}), true},
		{"nil", nil, false},
		{"empty id", New("", []Sample{{Time: 1}}), false},
		{"no samples", New("a", nil), false},
		{"nan x", New("a", []Sample{{Time: 1, X: math.NaN()}}), false},
		{"inf lat", New("a", []Sample{{Time: 1, Lat: math.Inf(1)}}), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.traj.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidTrajectory), "got %v", err)
		})
	}
}

func TestValidateSet(t *testing.T) {
	t.Parallel()

	t.Run("empty input", func(t *testing.T) {
		_, err := ValidateSet(nil)
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("duplicate and empty trajectories", func(t *testing.T) {
		errs, err := ValidateSet([]*Trajectory{
			New("a", []Sample{{Time: 1}}),
			New("b", nil),
			New("a", []Sample{{Time: 2}}),
		})
		require.NoError(t, err)
		require.Len(t, errs, 3)
		assert.NoError(t, errs[0])
		assert.ErrorIs(t, errs[1], ErrInvalidTrajectory)
		assert.ErrorIs(t, errs[2], ErrInvalidTrajectory)
		assert.Contains(t, errs[2].Error(), "duplicate")
	})
}

func TestComputeAnchors(t *testing.T) {
	t.Parallel()

	a := ComputeAnchors([]*Trajectory{
		New("a", []Sample{{Time: 0, X: -3, Y: 2}, {Time: 1, X: 4, Y: 7}}),
		New("b", []Sample{{Time: 5, X: 1, Y: -6}}),
	})
	assert.Equal(t, -3.0, a.Min.X)
	assert.Equal(t, -6.0, a.Min.Y)
	assert.Equal(t, 4.0, a.Max.X)
	assert.Equal(t, 7.0, a.Max.Y)
	assert.Equal(t, 0.5, a.Center().X)
	assert.Equal(t, 13.0, a.Size().Y)

	// All-negative coordinates must still produce a negative max.
	neg := ComputeAnchors([]*Trajectory{New("n", []Sample{{X: -10, Y: -20}, {X: -5, Y: -30}})})
	assert.Equal(t, -5.0, neg.Max.X)
	assert.Equal(t, -20.0, neg.Max.Y)

	assert.Equal(t, Anchors{}, ComputeAnchors(nil))
}

func TestRecenter(t *testing.T) {
	t.Parallel()

	in := []*Trajectory{
		New("a", []Sample{{Time: 0, X: 0, Y: 0, Lat: 1}, {Time: 1, X: 10, Y: 0}}),
		New("b", []Sample{{Time: 0, X: 2, Y: 8}}),
	}
	out := Recenter(in)
	require.Len(t, out, 2)

	assert.InDelta(t, -4.0, out[0].At(0).X, 1e-12)
	assert.InDelta(t, -8.0/3, out[0].At(0).Y, 1e-12)
	assert.InDelta(t, 6.0, out[0].At(1).X, 1e-12)
	assert.Equal(t, 1.0, out[0].At(0).Lat)
	assert.InDelta(t, 16.0/3, out[1].At(0).Y, 1e-12)

	// Inputs are untouched.
	assert.Equal(t, 10.0, in[0].At(1).X)
}
