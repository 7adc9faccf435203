package tracedb

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/banshee-data/contact.report/internal/trace"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "traces.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.MigrateUp())
	return s
}

func TestMigrations(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	// Already current.
	require.NoError(t, s.MigrateUp())

	require.NoError(t, s.MigrateDown())
	version, _, err = s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}

func TestInsertAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)

	b := trace.New("b", []trace.Sample{{Time: 5, X: 1, Y: 2, Lat: 45.07, Lon: 7.68}, {Time: 9, X: 3, Y: 4}})
	a := trace.New("a", []trace.Sample{{Time: 0, X: -1, Y: 0}})
	require.NoError(t, s.InsertTrajectory(ctx, b))
	require.NoError(t, s.InsertTrajectory(ctx, a))

	ids, err := s.TrajectoryIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids, "load order is insertion order")

	got, err := s.LoadTrajectories(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	if diff := cmp.Diff(b.Samples(), got[0].Samples()); diff != "" {
		t.Errorf("samples of b mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "a", got[1].ID)

	// Re-inserting replaces samples but keeps the position.
	b2 := trace.New("b", []trace.Sample{{Time: 1, X: 0, Y: 0}})
	require.NoError(t, s.InsertTrajectory(ctx, b2))
	got, err = s.LoadTrajectories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, b2.Samples(), got[0].Samples())
}

func TestInsertRejectsInvalid(t *testing.T) {
	t.Parallel()

	s := openTestStore(t)
	err := s.InsertTrajectory(context.Background(), trace.New("empty", nil))
	assert.ErrorIs(t, err, trace.ErrInvalidTrajectory)
}

func TestDeleteTrajectory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.InsertTrajectory(ctx, trace.New("a", []trace.Sample{{Time: 0}})))

	require.NoError(t, s.DeleteTrajectory(ctx, "a"))
	_, err := s.LoadTrajectory(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteTrajectory(ctx, "a"), ErrNotFound)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	in := `[
  {"id": "walker", "samples": [{"t": 10, "x": 1, "y": 1}, {"t": 0, "x": 0, "y": 0, "lat": 45.1, "lon": 7.6}]},
  {"id": "cyclist", "samples": [{"t": 3, "x": 9, "y": 9}]}
]`
	trajs, err := ReadJSON(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, trajs, 2)
	assert.Equal(t, int64(0), trajs[0].First().Time, "samples are sorted on read")
	assert.Equal(t, 45.1, trajs[0].First().Lat)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, trajs))
	again, err := ReadJSON(&buf)
	require.NoError(t, err)
	require.Len(t, again, 2)
	for i := range trajs {
		assert.Equal(t, trajs[i].ID, again[i].ID)
		assert.Equal(t, trajs[i].Samples(), again[i].Samples())
	}
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := ReadJSON(strings.NewReader(`[{"id": "a", "points": []}]`))
	assert.Error(t, err)
}
