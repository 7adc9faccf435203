package tracedb

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/banshee-data/contact.report/internal/trace"
)

// jsonTrajectory is the interchange layout accepted by ReadJSON:
//
//	[{"id": "a", "samples": [{"t": 0, "x": 1.5, "y": 2, "lat": 45.1, "lon": 7.6}]}]
type jsonTrajectory struct {
	ID      string       `json:"id"`
	Samples []jsonSample `json:"samples"`
}

type jsonSample struct {
	T   int64   `json:"t"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Lat float64 `json:"lat,omitempty"`
	Lon float64 `json:"lon,omitempty"`
}

// ReadJSON decodes trajectories from r. Samples are sorted by time; no other
// validation is done here.
func ReadJSON(r io.Reader) ([]*trace.Trajectory, error) {
	var in []jsonTrajectory
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, fmt.Errorf("decode trajectories: %w", err)
	}
	out := make([]*trace.Trajectory, len(in))
	for i, jt := range in {
		samples := make([]trace.Sample, len(jt.Samples))
		for j, s := range jt.Samples {
			samples[j] = trace.Sample{Time: s.T, X: s.X, Y: s.Y, Lat: s.Lat, Lon: s.Lon}
		}
		out[i] = trace.New(jt.ID, samples)
	}
	return out, nil
}

// WriteJSON encodes trajs in the layout ReadJSON accepts.
func WriteJSON(w io.Writer, trajs []*trace.Trajectory) error {
	out := make([]jsonTrajectory, len(trajs))
	for i, t := range trajs {
		out[i].ID = t.ID
		out[i].Samples = make([]jsonSample, t.Len())
		for j, s := range t.Samples() {
			out[i].Samples[j] = jsonSample{T: s.Time, X: s.X, Y: s.Y, Lat: s.Lat, Lon: s.Lon}
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
