package trace

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Anchors is the axis-aligned bounding box of every sample position of a set
// of trajectories. Renderers use it to frame a view over the whole dataset.
type Anchors struct {
	Min r2.Vec
	Max r2.Vec
}

// ComputeAnchors scans every sample of every trajectory, active or not.
// It returns the zero value for an input without samples.
func ComputeAnchors(trajs []*Trajectory) Anchors {
	box := r2.Box{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	n := 0
	for _, t := range trajs {
		if t == nil {
			continue
		}
		for _, s := range t.samples {
			box.Min.X = math.Min(box.Min.X, s.X)
			box.Min.Y = math.Min(box.Min.Y, s.Y)
			box.Max.X = math.Max(box.Max.X, s.X)
			box.Max.Y = math.Max(box.Max.Y, s.Y)
			n++
		}
	}
	if n == 0 {
		return Anchors{}
	}
	return Anchors{Min: box.Min, Max: box.Max}
}

// Center returns the middle of the box.
func (a Anchors) Center() r2.Vec {
	return r2.Scale(0.5, r2.Add(a.Min, a.Max))
}

// Size returns the box extent along each axis.
func (a Anchors) Size() r2.Vec {
	return r2.Sub(a.Max, a.Min)
}
