package trace

import "gonum.org/v1/gonum/stat"

// Recenter returns copies of trajs whose X/Y are shifted so that the mean of
// every sample of every trajectory sits at the origin. Lat/Lon are untouched.
func Recenter(trajs []*Trajectory) []*Trajectory {
	var xs, ys []float64
	for _, t := range trajs {
		for _, s := range t.samples {
			xs = append(xs, s.X)
			ys = append(ys, s.Y)
		}
	}
	out := make([]*Trajectory, len(trajs))
	if len(xs) == 0 {
		copy(out, trajs)
		return out
	}
	mx, my := stat.Mean(xs, nil), stat.Mean(ys, nil)
	for i, t := range trajs {
		s := make([]Sample, len(t.samples))
		for j, p := range t.samples {
			p.X -= mx
			p.Y -= my
			s[j] = p
		}
		// Already sorted; build directly to keep tie order untouched.
		out[i] = &Trajectory{ID: t.ID, samples: s}
	}
	return out
}
