package trace

import (
	"fmt"
	"math"
	"sort"
)

// Sample is one timestamped position. Time is an integer instant (the engine
// does not care about the unit as long as every trajectory uses the same one);
// X/Y are projected plane coordinates and Lat/Lon the source geographic ones.
type Sample struct {
	Time int64
	X    float64
	Y    float64
	Lat  float64
	Lon  float64
}

// Trajectory is one entity's time-ordered samples.
type Trajectory struct {
	ID      string
	samples []Sample
}

// New builds a Trajectory from a copy of samples, stable-sorted by Time so
// that samples sharing a timestamp keep their input order.
func New(id string, samples []Sample) *Trajectory {
	s := make([]Sample, len(samples))
	copy(s, samples)
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Time < s[j].Time
	})
	return &Trajectory{ID: id, samples: s}
}

// Len returns the number of samples.
func (t *Trajectory) Len() int { return len(t.samples) }

// At returns sample i. It panics on an out-of-range index like a slice would.
func (t *Trajectory) At(i int) Sample { return t.samples[i] }

// First returns the earliest sample.
func (t *Trajectory) First() Sample { return t.samples[0] }

// Last returns the latest sample.
func (t *Trajectory) Last() Sample { return t.samples[len(t.samples)-1] }

// Samples returns a copy of the sorted samples.
func (t *Trajectory) Samples() []Sample {
	out := make([]Sample, len(t.samples))
	copy(out, t.samples)
	return out
}

// Validate checks a single trajectory. All failures wrap ErrInvalidTrajectory.
func (t *Trajectory) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: nil trajectory", ErrInvalidTrajectory)
	}
	if t.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidTrajectory)
	}
	if len(t.samples) == 0 {
		return fmt.Errorf("%w: %s has no samples", ErrInvalidTrajectory, t.ID)
	}
	for i, s := range t.samples {
		if !finite(s.X) || !finite(s.Y) || !finite(s.Lat) || !finite(s.Lon) {
			return fmt.Errorf("%w: %s sample %d has a non-finite coordinate", ErrInvalidTrajectory, t.ID, i)
		}
	}
	return nil
}

// ValidateSet checks a whole input set: it must be non-empty, and every
// trajectory must be valid with an ID not used by an earlier one.
// The returned slice holds one error (or nil) per input trajectory.
func ValidateSet(trajs []*Trajectory) ([]error, error) {
	if len(trajs) == 0 {
		return nil, ErrEmptyInput
	}
	errs := make([]error, len(trajs))
	seen := make(map[string]struct{}, len(trajs))
	for i, t := range trajs {
		if err := t.Validate(); err != nil {
			errs[i] = err
			continue
		}
		if _, dup := seen[t.ID]; dup {
			errs[i] = fmt.Errorf("%w: duplicate id %s", ErrInvalidTrajectory, t.ID)
			continue
		}
		seen[t.ID] = struct{}{}
	}
	return errs, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
