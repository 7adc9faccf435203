package reload

import (
	"fmt"
	"math"

	"github.com/banshee-data/contact.report/internal/config"
)

// DefaultProximityThreshold is the contact distance, in projected units.
const DefaultProximityThreshold = 5.0

// IndexKind selects how candidate node pairs are found each frame.
type IndexKind string

const (
	IndexPairwise IndexKind = "pairwise" // every pair, O(active²)
	IndexKDTree   IndexKind = "kdtree"   // radius queries on a per-frame k-d tree
)

// Interpolation selects the sample pair a non-selected trajectory is
// interpolated between.
type Interpolation string

const (
	// InterpolateStraddle uses the pair of samples around the frame time:
	// the last consumed sample and the pending one.
	InterpolateStraddle Interpolation = "straddle"

	// InterpolateForward always uses the pending sample and the one after
	// it, extrapolating backwards (ratio < 0) when the pending sample is
	// later than the frame time.
	InterpolateForward Interpolation = "forward"
)

// Config holds the engine parameters.
type Config struct {
	ProximityThreshold float64
	Index              IndexKind
	Interpolation      Interpolation

	// SkipInvalid drops invalid trajectories (logging each one) instead of
	// aborting the whole run.
	SkipInvalid bool

	// Recenter shifts every trajectory so the mean sample sits at the origin
	// before the run.
	Recenter bool
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		ProximityThreshold: DefaultProximityThreshold,
		Index:              IndexPairwise,
		Interpolation:      InterpolateStraddle,
	}
}

// ConfigFromTuning builds a Config from a loaded TuningConfig.
func ConfigFromTuning(cfg *config.TuningConfig) Config {
	return Config{
		ProximityThreshold: cfg.GetProximityThreshold(),
		Index:              IndexKind(cfg.GetSpatialIndex()),
		Interpolation:      Interpolation(cfg.GetInterpolation()),
		SkipInvalid:        cfg.GetSkipInvalid(),
		Recenter:           cfg.GetRecenter(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if math.IsNaN(c.ProximityThreshold) || math.IsInf(c.ProximityThreshold, 0) || c.ProximityThreshold < 0 {
		return fmt.Errorf("proximity threshold must be a finite non-negative number, got %v", c.ProximityThreshold)
	}
	switch c.Index {
	case IndexPairwise, IndexKDTree:
	default:
		return fmt.Errorf("unknown spatial index %q", c.Index)
	}
	switch c.Interpolation {
	case InterpolateStraddle, InterpolateForward:
	default:
		return fmt.Errorf("unknown interpolation %q", c.Interpolation)
	}
	return nil
}
