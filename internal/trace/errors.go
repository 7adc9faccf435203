package trace

import "errors"

var (
	// ErrEmptyInput is returned when a run is started with no trajectories.
	ErrEmptyInput = errors.New("no trajectories supplied")

	// ErrInvalidTrajectory marks a trajectory that cannot take part in a
	// merge: empty, unnamed, duplicated or carrying non-finite coordinates.
	ErrInvalidTrajectory = errors.New("invalid trajectory")

	// ErrOutOfRange is returned by Cursor accessors used past the end of the
	// sample list. Seeing it outside this package is a programming error.
	ErrOutOfRange = errors.New("cursor out of range")
)
