package trace

import "fmt"

// Cursor is the playback state of one trajectory during a single merge run.
// Its position only moves forward; position == Len() means exhausted.
type Cursor struct {
	traj *Trajectory
	pos  int
}

// NewCursor returns a cursor positioned on the first sample of t.
func NewCursor(t *Trajectory) *Cursor {
	return &Cursor{traj: t}
}

// Trajectory returns the trajectory the cursor walks.
func (c *Cursor) Trajectory() *Trajectory { return c.traj }

// Position returns the index of the current sample.
func (c *Cursor) Position() int { return c.pos }

// Exhausted reports whether every sample has been consumed.
func (c *Cursor) Exhausted() bool { return c.pos >= c.traj.Len() }

// IsLast reports whether the current sample is the trajectory's last one.
func (c *Cursor) IsLast() bool { return c.pos == c.traj.Len()-1 }

// Current returns the sample at the cursor position.
func (c *Cursor) Current() (Sample, error) {
	if c.Exhausted() {
		return Sample{}, fmt.Errorf("%w: %s current at %d of %d", ErrOutOfRange, c.traj.ID, c.pos, c.traj.Len())
	}
	return c.traj.At(c.pos), nil
}

// HasNext reports whether a sample follows the current one.
func (c *Cursor) HasNext() bool { return c.pos+1 < c.traj.Len() }

// PeekNext returns the sample after the current one without moving.
func (c *Cursor) PeekNext() (Sample, error) {
	if !c.HasNext() {
		return Sample{}, fmt.Errorf("%w: %s next at %d of %d", ErrOutOfRange, c.traj.ID, c.pos+1, c.traj.Len())
	}
	return c.traj.At(c.pos + 1), nil
}

// Previous returns the sample before the current one, the last consumed
// sample of the trajectory.
func (c *Cursor) Previous() (Sample, error) {
	if c.pos == 0 || c.pos > c.traj.Len() {
		return Sample{}, fmt.Errorf("%w: %s previous at %d of %d", ErrOutOfRange, c.traj.ID, c.pos-1, c.traj.Len())
	}
	return c.traj.At(c.pos - 1), nil
}

// Advance moves to the next sample. Callers check Exhausted first.
func (c *Cursor) Advance() { c.pos++ }

// Finish moves the cursor past the end so it is reported exhausted.
func (c *Cursor) Finish() { c.pos = c.traj.Len() }
