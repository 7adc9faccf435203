// Package trace holds the immutable input side of a reload run: timestamped
// samples, the trajectories built from them and the per-run cursors that walk
// them during the merge.
//
// Trajectories are owned by the caller. The engine only reads them, so every
// constructor copies its input and nothing here mutates a Trajectory after
// New returns.
package trace
