package reload

import (
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/contact.report/internal/graph"
	"github.com/banshee-data/contact.report/internal/monitoring"
	"github.com/banshee-data/contact.report/internal/recording"
	"github.com/banshee-data/contact.report/internal/trace"
)

// ErrInvariant wraps a failure inside the frame loop. It always indicates a
// bug in the engine, never bad input.
var ErrInvariant = errors.New("reload invariant violated")

// Result is the output of a run.
type Result struct {
	Recording *recording.Recording
	Anchors   trace.Anchors

	// Trajectories are the inputs that took part in the run, after
	// skipping and recentering.
	Trajectories []*trace.Trajectory

	// Start and End are the first and last frame times.
	Start, End int64

	// Skipped lists the IDs (or input indexes, for unnamed entries) of
	// trajectories dropped under SkipInvalid.
	Skipped []string
}

// Engine merges trajectories into a Recording. A single Engine must not run
// concurrently with itself; separate engines are independent.
type Engine struct {
	cfg     Config
	metrics *Metrics
}

// NewEngine validates cfg and returns an engine using it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid reload config: %w", err)
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// WithMetrics makes every later Run report to m.
func (e *Engine) WithMetrics(m *Metrics) *Engine {
	e.metrics = m
	return e
}

// Run validates trajs, merges them frame by frame and returns the finished
// recording together with the anchors of every sample. No partial result
// is returned on error.
func (e *Engine) Run(trajs []*trace.Trajectory) (*Result, error) {
	res, err := e.run(trajs)
	if err != nil {
		e.metrics.observeFailure()
	}
	return res, err
}

func (e *Engine) run(trajs []*trace.Trajectory) (*Result, error) {
	started := time.Now()

	active, skipped, err := e.admit(trajs)
	if err != nil {
		return nil, err
	}
	if e.cfg.Recenter {
		active = trace.Recenter(active)
	}
	anchors := trace.ComputeAnchors(active)

	rec := recording.NewRecorder(e.cfg.ProximityThreshold)
	g := graph.New(rec)
	sched := NewScheduler(active)
	frames := &frameBuilder{g: g, mode: e.cfg.Interpolation}
	prox := &proximity{g: g, threshold: e.cfg.ProximityThreshold, index: newPairIndex(e.cfg.Index)}
	peakEdges := 0

	for {
		winner := sched.SelectNext()
		if winner == nil {
			break
		}
		cur, err := winner.Current()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvariant, err)
		}
		date := cur.Time

		g.StepBegins(date)
		if err := frames.build(date, sched.Cursors()); err != nil {
			return nil, fmt.Errorf("%w: frame %d: %w", ErrInvariant, date, err)
		}
		if err := prox.update(); err != nil {
			return nil, fmt.Errorf("%w: proximity at %d: %w", ErrInvariant, date, err)
		}
		peakEdges = max(peakEdges, g.EdgeCount())
		winner.Advance()
	}

	out := rec.Finish()
	h := out.Header()
	elapsed := time.Since(started)
	monitoring.Logf("[reload] run %s: %d trajectories (%d skipped), %d frames, %d events in %v",
		h.RunID, len(active), len(skipped), h.TotalFrames, h.TotalEvents, elapsed)
	e.observe(out, len(skipped), peakEdges, elapsed)

	return &Result{
		Recording:    out,
		Anchors:      anchors,
		Trajectories: active,
		Start:        h.Start,
		End:          h.End,
		Skipped:      skipped,
	}, nil
}

// admit applies the invalid-trajectory policy.
func (e *Engine) admit(trajs []*trace.Trajectory) ([]*trace.Trajectory, []string, error) {
	errs, err := trace.ValidateSet(trajs)
	if err != nil {
		return nil, nil, err
	}
	active := make([]*trace.Trajectory, 0, len(trajs))
	var skipped []string
	for i, t := range trajs {
		if errs[i] == nil {
			active = append(active, t)
			continue
		}
		if !e.cfg.SkipInvalid {
			return nil, nil, fmt.Errorf("trajectory %d: %w", i, errs[i])
		}
		name := fmt.Sprintf("#%d", i)
		if t != nil && t.ID != "" {
			name = t.ID
		}
		monitoring.Logf("[reload] skipping trajectory %s: %v", name, errs[i])
		skipped = append(skipped, name)
	}
	if len(active) == 0 {
		return nil, nil, fmt.Errorf("%w: all %d trajectories were invalid", trace.ErrEmptyInput, len(trajs))
	}
	return active, skipped, nil
}

func (e *Engine) observe(rec *recording.Recording, skipped, peakEdges int, elapsed time.Duration) {
	m := e.metrics
	if m == nil {
		return
	}
	m.Runs.WithLabelValues("ok").Inc()
	m.Frames.Add(float64(rec.Header().TotalFrames))
	m.Skipped.Add(float64(skipped))
	m.RunDuration.Observe(elapsed.Seconds())
	m.PeakEdges.Set(float64(peakEdges))
	for _, ev := range rec.Events() {
		m.Events.WithLabelValues(ev.Kind.String()).Inc()
	}
}
