package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/banshee-data/contact.report/internal/config"
	"github.com/banshee-data/contact.report/internal/graph"
	"github.com/banshee-data/contact.report/internal/playback"
	"github.com/banshee-data/contact.report/internal/reload"
	"github.com/banshee-data/contact.report/internal/report"
	"github.com/banshee-data/contact.report/internal/trace"
)

type runOptions struct {
	importPath string

	threshold     float64
	index         string
	interpolation string
	skipInvalid   bool
	recenter      bool

	timelinePath string
	plotPath     string
	metricsPath  string
	play         bool
	frameDelay   time.Duration
	loop         bool
}

func newRunCmd(g *globals) *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Merge trajectories and print the contact summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReload(cmd, g, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.importPath, "import", "", "JSON trajectory file to load (stored into --db when given)")
	f.Float64Var(&o.threshold, "threshold", 5.0, "Contact distance threshold")
	f.StringVar(&o.index, "index", string(reload.IndexPairwise), "Spatial index: pairwise or kdtree")
	f.StringVar(&o.interpolation, "interpolation", string(reload.InterpolateStraddle), "Interpolation: straddle or forward")
	f.BoolVar(&o.skipInvalid, "skip-invalid", false, "Skip invalid trajectories instead of failing")
	f.BoolVar(&o.recenter, "recenter", false, "Shift positions so the mean sample is at the origin")
	f.StringVar(&o.timelinePath, "timeline", "", "Write an HTML contact timeline to this path")
	f.StringVar(&o.plotPath, "plot", "", "Write a trajectory plot (PNG) to this path")
	f.StringVar(&o.metricsPath, "metrics-out", "", "Write run metrics in Prometheus text format to this path")
	f.BoolVar(&o.play, "play", false, "Print the recording as paced playback")
	f.DurationVar(&o.frameDelay, "frame-delay", playback.DefaultFrameDelay, "Pause between frames during playback")
	f.BoolVar(&o.loop, "loop", false, "Loop playback until interrupted")
	return cmd
}

// engineConfig layers explicitly set flags over the tuning file.
func engineConfig(cmd *cobra.Command, o *runOptions, tuning *config.TuningConfig) reload.Config {
	cfg := reload.ConfigFromTuning(tuning)
	f := cmd.Flags()
	if f.Changed("threshold") {
		cfg.ProximityThreshold = o.threshold
	}
	if f.Changed("index") {
		cfg.Index = reload.IndexKind(o.index)
	}
	if f.Changed("interpolation") {
		cfg.Interpolation = reload.Interpolation(o.interpolation)
	}
	if f.Changed("skip-invalid") {
		cfg.SkipInvalid = o.skipInvalid
	}
	if f.Changed("recenter") {
		cfg.Recenter = o.recenter
	}
	return cfg
}

func loadTrajectories(ctx context.Context, g *globals, o *runOptions) ([]*trace.Trajectory, error) {
	var imported []*trace.Trajectory
	if o.importPath != "" {
		var err error
		if imported, err = readJSONFile(o.importPath); err != nil {
			return nil, err
		}
	}
	if g.dbPath == "" {
		if o.importPath == "" {
			return nil, errors.New("one of --db or --import is required")
		}
		return imported, nil
	}

	store, err := g.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	for _, t := range imported {
		if err := store.InsertTrajectory(ctx, t); err != nil {
			return nil, err
		}
	}
	if len(imported) > 0 {
		log.Printf("Imported %d trajectories into %s", len(imported), g.dbPath)
	}
	return store.LoadTrajectories(ctx)
}

func runReload(cmd *cobra.Command, g *globals, o *runOptions) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()

	tuning, err := g.tuning()
	if err != nil {
		return err
	}
	engine, err := reload.NewEngine(engineConfig(cmd, o, tuning))
	if err != nil {
		return err
	}
	var reg *prometheus.Registry
	if o.metricsPath != "" {
		reg = prometheus.NewRegistry()
		engine.WithMetrics(reload.NewMetrics(reg))
	}

	trajs, err := loadTrajectories(ctx, g, o)
	if err != nil {
		return err
	}
	res, err := engine.Run(trajs)
	if reg != nil {
		if werr := prometheus.WriteToTextfile(o.metricsPath, reg); werr != nil {
			return errors.Join(err, werr)
		}
	}
	if err != nil {
		return err
	}

	sum, err := report.Summarize(res.Recording)
	if err != nil {
		return err
	}
	printSummary(stdout, res, sum)

	if o.timelinePath != "" {
		if err := writeFile(o.timelinePath, func(w io.Writer) error { return report.WriteTimeline(w, sum) }); err != nil {
			return err
		}
		log.Printf("Wrote timeline to %s", o.timelinePath)
	}
	if o.plotPath != "" {
		if err := report.PlotTrajectories(o.plotPath, res.Trajectories, res.Anchors); err != nil {
			return err
		}
		log.Printf("Wrote plot to %s", o.plotPath)
	}

	if !o.play {
		return nil
	}
	p := &playback.Player{FrameDelay: tuning.GetFrameDelay(), Loop: tuning.GetLoop()}
	if cmd.Flags().Changed("frame-delay") {
		p.FrameDelay = o.frameDelay
	}
	if cmd.Flags().Changed("loop") {
		p.Loop = o.loop
	}
	sink := graph.SinkFunc(func(e graph.Event) { fmt.Fprintln(stdout, e) })
	if _, err := p.Play(ctx, res.Recording, sink); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printSummary(w io.Writer, res *reload.Result, s *report.Summary) {
	h := res.Recording.Header()
	fmt.Fprintf(w, "run %s\n", h.RunID)
	fmt.Fprintf(w, "trajectories: %d (skipped %d)\n", len(res.Trajectories), len(res.Skipped))
	fmt.Fprintf(w, "frames: %d  events: %d  time: %d..%d\n", h.TotalFrames, h.TotalEvents, res.Start, res.End)
	fmt.Fprintf(w, "anchors: (%g, %g) - (%g, %g)\n", res.Anchors.Min.X, res.Anchors.Min.Y, res.Anchors.Max.X, res.Anchors.Max.Y)
	fmt.Fprintf(w, "peak nodes: %d  peak edges: %d  contacts: %d\n", s.PeakNodes, s.PeakEdges, len(s.Contacts))
	for _, c := range s.Contacts {
		fmt.Fprintf(w, "  %s\t%d..%d\tframes=%d\tepisodes=%d\tmin=%.3f\n", c.ID, c.First, c.Last, c.Frames, c.Episodes, c.MinDistance)
	}
}
