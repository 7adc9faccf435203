package reload

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts engine activity. Register it on a private registry per
// command invocation; the zero Engine runs without metrics.
type Metrics struct {
	Runs        *prometheus.CounterVec
	Frames      prometheus.Counter
	Events      *prometheus.CounterVec
	Skipped     prometheus.Counter
	RunDuration prometheus.Histogram
	PeakEdges   prometheus.Gauge
}

// NewMetrics creates the engine metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact",
			Subsystem: "reload",
			Name:      "runs_total",
			Help:      "Engine runs by outcome",
		}, []string{"status"}),
		Frames: f.NewCounter(prometheus.CounterOpts{
			Namespace: "contact",
			Subsystem: "reload",
			Name:      "frames_total",
			Help:      "Frames recorded across all runs",
		}),
		Events: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "contact",
			Subsystem: "reload",
			Name:      "events_total",
			Help:      "Recorded graph events by kind",
		}, []string{"kind"}),
		Skipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: "contact",
			Subsystem: "reload",
			Name:      "skipped_trajectories_total",
			Help:      "Invalid trajectories dropped under skip_invalid",
		}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "contact",
			Subsystem: "reload",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a complete engine run",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		PeakEdges: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "contact",
			Subsystem: "reload",
			Name:      "last_run_peak_edges",
			Help:      "Largest edge count seen in a single frame of the last run",
		}),
	}
}

func (m *Metrics) observeFailure() {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues("error").Inc()
}
