package metrics

import (
	"fmt"
	"time"

	"github.com/dgallion1/awaketiger/internal/scan"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the counters of one batch run.
type Recorder struct {
	registry   *prometheus.Registry
	blocks     prometheus.Counter
	candidates *prometheus.CounterVec
	rows       prometheus.Counter
	lastRun    prometheus.Gauge
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		blocks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "awaketiger_blocks_total",
			Help: "Disclosure message blocks found in the input document.",
		}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "awaketiger_candidates_total",
			Help: "Disclosure blocks by screening outcome.",
		}, []string{"outcome"}),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "awaketiger_rows_total",
			Help: "Rows written to the report table.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "awaketiger_last_run_timestamp_seconds",
			Help: "Unix time of the last completed scan.",
		}),
	}
	r.registry.MustRegister(r.blocks, r.candidates, r.rows, r.lastRun)
	return r
}

// Observe records a finished scan.
func (r *Recorder) Observe(res scan.Result, now time.Time) {
	r.blocks.Add(float64(res.Blocks))
	for outcome, n := range res.Outcomes {
		r.candidates.WithLabelValues(string(outcome)).Add(float64(n))
	}
	r.rows.Add(float64(len(res.Matches)))
	r.lastRun.Set(float64(now.Unix()))
}

// Registry exposes the underlying registry for inspection.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the metrics in the node_exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
