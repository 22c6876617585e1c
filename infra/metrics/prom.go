package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/releaseplan/core/metrics"
)

// PromSink records planning runs in Prometheus metrics. The planner is a
// batch job, so metrics are written to a textfile for the node_exporter
// textfile collector instead of being served over HTTP.
type PromSink struct {
	reg         *prometheus.Registry
	path        string
	runs        prometheus.Counter
	releases    *prometheus.GaugeVec
	utilization prometheus.Gauge
	optimum     prometheus.Gauge
	lastRun     prometheus.Gauge
}

// NewPromSink creates a sink on a dedicated registry writing to path. An
// empty path keeps metrics in memory only.
func NewPromSink(path string) (*PromSink, error) {
	return NewPromSinkWithRegistry(path, prometheus.NewRegistry())
}

// NewPromSinkWithRegistry registers metrics on the provided registry.
func NewPromSinkWithRegistry(path string, reg *prometheus.Registry) (*PromSink, error) {
	s := &PromSink{
		reg:  reg,
		path: path,
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "release_plan_runs_total",
			Help: "Total number of planning runs",
		}),
		releases: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "release_plan_releases",
			Help: "Releases in the last planning run by outcome",
		}, []string{"outcome"}),
		utilization: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "release_plan_utilization_ratio",
			Help: "Share of sprint days covered by selected releases",
		}),
		optimum: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "release_plan_fixed_optimum",
			Help: "Best release count when no release is moved from its requested day",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "release_plan_last_run_timestamp_seconds",
			Help: "Unix time of the last planning run",
		}),
	}
	for _, c := range []prometheus.Collector{s.runs, s.releases, s.utilization, s.optimum, s.lastRun} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RecordRun updates the gauges and rewrites the textfile.
func (s *PromSink) RecordRun(_ context.Context, ev coremetrics.RunEvent) error {
	st := ev.Stats
	s.runs.Inc()
	s.releases.WithLabelValues("candidates").Set(float64(st.Candidates))
	s.releases.WithLabelValues("selected").Set(float64(st.Selected))
	s.releases.WithLabelValues("shifted").Set(float64(st.Shifted))
	s.releases.WithLabelValues("skipped").Set(float64(st.Skipped))
	s.releases.WithLabelValues("out_of_horizon").Set(float64(st.OutOfRange))
	s.utilization.Set(st.Utilization)
	s.optimum.Set(float64(ev.Optimum))
	s.lastRun.Set(float64(ev.Time.Unix()))
	if s.path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(s.path, s.reg)
}
