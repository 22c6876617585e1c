package metrics

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/kilianp07/releaseplan/core/metrics"
	"github.com/kilianp07/releaseplan/core/selector"
)

func sampleEvent() coremetrics.RunEvent {
	return coremetrics.RunEvent{
		RunID: "run-1",
		Time:  time.Unix(1700000000, 0),
		Stats: selector.Stats{
			Candidates:  4,
			OutOfRange:  1,
			Skipped:     1,
			Selected:    2,
			Shifted:     1,
			BusyDays:    3,
			Utilization: 0.3,
		},
		Optimum: 2,
	}
}

func TestPromSink_RecordRun(t *testing.T) {
	sink, err := NewPromSinkWithRegistry("", prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordRun(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP release_plan_releases Releases in the last planning run by outcome
# TYPE release_plan_releases gauge
release_plan_releases{outcome="candidates"} 4
release_plan_releases{outcome="out_of_horizon"} 1
release_plan_releases{outcome="selected"} 2
release_plan_releases{outcome="shifted"} 1
release_plan_releases{outcome="skipped"} 1
`
	if err := testutil.CollectAndCompare(sink.releases, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if v := testutil.ToFloat64(sink.utilization); v != 0.3 {
		t.Errorf("expected utilization 0.3 got %v", v)
	}
	if v := testutil.ToFloat64(sink.optimum); v != 2 {
		t.Errorf("expected optimum 2 got %v", v)
	}
	if v := testutil.ToFloat64(sink.lastRun); v != 1700000000 {
		t.Errorf("unexpected last run %v", v)
	}

	if err := sink.RecordRun(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if v := testutil.ToFloat64(sink.runs); v != 2 {
		t.Errorf("expected 2 runs got %v", v)
	}
}

func TestPromSink_Textfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "releaseplan.prom")
	sink, err := NewPromSink(path)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if err := sink.RecordRun(context.Background(), sampleEvent()); err != nil {
		t.Fatalf("record error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	for _, want := range []string{
		"release_plan_runs_total 1",
		`release_plan_releases{outcome="selected"} 2`,
		"release_plan_fixed_optimum 2",
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("textfile missing %q:\n%s", want, data)
		}
	}
}

func TestPromSink_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry("", reg); err != nil {
		t.Fatalf("create sink: %v", err)
	}
	if _, err := NewPromSinkWithRegistry("", reg); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestRegisteredSinks(t *testing.T) {
	s, err := coremetrics.NewSink([]coremetrics.SinkConfig{{Type: "prometheus"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(*PromSink); !ok {
		t.Fatalf("expected PromSink, got %T", s)
	}
	if _, err := coremetrics.NewSink([]coremetrics.SinkConfig{{Type: "influx"}}); err == nil {
		t.Fatalf("expected error for influx sink without url")
	}
}
