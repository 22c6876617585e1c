package scenarios

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/releaseplan/app"
	"github.com/kilianp07/releaseplan/core/history"
	"github.com/kilianp07/releaseplan/core/model"
	"github.com/kilianp07/releaseplan/infra/logger"
	"github.com/kilianp07/releaseplan/infra/metrics"
	"github.com/kilianp07/releaseplan/infra/releasefile"
)

// RunScenario plans the scenario releases through the full service and
// checks the written solution, the history record and the metrics.
func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "releases.txt")
	out := filepath.Join(dir, "solution.txt")
	if err := os.WriteFile(in, []byte(sc.Releases), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry("", reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	store, err := history.NewRotatingJSONLStore(filepath.Join(dir, "runs.jsonl"), 0, 0, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	svc := app.NewService(store, sink, nil, logger.NopLogger{})
	defer func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	}()

	rep, err := svc.Plan(context.Background(), in, out)
	if sc.Expected.Error != "" {
		if err == nil || !strings.Contains(err.Error(), sc.Expected.Error) {
			t.Fatalf("expected error containing %q, got %v", sc.Expected.Error, err)
		}
		if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
			t.Fatalf("solution written despite error")
		}
		return
	}
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	var want strings.Builder
	if err := releasefile.Format(&want, toModel(sc.Expected.Windows)); err != nil {
		t.Fatalf("format: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read solution: %v", err)
	}
	if string(got) != want.String() {
		t.Fatalf("solution mismatch:\n got: %q\nwant: %q", got, want.String())
	}
	if rep.Plan.Stats.Shifted != sc.Expected.Shifted {
		t.Errorf("expected %d shifted releases, got %d", sc.Expected.Shifted, rep.Plan.Stats.Shifted)
	}

	recs, err := svc.History(context.Background(), history.RunQuery{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recs) != 1 || recs[0].Selected != len(sc.Expected.Windows) {
		t.Fatalf("unexpected history %+v", recs)
	}

	expected := `
# HELP release_plan_runs_total Total number of planning runs
# TYPE release_plan_runs_total counter
release_plan_runs_total 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "release_plan_runs_total"); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func toModel(defs []WindowDef) []model.Window {
	res := make([]model.Window, len(defs))
	for i, d := range defs {
		res[i] = d.ToModel()
	}
	return res
}
