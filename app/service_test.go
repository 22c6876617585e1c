package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/releaseplan/config"
	"github.com/kilianp07/releaseplan/core/history"
	coremetrics "github.com/kilianp07/releaseplan/core/metrics"
	"github.com/kilianp07/releaseplan/core/model"
	coremqtt "github.com/kilianp07/releaseplan/core/mqtt"
	"github.com/kilianp07/releaseplan/infra/releasefile"
)

type memStore struct {
	recs []history.RunRecord
	err  error
}

func (m *memStore) Append(_ context.Context, r history.RunRecord) error {
	if m.err != nil {
		return m.err
	}
	m.recs = append(m.recs, r)
	return nil
}
func (m *memStore) Query(context.Context, history.RunQuery) ([]history.RunRecord, error) {
	return m.recs, nil
}
func (m *memStore) Close() error { return nil }

type fakeSink struct {
	events []coremetrics.RunEvent
	err    error
	closed bool
}

func (f *fakeSink) Close() error { f.closed = true; return nil }

func (f *fakeSink) RecordRun(_ context.Context, ev coremetrics.RunEvent) error {
	f.events = append(f.events, ev)
	return f.err
}

type fakePublisher struct {
	anns   []coremqtt.Announcement
	err    error
	closed bool
}

func (f *fakePublisher) PublishPlan(_ context.Context, a coremqtt.Announcement) error {
	f.anns = append(f.anns, a)
	return f.err
}
func (f *fakePublisher) Close() error { f.closed = true; return nil }

func writeInput(t *testing.T, content string) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "releases.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return dir, path
}

func TestServicePlan(t *testing.T) {
	dir, in := writeInput(t, "1 3\n4 2\n7 4\n")
	out := filepath.Join(dir, "solution.txt")
	store, sink, pub := &memStore{}, &fakeSink{}, &fakePublisher{}
	svc := NewService(store, sink, pub, nil)
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	rep, err := svc.Plan(context.Background(), in, out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "3\n1 3\n4 5\n7 10", string(data))

	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, 3, rep.Optimum)
	assert.Equal(t, 3, rep.Plan.Stats.Selected)

	require.Len(t, store.recs, 1)
	rec := store.recs[0]
	assert.Equal(t, rep.RunID, rec.ID)
	assert.Equal(t, in, rec.Input)
	assert.Equal(t, out, rec.Output)
	assert.Equal(t, now, rec.Timestamp)
	assert.Equal(t, 3, rec.Candidates)

	require.Len(t, sink.events, 1)
	assert.Equal(t, rep.RunID, sink.events[0].RunID)
	assert.Equal(t, 3, sink.events[0].Optimum)

	require.Len(t, pub.anns, 1)
	assert.Equal(t, []model.Window{{Start: 1, End: 3}, {Start: 4, End: 5}, {Start: 7, End: 10}}, pub.anns[0].Windows)

	require.NoError(t, svc.Close())
	assert.True(t, pub.closed)
}

func TestServicePlanValidationErrorWritesNothing(t *testing.T) {
	dir, in := writeInput(t, "1 3\n4 12\n")
	out := filepath.Join(dir, "solution.txt")
	store := &memStore{}
	svc := NewService(store, nil, nil, nil)

	_, err := svc.Plan(context.Background(), in, out)
	var verr *releasefile.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 1, verr.Line)
	_, statErr := os.Stat(out)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
	assert.Empty(t, store.recs)
}

func TestServicePlanMissingInput(t *testing.T) {
	svc := NewService(nil, nil, nil, nil)
	_, err := svc.Plan(context.Background(), filepath.Join(t.TempDir(), "nope.txt"), "out.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestServicePlanSinkFailuresIgnored(t *testing.T) {
	dir, in := writeInput(t, "1 10\n2 1\n")
	out := filepath.Join(dir, "solution.txt")
	boom := errors.New("boom")
	svc := NewService(&memStore{err: boom}, &fakeSink{err: boom}, &fakePublisher{err: boom}, nil)

	rep, err := svc.Plan(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, []model.Window{{Start: 2, End: 2}}, rep.Plan.Windows)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "1\n2 2", string(data))
}

func TestServiceCheck(t *testing.T) {
	dir, in := writeInput(t, "1 5\n1 5\n6 1\n7 1\n9 5\n")
	store := &memStore{}
	svc := NewService(store, nil, nil, nil)

	rep, err := svc.Check(context.Background(), in)
	require.NoError(t, err)
	assert.Empty(t, rep.RunID)
	assert.Equal(t, 2, rep.Plan.Stats.Selected)
	assert.Equal(t, 1, rep.Plan.Stats.OutOfRange)
	assert.Equal(t, 3, rep.Optimum)
	assert.Empty(t, store.recs)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestServiceHistory(t *testing.T) {
	dir, in := writeInput(t, "1 1\n")
	store, err := history.NewSQLiteStore(filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	svc := NewService(store, nil, nil, nil)
	defer func() { assert.NoError(t, svc.Close()) }()

	for i := 0; i < 2; i++ {
		_, err := svc.Plan(context.Background(), in, filepath.Join(dir, "solution.txt"))
		require.NoError(t, err)
	}
	recs, err := svc.History(context.Background(), history.RunQuery{})
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	assert.NotEqual(t, recs[0].ID, recs[1].ID)
}

func TestNewFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{
		History: history.Config{Backend: "jsonl", Path: filepath.Join(dir, "runs.jsonl")},
		Metrics: coremetrics.Config{Sinks: []coremetrics.SinkConfig{{Type: "prometheus", Path: filepath.Join(dir, "rp.prom")}}},
	}
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	_, in := writeInput(t, "1 3\n")
	_, err = svc.Plan(context.Background(), in, filepath.Join(dir, "solution.txt"))
	require.NoError(t, err)

	prom, err := os.ReadFile(filepath.Join(dir, "rp.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "release_plan_runs_total 1")

	recs, err := svc.History(context.Background(), history.RunQuery{})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestNewWithUnreachableBroker(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.MQTT.Broker = "tcp://127.0.0.1:1"
	cfg.MQTT.SetDefaults()
	svc, err := New(cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, svc.Close()) }()

	_, in := writeInput(t, "1 3\n4 2\n")
	out := filepath.Join(dir, "solution.txt")
	_, err = svc.Plan(context.Background(), in, out)
	require.NoError(t, err)
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "2\n1 3\n4 5", string(got))
}

func TestServiceCloseClosesSink(t *testing.T) {
	sink, pub := &fakeSink{}, &fakePublisher{}
	svc := NewService(&memStore{}, sink, pub, nil)
	require.NoError(t, svc.Close())
	assert.True(t, sink.closed)
	assert.True(t, pub.closed)
}

func TestNewFromConfigErrors(t *testing.T) {
	_, err := New(&config.Config{History: history.Config{Backend: "csv"}})
	assert.Error(t, err)
	_, err = New(&config.Config{Metrics: coremetrics.Config{Sinks: []coremetrics.SinkConfig{{Type: "missing"}}}})
	assert.Error(t, err)
}

func TestReportRender(t *testing.T) {
	_, in := writeInput(t, "2 1\n1 10\n")
	svc := NewService(nil, nil, nil, nil)
	rep, err := svc.Check(context.Background(), in)
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, rep.Render(&text, "text"))
	assert.Contains(t, text.String(), "selected: 1 (shifted 0)")
	assert.Contains(t, text.String(), "fixed-day optimum: 1")
	assert.Contains(t, text.String(), "  2 2\n")

	var js bytes.Buffer
	require.NoError(t, rep.Render(&js, "json"))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.EqualValues(t, 1, decoded["fixed_optimum"])
	assert.Contains(t, js.String(), `"outcome": "skipped"`)

	var ym bytes.Buffer
	require.NoError(t, rep.Render(&ym, "yaml"))
	var ydecoded map[string]any
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &ydecoded))
	assert.Equal(t, 1, ydecoded["fixed_optimum"])
	assert.True(t, strings.Contains(ym.String(), "outcome: placed"))

	assert.Error(t, rep.Render(&bytes.Buffer{}, "xml"))
}
