package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/releaseplan/config"
	"github.com/kilianp07/releaseplan/core/history"
	coremetrics "github.com/kilianp07/releaseplan/core/metrics"
	coremqtt "github.com/kilianp07/releaseplan/core/mqtt"
	"github.com/kilianp07/releaseplan/core/selector"
	"github.com/kilianp07/releaseplan/infra/logger"
	_ "github.com/kilianp07/releaseplan/infra/metrics"
	"github.com/kilianp07/releaseplan/infra/mqtt"
	"github.com/kilianp07/releaseplan/infra/releasefile"
)

// Service reads candidate releases, selects the sprint plan and writes it,
// then records the run in history, metrics and MQTT.
type Service struct {
	store     history.Store
	sink      coremetrics.Sink
	publisher coremqtt.Publisher
	log       logger.Logger
	now       func() time.Time
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	store, err := history.New(cfg.History)
	if err != nil {
		return nil, fmt.Errorf("history store: %w", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	var pub coremqtt.Publisher = coremqtt.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		pub = mqtt.NewPlanPublisherWithFallback(cfg.MQTT)
	}
	return NewService(store, sink, pub, logger.New("planner")), nil
}

// NewService wires a Service from its collaborators. Nil collaborators are
// replaced by no-op implementations.
func NewService(store history.Store, sink coremetrics.Sink, pub coremqtt.Publisher, log logger.Logger) *Service {
	if store == nil {
		store = history.NopStore{}
	}
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	if pub == nil {
		pub = coremqtt.NopPublisher{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Service{store: store, sink: sink, publisher: pub, log: log, now: time.Now}
}

// Plan reads releases from input, writes the selected windows to output and
// returns the run report. Nothing is written when the input is invalid.
// Failures of history, metrics or MQTT are logged and do not fail the run.
func (s *Service) Plan(ctx context.Context, input, output string) (*Report, error) {
	rep, err := s.evaluate(input)
	if err != nil {
		return nil, err
	}
	if err := releasefile.WriteFile(output, rep.Plan.Windows); err != nil {
		return nil, err
	}
	rep.RunID = uuid.NewString()
	rep.Output = output
	s.log.Infof("selected %d of %d releases (run %s)", rep.Plan.Stats.Selected, rep.Plan.Stats.Candidates, rep.RunID)
	s.record(ctx, rep)
	return rep, nil
}

// Check reads and evaluates releases from input without writing anything.
func (s *Service) Check(_ context.Context, input string) (*Report, error) {
	return s.evaluate(input)
}

// History returns recorded runs.
func (s *Service) History(ctx context.Context, q history.RunQuery) ([]history.RunRecord, error) {
	return s.store.Query(ctx, q)
}

func (s *Service) evaluate(input string) (*Report, error) {
	releases, err := releasefile.ReadFile(input)
	if err != nil {
		var verr *releasefile.ValidationError
		if errors.As(err, &verr) {
			s.log.Errorf("invalid release file %s: %v", input, verr)
		}
		return nil, err
	}
	plan := selector.Explain(releases)
	for _, d := range plan.Decisions {
		s.log.Debugw("release decision", map[string]any{
			"day":     d.Release.Day,
			"length":  d.Release.Length,
			"outcome": d.Outcome.String(),
		})
	}
	opt, err := selector.FixedOptimum(releases)
	if err != nil {
		s.log.Warnf("fixed optimum: %v", err)
		opt = -1
	}
	return &Report{
		Input:     input,
		Timestamp: s.now(),
		Plan:      plan,
		Optimum:   opt,
	}, nil
}

func (s *Service) record(ctx context.Context, rep *Report) {
	rec := history.RunRecord{
		ID:         rep.RunID,
		Timestamp:  rep.Timestamp,
		Input:      rep.Input,
		Output:     rep.Output,
		Candidates: rep.Plan.Stats.Candidates,
		Selected:   rep.Plan.Stats.Selected,
		Windows:    rep.Plan.Windows,
	}
	if err := s.store.Append(ctx, rec); err != nil {
		s.log.Errorf("history append: %v", err)
	}
	ev := coremetrics.RunEvent{RunID: rep.RunID, Time: rep.Timestamp, Stats: rep.Plan.Stats, Optimum: rep.Optimum}
	if err := s.sink.RecordRun(ctx, ev); err != nil {
		s.log.Errorf("metrics: %v", err)
	}
	ann := coremqtt.Announcement{RunID: rep.RunID, Windows: rep.Plan.Windows, Timestamp: rep.Timestamp}
	if err := s.publisher.PublishPlan(ctx, ann); err != nil {
		s.log.Errorf("publish plan: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	return errors.Join(s.publisher.Close(), coremetrics.Close(s.sink), s.store.Close())
}
