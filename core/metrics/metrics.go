package metrics

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/kilianp07/releaseplan/core/selector"
)

// RunEvent describes one completed planning run.
type RunEvent struct {
	RunID   string
	Time    time.Time
	Stats   selector.Stats
	Optimum int
}

// Sink records planning runs for observability purposes.
type Sink interface {
	RecordRun(ctx context.Context, ev RunEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(context.Context, RunEvent) error { return nil }

// Close closes s when it holds resources, such as a client connection.
func Close(s Sink) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// MultiSink fans out run events to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordRun(ctx context.Context, ev RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, Close(s))
	}
	return errors.Join(errs...)
}
