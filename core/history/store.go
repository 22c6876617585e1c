package history

import (
	"context"
	"slices"
	"time"

	"github.com/kilianp07/releaseplan/core/model"
)

// RunRecord captures one planning run.
type RunRecord struct {
	ID         string         `json:"id"`
	Timestamp  time.Time      `json:"timestamp"`
	Input      string         `json:"input"`
	Output     string         `json:"output"`
	Candidates int            `json:"candidates"`
	Selected   int            `json:"selected"`
	Windows    []model.Window `json:"windows"`
}

// RunQuery filters records. Zero values disable a filter. Limit keeps the
// most recent records.
type RunQuery struct {
	Start time.Time
	End   time.Time
	Limit int
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

func (q RunQuery) match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	return true
}

// finish sorts records by time and applies the limit.
func (q RunQuery) finish(res []RunRecord) []RunRecord {
	slices.SortStableFunc(res, func(a, b RunRecord) int { return a.Timestamp.Compare(b.Timestamp) })
	if q.Limit > 0 && len(res) > q.Limit {
		res = res[len(res)-q.Limit:]
	}
	return res
}

// NopStore discards records.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error { return nil }
func (NopStore) Query(context.Context, RunQuery) ([]RunRecord, error) {
	return nil, nil
}
func (NopStore) Close() error { return nil }
