package mqtt

import (
	"context"
	"time"

	"github.com/kilianp07/releaseplan/core/model"
)

// Announcement is the message published when a sprint plan is written.
type Announcement struct {
	MessageID string         `json:"message_id"`
	RunID     string         `json:"run_id"`
	Windows   []model.Window `json:"windows"`
	Timestamp time.Time      `json:"timestamp"`
}

// Publisher announces computed plans to subscribers.
type Publisher interface {
	PublishPlan(ctx context.Context, a Announcement) error
	Close() error
}

// NopPublisher discards announcements.
type NopPublisher struct{}

func (NopPublisher) PublishPlan(context.Context, Announcement) error { return nil }
func (NopPublisher) Close() error                                    { return nil }
