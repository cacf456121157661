package webhook

import (
	"context"
	"time"
)

type EventRepository interface {
	// CreateIfNotExists stores ev unless (provider, event id) is already known
	// and returns the stored receipt either way.
	CreateIfNotExists(ctx context.Context, ev *Event) (created bool, stored *Event, err error)

	// MarkProcessed records the outcome of one processing attempt.
	MarkProcessed(ctx context.Context, id uint, at time.Time, outcome Outcome, processingError string) error
}
