package insights

import (
	"context"
	"time"
)

type Repository interface {
	RecordEvent(ctx context.Context, e *ActivityEvent) error
	// EventsSince returns the subject's events newer than the cutoff,
	// newest first.
	EventsSince(ctx context.Context, subject string, since time.Time) ([]*ActivityEvent, error)
	// LastAnalyzedAt returns the zero time when the subject was never
	// analyzed.
	LastAnalyzedAt(ctx context.Context, subject string) (time.Time, error)
	MarkAnalyzed(ctx context.Context, subject string, at time.Time) error
}
