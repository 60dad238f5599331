package insights

import (
	"context"
	"strings"
	"time"

	"github.com/wellnest/wellnest/internal/platform/httpx"
)

const (
	// windowDays is the trailing window the engagement analysis covers.
	windowDays = 30
	// minEvents below which the analysis reports insufficient data.
	minEvents = 5
	// cooldown is the minimum gap between analyses per subject. The
	// cooldown row lives in Postgres so it holds across restarts and
	// across instances.
	cooldown = 24 * time.Hour
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Track records an activity event for the caller.
func (s *Service) Track(ctx context.Context, subject, eventType string) error {
	if subject == "" {
		return httpx.Unauthorized("missing caller identity")
	}
	if strings.TrimSpace(eventType) == "" {
		return httpx.Invalid("event_type is required", map[string]string{"event_type": "required"})
	}
	e := &ActivityEvent{Subject: subject, EventType: eventType, OccurredAt: s.now()}
	if err := s.repo.RecordEvent(ctx, e); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

// Analyze computes the caller's engagement over the trailing 30 days. A
// repeat call inside the cooldown is rejected with a conflict carrying
// the time the next analysis unlocks.
func (s *Service) Analyze(ctx context.Context, subject string) (*Engagement, error) {
	if subject == "" {
		return nil, httpx.Unauthorized("missing caller identity")
	}

	last, err := s.repo.LastAnalyzedAt(ctx, subject)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	now := s.now()
	if !last.IsZero() && now.Sub(last) < cooldown {
		next := last.Add(cooldown)
		return nil, httpx.Duplicate("analysis available again at " + next.Format(time.RFC3339))
	}

	events, err := s.repo.EventsSince(ctx, subject, now.AddDate(0, 0, -windowDays))
	if err != nil {
		return nil, httpx.Internal(err)
	}

	eng := &Engagement{Subject: subject, WindowDays: windowDays, EventCount: len(events)}
	if len(events) > 0 {
		at := events[0].OccurredAt
		eng.LastEventAt = &at
	}
	days := map[string]bool{}
	for _, e := range events {
		days[e.OccurredAt.UTC().Format("2006-01-02")] = true
	}
	eng.ActiveDays = len(days)
	eng.ChurnBucket = bucketFor(eng, now)

	if err := s.repo.MarkAnalyzed(ctx, subject, now); err != nil {
		return nil, httpx.Internal(err)
	}
	next := now.Add(cooldown)
	eng.NextAnalysisAt = &next
	return eng, nil
}

// bucketFor assigns a churn bucket. Under five events there is no basis
// for a call, so the sentinel wins regardless of recency.
func bucketFor(e *Engagement, now time.Time) string {
	if e.EventCount < minEvents {
		return BucketInsufficientData
	}
	idle := now.Sub(*e.LastEventAt)
	switch {
	case idle <= 72*time.Hour && e.ActiveDays >= 8:
		return BucketEngaged
	case idle <= 14*24*time.Hour:
		return BucketAtRisk
	default:
		return BucketLikelyChurn
	}
}
