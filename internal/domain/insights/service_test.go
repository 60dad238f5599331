package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wellnest/wellnest/internal/platform/httpx"
)

type mockRepo struct {
	events   []*ActivityEvent
	analyzed map[string]time.Time
}

func newMockRepo() *mockRepo { return &mockRepo{analyzed: map[string]time.Time{}} }

func (m *mockRepo) RecordEvent(ctx context.Context, e *ActivityEvent) error {
	e.ID = uuid.New()
	m.events = append(m.events, e)
	return nil
}

func (m *mockRepo) EventsSince(ctx context.Context, subject string, since time.Time) ([]*ActivityEvent, error) {
	var items []*ActivityEvent
	for _, e := range m.events {
		if e.Subject == subject && !e.OccurredAt.Before(since) {
			items = append(items, e)
		}
	}
	// newest first
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

func (m *mockRepo) LastAnalyzedAt(ctx context.Context, subject string) (time.Time, error) {
	return m.analyzed[subject], nil
}

func (m *mockRepo) MarkAnalyzed(ctx context.Context, subject string, at time.Time) error {
	m.analyzed[subject] = at
	return nil
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *httpx.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *httpx.Error, got %T: %v", err, err)
	}
	return appErr.Status
}

func fixedService(repo *mockRepo, now time.Time) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

func addEvents(repo *mockRepo, subject string, times ...time.Time) {
	for _, at := range times {
		repo.events = append(repo.events, &ActivityEvent{
			ID: uuid.New(), Subject: subject, EventType: "vital_logged", OccurredAt: at,
		})
	}
}

func TestAnalyzeInsufficientData(t *testing.T) {
	repo := newMockRepo()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := fixedService(repo, now)

	addEvents(repo, "alice", now.Add(-time.Hour), now.Add(-2*time.Hour), now.Add(-3*time.Hour))

	eng, err := svc.Analyze(context.Background(), "alice")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if eng.ChurnBucket != BucketInsufficientData {
		t.Errorf("bucket = %q, want insufficient-data", eng.ChurnBucket)
	}
	if eng.EventCount != 3 {
		t.Errorf("EventCount = %d, want 3", eng.EventCount)
	}
}

func TestAnalyzeBuckets(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("engaged", func(t *testing.T) {
		repo := newMockRepo()
		svc := fixedService(repo, now)
		// events on 10 distinct recent days
		for d := 1; d <= 10; d++ {
			addEvents(repo, "alice", now.AddDate(0, 0, -d))
		}
		eng, err := svc.Analyze(context.Background(), "alice")
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if eng.ChurnBucket != BucketEngaged {
			t.Errorf("bucket = %q, want engaged", eng.ChurnBucket)
		}
	})

	t.Run("at-risk", func(t *testing.T) {
		repo := newMockRepo()
		svc := fixedService(repo, now)
		// enough events but the last one is a week old
		for d := 7; d <= 12; d++ {
			addEvents(repo, "alice", now.AddDate(0, 0, -d))
		}
		eng, err := svc.Analyze(context.Background(), "alice")
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if eng.ChurnBucket != BucketAtRisk {
			t.Errorf("bucket = %q, want at-risk", eng.ChurnBucket)
		}
	})

	t.Run("likely-churn", func(t *testing.T) {
		repo := newMockRepo()
		svc := fixedService(repo, now)
		for d := 20; d <= 26; d++ {
			addEvents(repo, "alice", now.AddDate(0, 0, -d))
		}
		eng, err := svc.Analyze(context.Background(), "alice")
		if err != nil {
			t.Fatalf("Analyze: %v", err)
		}
		if eng.ChurnBucket != BucketLikelyChurn {
			t.Errorf("bucket = %q, want likely-churn", eng.ChurnBucket)
		}
	})
}

func TestAnalyzeCooldownIsDurable(t *testing.T) {
	repo := newMockRepo()
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := fixedService(repo, now)
	addEvents(repo, "alice", now.Add(-time.Hour))

	if _, err := svc.Analyze(context.Background(), "alice"); err != nil {
		t.Fatalf("first analysis: %v", err)
	}

	// a fresh service over the same repo still honors the cooldown
	svc2 := fixedService(repo, now.Add(time.Hour))
	if _, err := svc2.Analyze(context.Background(), "alice"); statusOf(t, err) != 409 {
		t.Errorf("inside cooldown: expected 409, got %v", err)
	}

	// past the cooldown the analysis unlocks
	svc3 := fixedService(repo, now.Add(25*time.Hour))
	if _, err := svc3.Analyze(context.Background(), "alice"); err != nil {
		t.Errorf("after cooldown: %v", err)
	}
}

func TestTrackValidation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if err := svc.Track(ctx, "", "login"); statusOf(t, err) != 401 {
		t.Error("missing subject: expected 401")
	}
	if err := svc.Track(ctx, "alice", " "); statusOf(t, err) != 400 {
		t.Error("empty event type: expected 400")
	}
	if err := svc.Track(ctx, "alice", "login"); err != nil {
		t.Errorf("valid event: %v", err)
	}
}
