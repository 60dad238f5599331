package insights

import (
	"time"

	"github.com/google/uuid"
)

// ActivityEvent is one recorded user action (login, vital logged, meal
// logged). The engagement analysis counts these over a trailing window.
type ActivityEvent struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Subject    string    `db:"subject" json:"subject"`
	EventType  string    `db:"event_type" json:"event_type"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

// Churn buckets.
const (
	BucketInsufficientData = "insufficient-data"
	BucketEngaged          = "engaged"
	BucketAtRisk           = "at-risk"
	BucketLikelyChurn      = "likely-churn"
)

// Engagement summarizes a subject's activity over the analysis window.
type Engagement struct {
	Subject        string     `json:"subject"`
	WindowDays     int        `json:"window_days"`
	EventCount     int        `json:"event_count"`
	ActiveDays     int        `json:"active_days"`
	LastEventAt    *time.Time `json:"last_event_at,omitempty"`
	ChurnBucket    string     `json:"churn_bucket"`
	NextAnalysisAt *time.Time `json:"next_analysis_at,omitempty"`
}
