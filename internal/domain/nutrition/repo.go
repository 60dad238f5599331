package nutrition

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	UpsertMealLog(ctx context.Context, m *MealLog) error
	GetMealLog(ctx context.Context, patientID uuid.UUID, date time.Time) (*MealLog, error)
	ListMealLogs(ctx context.Context, patientID uuid.UUID, from, to time.Time, limit, offset int) ([]*MealLog, int, error)
	// CompletedDays returns the most recent completed meal logs dated on
	// or after since, newest first, at most limit rows.
	CompletedDays(ctx context.Context, patientID uuid.UUID, since time.Time, limit int) ([]*MealLog, error)
	CreateWeightLog(ctx context.Context, w *WeightLog) error
	ListWeightLogs(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*WeightLog, int, error)
}
