package nutrition

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const mealCols = `id, patient_id, date, calories_in, calories_out, completed, created_at, updated_at`

func (r *repoPG) scanMeal(row pgx.Row) (*MealLog, error) {
	var m MealLog
	err := row.Scan(&m.ID, &m.PatientID, &m.Date, &m.CaloriesIn, &m.CaloriesOut, &m.Completed,
		&m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) UpsertMealLog(ctx context.Context, m *MealLog) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO meal_logs (id, patient_id, date, calories_in, calories_out, completed)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (patient_id, date) DO UPDATE
			SET calories_in = EXCLUDED.calories_in,
			    calories_out = EXCLUDED.calories_out,
			    completed = EXCLUDED.completed,
			    updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		m.ID, m.PatientID, m.Date, m.CaloriesIn, m.CaloriesOut, m.Completed).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
}

func (r *repoPG) GetMealLog(ctx context.Context, patientID uuid.UUID, date time.Time) (*MealLog, error) {
	return r.scanMeal(r.pool.QueryRow(ctx,
		`SELECT `+mealCols+` FROM meal_logs WHERE patient_id = $1 AND date = $2`, patientID, date))
}

func (r *repoPG) ListMealLogs(ctx context.Context, patientID uuid.UUID, from, to time.Time, limit, offset int) ([]*MealLog, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM meal_logs
		WHERE patient_id = $1 AND date >= $2 AND date <= $3`,
		patientID, from, to).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+mealCols+` FROM meal_logs
		WHERE patient_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date DESC LIMIT $4 OFFSET $5`,
		patientID, from, to, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*MealLog
	for rows.Next() {
		m, err := r.scanMeal(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

func (r *repoPG) CompletedDays(ctx context.Context, patientID uuid.UUID, since time.Time, limit int) ([]*MealLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+mealCols+` FROM meal_logs
		WHERE patient_id = $1 AND completed AND date >= $2
		ORDER BY date DESC LIMIT $3`, patientID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*MealLog
	for rows.Next() {
		m, err := r.scanMeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

func (r *repoPG) CreateWeightLog(ctx context.Context, w *WeightLog) error {
	w.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO weight_logs (id, patient_id, date, weight_lbs)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at`,
		w.ID, w.PatientID, w.Date, w.WeightLbs).Scan(&w.CreatedAt)
}

func (r *repoPG) ListWeightLogs(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*WeightLog, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM weight_logs WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, date, weight_lbs, created_at FROM weight_logs
		WHERE patient_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*WeightLog
	for rows.Next() {
		var w WeightLog
		if err := rows.Scan(&w.ID, &w.PatientID, &w.Date, &w.WeightLbs, &w.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &w)
	}
	return items, total, nil
}
