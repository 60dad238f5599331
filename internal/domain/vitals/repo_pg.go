package vitals

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const vitalCols = `id, patient_id, type, value, systolic, diastolic, recorded_at, logged_at, logged_by`

func (r *repoPG) scan(row pgx.Row) (*VitalSign, error) {
	var v VitalSign
	err := row.Scan(&v.ID, &v.PatientID, &v.Type, &v.Value, &v.Systolic, &v.Diastolic,
		&v.RecordedAt, &v.LoggedAt, &v.LoggedBy)
	return &v, err
}

func (r *repoPG) Create(ctx context.Context, v *VitalSign) error {
	v.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO vital_signs (id, patient_id, type, value, systolic, diastolic, recorded_at, logged_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING logged_at`,
		v.ID, v.PatientID, v.Type, v.Value, v.Systolic, v.Diastolic, v.RecordedAt, v.LoggedBy).
		Scan(&v.LoggedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*VitalSign, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+vitalCols+` FROM vital_signs WHERE id = $1`, id))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM vital_signs WHERE id = $1`, id)
	return err
}

func (r *repoPG) ExistsForDay(ctx context.Context, patientID uuid.UUID, vitalType string, recordedAt time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM vital_signs
			WHERE patient_id = $1 AND type = $2
			  AND (recorded_at AT TIME ZONE 'UTC')::date = ($3 AT TIME ZONE 'UTC')::date
		)`, patientID, vitalType, recordedAt.UTC()).Scan(&exists)
	return exists, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, vitalType string, from, to time.Time, limit, offset int) ([]*VitalSign, int, error) {
	query := `SELECT ` + vitalCols + ` FROM vital_signs WHERE patient_id = $1`
	countQuery := `SELECT COUNT(*) FROM vital_signs WHERE patient_id = $1`
	args := []interface{}{patientID}
	idx := 2

	if vitalType != "" {
		clause := fmt.Sprintf(` AND type = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, vitalType)
		idx++
	}
	if !from.IsZero() {
		clause := fmt.Sprintf(` AND recorded_at >= $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, from)
		idx++
	}
	if !to.IsZero() {
		clause := fmt.Sprintf(` AND recorded_at <= $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, to)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY recorded_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*VitalSign
	for rows.Next() {
		v, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, nil
}
