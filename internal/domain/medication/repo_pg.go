package medication

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const medCols = `id, patient_id, name, dosage, unit, per_day, active, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dosage, &m.Unit, &m.PerDay, &m.Active,
		&m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO medications (id, patient_id, name, dosage, unit, per_day, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at`,
		m.ID, m.PatientID, m.Name, m.Dosage, m.Unit, m.PerDay, m.Active).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+medCols+` FROM medications WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Medication) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE medications SET name=$2, dosage=$3, unit=$4, per_day=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.Unit, m.PerDay, m.Active)
	return err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool, limit, offset int) ([]*Medication, int, error) {
	where := ` WHERE patient_id = $1`
	if activeOnly {
		where += ` AND active`
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medications`+where, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+medCols+` FROM medications`+where+
		` ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Medication
	for rows.Next() {
		m, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

func (r *repoPG) LogDose(ctx context.Context, d *DoseLog) error {
	d.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO dose_logs (id, medication_id, taken_at, logged_by)
		VALUES ($1,$2,$3,$4)`,
		d.ID, d.MedicationID, d.TakenAt, d.LoggedBy)
	return err
}

func (r *repoPG) CountDoses(ctx context.Context, medicationID uuid.UUID, from, to time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM dose_logs
		WHERE medication_id = $1 AND taken_at >= $2 AND taken_at < $3`,
		medicationID, from, to).Scan(&n)
	return n, err
}

func (r *repoPG) ListDoses(ctx context.Context, medicationID uuid.UUID, limit, offset int) ([]*DoseLog, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM dose_logs WHERE medication_id = $1`, medicationID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, medication_id, taken_at, logged_by FROM dose_logs
		WHERE medication_id = $1 ORDER BY taken_at DESC LIMIT $2 OFFSET $3`,
		medicationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*DoseLog
	for rows.Next() {
		var d DoseLog
		if err := rows.Scan(&d.ID, &d.MedicationID, &d.TakenAt, &d.LoggedBy); err != nil {
			return nil, 0, err
		}
		items = append(items, &d)
	}
	return items, total, nil
}
