package recipes

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const recipeCols = `id, account_id, name, ingredients, instructions, calories, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Recipe, error) {
	var rec Recipe
	var ingredients []byte
	err := row.Scan(&rec.ID, &rec.AccountID, &rec.Name, &ingredients, &rec.Instructions,
		&rec.Calories, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ingredients, &rec.Ingredients); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *repoPG) Create(ctx context.Context, rec *Recipe) error {
	rec.ID = uuid.New()
	ingredients, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO recipes (id, account_id, name, ingredients, instructions, calories)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		rec.ID, rec.AccountID, rec.Name, ingredients, rec.Instructions, rec.Calories).
		Scan(&rec.CreatedAt, &rec.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Recipe, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+recipeCols+` FROM recipes WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, rec *Recipe) error {
	ingredients, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		UPDATE recipes SET name=$2, ingredients=$3, instructions=$4, calories=$5, updated_at=NOW()
		WHERE id = $1`,
		rec.ID, rec.Name, ingredients, rec.Instructions, rec.Calories)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Recipe, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM recipes WHERE account_id = $1`, accountID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+recipeCols+` FROM recipes
		WHERE account_id = $1
		ORDER BY name ASC LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Recipe
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, nil
}
