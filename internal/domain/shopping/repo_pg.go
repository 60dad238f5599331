package shopping

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const itemCols = `id, account_id, name, quantity, in_stock, needed, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*ShoppingItem, error) {
	var it ShoppingItem
	err := row.Scan(&it.ID, &it.AccountID, &it.Name, &it.Quantity, &it.InStock, &it.Needed,
		&it.CreatedAt, &it.UpdatedAt)
	return &it, err
}

func (r *repoPG) Create(ctx context.Context, item *ShoppingItem) error {
	item.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO shopping_items (id, account_id, name, quantity, in_stock, needed)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		item.ID, item.AccountID, item.Name, item.Quantity, item.InStock, item.Needed).
		Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*ShoppingItem, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+itemCols+` FROM shopping_items WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, item *ShoppingItem) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE shopping_items SET name=$2, quantity=$3, in_stock=$4, needed=$5, updated_at=NOW()
		WHERE id = $1`,
		item.ID, item.Name, item.Quantity, item.InStock, item.Needed)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM shopping_items WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListByAccount(ctx context.Context, accountID uuid.UUID, neededOnly bool, limit, offset int) ([]*ShoppingItem, int, error) {
	where := ` WHERE account_id = $1`
	if neededOnly {
		where += ` AND needed`
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM shopping_items`+where, accountID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+itemCols+` FROM shopping_items`+where+
		` ORDER BY name ASC LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ShoppingItem
	for rows.Next() {
		it, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, nil
}

func (r *repoPG) InStockNames(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM shopping_items WHERE account_id = $1 AND in_stock`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, nil
}
