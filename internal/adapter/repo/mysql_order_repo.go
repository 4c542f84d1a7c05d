package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

var ErrNotFound = errors.New("not found")

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) Create(ctx context.Context, o *usecase.OrderRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO orders (id,user_id,status,metal,subtotal,tax,total,total_units,total_weight_g,items_json,idempotency_key,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())
`, o.ID, o.UserID, o.Status, o.Metal, o.Subtotal, o.Tax, o.Total, o.TotalUnits, o.TotalWeightGrams, o.ItemsJSON, o.IdempotencyKey)
	return err
}

func (r *MySQLOrderRepo) GetByID(ctx context.Context, id string) (*usecase.OrderRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id,user_id,status,metal,subtotal,tax,total,total_units,total_weight_g,items_json,idempotency_key
FROM orders WHERE id=?`, id)
	var rec usecase.OrderRecord
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.Status, &rec.Metal, &rec.Subtotal, &rec.Tax,
		&rec.Total, &rec.TotalUnits, &rec.TotalWeightGrams, &rec.ItemsJSON, &rec.IdempotencyKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *MySQLOrderRepo) UpdateStatus(ctx context.Context, id, toStatus string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, updated_at = NOW()
        WHERE id = ?`,
		toStatus, id,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, id string, fromStatus, toStatus string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, updated_at = NOW()
        WHERE id = ? AND status = ?`,
		toStatus, id, fromStatus,
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// rows == 0 → nothing matched (either not found or status mismatch)
	return rows > 0, nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
