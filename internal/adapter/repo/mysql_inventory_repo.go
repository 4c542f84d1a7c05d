package repo

import (
	"context"
	"database/sql"

	domain "github.com/ATjewellers01/zold-cart-api/internal/entity"
	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type MySQLInventoryRepo struct{ db *sql.DB }

func NewMySQLInventoryRepo(db *sql.DB) *MySQLInventoryRepo { return &MySQLInventoryRepo{db: db} }

// ShopStock returns sellable units per denomination for the shop's own mint
// bar inventory.
func (r *MySQLInventoryRepo) ShopStock(ctx context.Context, metal domain.Metal) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT denomination_g, quantity FROM shop_inventory WHERE metal=?`, string(metal))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCounts(rows)
}

// CoinBalances returns the coins a user holds, per denomination; drives the
// gift/convert flows.
func (r *MySQLInventoryRepo) CoinBalances(ctx context.Context, userID string, metal domain.Metal) (map[int]int, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT denomination_g, quantity FROM coin_balances WHERE user_id=? AND metal=?`, userID, string(metal))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCounts(rows)
}

func scanCounts(rows *sql.Rows) (map[int]int, error) {
	out := map[int]int{}
	for rows.Next() {
		var denom, qty int
		if err := rows.Scan(&denom, &qty); err != nil {
			return nil, err
		}
		out[denom] = qty
	}
	return out, rows.Err()
}

var _ usecase.InventoryRepo = (*MySQLInventoryRepo)(nil)
