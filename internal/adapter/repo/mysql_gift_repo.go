package repo

import (
	"context"
	"database/sql"

	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type MySQLGiftRepo struct{ db *sql.DB }

func NewMySQLGiftRepo(db *sql.DB) *MySQLGiftRepo { return &MySQLGiftRepo{db: db} }

func (r *MySQLGiftRepo) Create(ctx context.Context, g *usecase.GiftRecord) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO gifts (id,sender_id,recipient_id,status,metal,denomination_g,quantity,created_at,updated_at)
VALUES (?,?,?,?,?,?,?,NOW(),NOW())
`, g.ID, g.SenderID, g.RecipientID, g.Status, g.Metal, g.Denomination, g.Quantity)
	return err
}

var _ usecase.GiftRepo = (*MySQLGiftRepo)(nil)
