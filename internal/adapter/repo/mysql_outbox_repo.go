package repo

import (
	"context"
	"database/sql"

	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type MySQLOutboxRepo struct{ db *sql.DB }

func NewMySQLOutboxRepo(db *sql.DB) *MySQLOutboxRepo { return &MySQLOutboxRepo{db: db} }

func (r *MySQLOutboxRepo) InsertOrderCreated(ctx context.Context, payload []byte) error {
	return r.insert(ctx, "orders.created.v1", payload)
}

func (r *MySQLOutboxRepo) InsertGiftCreated(ctx context.Context, payload []byte) error {
	return r.insert(ctx, "gifts.created.v1", payload)
}

func (r *MySQLOutboxRepo) insert(ctx context.Context, channel string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO outbox (channel,payload,status,retry_count,next_attempt_at,created_at)
VALUES (?, ?, 'PENDING', 0, NOW(), NOW())
`, channel, payload)
	return err
}

var _ usecase.OutboxRepo = (*MySQLOutboxRepo)(nil)
