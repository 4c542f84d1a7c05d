package repo

import (
	"context"
	"database/sql"

	"github.com/ATjewellers01/zold-cart-api/internal/usecase"
)

type MySQLUserRepo struct{ db *sql.DB }

func NewMySQLUserRepo(db *sql.DB) *MySQLUserRepo { return &MySQLUserRepo{db: db} }

// List returns users for the admin screen, optionally filtered by a search
// term (name or email substring) and/or a role.
func (r *MySQLUserRepo) List(ctx context.Context, search, role string) ([]usecase.UserRecord, error) {
	q := `SELECT id,name,email,role,verified FROM users WHERE 1=1`
	args := []any{}
	if search != "" {
		q += ` AND (name LIKE ? OR email LIKE ?)`
		like := "%" + search + "%"
		args = append(args, like, like)
	}
	if role != "" && role != "ALL" {
		q += ` AND role = ?`
		args = append(args, role)
	}
	q += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []usecase.UserRecord
	for rows.Next() {
		var u usecase.UserRecord
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Verified); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

var _ usecase.UserRepo = (*MySQLUserRepo)(nil)
