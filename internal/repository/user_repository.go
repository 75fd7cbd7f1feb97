package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// GetRole resolves the role assignment for a user. A missing row is not an
// error: every account without an explicit assignment is a customer.
func (r *PostgresUserRepository) GetRole(ctx context.Context, userID uuid.UUID) (domain.Role, error) {
	query := `SELECT role FROM user_roles WHERE user_id = $1`

	var role string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.RoleUser, nil
		}
		return "", fmt.Errorf("role retrieval error: %v", err)
	}
	return domain.ParseRole(role), nil
}
