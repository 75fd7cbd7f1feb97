package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/errs"
)

type PostgresAPIKeyRepository struct {
	db *sql.DB
}

func NewAPIKeyRepository(db *sql.DB) *PostgresAPIKeyRepository {
	return &PostgresAPIKeyRepository{db: db}
}

func (r *PostgresAPIKeyRepository) GetBySecret(ctx context.Context, secretKey string) (*domain.APIKey, error) {
	query := `
		SELECT id, user_id, secret_key, is_active, usage_count, created_at
		FROM api_keys
		WHERE secret_key = $1`

	key := &domain.APIKey{}
	err := r.db.QueryRowContext(ctx, query, secretKey).Scan(
		&key.ID,
		&key.UserID,
		&key.SecretKey,
		&key.IsActive,
		&key.UsageCount,
		&key.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("api key retrieval error: %v", err)
	}
	return key, nil
}

func (r *PostgresAPIKeyRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE api_keys SET usage_count = usage_count + 1 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("api key usage update error: %v", err)
	}
	return nil
}
