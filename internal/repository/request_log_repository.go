package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
)

type PostgresRequestLogRepository struct {
	db *sql.DB
}

func NewRequestLogRepository(db *sql.DB) *PostgresRequestLogRepository {
	return &PostgresRequestLogRepository{db: db}
}

func (r *PostgresRequestLogRepository) Append(ctx context.Context, entry *domain.APIRequestLog) error {
	query := `
		INSERT INTO api_request_logs (id, api_key_id, method, endpoint, request_body, response_summary, status_code, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.APIKeyID,
		entry.Method,
		entry.Endpoint,
		entry.RequestBody,
		entry.ResponseSummary,
		entry.StatusCode,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("request log insert error: %v", err)
	}
	return nil
}
