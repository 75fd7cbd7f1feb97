package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey authenticates a machine client. A disabled key must reject all
// authentications regardless of secret correctness.
type APIKey struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	SecretKey  string    `json:"-"`
	IsActive   bool      `json:"is_active"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// APIRequestLog is one append-only audit entry for a programmatic API call.
// Written for every authenticated v1 request, success or failure.
type APIRequestLog struct {
	ID              uuid.UUID `json:"id"`
	APIKeyID        uuid.UUID `json:"api_key_id"`
	Method          string    `json:"method"`
	Endpoint        string    `json:"endpoint"`
	RequestBody     string    `json:"request_body"`
	ResponseSummary string    `json:"response_summary"`
	StatusCode      int       `json:"status_code"`
	CreatedAt       time.Time `json:"created_at"`
}
