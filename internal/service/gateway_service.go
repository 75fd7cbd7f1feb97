package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/errs"
	"github.com/universalexpress181/universal-express-sub001/internal/repository"
)

// maxLoggedBody caps request/response payloads stored in the audit log.
const maxLoggedBody = 2048

const recordTimeout = 5 * time.Second

// GatewayService authenticates machine clients and keeps their audit trail.
type GatewayService struct {
	keys   repository.APIKeyRepository
	logs   repository.RequestLogRepository
	logger *zap.Logger
}

func NewGatewayService(keys repository.APIKeyRepository, logs repository.RequestLogRepository, logger *zap.Logger) *GatewayService {
	return &GatewayService{
		keys:   keys,
		logs:   logs,
		logger: logger,
	}
}

// Authenticate resolves a presented secret to its key record. It fails
// closed: missing secret, unknown secret, disabled key and store errors all
// yield the same opaque ErrUnauthorized, disclosing nothing about the cause.
func (s *GatewayService) Authenticate(ctx context.Context, secretKey string) (*domain.APIKey, error) {
	if secretKey == "" {
		return nil, errs.ErrUnauthorized
	}

	key, err := s.keys.GetBySecret(ctx, secretKey)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			s.logger.Warn("api key lookup error", zap.Error(err))
		}
		return nil, errs.ErrUnauthorized
	}

	if !key.IsActive {
		return nil, errs.ErrUnauthorized
	}
	return key, nil
}

// Record writes the audit entry and bumps the usage counter for one
// authenticated call. It runs detached from the request: errors are logged,
// panics are swallowed, and the primary response is never affected.
func (s *GatewayService) Record(key *domain.APIKey, method, endpoint, requestBody, responseSummary string, statusCode int) {
	entry := &domain.APIRequestLog{
		ID:              uuid.New(),
		APIKeyID:        key.ID,
		Method:          method,
		Endpoint:        endpoint,
		RequestBody:     truncate(requestBody, maxLoggedBody),
		ResponseSummary: truncate(responseSummary, maxLoggedBody),
		StatusCode:      statusCode,
		CreatedAt:       time.Now().UTC(),
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("request log recorder panic", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if err := s.logs.Append(ctx, entry); err != nil {
			s.logger.Warn("request log append error", zap.Error(err))
		}
		if err := s.keys.IncrementUsage(ctx, key.ID); err != nil {
			s.logger.Warn("api key usage increment error", zap.Error(err))
		}
	}()
}

func truncate(value string, limit int) string {
	if len(value) <= limit {
		return value
	}
	return value[:limit]
}
