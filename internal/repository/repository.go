// Package repository provides access to the relational store. Interfaces are
// defined here so services can be wired with test doubles; the Postgres
// implementations live alongside them.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
)

// ShipmentRepository persists shipment records. AWB codes are unique across
// the store; Create and CreateBatch return errs.ErrDuplicateAWB on a
// unique-constraint violation so callers can retry with fresh codes.
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *domain.Shipment) error

	// CreateBatch inserts all shipments in one transaction. Either every row
	// commits or none do.
	CreateBatch(ctx context.Context, shipments []*domain.Shipment) error

	GetByAWB(ctx context.Context, awbCode string) (*domain.Shipment, error)

	// GetByAWBForUser scopes the lookup to one owner. A shipment owned by a
	// different user is indistinguishable from a missing one.
	GetByAWBForUser(ctx context.Context, awbCode string, userID uuid.UUID) (*domain.Shipment, error)

	GetByAWBsForUser(ctx context.Context, awbCodes []string, userID uuid.UUID) ([]*domain.Shipment, error)

	GetByReferenceID(ctx context.Context, referenceID string) (*domain.Shipment, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ShipmentStatus) error

	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, paymentStatus string) error
}

// TrackingRepository is the append-only status history of shipments.
type TrackingRepository interface {
	Append(ctx context.Context, event *domain.TrackingEvent) error

	// ListByShipment returns the history newest-first.
	ListByShipment(ctx context.Context, shipmentID uuid.UUID) ([]domain.TrackingEvent, error)
}

// APIKeyRepository resolves and meters machine-client keys.
type APIKeyRepository interface {
	// GetBySecret returns errs.ErrNotFound for unknown secrets. Active-flag
	// enforcement is the caller's concern.
	GetBySecret(ctx context.Context, secretKey string) (*domain.APIKey, error)

	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

// RequestLogRepository appends audit entries for programmatic API calls.
type RequestLogRepository interface {
	Append(ctx context.Context, entry *domain.APIRequestLog) error
}

// UserRepository resolves role assignments.
type UserRepository interface {
	// GetRole returns domain.RoleUser when no role row exists.
	GetRole(ctx context.Context, userID uuid.UUID) (domain.Role, error)
}
