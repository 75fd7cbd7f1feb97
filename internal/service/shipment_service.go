package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/errs"
	"github.com/universalexpress181/universal-express-sub001/internal/messaging"
	"github.com/universalexpress181/universal-express-sub001/internal/repository"
)

// StatusPublisher emits shipment status events. Publication is best-effort:
// callers log failures and move on.
type StatusPublisher interface {
	PublishStatusEvent(event messaging.StatusEvent) error
}

// NoopPublisher satisfies StatusPublisher when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusEvent(messaging.StatusEvent) error { return nil }

// awbInsertAttempts bounds the retry loop for unique-violation collisions on
// generated waybill codes.
const awbInsertAttempts = 3

// MaxBatchSize bounds v1 create arrays and bulk track requests.
const MaxBatchSize = 100

type CreateShipmentInput struct {
	ReferenceID   string
	ClientOrderID string
	SenderName    string
	SenderAddress string
	SenderPhone   string
	ReceiverName  string
	ReceiverAddr  string
	ReceiverPhone string
	ReceiverCity  string
	ReceiverPin   string
	WeightKg      float64
	DeclaredValue float64
	PaymentMode   string
}

// Validate enforces the required fields for the direct creation paths:
// receiver identity plus a reachable address or phone, and sender identity.
func (in CreateShipmentInput) Validate() error {
	if in.ReceiverName == "" {
		return fmt.Errorf("receiver name is required")
	}
	if in.ReceiverAddr == "" && in.ReceiverPhone == "" {
		return fmt.Errorf("receiver address or phone is required")
	}
	if in.SenderName == "" {
		return fmt.Errorf("sender name is required")
	}
	return nil
}

func (in CreateShipmentInput) apply(shipment *domain.Shipment) {
	shipment.ReferenceID = in.ReferenceID
	shipment.ClientOrderID = in.ClientOrderID
	shipment.SenderName = in.SenderName
	shipment.SenderAddress = in.SenderAddress
	shipment.SenderPhone = in.SenderPhone
	shipment.ReceiverName = in.ReceiverName
	shipment.ReceiverAddr = in.ReceiverAddr
	shipment.ReceiverPhone = in.ReceiverPhone
	shipment.ReceiverCity = in.ReceiverCity
	shipment.ReceiverPin = in.ReceiverPin
	shipment.SetWeight(in.WeightKg)
	shipment.SetPayment(domain.ParsePaymentMode(in.PaymentMode), in.DeclaredValue)
}

// TrackedShipment is a shipment with its status history, newest-first.
type TrackedShipment struct {
	Shipment *domain.Shipment
	History  []domain.TrackingEvent
}

type ShipmentService struct {
	shipments repository.ShipmentRepository
	events    repository.TrackingRepository
	logger    *zap.Logger
}

func NewShipmentService(shipments repository.ShipmentRepository, events repository.TrackingRepository, logger *zap.Logger) *ShipmentService {
	return &ShipmentService{
		shipments: shipments,
		events:    events,
		logger:    logger,
	}
}

// Create persists one shipment with a freshly generated waybill code. The
// generator guarantees nothing across calls, so a unique-violation on insert
// is retried with a new code.
func (s *ShipmentService) Create(ctx context.Context, userID uuid.UUID, input CreateShipmentInput) (*domain.Shipment, error) {
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrValidation, err)
	}

	var lastErr error
	for attempt := 0; attempt < awbInsertAttempts; attempt++ {
		shipment := domain.NewShipment(userID, domain.NewAWB())
		input.apply(shipment)

		err := s.shipments.Create(ctx, shipment)
		if err == nil {
			s.logger.Info("shipment created",
				zap.String("awb_code", shipment.AWBCode),
				zap.String("user_id", userID.String()),
			)
			return shipment, nil
		}
		if !errors.Is(err, errs.ErrDuplicateAWB) {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("awb collision on insert, regenerating", zap.Int("attempt", attempt+1))
	}

	return nil, fmt.Errorf("shipment creation failed after %d attempts: %v", awbInsertAttempts, lastErr)
}

// CreateBatch validates every input up front and inserts the whole set in one
// transaction. Validation failures reject the request before any store
// mutation; there is no per-item soft failure on this path.
func (s *ShipmentService) CreateBatch(ctx context.Context, userID uuid.UUID, inputs []CreateShipmentInput) ([]*domain.Shipment, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: no shipments supplied", errs.ErrValidation)
	}
	if len(inputs) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch exceeds %d shipments", errs.ErrValidation, MaxBatchSize)
	}
	for i, input := range inputs {
		if err := input.Validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", errs.ErrValidation, i, err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < awbInsertAttempts; attempt++ {
		codes := domain.NewAWBBatch(len(inputs))
		shipments := make([]*domain.Shipment, len(inputs))
		for i, input := range inputs {
			shipment := domain.NewShipment(userID, codes[i])
			input.apply(shipment)
			shipments[i] = shipment
		}

		err := s.shipments.CreateBatch(ctx, shipments)
		if err == nil {
			s.logger.Info("shipment batch created",
				zap.Int("count", len(shipments)),
				zap.String("user_id", userID.String()),
			)
			return shipments, nil
		}
		if !errors.Is(err, errs.ErrDuplicateAWB) {
			return nil, err
		}
		lastErr = err
		s.logger.Warn("awb collision on batch insert, regenerating", zap.Int("attempt", attempt+1))
	}

	return nil, fmt.Errorf("shipment batch creation failed after %d attempts: %v", awbInsertAttempts, lastErr)
}

// Track returns a shipment and its history for the public tracking page.
func (s *ShipmentService) Track(ctx context.Context, awbCode string) (*TrackedShipment, error) {
	shipment, err := s.shipments.GetByAWB(ctx, awbCode)
	if err != nil {
		return nil, err
	}
	return s.withHistory(ctx, shipment)
}

// TrackForUser is the owner-scoped variant used by the programmatic API.
// Shipments of other owners are indistinguishable from missing ones.
func (s *ShipmentService) TrackForUser(ctx context.Context, userID uuid.UUID, awbCode string) (*TrackedShipment, error) {
	shipment, err := s.shipments.GetByAWBForUser(ctx, awbCode, userID)
	if err != nil {
		return nil, err
	}
	return s.withHistory(ctx, shipment)
}

// TrackBulk resolves up to MaxBatchSize waybill codes for one owner. Unknown
// codes are simply absent from the result.
func (s *ShipmentService) TrackBulk(ctx context.Context, userID uuid.UUID, awbCodes []string) ([]*TrackedShipment, error) {
	if len(awbCodes) == 0 {
		return nil, fmt.Errorf("%w: no awb codes supplied", errs.ErrValidation)
	}
	if len(awbCodes) > MaxBatchSize {
		return nil, fmt.Errorf("%w: request exceeds %d awb codes", errs.ErrValidation, MaxBatchSize)
	}

	shipments, err := s.shipments.GetByAWBsForUser(ctx, awbCodes, userID)
	if err != nil {
		return nil, err
	}

	tracked := make([]*TrackedShipment, 0, len(shipments))
	for _, shipment := range shipments {
		t, err := s.withHistory(ctx, shipment)
		if err != nil {
			return nil, err
		}
		tracked = append(tracked, t)
	}
	return tracked, nil
}

func (s *ShipmentService) withHistory(ctx context.Context, shipment *domain.Shipment) (*TrackedShipment, error) {
	history, err := s.events.ListByShipment(ctx, shipment.ID)
	if err != nil {
		return nil, err
	}
	return &TrackedShipment{Shipment: shipment, History: history}, nil
}
