package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/errs"
	"github.com/universalexpress181/universal-express-sub001/internal/ingest"
	"github.com/universalexpress181/universal-express-sub001/internal/messaging"
	"github.com/universalexpress181/universal-express-sub001/internal/repository"
)

// Well-known upload headers for bulk create mode.
const (
	colReceiverName  = "receiver_name"
	colReceiverAddr  = "receiver_address"
	colReceiverPhone = "receiver_phone"
	colReceiverCity  = "receiver_city"
	colReceiverPin   = "receiver_pincode"
	colSenderName    = "sender_name"
	colSenderAddr    = "sender_address"
	colSenderPhone   = "sender_phone"
	colReferenceID   = "reference_id"
	colClientOrderID = "client_order_id"
	colWeight        = "weight"
	colDeclaredValue = "declared_value"
	colPaymentMode   = "payment_mode"
)

// RowError records one soft per-row failure. Row numbers are 1-based data
// rows, matching what an operator sees in the spreadsheet minus the header.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type BulkCreateResult struct {
	Valid     int
	Invalid   int
	RowErrors []RowError
	Created   []*domain.Shipment
}

type BulkStatusResult struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

type BulkService struct {
	shipments repository.ShipmentRepository
	events    repository.TrackingRepository
	publisher StatusPublisher
	logger    *zap.Logger
}

func NewBulkService(shipments repository.ShipmentRepository, events repository.TrackingRepository, publisher StatusPublisher, logger *zap.Logger) *BulkService {
	return &BulkService{
		shipments: shipments,
		events:    events,
		publisher: publisher,
		logger:    logger,
	}
}

// BulkCreate turns each upload row into a candidate shipment. Row validation
// failures are soft: counted and reported, never aborting sibling rows.
// Waybill codes come from the batch generator, positionally aligned to the
// valid subset, and the whole subset is inserted in one transaction — a
// failing insert fails the batch as a whole.
func (s *BulkService) BulkCreate(ctx context.Context, userID uuid.UUID, table *ingest.Table) (*BulkCreateResult, error) {
	result := &BulkCreateResult{}
	var valid []*domain.Shipment

	for i, row := range table.Rows {
		shipment, reason := s.buildRow(userID, table, row)
		if reason != "" {
			result.Invalid++
			result.RowErrors = append(result.RowErrors, RowError{Row: i + 1, Reason: reason})
			continue
		}
		valid = append(valid, shipment)
	}
	result.Valid = len(valid)

	if len(valid) == 0 {
		return result, nil
	}

	var lastErr error
	for attempt := 0; attempt < awbInsertAttempts; attempt++ {
		codes := domain.NewAWBBatch(len(valid))
		for i, shipment := range valid {
			shipment.AWBCode = codes[i]
		}

		err := s.shipments.CreateBatch(ctx, valid)
		if err == nil {
			result.Created = valid
			s.logger.Info("bulk create finished",
				zap.Int("valid", result.Valid),
				zap.Int("invalid", result.Invalid),
				zap.String("user_id", userID.String()),
			)
			return result, nil
		}
		if !errors.Is(err, errs.ErrDuplicateAWB) {
			return nil, fmt.Errorf("bulk insert error: %v", err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("bulk insert failed after %d attempts: %v", awbInsertAttempts, lastErr)
}

func (s *BulkService) buildRow(userID uuid.UUID, table *ingest.Table, row []string) (*domain.Shipment, string) {
	receiverName := table.Cell(row, colReceiverName)
	receiverAddr := table.Cell(row, colReceiverAddr)
	receiverPhone := table.Cell(row, colReceiverPhone)

	if receiverName == "" {
		return nil, "receiver name is required"
	}
	if receiverAddr == "" && receiverPhone == "" {
		return nil, "receiver address or phone is required"
	}

	// AWB is assigned later, positionally from the batch generator.
	shipment := domain.NewShipment(userID, "")
	shipment.ReceiverName = receiverName
	shipment.ReceiverAddr = receiverAddr
	shipment.ReceiverPhone = receiverPhone
	shipment.ReceiverCity = table.Cell(row, colReceiverCity)
	shipment.ReceiverPin = table.Cell(row, colReceiverPin)
	shipment.SenderName = table.Cell(row, colSenderName)
	shipment.SenderAddress = table.Cell(row, colSenderAddr)
	shipment.SenderPhone = table.Cell(row, colSenderPhone)
	shipment.ReferenceID = table.Cell(row, colReferenceID)
	shipment.ClientOrderID = table.Cell(row, colClientOrderID)

	shipment.SetWeight(parseFloatOr(table.Cell(row, colWeight), domain.DefaultWeightKg))
	declared := parseFloatOr(table.Cell(row, colDeclaredValue), 0)
	shipment.SetPayment(domain.ParsePaymentMode(table.Cell(row, colPaymentMode)), declared)

	return shipment, ""
}

// BulkStatusUpdate applies one administrator-selected column update per row,
// keyed by reference id. Rows are independent: a miss or a bad value counts
// as failed and the loop moves on. Status-column updates append exactly one
// tracking event and publish a best-effort status event.
func (s *BulkService) BulkStatusUpdate(ctx context.Context, cmd ingest.BulkStatusCommand, table *ingest.Table) (*BulkStatusResult, error) {
	if !table.HasColumn(cmd.RefHeader) {
		return nil, fmt.Errorf("%w: upload has no %q column", errs.ErrValidation, cmd.RefHeader)
	}
	if !table.HasColumn(cmd.ValueHeader) {
		return nil, fmt.Errorf("%w: upload has no %q column", errs.ErrValidation, cmd.ValueHeader)
	}

	result := &BulkStatusResult{}
	for _, row := range table.Rows {
		if s.applyStatusRow(ctx, cmd, table, row) {
			result.Success++
		} else {
			result.Failed++
		}
	}

	s.logger.Info("bulk status update finished",
		zap.String("target", string(cmd.Target)),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *BulkService) applyStatusRow(ctx context.Context, cmd ingest.BulkStatusCommand, table *ingest.Table, row []string) bool {
	referenceID := table.Cell(row, cmd.RefHeader)
	value := table.Cell(row, cmd.ValueHeader)
	if referenceID == "" || value == "" {
		return false
	}

	shipment, err := s.shipments.GetByReferenceID(ctx, referenceID)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			s.logger.Warn("bulk status lookup error",
				zap.String("reference_id", referenceID),
				zap.Error(err),
			)
		}
		return false
	}

	switch cmd.Target {
	case ingest.TargetCurrentStatus:
		status, err := domain.ParseStatus(value)
		if err != nil {
			return false
		}
		if err := s.shipments.UpdateStatus(ctx, shipment.ID, status); err != nil {
			s.logger.Warn("bulk status update error",
				zap.String("reference_id", referenceID),
				zap.Error(err),
			)
			return false
		}
		s.recordTransition(ctx, shipment, status)
		return true

	case ingest.TargetPaymentStatus:
		if err := s.shipments.UpdatePaymentStatus(ctx, shipment.ID, value); err != nil {
			s.logger.Warn("bulk payment status update error",
				zap.String("reference_id", referenceID),
				zap.Error(err),
			)
			return false
		}
		return true

	default:
		return false
	}
}

// recordTransition appends the tracking event for a committed status change
// and publishes the broker event. Both are best-effort relative to the
// already-applied update.
func (s *BulkService) recordTransition(ctx context.Context, shipment *domain.Shipment, status domain.ShipmentStatus) {
	event := domain.NewTrackingEvent(shipment.ID, status, "", status.Description())
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.Error("tracking event append error",
			zap.String("awb_code", shipment.AWBCode),
			zap.Error(err),
		)
	}

	if err := s.publisher.PublishStatusEvent(messaging.StatusEvent{
		AWBCode:     shipment.AWBCode,
		Status:      string(status),
		Description: status.Description(),
	}); err != nil {
		s.logger.Warn("status event publish error",
			zap.String("awb_code", shipment.AWBCode),
			zap.Error(err),
		)
	}
}

func parseFloatOr(value string, fallback float64) float64 {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
