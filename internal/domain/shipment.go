package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PaymentMode string

const (
	PaymentModePrepaid PaymentMode = "Prepaid"
	PaymentModeCOD     PaymentMode = "COD"
)

// ParsePaymentMode normalizes a free-form payment mode string. Anything that
// is not recognizably COD resolves to Prepaid.
func ParsePaymentMode(value string) PaymentMode {
	if strings.EqualFold(strings.TrimSpace(value), "cod") {
		return PaymentModeCOD
	}
	return PaymentModePrepaid
}

// DefaultWeightKg is applied when an upload row has no parseable weight.
const DefaultWeightKg = 0.5

type Shipment struct {
	ID            uuid.UUID      `json:"id"`
	AWBCode       string         `json:"awb_code"`
	ReferenceID   string         `json:"reference_id,omitempty"`
	ClientOrderID string         `json:"client_order_id,omitempty"`
	UserID        uuid.UUID      `json:"user_id"`
	SenderName    string         `json:"sender_name"`
	SenderAddress string         `json:"sender_address"`
	SenderPhone   string         `json:"sender_phone"`
	ReceiverName  string         `json:"receiver_name"`
	ReceiverAddr  string         `json:"receiver_address"`
	ReceiverPhone string         `json:"receiver_phone"`
	ReceiverCity  string         `json:"receiver_city"`
	ReceiverPin   string         `json:"receiver_pincode"`
	WeightKg      float64        `json:"weight_kg"`
	DeclaredValue float64        `json:"declared_value"`
	PaymentMode   PaymentMode    `json:"payment_mode"`
	CODAmount     float64        `json:"cod_amount"`
	CurrentStatus ShipmentStatus `json:"current_status"`
	PaymentStatus string         `json:"payment_status"`
	LabelURL      string         `json:"label_url,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewShipment builds a shipment in its initial state. The COD amount is
// derived from the declared value only when the payment mode is COD and is
// forced to zero otherwise, keeping the cod_amount/payment_mode invariant.
func NewShipment(userID uuid.UUID, awbCode string) *Shipment {
	now := time.Now().UTC()
	return &Shipment{
		ID:            uuid.New(),
		AWBCode:       awbCode,
		UserID:        userID,
		WeightKg:      DefaultWeightKg,
		PaymentMode:   PaymentModePrepaid,
		CurrentStatus: StatusCreated,
		PaymentStatus: "pending",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// SetPayment applies the payment mode and derives the COD amount.
func (s *Shipment) SetPayment(mode PaymentMode, declaredValue float64) {
	s.PaymentMode = mode
	s.DeclaredValue = declaredValue
	if mode == PaymentModeCOD {
		s.CODAmount = declaredValue
	} else {
		s.CODAmount = 0
	}
}

// SetWeight applies the weight, substituting the policy default for
// non-positive values.
func (s *Shipment) SetWeight(weightKg float64) {
	if weightKg <= 0 {
		weightKg = DefaultWeightKg
	}
	s.WeightKg = weightKg
}

// TrackingEvent is one entry of a shipment's append-only status history.
// Events are never edited or removed once written.
type TrackingEvent struct {
	ID          uuid.UUID      `json:"id"`
	ShipmentID  uuid.UUID      `json:"shipment_id"`
	Status      ShipmentStatus `json:"status"`
	Location    string         `json:"location,omitempty"`
	Description string         `json:"description"`
	CreatedAt   time.Time      `json:"timestamp"`
}

// NewTrackingEvent records a status transition for a shipment.
func NewTrackingEvent(shipmentID uuid.UUID, status ShipmentStatus, location, description string) *TrackingEvent {
	if description == "" {
		description = status.Description()
	}
	return &TrackingEvent{
		ID:          uuid.New(),
		ShipmentID:  shipmentID,
		Status:      status,
		Location:    location,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
}
