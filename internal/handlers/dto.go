package handlers

import (
	"time"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/service"
)

type createShipmentRequest struct {
	ReferenceID   string  `json:"reference_id"`
	ClientOrderID string  `json:"client_order_id"`
	SenderName    string  `json:"sender_name"`
	SenderAddress string  `json:"sender_address"`
	SenderPhone   string  `json:"sender_phone"`
	ReceiverName  string  `json:"receiver_name"`
	ReceiverAddr  string  `json:"receiver_address"`
	ReceiverPhone string  `json:"receiver_phone"`
	ReceiverCity  string  `json:"receiver_city"`
	ReceiverPin   string  `json:"receiver_pincode"`
	WeightKg      float64 `json:"weight_kg"`
	DeclaredValue float64 `json:"declared_value"`
	PaymentMode   string  `json:"payment_mode"`
}

func (r createShipmentRequest) toInput() service.CreateShipmentInput {
	return service.CreateShipmentInput{
		ReferenceID:   r.ReferenceID,
		ClientOrderID: r.ClientOrderID,
		SenderName:    r.SenderName,
		SenderAddress: r.SenderAddress,
		SenderPhone:   r.SenderPhone,
		ReceiverName:  r.ReceiverName,
		ReceiverAddr:  r.ReceiverAddr,
		ReceiverPhone: r.ReceiverPhone,
		ReceiverCity:  r.ReceiverCity,
		ReceiverPin:   r.ReceiverPin,
		WeightKg:      r.WeightKg,
		DeclaredValue: r.DeclaredValue,
		PaymentMode:   r.PaymentMode,
	}
}

// v1ShipmentItem is the per-item creation response of the programmatic API.
type v1ShipmentItem struct {
	AWBCode      string  `json:"awb_code"`
	ReceiverName string  `json:"receiver_name"`
	PaymentMode  string  `json:"payment_mode"`
	CODAmount    float64 `json:"cod_amount"`
	Status       string  `json:"status"`
	LabelURL     string  `json:"label_url"`
}

func mapV1Items(shipments []*domain.Shipment) []v1ShipmentItem {
	items := make([]v1ShipmentItem, len(shipments))
	for i, shipment := range shipments {
		items[i] = v1ShipmentItem{
			AWBCode:      shipment.AWBCode,
			ReceiverName: shipment.ReceiverName,
			PaymentMode:  string(shipment.PaymentMode),
			CODAmount:    shipment.CODAmount,
			Status:       string(shipment.CurrentStatus),
			LabelURL:     shipment.LabelURL,
		}
	}
	return items
}

type trackingEventResponse struct {
	Status      string    `json:"status"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
}

type trackedShipmentResponse struct {
	AWBCode       string                  `json:"awb_code"`
	ReferenceID   string                  `json:"reference_id,omitempty"`
	ReceiverName  string                  `json:"receiver_name"`
	ReceiverCity  string                  `json:"receiver_city,omitempty"`
	PaymentMode   string                  `json:"payment_mode"`
	CODAmount     float64                 `json:"cod_amount"`
	CurrentStatus string                  `json:"current_status"`
	PaymentStatus string                  `json:"payment_status"`
	LabelURL      string                  `json:"label_url,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	History       []trackingEventResponse `json:"history"`
}

func mapTracked(tracked *service.TrackedShipment) trackedShipmentResponse {
	history := make([]trackingEventResponse, len(tracked.History))
	for i, event := range tracked.History {
		history[i] = trackingEventResponse{
			Status:      string(event.Status),
			Location:    event.Location,
			Description: event.Description,
			Timestamp:   event.CreatedAt,
		}
	}

	shipment := tracked.Shipment
	return trackedShipmentResponse{
		AWBCode:       shipment.AWBCode,
		ReferenceID:   shipment.ReferenceID,
		ReceiverName:  shipment.ReceiverName,
		ReceiverCity:  shipment.ReceiverCity,
		PaymentMode:   string(shipment.PaymentMode),
		CODAmount:     shipment.CODAmount,
		CurrentStatus: string(shipment.CurrentStatus),
		PaymentStatus: shipment.PaymentStatus,
		LabelURL:      shipment.LabelURL,
		CreatedAt:     shipment.CreatedAt,
		History:       history,
	}
}

func mapTrackedList(tracked []*service.TrackedShipment) []trackedShipmentResponse {
	responses := make([]trackedShipmentResponse, len(tracked))
	for i, t := range tracked {
		responses[i] = mapTracked(t)
	}
	return responses
}
