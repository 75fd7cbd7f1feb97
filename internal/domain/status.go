package domain

import (
	"fmt"
	"strings"
)

// ShipmentStatus is the lifecycle state of a shipment. The set is closed:
// unrecognized strings are rejected at parse time. Transitions between
// recognized states are intentionally not validated, so that operational
// overrides (damaged parcels, re-attempts, manual corrections) stay possible.
type ShipmentStatus string

const (
	StatusCreated        ShipmentStatus = "created"
	StatusManifested     ShipmentStatus = "manifested"
	StatusInTransit      ShipmentStatus = "in_transit"
	StatusOutForDelivery ShipmentStatus = "out_for_delivery"
	StatusDelivered      ShipmentStatus = "delivered"
	StatusRTOInitiated   ShipmentStatus = "rto_initiated"
	StatusCancelled      ShipmentStatus = "cancelled"
)

var allStatuses = map[ShipmentStatus]bool{
	StatusCreated:        true,
	StatusManifested:     true,
	StatusInTransit:      true,
	StatusOutForDelivery: true,
	StatusDelivered:      true,
	StatusRTOInitiated:   true,
	StatusCancelled:      true,
}

var statusDescriptions = map[ShipmentStatus]string{
	StatusCreated:        "Shipment created",
	StatusManifested:     "Shipment manifested and handed over for pickup",
	StatusInTransit:      "Shipment in transit",
	StatusOutForDelivery: "Shipment out for delivery",
	StatusDelivered:      "Delivered successfully",
	StatusRTOInitiated:   "Return to origin initiated",
	StatusCancelled:      "Shipment cancelled",
}

// ParseStatus normalizes and validates a status string against the closed set.
func ParseStatus(value string) (ShipmentStatus, error) {
	status := ShipmentStatus(strings.ToLower(strings.TrimSpace(value)))
	if !allStatuses[status] {
		return "", fmt.Errorf("unrecognized status %q", value)
	}
	return status, nil
}

// Valid reports whether the status belongs to the recognized set.
func (s ShipmentStatus) Valid() bool {
	return allStatuses[s]
}

// Description returns the tracking-event description for a status transition,
// falling back to a generic message for recognized values without a mapping.
func (s ShipmentStatus) Description() string {
	if desc, ok := statusDescriptions[s]; ok {
		return desc
	}
	return fmt.Sprintf("Status updated to %s", string(s))
}
