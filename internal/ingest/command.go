package ingest

import (
	"fmt"
)

// TargetField is a shipment column the bulk status-update pipeline is allowed
// to write. The set is closed so that an upload can never reach arbitrary
// columns through string indexing.
type TargetField string

const (
	TargetCurrentStatus TargetField = "current_status"
	TargetPaymentStatus TargetField = "payment_status"
)

// ParseTargetField validates a caller-supplied column name against the
// writable set.
func ParseTargetField(value string) (TargetField, error) {
	switch TargetField(value) {
	case TargetCurrentStatus, TargetPaymentStatus:
		return TargetField(value), nil
	default:
		return "", fmt.Errorf("column %q is not updatable", value)
	}
}

// BulkStatusCommand describes one bulk status-update run: which shipment
// column to write, and which upload headers carry the reference key and the
// new value.
type BulkStatusCommand struct {
	Target      TargetField
	RefHeader   string
	ValueHeader string
}

// NewBulkStatusCommand validates the raw form fields of a bulk status-update
// request.
func NewBulkStatusCommand(targetColumn, refHeader, valueHeader string) (BulkStatusCommand, error) {
	target, err := ParseTargetField(targetColumn)
	if err != nil {
		return BulkStatusCommand{}, err
	}
	if refHeader == "" || valueHeader == "" {
		return BulkStatusCommand{}, fmt.Errorf("reference and value column headers are required")
	}
	return BulkStatusCommand{Target: target, RefHeader: refHeader, ValueHeader: valueHeader}, nil
}
