package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/errs"
)

func validInput() CreateShipmentInput {
	return CreateShipmentInput{
		SenderName:    "UniExpress Warehouse",
		ReceiverName:  "Alice",
		ReceiverAddr:  "12 Hill Road",
		ReceiverPhone: "9900112233",
		WeightKg:      1.2,
		DeclaredValue: 500,
		PaymentMode:   "cod",
	}
}

func TestCreateShipment(t *testing.T) {
	shipments := &fakeShipments{}
	svc := NewShipmentService(shipments, &fakeEvents{}, zap.NewNop())

	userID := uuid.New()
	shipment, err := svc.Create(context.Background(), userID, validInput())
	require.NoError(t, err)

	assert.Contains(t, shipment.AWBCode, domain.AWBPrefix)
	assert.Equal(t, userID, shipment.UserID)
	assert.Equal(t, domain.PaymentModeCOD, shipment.PaymentMode)
	assert.Equal(t, 500.0, shipment.CODAmount)
	assert.Equal(t, domain.StatusCreated, shipment.CurrentStatus)
	require.Len(t, shipments.store, 1)
}

func TestCreateShipmentValidation(t *testing.T) {
	svc := NewShipmentService(&fakeShipments{}, &fakeEvents{}, zap.NewNop())

	input := validInput()
	input.ReceiverName = ""
	_, err := svc.Create(context.Background(), uuid.New(), input)
	assert.ErrorIs(t, err, errs.ErrValidation)

	input = validInput()
	input.ReceiverAddr = ""
	input.ReceiverPhone = ""
	_, err = svc.Create(context.Background(), uuid.New(), input)
	assert.ErrorIs(t, err, errs.ErrValidation)

	input = validInput()
	input.SenderName = ""
	_, err = svc.Create(context.Background(), uuid.New(), input)
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestCreateShipmentRetriesOnAWBCollision(t *testing.T) {
	shipments := &fakeShipments{createErrs: []error{errs.ErrDuplicateAWB, errs.ErrDuplicateAWB}}
	svc := NewShipmentService(shipments, &fakeEvents{}, zap.NewNop())

	shipment, err := svc.Create(context.Background(), uuid.New(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, shipment.AWBCode)
}

func TestCreateShipmentGivesUpAfterRepeatedCollisions(t *testing.T) {
	shipments := &fakeShipments{createErrs: []error{
		errs.ErrDuplicateAWB, errs.ErrDuplicateAWB, errs.ErrDuplicateAWB,
	}}
	svc := NewShipmentService(shipments, &fakeEvents{}, zap.NewNop())

	_, err := svc.Create(context.Background(), uuid.New(), validInput())
	assert.Error(t, err)
}

func TestCreateBatch(t *testing.T) {
	shipments := &fakeShipments{}
	svc := NewShipmentService(shipments, &fakeEvents{}, zap.NewNop())

	created, err := svc.CreateBatch(context.Background(), uuid.New(), []CreateShipmentInput{
		validInput(), validInput(), validInput(),
	})
	require.NoError(t, err)
	require.Len(t, created, 3)

	seen := map[string]bool{}
	for _, shipment := range created {
		assert.False(t, seen[shipment.AWBCode], "duplicate awb in batch")
		seen[shipment.AWBCode] = true
	}
}

func TestCreateBatchValidation(t *testing.T) {
	svc := NewShipmentService(&fakeShipments{}, &fakeEvents{}, zap.NewNop())

	_, err := svc.CreateBatch(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, errs.ErrValidation)

	oversized := make([]CreateShipmentInput, MaxBatchSize+1)
	for i := range oversized {
		oversized[i] = validInput()
	}
	_, err = svc.CreateBatch(context.Background(), uuid.New(), oversized)
	assert.ErrorIs(t, err, errs.ErrValidation)

	bad := validInput()
	bad.ReceiverName = ""
	_, err = svc.CreateBatch(context.Background(), uuid.New(), []CreateShipmentInput{validInput(), bad})
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestTrackReturnsHistoryNewestFirst(t *testing.T) {
	shipments := &fakeShipments{}
	events := &fakeEvents{history: map[uuid.UUID][]domain.TrackingEvent{}}
	svc := NewShipmentService(shipments, events, zap.NewNop())

	shipment := domain.NewShipment(uuid.New(), "UEX42")
	shipment.ReceiverName = "Alice"
	require.NoError(t, shipments.Create(context.Background(), shipment))

	base := time.Now().UTC()
	events.history[shipment.ID] = []domain.TrackingEvent{
		{Status: domain.StatusDelivered, CreatedAt: base.Add(2 * time.Hour)},
		{Status: domain.StatusOutForDelivery, CreatedAt: base.Add(time.Hour)},
		{Status: domain.StatusInTransit, CreatedAt: base},
	}

	tracked, err := svc.Track(context.Background(), "UEX42")
	require.NoError(t, err)
	require.Len(t, tracked.History, 3)
	assert.Equal(t, domain.StatusDelivered, tracked.History[0].Status)
	assert.Equal(t, domain.StatusInTransit, tracked.History[2].Status)
	assert.True(t, tracked.History[0].CreatedAt.After(tracked.History[1].CreatedAt))
}

func TestTrackNotFound(t *testing.T) {
	svc := NewShipmentService(&fakeShipments{}, &fakeEvents{}, zap.NewNop())

	_, err := svc.Track(context.Background(), "UEX404")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTrackForUserHidesForeignShipments(t *testing.T) {
	shipments := &fakeShipments{}
	svc := NewShipmentService(shipments, &fakeEvents{}, zap.NewNop())

	owner := uuid.New()
	shipment := domain.NewShipment(owner, "UEX7")
	require.NoError(t, shipments.Create(context.Background(), shipment))

	_, err := svc.TrackForUser(context.Background(), owner, "UEX7")
	assert.NoError(t, err)

	// A different caller gets the same answer as for a missing shipment.
	_, err = svc.TrackForUser(context.Background(), uuid.New(), "UEX7")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTrackBulk(t *testing.T) {
	shipments := &fakeShipments{}
	svc := NewShipmentService(shipments, &fakeEvents{}, zap.NewNop())

	owner := uuid.New()
	for _, code := range []string{"UEX1", "UEX2"} {
		require.NoError(t, shipments.Create(context.Background(), domain.NewShipment(owner, code)))
	}
	require.NoError(t, shipments.Create(context.Background(), domain.NewShipment(uuid.New(), "UEX3")))

	tracked, err := svc.TrackBulk(context.Background(), owner, []string{"UEX1", "UEX2", "UEX3", "UEX404"})
	require.NoError(t, err)
	assert.Len(t, tracked, 2)

	_, err = svc.TrackBulk(context.Background(), owner, nil)
	assert.ErrorIs(t, err, errs.ErrValidation)

	oversized := make([]string, MaxBatchSize+1)
	_, err = svc.TrackBulk(context.Background(), owner, oversized)
	assert.ErrorIs(t, err, errs.ErrValidation)
}
