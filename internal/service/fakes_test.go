package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/errs"
	"github.com/universalexpress181/universal-express-sub001/internal/messaging"
	"github.com/universalexpress181/universal-express-sub001/internal/repository"
)

type fakeShipments struct {
	mu    sync.Mutex
	store []*domain.Shipment

	// createErrs are consumed one per Create/CreateBatch call, letting tests
	// script collision-then-success sequences.
	createErrs []error
	updateErr  error
}

var _ repository.ShipmentRepository = (*fakeShipments)(nil)

func (f *fakeShipments) nextCreateErr() error {
	if len(f.createErrs) == 0 {
		return nil
	}
	err := f.createErrs[0]
	f.createErrs = f.createErrs[1:]
	return err
}

func (f *fakeShipments) Create(_ context.Context, shipment *domain.Shipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.nextCreateErr(); err != nil {
		return err
	}
	cpy := *shipment
	f.store = append(f.store, &cpy)
	return nil
}

func (f *fakeShipments) CreateBatch(_ context.Context, shipments []*domain.Shipment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.nextCreateErr(); err != nil {
		return err
	}
	for _, shipment := range shipments {
		cpy := *shipment
		f.store = append(f.store, &cpy)
	}
	return nil
}

func (f *fakeShipments) GetByAWB(_ context.Context, awbCode string) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, shipment := range f.store {
		if shipment.AWBCode == awbCode {
			cpy := *shipment
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeShipments) GetByAWBForUser(_ context.Context, awbCode string, userID uuid.UUID) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, shipment := range f.store {
		if shipment.AWBCode == awbCode && shipment.UserID == userID {
			cpy := *shipment
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeShipments) GetByAWBsForUser(_ context.Context, awbCodes []string, userID uuid.UUID) ([]*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[string]bool, len(awbCodes))
	for _, code := range awbCodes {
		wanted[code] = true
	}
	var found []*domain.Shipment
	for _, shipment := range f.store {
		if wanted[shipment.AWBCode] && shipment.UserID == userID {
			cpy := *shipment
			found = append(found, &cpy)
		}
	}
	return found, nil
}

func (f *fakeShipments) GetByReferenceID(_ context.Context, referenceID string) (*domain.Shipment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, shipment := range f.store {
		if shipment.ReferenceID == referenceID {
			cpy := *shipment
			return &cpy, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeShipments) UpdateStatus(_ context.Context, id uuid.UUID, status domain.ShipmentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, shipment := range f.store {
		if shipment.ID == id {
			shipment.CurrentStatus = status
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeShipments) UpdatePaymentStatus(_ context.Context, id uuid.UUID, paymentStatus string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, shipment := range f.store {
		if shipment.ID == id {
			shipment.PaymentStatus = paymentStatus
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeShipments) get(awbCode string) *domain.Shipment {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, shipment := range f.store {
		if shipment.AWBCode == awbCode {
			return shipment
		}
	}
	return nil
}

type fakeEvents struct {
	mu       sync.Mutex
	appended []domain.TrackingEvent

	appendErr error
	history   map[uuid.UUID][]domain.TrackingEvent
}

var _ repository.TrackingRepository = (*fakeEvents)(nil)

func (f *fakeEvents) Append(_ context.Context, event *domain.TrackingEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, *event)
	return nil
}

func (f *fakeEvents) ListByShipment(_ context.Context, shipmentID uuid.UUID) ([]domain.TrackingEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.history[shipmentID], nil
}

type fakePublisher struct {
	mu         sync.Mutex
	published  []messaging.StatusEvent
	publishErr error
}

var _ StatusPublisher = (*fakePublisher)(nil)

func (f *fakePublisher) PublishStatusEvent(event messaging.StatusEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, event)
	return nil
}

type fakeKeys struct {
	mu       sync.Mutex
	bySecret map[string]*domain.APIKey
	counts   map[uuid.UUID]int

	getErr error
}

var _ repository.APIKeyRepository = (*fakeKeys)(nil)

func (f *fakeKeys) GetBySecret(_ context.Context, secretKey string) (*domain.APIKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	key, ok := f.bySecret[secretKey]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *key
	return &cpy, nil
}

func (f *fakeKeys) IncrementUsage(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.counts == nil {
		f.counts = map[uuid.UUID]int{}
	}
	f.counts[id]++
	return nil
}

func (f *fakeKeys) usage(id uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[id]
}

type fakeLogs struct {
	mu      sync.Mutex
	entries []domain.APIRequestLog
}

var _ repository.RequestLogRepository = (*fakeLogs)(nil)

func (f *fakeLogs) Append(_ context.Context, entry *domain.APIRequestLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeLogs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
