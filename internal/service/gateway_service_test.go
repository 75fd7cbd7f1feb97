package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/universalexpress181/universal-express-sub001/internal/domain"
	"github.com/universalexpress181/universal-express-sub001/internal/errs"
)

func seedKey(active bool) (*fakeKeys, *domain.APIKey) {
	key := &domain.APIKey{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		SecretKey: "sk_live_1",
		IsActive:  active,
		CreatedAt: time.Now().UTC(),
	}
	return &fakeKeys{bySecret: map[string]*domain.APIKey{key.SecretKey: key}}, key
}

func TestAuthenticate(t *testing.T) {
	keys, key := seedKey(true)
	svc := NewGatewayService(keys, &fakeLogs{}, zap.NewNop())

	resolved, err := svc.Authenticate(context.Background(), "sk_live_1")
	require.NoError(t, err)
	assert.Equal(t, key.UserID, resolved.UserID)
}

func TestAuthenticateFailsClosed(t *testing.T) {
	keys, _ := seedKey(false)
	keysUnknown := &fakeKeys{bySecret: map[string]*domain.APIKey{}}

	inactiveSvc := NewGatewayService(keys, &fakeLogs{}, zap.NewNop())
	unknownSvc := NewGatewayService(keysUnknown, &fakeLogs{}, zap.NewNop())

	_, missingErr := unknownSvc.Authenticate(context.Background(), "")
	_, unknownErr := unknownSvc.Authenticate(context.Background(), "sk_live_1")
	_, inactiveErr := inactiveSvc.Authenticate(context.Background(), "sk_live_1")

	// All three rejection causes are indistinguishable to the caller.
	assert.ErrorIs(t, missingErr, errs.ErrUnauthorized)
	assert.ErrorIs(t, unknownErr, errs.ErrUnauthorized)
	assert.ErrorIs(t, inactiveErr, errs.ErrUnauthorized)
	assert.Equal(t, unknownErr.Error(), inactiveErr.Error())
}

func TestAuthenticateStoreErrorIsOpaque(t *testing.T) {
	keys := &fakeKeys{getErr: errors.New("connection refused")}
	svc := NewGatewayService(keys, &fakeLogs{}, zap.NewNop())

	_, err := svc.Authenticate(context.Background(), "sk_live_1")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
	assert.NotContains(t, err.Error(), "connection refused")
}

func TestRecordWritesLogAndUsage(t *testing.T) {
	keys, key := seedKey(true)
	logs := &fakeLogs{}
	svc := NewGatewayService(keys, logs, zap.NewNop())

	svc.Record(key, "POST", "/v1/shipment/create", `{"receiver_name":"Alice"}`, `{"success":true}`, 201)

	// Recording is detached from the request; wait for it to land.
	require.Eventually(t, func() bool {
		return logs.count() == 1 && keys.usage(key.ID) == 1
	}, time.Second, 10*time.Millisecond)

	logs.mu.Lock()
	entry := logs.entries[0]
	logs.mu.Unlock()
	assert.Equal(t, key.ID, entry.APIKeyID)
	assert.Equal(t, "POST", entry.Method)
	assert.Equal(t, "/v1/shipment/create", entry.Endpoint)
	assert.Equal(t, 201, entry.StatusCode)
	assert.Contains(t, entry.RequestBody, "Alice")
}

func TestRecordTruncatesOversizedBodies(t *testing.T) {
	keys, key := seedKey(true)
	logs := &fakeLogs{}
	svc := NewGatewayService(keys, logs, zap.NewNop())

	huge := make([]byte, maxLoggedBody*2)
	for i := range huge {
		huge[i] = 'x'
	}
	svc.Record(key, "POST", "/v1/shipment/create", string(huge), "", 500)

	require.Eventually(t, func() bool { return logs.count() == 1 }, time.Second, 10*time.Millisecond)

	logs.mu.Lock()
	defer logs.mu.Unlock()
	assert.Len(t, logs.entries[0].RequestBody, maxLoggedBody)
}
