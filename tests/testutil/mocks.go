package testutil

import (
	"context"
	"encoding/json"
	"time"

	"github.com/geordanr/xwing-backend/internal/models"
	"github.com/geordanr/xwing-backend/internal/services"
	"github.com/stretchr/testify/mock"
)

// MockIdentityService mocks the IdentityService
type MockIdentityService struct {
	mock.Mock
}

func (m *MockIdentityService) ResolveOrCreate(ctx context.Context, provider, externalUID string) (*models.User, error) {
	args := m.Called(ctx, provider, externalUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockIdentityService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockSquadService mocks the SquadService
type MockSquadService struct {
	mock.Mock
}

func (m *MockSquadService) List(ctx context.Context, userID string) (map[string][]services.SquadSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]services.SquadSummary), args.Error(1)
}

func (m *MockSquadService) Create(ctx context.Context, userID, name, faction, serialized string, additionalData json.RawMessage) (string, error) {
	args := m.Called(ctx, userID, name, faction, serialized, additionalData)
	return args.String(0), args.Error(1)
}

func (m *MockSquadService) Update(ctx context.Context, id, userID, name, faction, serialized string, additionalData json.RawMessage) (string, error) {
	args := m.Called(ctx, id, userID, name, faction, serialized, additionalData)
	return args.String(0), args.Error(1)
}

func (m *MockSquadService) Delete(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockSquadService) NameAvailable(ctx context.Context, userID, name string) (bool, error) {
	args := m.Called(ctx, userID, name)
	return args.Bool(0), args.Error(1)
}

// MockCollectionService mocks the CollectionService
type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) GetOrCreate(ctx context.Context, userID string) (*models.Collection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) Update(ctx context.Context, userID string, expansions, singletons json.RawMessage) error {
	args := m.Called(ctx, userID, expansions, singletons)
	return args.Error(0)
}

// MockJWTService mocks the JWTService
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokenPair(userID string) (*services.TokenPair, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenPair), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(token string) (string, error) {
	args := m.Called(token)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) RefreshExpiry() time.Duration {
	args := m.Called()
	return args.Get(0).(time.Duration)
}
