package handlers

import (
	"context"
	"encoding/json"
	"time"

	"github.com/geordanr/xwing-backend/internal/models"
	"github.com/geordanr/xwing-backend/internal/services"
)

// IdentityServiceInterface defines the methods used by handlers from IdentityService
type IdentityServiceInterface interface {
	ResolveOrCreate(ctx context.Context, provider, externalUID string) (*models.User, error)
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// SquadServiceInterface defines the methods used by handlers from SquadService
type SquadServiceInterface interface {
	List(ctx context.Context, userID string) (map[string][]services.SquadSummary, error)
	Create(ctx context.Context, userID, name, faction, serialized string, additionalData json.RawMessage) (string, error)
	Update(ctx context.Context, id, userID, name, faction, serialized string, additionalData json.RawMessage) (string, error)
	Delete(ctx context.Context, id, userID string) error
	NameAvailable(ctx context.Context, userID, name string) (bool, error)
}

// CollectionServiceInterface defines the methods used by handlers from CollectionService
type CollectionServiceInterface interface {
	GetOrCreate(ctx context.Context, userID string) (*models.Collection, error)
	Update(ctx context.Context, userID string, expansions, singletons json.RawMessage) error
}

// JWTServiceInterface defines the methods used by handlers from JWTService
type JWTServiceInterface interface {
	GenerateTokenPair(userID string) (*services.TokenPair, error)
	ValidateRefreshToken(token string) (string, error)
	RefreshExpiry() time.Duration
}
