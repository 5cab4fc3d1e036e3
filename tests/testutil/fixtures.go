package testutil

import (
	"context"
	"testing"

	"github.com/geordanr/xwing-backend/internal/database"
	"github.com/geordanr/xwing-backend/internal/models"
	"github.com/geordanr/xwing-backend/internal/services"
	"github.com/geordanr/xwing-backend/internal/store"
)

// Factions used across integration tests.
var TestFactions = []string{"Rebel Alliance", "Galactic Empire", "Scum and Villainy"}

// Fixtures creates test data through the real services
type Fixtures struct {
	db *database.DB
}

func NewFixtures(db *database.DB) *Fixtures {
	return &Fixtures{db: db}
}

// Store returns a document store backed by the test database
func (f *Fixtures) Store() *store.Store {
	return store.New(f.db)
}

// CreateUser resolves a user for the given OAuth identity, creating it
// on first use
func (f *Fixtures) CreateUser(t *testing.T, provider, externalUID string) *models.User {
	t.Helper()

	svc := services.NewIdentityService(f.Store())
	user, err := svc.ResolveOrCreate(context.Background(), provider, externalUID)
	if err != nil {
		t.Fatalf("failed to create user fixture: %v", err)
	}
	return user
}
