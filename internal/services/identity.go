package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/geordanr/xwing-backend/internal/models"
	"github.com/geordanr/xwing-backend/internal/store"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidSession means the session token referenced a user that
	// no longer exists in the store.
	ErrInvalidSession = errors.New("session is no longer valid")
)

type IdentityService struct {
	store *store.Store
}

func NewIdentityService(st *store.Store) *IdentityService {
	return &IdentityService{store: st}
}

// ResolveOrCreate maps an external OAuth identity to its user
// document, creating the document on first sight. The id derivation is
// deterministic, so calling this repeatedly for the same identity
// never creates duplicates.
func (s *IdentityService) ResolveOrCreate(ctx context.Context, provider, externalUID string) (*models.User, error) {
	id := models.UserID(provider, externalUID)

	doc, err := s.store.Get(ctx, id)
	if err == nil {
		return userFromDocument(doc)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user := &models.User{
		ID:          id,
		Provider:    provider,
		ExternalUID: externalUID,
	}

	body, err := json.Marshal(map[string]string{
		"provider":     provider,
		"external_uid": externalUID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}

	if _, err := s.store.Save(ctx, &store.Document{
		ID:     id,
		Type:   store.TypeUser,
		UserID: id,
		Body:   body,
	}); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate maps a session token back to its user. The token is the
// user document id carried by a validated session. An empty token is
// ErrUnauthenticated; a token whose user document is gone is
// ErrInvalidSession (stale session).
func (s *IdentityService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	doc, err := s.store.Get(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up session user: %w", err)
	}
	if doc.Type != store.TypeUser {
		return nil, ErrInvalidSession
	}

	return userFromDocument(doc)
}

func userFromDocument(doc *store.Document) (*models.User, error) {
	var body struct {
		Provider    string `json:"provider"`
		ExternalUID string `json:"external_uid"`
	}
	if err := json.Unmarshal(doc.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", doc.ID, err)
	}

	return &models.User{
		ID:          doc.ID,
		Provider:    body.Provider,
		ExternalUID: body.ExternalUID,
	}, nil
}
