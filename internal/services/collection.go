package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/geordanr/xwing-backend/internal/models"
	"github.com/geordanr/xwing-backend/internal/store"
)

type CollectionService struct {
	store *store.Store
}

func NewCollectionService(st *store.Store) *CollectionService {
	return &CollectionService{store: st}
}

// GetOrCreate fetches the user's collection, creating an empty one on
// first access. The collection id embeds the user id, so no separate
// ownership check is needed and repeated calls return the same
// document.
func (s *CollectionService) GetOrCreate(ctx context.Context, userID string) (*models.Collection, error) {
	id := models.CollectionID(userID)

	doc, err := s.store.Get(ctx, id)
	if err == nil {
		return collectionFromDocument(doc)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	collection := &models.Collection{
		ID:         id,
		UserID:     userID,
		Expansions: json.RawMessage(`{}`),
		Singletons: json.RawMessage(`{}`),
	}

	if err := s.save(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Update replaces both payloads wholesale. There is no merging; the
// client always sends the full collection state.
func (s *CollectionService) Update(ctx context.Context, userID string, expansions, singletons json.RawMessage) error {
	collection, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}

	if expansions == nil {
		expansions = json.RawMessage(`{}`)
	}
	if singletons == nil {
		singletons = json.RawMessage(`{}`)
	}

	collection.Expansions = expansions
	collection.Singletons = singletons

	return s.save(ctx, collection)
}

func (s *CollectionService) save(ctx context.Context, collection *models.Collection) error {
	body, err := json.Marshal(struct {
		Expansions json.RawMessage `json:"expansions"`
		Singletons json.RawMessage `json:"singletons"`
	}{
		Expansions: collection.Expansions,
		Singletons: collection.Singletons,
	})
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	if _, err := s.store.Save(ctx, &store.Document{
		ID:     collection.ID,
		Type:   store.TypeCollection,
		UserID: collection.UserID,
		Body:   body,
	}); err != nil {
		return fmt.Errorf("failed to save collection: %w", err)
	}
	return nil
}

func collectionFromDocument(doc *store.Document) (*models.Collection, error) {
	var body struct {
		Expansions json.RawMessage `json:"expansions"`
		Singletons json.RawMessage `json:"singletons"`
	}
	if err := json.Unmarshal(doc.Body, &body); err != nil {
		return nil, fmt.Errorf("failed to decode collection %s: %w", doc.ID, err)
	}

	if body.Expansions == nil {
		body.Expansions = json.RawMessage(`{}`)
	}
	if body.Singletons == nil {
		body.Singletons = json.RawMessage(`{}`)
	}

	return &models.Collection{
		ID:         doc.ID,
		UserID:     doc.UserID,
		Expansions: body.Expansions,
		Singletons: body.Singletons,
	}, nil
}
