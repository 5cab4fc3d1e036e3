package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/geordanr/xwing-backend/internal/models"
	"github.com/geordanr/xwing-backend/internal/store"
)

var (
	ErrNameConflict  = errors.New("squad name is already in use")
	ErrForbidden     = errors.New("squad belongs to another user")
	ErrSquadNotFound = errors.New("squad not found")
)

// SquadSummary is one entry of a faction bucket in a squad listing.
type SquadSummary struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Serialized     string          `json:"serialized"`
	AdditionalData json.RawMessage `json:"additionalData,omitempty"`
}

type SquadService struct {
	store    *store.Store
	factions []string
}

func NewSquadService(st *store.Store, factions []string) *SquadService {
	return &SquadService{store: st, factions: factions}
}

// List returns squads grouped by faction, ordered by name within each
// bucket. Every configured faction is present as a key even when it
// holds no squads. An empty userID yields the public all-squads view;
// otherwise the listing is scoped to that user.
func (s *SquadService) List(ctx context.Context, userID string) (map[string][]SquadSummary, error) {
	rows, err := s.store.ListSquads(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list squads: %w", err)
	}

	result := make(map[string][]SquadSummary, len(s.factions))
	for _, faction := range s.factions {
		result[faction] = []SquadSummary{}
	}

	for _, row := range rows {
		result[row.Faction] = append(result[row.Faction], SquadSummary{
			ID:             row.ID,
			Name:           row.Name,
			Serialized:     row.Serialized,
			AdditionalData: row.AdditionalData,
		})
	}

	return result, nil
}

// Create builds a new squad for the user. The name must not already be
// taken among the user's squads; the availability check and the save
// are two store round trips and are allowed to race (the store has no
// conditional insert in scope).
func (s *SquadService) Create(ctx context.Context, userID, name, faction, serialized string, additionalData json.RawMessage) (string, error) {
	name = strings.TrimSpace(name)

	available, err := s.NameAvailable(ctx, userID, name)
	if err != nil {
		return "", err
	}
	if !available {
		return "", ErrNameConflict
	}

	squad := &models.Squad{
		ID:             models.NewSquadID(),
		UserID:         userID,
		Name:           name,
		Faction:        strings.TrimSpace(faction),
		Serialized:     strings.TrimSpace(serialized),
		AdditionalData: additionalData,
	}

	if err := s.save(ctx, squad); err != nil {
		return "", err
	}
	return squad.ID, nil
}

// Update overwrites a squad's name, faction, serialized build and
// additional data. Only the owner may update, and the uniqueness check
// is skipped when the name is unchanged so renaming a squad to its own
// name always succeeds.
func (s *SquadService) Update(ctx context.Context, id, userID, name, faction, serialized string, additionalData json.RawMessage) (string, error) {
	doc, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}
	if err := assertOwner(doc, userID); err != nil {
		return "", err
	}

	name = strings.TrimSpace(name)
	if name != doc.Name {
		available, err := s.NameAvailable(ctx, userID, name)
		if err != nil {
			return "", err
		}
		if !available {
			return "", ErrNameConflict
		}
	}

	squad := &models.Squad{
		ID:             doc.ID,
		UserID:         doc.UserID,
		Name:           name,
		Faction:        strings.TrimSpace(faction),
		Serialized:     strings.TrimSpace(serialized),
		AdditionalData: additionalData,
	}

	if err := s.save(ctx, squad); err != nil {
		return "", err
	}
	return squad.ID, nil
}

// Delete destroys a squad after verifying ownership.
func (s *SquadService) Delete(ctx context.Context, id, userID string) error {
	doc, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if err := assertOwner(doc, userID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete squad: %w", err)
	}
	return nil
}

// NameAvailable reports whether the user has no squad under the given
// name. Evaluated fresh on every call; results must not be cached.
func (s *SquadService) NameAvailable(ctx context.Context, userID, name string) (bool, error) {
	count, err := s.store.CountByUserName(ctx, userID, strings.TrimSpace(name))
	if err != nil {
		return false, fmt.Errorf("failed to check name availability: %w", err)
	}
	return count == 0, nil
}

func (s *SquadService) get(ctx context.Context, id string) (*store.Document, error) {
	doc, err := s.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrSquadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get squad: %w", err)
	}
	if doc.Type != store.TypeSquad {
		return nil, ErrSquadNotFound
	}
	return doc, nil
}

func (s *SquadService) save(ctx context.Context, squad *models.Squad) error {
	body, err := json.Marshal(struct {
		Serialized     string          `json:"serialized"`
		AdditionalData json.RawMessage `json:"additional_data,omitempty"`
	}{
		Serialized:     squad.Serialized,
		AdditionalData: squad.AdditionalData,
	})
	if err != nil {
		return fmt.Errorf("failed to encode squad: %w", err)
	}

	if _, err := s.store.Save(ctx, &store.Document{
		ID:      squad.ID,
		Type:    store.TypeSquad,
		UserID:  squad.UserID,
		Name:    squad.Name,
		Faction: squad.Faction,
		Body:    body,
	}); err != nil {
		return fmt.Errorf("failed to save squad: %w", err)
	}
	return nil
}

// assertOwner rejects mutation of a document the user does not own.
func assertOwner(doc *store.Document, userID string) error {
	if doc.UserID != userID {
		return ErrForbidden
	}
	return nil
}
