package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/geordanr/xwing-backend/internal/database"
	"github.com/jackc/pgx/v5"
)

// Document type discriminators.
const (
	TypeUser       = "user"
	TypeSquad      = "squad"
	TypeCollection = "collection"
)

var ErrNotFound = errors.New("document not found")

// Document is one row of the schemaless store. UserID, Name and
// Faction are promoted out of the body so the squad indexes can use
// them; everything else the document carries lives in Body.
type Document struct {
	ID       string
	Type     string
	UserID   string
	Name     string
	Faction  string
	Body     json.RawMessage
	Revision int64
}

// SquadRow is one entry of the squad listing, ordered by
// (user_id, faction, name).
type SquadRow struct {
	ID             string
	UserID         string
	Name           string
	Faction        string
	Serialized     string
	AdditionalData json.RawMessage
}

type Store struct {
	db *database.DB
}

func New(db *database.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := s.db.Pool.QueryRow(ctx, `
		SELECT id, type, user_id, name, faction, body, revision
		FROM documents WHERE id = $1
	`, id).Scan(
		&doc.ID, &doc.Type, &doc.UserID, &doc.Name, &doc.Faction,
		&doc.Body, &doc.Revision,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	return &doc, nil
}

// Save inserts the document or fully overwrites an existing one with
// the same id, bumping its revision. It returns the stored revision.
func (s *Store) Save(ctx context.Context, doc *Document) (int64, error) {
	if doc.Body == nil {
		doc.Body = json.RawMessage(`{}`)
	}

	var revision int64
	err := s.db.Pool.QueryRow(ctx, `
		INSERT INTO documents (id, type, user_id, name, faction, body)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			faction = EXCLUDED.faction,
			body = EXCLUDED.body,
			revision = documents.revision + 1,
			updated_at = NOW()
		RETURNING revision
	`, doc.ID, doc.Type, doc.UserID, doc.Name, doc.Faction, doc.Body).Scan(&revision)
	if err != nil {
		return 0, fmt.Errorf("failed to save document %s: %w", doc.ID, err)
	}

	doc.Revision = revision
	return revision, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByUserName reports how many squads the user owns under the
// given name. Callers only care whether the result is zero.
func (s *Store) CountByUserName(ctx context.Context, userID, name string) (int64, error) {
	var count int64
	err := s.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM documents
		WHERE type = 'squad' AND user_id = $1 AND name = $2
	`, userID, name).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count squads by name: %w", err)
	}
	return count, nil
}

// ListSquads returns squad rows ordered by (user_id, faction, name).
// An empty userID returns every squad in the store; otherwise the
// result is scoped to that user's squads.
func (s *Store) ListSquads(ctx context.Context, userID string) ([]SquadRow, error) {
	query := `
		SELECT id, user_id, name, faction,
			COALESCE(body->>'serialized', ''),
			body->'additional_data'
		FROM documents
		WHERE type = 'squad'`
	args := []any{}
	if userID != "" {
		query += ` AND user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY user_id, faction, name`

	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list squads: %w", err)
	}
	defer rows.Close()

	var result []SquadRow
	for rows.Next() {
		var row SquadRow
		if err := rows.Scan(
			&row.ID, &row.UserID, &row.Name, &row.Faction,
			&row.Serialized, &row.AdditionalData,
		); err != nil {
			return nil, fmt.Errorf("failed to scan squad row: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate squad rows: %w", err)
	}
	return result, nil
}
