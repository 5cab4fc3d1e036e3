package database

import (
	"context"
	"fmt"
)

// All document types (user, squad, collection) share one schemaless
// table. The id carries a human-readable type prefix and acts as the
// primary key; user_id, name and faction are promoted out of the body
// so the squad indexes below can serve existence checks and listings.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		user_id TEXT,
		name TEXT,
		faction TEXT,
		body JSONB NOT NULL DEFAULT '{}',
		revision BIGINT NOT NULL DEFAULT 1,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Existence check for per-user name uniqueness. Deliberately not a
	// unique index: the check-then-write sequence is allowed to race.
	`CREATE INDEX IF NOT EXISTS idx_documents_by_user_name
		ON documents (user_id, name) WHERE type = 'squad'`,

	// Listing index; key order gives faction-then-name ordering within
	// each user's squads.
	`CREATE INDEX IF NOT EXISTS idx_documents_list
		ON documents (user_id, faction, name) WHERE type = 'squad'`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
