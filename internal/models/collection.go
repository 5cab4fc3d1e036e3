package models

import "encoding/json"

type Collection struct {
	ID         string          `json:"id"`
	UserID     string          `json:"user_id"`
	Expansions json.RawMessage `json:"expansions"`
	Singletons json.RawMessage `json:"singletons"`
}

// CollectionID derives the one-per-user collection document id, so
// saves are naturally upserts rather than duplicates.
func CollectionID(userID string) string {
	return "collection_" + userID
}
