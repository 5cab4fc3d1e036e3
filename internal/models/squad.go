package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

type Squad struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	Name    string `json:"name"`
	Faction string `json:"faction"`
	// Serialized is the squad build as produced by the client; the
	// backend stores it opaquely.
	Serialized     string          `json:"serialized"`
	AdditionalData json.RawMessage `json:"additional_data,omitempty"`
}

// NewSquadID generates a fresh squad document id.
func NewSquadID() string {
	return "squad_" + uuid.New().String()
}
