package dto

import "encoding/json"

// SquadRequest is the body of squad create and update calls.
type SquadRequest struct {
	Name           string          `json:"name"`
	Faction        string          `json:"faction"`
	Serialized     string          `json:"serialized"`
	AdditionalData json.RawMessage `json:"additional_data,omitempty"`
}

// SquadMutationResponse is the soft-failure envelope of every squad
// mutation: failures come back as 200 with Success false and a
// user-facing error message.
type SquadMutationResponse struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type NameCheckRequest struct {
	Name string `json:"name"`
}

type NameCheckResponse struct {
	Available bool `json:"available"`
}
