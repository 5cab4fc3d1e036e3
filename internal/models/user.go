package models

import "fmt"

type User struct {
	ID          string `json:"id"`
	Provider    string `json:"provider"`
	ExternalUID string `json:"-"`
}

// UserID derives the durable user document id from an OAuth identity.
// The derivation is deterministic so repeated logins for the same
// identity always resolve to the same document.
func UserID(provider, externalUID string) string {
	return fmt.Sprintf("user-%s-%s", provider, externalUID)
}
