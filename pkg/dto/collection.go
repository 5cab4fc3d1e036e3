package dto

import "encoding/json"

type CollectionBody struct {
	Expansions json.RawMessage `json:"expansions"`
	Singletons json.RawMessage `json:"singletons"`
}

type CollectionResponse struct {
	Collection CollectionBody `json:"collection"`
}

type UpdateCollectionRequest struct {
	Expansions json.RawMessage `json:"expansions"`
	Singletons json.RawMessage `json:"singletons"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
