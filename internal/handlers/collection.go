package handlers

import (
	"context"

	"github.com/geordanr/xwing-backend/internal/middleware"
	"github.com/geordanr/xwing-backend/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type CollectionHandler struct {
	collectionService CollectionServiceInterface
}

func NewCollectionHandler(collectionService CollectionServiceInterface) *CollectionHandler {
	return &CollectionHandler{collectionService: collectionService}
}

// Get returns the caller's collection, creating an empty one on first
// access.
func (h *CollectionHandler) Get(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	collection, err := h.collectionService.GetOrCreate(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to get collection")
		return
	}

	_ = c.JSON(200, dto.CollectionResponse{
		Collection: dto.CollectionBody{
			Expansions: collection.Expansions,
			Singletons: collection.Singletons,
		},
	})
}

// Update replaces the caller's collection wholesale.
func (h *CollectionHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.UpdateCollectionRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if err := h.collectionService.Update(context.Background(), userID, req.Expansions, req.Singletons); err != nil {
		c.InternalServerError("failed to save collection")
		return
	}

	_ = c.JSON(200, dto.SuccessResponse{Success: true})
}
