package handlers

import (
	"context"
	"errors"

	"github.com/geordanr/xwing-backend/internal/middleware"
	"github.com/geordanr/xwing-backend/internal/services"
	"github.com/geordanr/xwing-backend/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type SquadHandler struct {
	squadService SquadServiceInterface
}

func NewSquadHandler(squadService SquadServiceInterface) *SquadHandler {
	return &SquadHandler{squadService: squadService}
}

// ListAll serves the public all-squads view, grouped by faction.
func (h *SquadHandler) ListAll(c *drift.Context) {
	squads, err := h.squadService.List(context.Background(), "")
	if err != nil {
		c.InternalServerError("failed to list squads")
		return
	}

	_ = c.JSON(200, squads)
}

// ListMine serves the caller's squads, same shape as ListAll.
func (h *SquadHandler) ListMine(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	squads, err := h.squadService.List(context.Background(), userID)
	if err != nil {
		c.InternalServerError("failed to list squads")
		return
	}

	_ = c.JSON(200, squads)
}

func (h *SquadHandler) Create(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.SquadRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	id, err := h.squadService.Create(context.Background(), userID, req.Name, req.Faction, req.Serialized, req.AdditionalData)
	if err != nil {
		_ = c.JSON(200, dto.SquadMutationResponse{
			Success: false,
			Error:   squadErrorMessage(err),
		})
		return
	}

	_ = c.JSON(200, dto.SquadMutationResponse{ID: id, Success: true})
}

func (h *SquadHandler) Update(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	id := c.Param("id")

	var req dto.SquadRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	id, err := h.squadService.Update(context.Background(), id, userID, req.Name, req.Faction, req.Serialized, req.AdditionalData)
	if err != nil {
		_ = c.JSON(200, dto.SquadMutationResponse{
			Success: false,
			Error:   squadErrorMessage(err),
		})
		return
	}

	_ = c.JSON(200, dto.SquadMutationResponse{ID: id, Success: true})
}

func (h *SquadHandler) Delete(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	id := c.Param("id")

	if err := h.squadService.Delete(context.Background(), id, userID); err != nil {
		_ = c.JSON(200, dto.SquadMutationResponse{
			Success: false,
			Error:   squadErrorMessage(err),
		})
		return
	}

	_ = c.JSON(200, dto.SquadMutationResponse{Success: true})
}

// NameCheck lets clients validate a squad name before submitting.
func (h *SquadHandler) NameCheck(c *drift.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		c.Unauthorized("not authenticated")
		return
	}

	var req dto.NameCheckRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	available, err := h.squadService.NameAvailable(context.Background(), userID, req.Name)
	if err != nil {
		c.InternalServerError("failed to check name")
		return
	}

	_ = c.JSON(200, dto.NameCheckResponse{Available: available})
}

// squadErrorMessage maps service failures onto the user-facing strings
// of the soft-failure envelope. Store internals never leak through.
func squadErrorMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrNameConflict):
		return "You already have a squad with that name."
	case errors.Is(err, services.ErrForbidden):
		return "You cannot modify someone else's squad."
	case errors.Is(err, services.ErrSquadNotFound):
		return "Squad not found."
	default:
		return "Something went wrong; please try again later."
	}
}
