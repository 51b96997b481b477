package handler

import (
	"log/slog"

	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/gin-gonic/gin"
)

// MaturityHandler handles HTTP requests for maturity projections
type MaturityHandler struct {
	maturityService service.MaturityService
	logger          *slog.Logger
}

// NewMaturityHandler creates a new maturity handler
func NewMaturityHandler(logger *slog.Logger, maturityService service.MaturityService) *MaturityHandler {
	return &MaturityHandler{
		maturityService: maturityService,
		logger:          logger,
	}
}

// List projects every member
func (h *MaturityHandler) List(c *gin.Context) {
	RespondOK(c, orEmpty(h.maturityService.GetMaturityData()))
}

// GetByMember projects a single member
func (h *MaturityHandler) GetByMember(c *gin.Context) {
	projection, err := h.maturityService.GetMemberMaturity(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "project maturity", err)
		return
	}
	RespondOK(c, projection)
}

// SetOverride fixes the member's interest to a manual amount
func (h *MaturityHandler) SetOverride(c *gin.Context) {
	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	override, err := h.maturityService.SetOverride(c.Request.Context(), c.Param("id"), req.ManualInterest)
	if err != nil {
		respondError(c, h.logger, "set maturity override", err)
		return
	}
	RespondOK(c, override)
}

// ClearOverride reverts the member to the computed interest
func (h *MaturityHandler) ClearOverride(c *gin.Context) {
	if err := h.maturityService.ClearOverride(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "clear maturity override", err)
		return
	}
	RespondNoContent(c)
}
