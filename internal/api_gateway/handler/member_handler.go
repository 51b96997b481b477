package handler

import (
	"log/slog"

	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/gin-gonic/gin"
)

// MemberHandler handles HTTP requests for the member directory
type MemberHandler struct {
	memberService service.MemberService
	logger        *slog.Logger
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(logger *slog.Logger, memberService service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		logger:        logger,
	}
}

// Register handles registration of a new member
func (h *MemberHandler) Register(c *gin.Context) {
	var req RegisterMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.memberService.RegisterMember(c.Request.Context(), req.toRegistration())
	if err != nil {
		respondError(c, h.logger, "register member", err)
		return
	}

	RespondCreated(c, m)
}

// Update applies contact changes to a member
func (h *MemberHandler) Update(c *gin.Context) {
	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	m, err := h.memberService.UpdateMember(c.Request.Context(), c.Param("id"), req.toContact())
	if err != nil {
		respondError(c, h.logger, "update member", err)
		return
	}

	RespondOK(c, m)
}

// Activate re-admits an inactive member
func (h *MemberHandler) Activate(c *gin.Context) {
	m, err := h.memberService.ActivateMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "activate member", err)
		return
	}
	RespondOK(c, m)
}

// Deactivate stops a member from taking part in new transactions
func (h *MemberHandler) Deactivate(c *gin.Context) {
	m, err := h.memberService.DeactivateMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "deactivate member", err)
		return
	}
	RespondOK(c, m)
}

// GetByID retrieves a member, returning 404 if not found
func (h *MemberHandler) GetByID(c *gin.Context) {
	m, err := h.memberService.GetMember(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get member", err)
		return
	}
	RespondOK(c, m)
}

// List returns the whole directory, optionally filtered by status
func (h *MemberHandler) List(c *gin.Context) {
	members := h.memberService.ListMembers()

	if raw := c.Query("status"); raw != "" {
		status := member.Status(raw)
		if status != member.StatusActive && status != member.StatusInactive {
			RespondBadRequest(c, "status must be active or inactive")
			return
		}
		filtered := make([]member.Member, 0, len(members))
		for _, m := range members {
			if m.Status == status {
				filtered = append(filtered, m)
			}
		}
		members = filtered
	}

	RespondOK(c, orEmpty(members))
}

// orEmpty keeps empty lists serialized as [] rather than null
func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
