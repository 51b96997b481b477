package handler

import (
	"log/slog"

	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/gin-gonic/gin"
)

// PassbookHandler handles HTTP requests for member passbooks
type PassbookHandler struct {
	passbookService service.PassbookService
	logger          *slog.Logger
}

// NewPassbookHandler creates a new passbook handler
func NewPassbookHandler(logger *slog.Logger, passbookService service.PassbookService) *PassbookHandler {
	return &PassbookHandler{
		passbookService: passbookService,
		logger:          logger,
	}
}

// Append posts one entry to the member's passbook
func (h *PassbookHandler) Append(c *gin.Context) {
	var req AppendEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entryType, err := passbook.ParseEntryType(req.Type)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	memberID := c.Param("id")
	entry, err := h.passbookService.AppendEntry(c.Request.Context(), req.toInput(memberID, entryType))
	if err != nil {
		respondError(c, h.logger, "append passbook entry", err)
		return
	}

	h.logger.Info("Passbook entry appended",
		"member_id", memberID,
		"entry_id", entry.ID,
		"type", entry.Type,
		"balance", entry.Balance.String(),
	)
	RespondCreated(c, entry)
}

// List returns the member's entries in append order
func (h *PassbookHandler) List(c *gin.Context) {
	entries, err := h.passbookService.ListPassbook(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "list passbook", err)
		return
	}
	RespondOK(c, orEmpty(entries))
}

// Balance returns the member's current balance
func (h *PassbookHandler) Balance(c *gin.Context) {
	memberID := c.Param("id")
	balance, err := h.passbookService.CurrentBalance(memberID)
	if err != nil {
		respondError(c, h.logger, "get balance", err)
		return
	}
	RespondOK(c, BalanceResponse{MemberID: memberID, Balance: balance})
}
