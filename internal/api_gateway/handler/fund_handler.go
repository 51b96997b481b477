package handler

import (
	"log/slog"

	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/gin-gonic/gin"
)

// FundHandler handles HTTP requests for the admin fund and expense ledgers.
// Every route carries the ledger in its :kind parameter.
type FundHandler struct {
	fundService service.FundService
	logger      *slog.Logger
}

// NewFundHandler creates a new fund handler
func NewFundHandler(logger *slog.Logger, fundService service.FundService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
		logger:      logger,
	}
}

func (h *FundHandler) kind(c *gin.Context) (fund.Kind, bool) {
	kind, err := fund.ParseKind(c.Param("kind"))
	if err != nil {
		RespondNotFound(c, err.Error())
		return "", false
	}
	return kind, true
}

// Append adds an entry to the ledger
func (h *FundHandler) Append(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	var req FundEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.fundService.AppendFundEntry(c.Request.Context(), kind, req.toInput())
	if err != nil {
		respondError(c, h.logger, "append fund entry", err)
		return
	}
	RespondCreated(c, entry)
}

// List returns the ledger entries and its closing balance
func (h *FundHandler) List(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	entries, err := h.fundService.ListFundEntries(kind)
	if err != nil {
		respondError(c, h.logger, "list fund entries", err)
		return
	}

	RespondOK(c, FundLedgerResponse{
		Kind:    kind,
		Entries: orEmpty(entries),
		Balance: fund.Balance(entries),
	})
}

// Delete removes an entry; later running balances are recomputed
func (h *FundHandler) Delete(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	removed, err := h.fundService.DeleteFundEntry(c.Request.Context(), kind, c.Param("entryId"))
	if err != nil {
		respondError(c, h.logger, "delete fund entry", err)
		return
	}
	RespondOK(c, removed)
}

// Summary totals the ledger
func (h *FundHandler) Summary(c *gin.Context) {
	kind, ok := h.kind(c)
	if !ok {
		return
	}

	summary, err := h.fundService.FundSummary(kind)
	if err != nil {
		respondError(c, h.logger, "summarize fund", err)
		return
	}
	RespondOK(c, summary)
}
