package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/cooperative-society-ledger/internal/domain/eventlog"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// EventHandler serves the archived domain event history
type EventHandler struct {
	historyService service.EventHistoryService
	logger         *slog.Logger
}

// NewEventHandler creates a new event history handler
func NewEventHandler(logger *slog.Logger, historyService service.EventHistoryService) *EventHandler {
	return &EventHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// List returns a page of archived events, newest first
func (h *EventHandler) List(c *gin.Context) {
	var params EventQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		h.logger.Error("Invalid query parameters", "error", err)
		RespondBadRequest(c, "Invalid query parameters")
		return
	}

	since, err := dateQuery(c, "since")
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	until, err := dateQuery(c, "until")
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	if until != nil {
		// until covers the whole day
		endOfDay := until.AddDate(0, 0, 1).Add(-time.Nanosecond)
		until = &endOfDay
	}

	filter := eventlog.Filter{
		AggregateID: params.AggregateID,
		Type:        shared.EventType(params.Type),
		Since:       since,
		Until:       until,
	}

	records, total, err := h.historyService.ListEvents(c.Request.Context(), filter, params.Page, params.PerPage)
	if err != nil {
		respondError(c, h.logger, "list events", err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, orEmpty(records), params.Page, params.PerPage, int(total))
}

// GetByID retrieves one archived event
func (h *EventHandler) GetByID(c *gin.Context) {
	record, err := h.historyService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get event", err)
		return
	}
	RespondOK(c, record)
}
