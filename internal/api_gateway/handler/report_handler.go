package handler

import (
	"log/slog"

	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/cooperative-society-ledger/internal/domain/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles HTTP requests for the audit reports
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// dateRange reads the optional startDate and endDate query parameters
func (h *ReportHandler) dateRange(c *gin.Context) (report.Range, bool) {
	start, err := dateQuery(c, "startDate")
	if err != nil {
		RespondBadRequest(c, err.Error())
		return report.Range{}, false
	}
	end, err := dateQuery(c, "endDate")
	if err != nil {
		RespondBadRequest(c, err.Error())
		return report.Range{}, false
	}
	if start != nil && end != nil && end.Before(*start) {
		RespondBadRequest(c, "endDate cannot be before startDate")
		return report.Range{}, false
	}
	return report.Range{Start: start, End: end}, true
}

// Audit returns the merged transaction list with its summaries
func (h *ReportHandler) Audit(c *gin.Context) {
	rng, ok := h.dateRange(c)
	if !ok {
		return
	}
	RespondOK(c, h.reportService.GetAuditData(rng))
}

// Cashbook returns the cash, bank and UPI columns with running balances
func (h *ReportHandler) Cashbook(c *gin.Context) {
	rng, ok := h.dateRange(c)
	if !ok {
		return
	}
	RespondOK(c, h.reportService.GetCashbookData(rng))
}

// MemberSummary returns per-member totals
func (h *ReportHandler) MemberSummary(c *gin.Context) {
	RespondOK(c, orEmpty(h.reportService.GetMemberSummaryData()))
}

// Defaulters returns the loans overdue beyond the grace period
func (h *ReportHandler) Defaulters(c *gin.Context) {
	RespondOK(c, orEmpty(h.reportService.GetDefaultersData()))
}
