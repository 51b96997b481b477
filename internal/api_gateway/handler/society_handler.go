package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
	"github.com/gin-gonic/gin"
)

// SocietyHandler handles society settings and whole-state export and import
type SocietyHandler struct {
	societyService service.SocietyService
	logger         *slog.Logger
}

// NewSocietyHandler creates a new society handler
func NewSocietyHandler(logger *slog.Logger, societyService service.SocietyService) *SocietyHandler {
	return &SocietyHandler{
		societyService: societyService,
		logger:         logger,
	}
}

// GetSettings returns the current settings
func (h *SocietyHandler) GetSettings(c *gin.Context) {
	RespondOK(c, h.societyService.Settings())
}

// UpdateSettings replaces the settings
func (h *SocietyHandler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	settings, err := h.societyService.UpdateSettings(c.Request.Context(), snapshot.Settings{
		SocietyName:              req.SocietyName,
		DefaultLoanTenure:        req.DefaultLoanTenure,
		LoanInterestRate:         req.LoanInterestRate,
		DefaulterGracePeriodDays: req.DefaulterGracePeriodDays,
	})
	if err != nil {
		respondError(c, h.logger, "update settings", err)
		return
	}
	RespondOK(c, settings)
}

// Version reports how many mutations the current state has seen
func (h *SocietyHandler) Version(c *gin.Context) {
	RespondOK(c, VersionResponse{StateVersion: h.societyService.Version()})
}

// Export streams the snapshot document as a JSON attachment. The body is the
// bare document so it can be fed back to Import unchanged.
func (h *SocietyHandler) Export(c *gin.Context) {
	data, err := h.societyService.ExportData()
	if err != nil {
		respondError(c, h.logger, "export data", err)
		return
	}

	filename := fmt.Sprintf("society-export-%s.json", time.Now().UTC().Format(dateLayout))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/json", data)
}

// Import replaces the whole state with the posted snapshot document
func (h *SocietyHandler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		RespondBadRequest(c, "Failed to read request body")
		return
	}

	result := h.societyService.ImportData(c.Request.Context(), data)
	if !result.Success {
		h.logger.Warn("Data import rejected", "message", result.Message)
		RespondWithError(c, http.StatusBadRequest, "IMPORT_FAILED", result.Message)
		return
	}

	h.logger.Info("Data imported", "message", result.Message, "state_version", h.societyService.Version())
	RespondOK(c, result)
}
