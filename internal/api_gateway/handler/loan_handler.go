package handler

import (
	"log/slog"

	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/gin-gonic/gin"
)

// LoanHandler handles HTTP requests for loan requests and the loan book
type LoanHandler struct {
	loanService service.LoanService
	logger      *slog.Logger
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(logger *slog.Logger, loanService service.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		logger:      logger,
	}
}

// CreateRequest files a pending loan request for a member
func (h *LoanHandler) CreateRequest(c *gin.Context) {
	var req CreateLoanRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.loanService.RequestLoan(c.Request.Context(), req.MemberID, req.Amount, req.Purpose)
	if err != nil {
		respondError(c, h.logger, "request loan", err)
		return
	}

	RespondCreated(c, created)
}

// ListRequests returns loan requests, optionally filtered by status
func (h *LoanHandler) ListRequests(c *gin.Context) {
	status := loan.RequestStatus(c.Query("status"))
	switch status {
	case "", loan.RequestPending, loan.RequestApproved, loan.RequestRejected:
	default:
		RespondBadRequest(c, "status must be pending, approved or rejected")
		return
	}

	RespondOK(c, orEmpty(h.loanService.ListLoanRequests(status)))
}

// GetRequest retrieves one loan request
func (h *LoanHandler) GetRequest(c *gin.Context) {
	req, err := h.loanService.GetLoanRequest(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get loan request", err)
		return
	}
	RespondOK(c, req)
}

// Approve disburses a pending request as an active loan
func (h *LoanHandler) Approve(c *gin.Context) {
	var req ApproveLoanRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.loanService.ApproveLoan(c.Request.Context(), c.Param("id"), req.ApprovedAmount, req.Tenure)
	if err != nil {
		respondError(c, h.logger, "approve loan", err)
		return
	}

	h.logger.Info("Loan approved",
		"request_id", c.Param("id"),
		"loan_id", created.ID,
		"amount", created.Amount.String(),
		"tenure", created.Tenure,
	)
	RespondCreated(c, created)
}

// Reject closes a pending request with a reason
func (h *LoanHandler) Reject(c *gin.Context) {
	var req RejectLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	updated, err := h.loanService.RejectLoan(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, h.logger, "reject loan", err)
		return
	}
	RespondOK(c, updated)
}

// List returns loans filtered by memberId and status query parameters
func (h *LoanHandler) List(c *gin.Context) {
	var status loan.Status
	if raw := c.Query("status"); raw != "" {
		parsed, err := loan.ParseStatus(raw)
		if err != nil {
			RespondBadRequest(c, err.Error())
			return
		}
		status = parsed
	}

	RespondOK(c, orEmpty(h.loanService.ListLoans(c.Query("memberId"), status)))
}

// GetByID retrieves one loan
func (h *LoanHandler) GetByID(c *gin.Context) {
	l, err := h.loanService.GetLoan(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "get loan", err)
		return
	}
	RespondOK(c, l)
}

// Update applies an administrative correction to a loan
func (h *LoanHandler) Update(c *gin.Context) {
	var patch loan.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if patch.Status != nil {
		status, err := loan.ParseStatus(string(*patch.Status))
		if err != nil {
			RespondBadRequest(c, err.Error())
			return
		}
		patch.Status = &status
	}

	updated, err := h.loanService.UpdateLoan(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, h.logger, "update loan", err)
		return
	}
	RespondOK(c, updated)
}

// Delete removes a loan record
func (h *LoanHandler) Delete(c *gin.Context) {
	if err := h.loanService.DeleteLoan(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, "delete loan", err)
		return
	}
	RespondNoContent(c)
}

// MarkDefaulted moves an active loan to defaulted
func (h *LoanHandler) MarkDefaulted(c *gin.Context) {
	updated, err := h.loanService.MarkLoanDefaulted(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, "mark loan defaulted", err)
		return
	}
	RespondOK(c, updated)
}
