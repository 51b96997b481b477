package loan

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RequestStatus is the decision state of a loan request
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// Request is a member's application for a loan. MemberName and TotalDeposits
// are copied when the request is made and never refreshed.
type Request struct {
	ID              string          `json:"id"`
	MemberID        string          `json:"memberId"`
	MemberName      string          `json:"memberName"`
	Amount          decimal.Decimal `json:"amount"`
	Purpose         string          `json:"purpose,omitempty"`
	TotalDeposits   decimal.Decimal `json:"totalDeposits"`
	Status          RequestStatus   `json:"status"`
	RequestedAt     time.Time       `json:"requestedAt"`
	DecidedAt       *time.Time      `json:"decidedAt,omitempty"`
	ApprovedAmount  decimal.Decimal `json:"approvedAmount"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	LoanID          string          `json:"loanId,omitempty"`
}

// NewRequest creates a pending request
func NewRequest(memberID, memberName string, amount decimal.Decimal, purpose string, totalDeposits decimal.Decimal, now time.Time) (Request, error) {
	if !amount.IsPositive() {
		return Request{}, ErrInvalidAmount
	}

	return Request{
		ID:             uuid.NewString(),
		MemberID:       memberID,
		MemberName:     memberName,
		Amount:         amount,
		Purpose:        strings.TrimSpace(purpose),
		TotalDeposits:  totalDeposits,
		Status:         RequestPending,
		RequestedAt:    now,
		ApprovedAmount: decimal.Zero,
	}, nil
}

// IsPending reports whether the request still awaits a decision
func (r Request) IsPending() bool {
	return r.Status == RequestPending
}

// Approve records the decision and the loan it spawned
func (r *Request) Approve(approvedAmount decimal.Decimal, loanID string, at time.Time) error {
	if !r.IsPending() {
		return ErrRequestNotPending
	}
	if !approvedAmount.IsPositive() {
		return ErrInvalidAmount
	}

	r.Status = RequestApproved
	r.ApprovedAmount = approvedAmount
	r.LoanID = loanID
	r.DecidedAt = &at
	return nil
}

// Reject closes the request without creating a loan
func (r *Request) Reject(reason string, at time.Time) error {
	if !r.IsPending() {
		return ErrRequestNotPending
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyReason
	}

	r.Status = RequestRejected
	r.RejectionReason = reason
	r.DecidedAt = &at
	return nil
}
