package handler

import (
	"time"

	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Amounts are bound as decimal.Decimal, which accepts both JSON numbers and
// strings. Range checks on money stay in the domain constructors.

// RegisterMemberRequest represents a request to register a new member
type RegisterMemberRequest struct {
	Name     string     `json:"name" binding:"required"`
	Phone    string     `json:"phone"`
	Email    string     `json:"email" binding:"omitempty,email"`
	Address  string     `json:"address"`
	JoinDate *time.Time `json:"joinDate"`
}

func (r RegisterMemberRequest) toRegistration() member.Registration {
	reg := member.Registration{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address,
	}
	if r.JoinDate != nil {
		reg.JoinDate = *r.JoinDate
	}
	return reg
}

// UpdateMemberRequest represents a partial update of member contact details
type UpdateMemberRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

func (r UpdateMemberRequest) toContact() member.Contact {
	return member.Contact{
		Name:    r.Name,
		Phone:   r.Phone,
		Email:   r.Email,
		Address: r.Address,
	}
}

// AppendEntryRequest represents a passbook entry posted for a member
type AppendEntryRequest struct {
	LoanID            string          `json:"loanId"`
	Type              string          `json:"type"`
	DepositAmount     decimal.Decimal `json:"depositAmount"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	InterestAmount    decimal.Decimal `json:"interestAmount"`
	FineAmount        decimal.Decimal `json:"fineAmount"`
	WithdrawalAmount  decimal.Decimal `json:"withdrawalAmount"`
	PaymentMode       string          `json:"paymentMode"`
	Date              *time.Time      `json:"date"`
	Description       string          `json:"description"`
}

func (r AppendEntryRequest) toInput(memberID string, entryType passbook.EntryType) passbook.Input {
	in := passbook.Input{
		MemberID: memberID,
		LoanID:   r.LoanID,
		Type:     entryType,
		Components: passbook.Components{
			DepositAmount:     r.DepositAmount,
			InstallmentAmount: r.InstallmentAmount,
			InterestAmount:    r.InterestAmount,
			FineAmount:        r.FineAmount,
			WithdrawalAmount:  r.WithdrawalAmount,
		},
		PaymentMode: shared.PaymentMode(r.PaymentMode),
		Description: r.Description,
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	return in
}

// BalanceResponse represents a member's current passbook balance
type BalanceResponse struct {
	MemberID string          `json:"memberId"`
	Balance  decimal.Decimal `json:"balance"`
}

// CreateLoanRequestRequest represents a member's loan application
type CreateLoanRequestRequest struct {
	MemberID string          `json:"memberId" binding:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Purpose  string          `json:"purpose"`
}

// ApproveLoanRequest represents the approval decision. Zero values fall back
// to the requested amount and the society's default tenure.
type ApproveLoanRequest struct {
	ApprovedAmount decimal.Decimal `json:"approvedAmount"`
	Tenure         int             `json:"tenure" binding:"min=0"`
}

// RejectLoanRequest represents the rejection decision
type RejectLoanRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// FundEntryRequest represents an admin fund or expense ledger entry
type FundEntryRequest struct {
	Type        string          `json:"type" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	PaymentMode string          `json:"paymentMode"`
	Date        *time.Time      `json:"date"`
}

func (r FundEntryRequest) toInput() fund.Input {
	in := fund.Input{
		Amount:      r.Amount,
		Direction:   fund.Direction(r.Type),
		Category:    r.Category,
		Description: r.Description,
		PaymentMode: shared.PaymentMode(r.PaymentMode),
	}
	if r.Date != nil {
		in.Date = *r.Date
	}
	return in
}

// FundLedgerResponse represents a fund ledger with its closing balance
type FundLedgerResponse struct {
	Kind    fund.Kind       `json:"kind"`
	Entries []fund.Entry    `json:"entries"`
	Balance decimal.Decimal `json:"balance"`
}

// OverrideRequest represents a manual maturity interest amount
type OverrideRequest struct {
	ManualInterest decimal.Decimal `json:"manualInterest"`
}

// SettingsRequest represents a full replacement of the society settings
type SettingsRequest struct {
	SocietyName              string          `json:"societyName" binding:"required"`
	DefaultLoanTenure        int             `json:"defaultLoanTenure" binding:"required,min=1"`
	LoanInterestRate         decimal.Decimal `json:"loanInterestRate"`
	DefaulterGracePeriodDays int             `json:"defaulterGracePeriodDays" binding:"min=0"`
}

// VersionResponse reports the state version behind a response
type VersionResponse struct {
	StateVersion uint64 `json:"stateVersion"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}

// EventQueryParams narrows the event history
type EventQueryParams struct {
	PaginationParams
	AggregateID string `form:"aggregateId"`
	Type        string `form:"type"`
}
