package service

import (
	"context"

	"github.com/cooperative-society-ledger/internal/domain/eventlog"
	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/maturity"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/report"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
	"github.com/cooperative-society-ledger/internal/engine"
	"github.com/shopspring/decimal"
)

// MemberService defines the member directory operations
type MemberService interface {
	// RegisterMember creates an active member with zero totals
	RegisterMember(ctx context.Context, reg member.Registration) (member.Member, error)

	// UpdateMember applies contact changes
	// Returns ErrMemberNotFound if the member doesn't exist
	UpdateMember(ctx context.Context, id string, contact member.Contact) (member.Member, error)

	DeactivateMember(ctx context.Context, id string) (member.Member, error)
	ActivateMember(ctx context.Context, id string) (member.Member, error)
	GetMember(id string) (member.Member, error)
	ListMembers() []member.Member
}

// PassbookService defines the member passbook operations
type PassbookService interface {
	// AppendEntry validates and appends one entry, updating loan and member totals
	AppendEntry(ctx context.Context, in passbook.Input) (passbook.Entry, error)
	CurrentBalance(memberID string) (decimal.Decimal, error)
	ListPassbook(memberID string) ([]passbook.Entry, error)
}

// LoanService defines the loan request and loan book operations
type LoanService interface {
	RequestLoan(ctx context.Context, memberID string, amount decimal.Decimal, purpose string) (loan.Request, error)

	// ApproveLoan disburses the loan. Returns ErrRequestNotPending if the request was already decided
	ApproveLoan(ctx context.Context, requestID string, approvedAmount decimal.Decimal, tenure int) (loan.Loan, error)

	RejectLoan(ctx context.Context, requestID, reason string) (loan.Request, error)
	UpdateLoan(ctx context.Context, loanID string, patch loan.Patch) (loan.Loan, error)
	DeleteLoan(ctx context.Context, loanID string) error
	MarkLoanDefaulted(ctx context.Context, loanID string) (loan.Loan, error)
	GetLoan(loanID string) (loan.Loan, error)
	ListLoans(memberID string, status loan.Status) []loan.Loan
	GetLoanRequest(requestID string) (loan.Request, error)
	ListLoanRequests(status loan.RequestStatus) []loan.Request
}

// FundService defines the admin fund and expense ledger operations
type FundService interface {
	AppendFundEntry(ctx context.Context, kind fund.Kind, in fund.Input) (fund.Entry, error)

	// DeleteFundEntry removes an entry and recomputes the running balances after it
	DeleteFundEntry(ctx context.Context, kind fund.Kind, entryID string) (fund.Entry, error)

	ListFundEntries(kind fund.Kind) ([]fund.Entry, error)
	FundSummary(kind fund.Kind) (fund.Summary, error)
}

// MaturityService defines the maturity projection operations
type MaturityService interface {
	SetOverride(ctx context.Context, memberID string, manualInterest decimal.Decimal) (maturity.Override, error)

	// ClearOverride returns ErrOverrideNotFound if the member has no override
	ClearOverride(ctx context.Context, memberID string) error

	GetMaturityData() []maturity.Projection
	GetMemberMaturity(memberID string) (maturity.Projection, error)
}

// ReportService defines the read-only audit reports
type ReportService interface {
	GetAuditData(rng report.Range) report.AuditData
	GetCashbookData(rng report.Range) report.Cashbook
	GetMemberSummaryData() []report.MemberReport
	GetDefaultersData() []report.Defaulter
}

// SocietyService defines settings and whole-state export/import
type SocietyService interface {
	Settings() snapshot.Settings
	UpdateSettings(ctx context.Context, settings snapshot.Settings) (snapshot.Settings, error)
	ExportData() ([]byte, error)

	// ImportData never fails loudly; the outcome is reported in the result
	ImportData(ctx context.Context, data []byte) shared.Result

	Version() uint64
}

// LedgerEngine is everything the gateway needs from the state engine
type LedgerEngine interface {
	MemberService
	PassbookService
	LoanService
	FundService
	MaturityService
	ReportService
	SocietyService
}

var _ LedgerEngine = (*engine.Service)(nil)

// EventHistoryService defines queries over the archived event stream
type EventHistoryService interface {
	// ListEvents returns one page of archived events, newest first, and the total
	// number of events matching the filter
	ListEvents(ctx context.Context, filter eventlog.Filter, page, perPage int) ([]*eventlog.Record, int64, error)

	// GetEvent returns ErrRecordNotFound if the event was never archived
	GetEvent(ctx context.Context, eventID string) (*eventlog.Record, error)
}
