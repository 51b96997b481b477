// Package maturity projects the payout of the fixed 36-month deposit scheme.
// Projections are pure functions of the ledger, loan and override state.
package maturity

import (
	"errors"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/shopspring/decimal"
)

const (
	// SchemeMonths is the length of the deposit scheme
	SchemeMonths = 36
	// daysPerMonth converts elapsed time into completed scheme months
	daysPerMonth = 30
)

// InterestRate is the flat rate applied to the target deposit
var InterestRate = decimal.RequireFromString("0.12")

var ErrInvalidInterest = errors.New("manual interest cannot be negative")

// Status of a member's scheme
type Status string

const (
	StatusRunning Status = "running"
	StatusMatured Status = "matured"
)

// Override replaces the computed interest for one member
type Override struct {
	MemberID       string          `json:"memberId"`
	ManualInterest decimal.Decimal `json:"manualInterest"`
	IsOverride     bool            `json:"isOverride"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// NewOverride validates a manual interest amount
func NewOverride(memberID string, manualInterest decimal.Decimal, now time.Time) (Override, error) {
	if manualInterest.IsNegative() {
		return Override{}, ErrInvalidInterest
	}
	return Override{
		MemberID:       memberID,
		ManualInterest: manualInterest,
		IsOverride:     true,
		UpdatedAt:      now,
	}, nil
}

// Projection is one member's maturity row
type Projection struct {
	MemberID               string          `json:"memberId"`
	MemberName             string          `json:"memberName"`
	JoinDate               time.Time       `json:"joinDate"`
	MaturityDate           time.Time       `json:"maturityDate"`
	MonthlyDeposit         decimal.Decimal `json:"monthlyDeposit"`
	TargetDeposit          decimal.Decimal `json:"targetDeposit"`
	ProjectedInterest      decimal.Decimal `json:"projectedInterest"`
	SettledInterest        decimal.Decimal `json:"settledInterest"`
	IsOverride             bool            `json:"isOverride"`
	MonthsCompleted        int             `json:"monthsCompleted"`
	MonthlyInterestShare   decimal.Decimal `json:"monthlyInterestShare"`
	CurrentAccruedInterest decimal.Decimal `json:"currentAccruedInterest"`
	MaturityAmount         decimal.Decimal `json:"maturityAmount"`
	OutstandingLoan        decimal.Decimal `json:"outstandingLoan"`
	NetPayable             decimal.Decimal `json:"netPayable"`
	Status                 Status          `json:"status"`
}

// Input gathers the state one projection reads
type Input struct {
	Member          member.Member
	Entries         []passbook.Entry
	OutstandingLoan decimal.Decimal
	Override        *Override
	Now             time.Time
}

// Project computes the member's maturity row
func Project(in Input) Projection {
	months := decimal.NewFromInt(SchemeMonths)

	monthlyDeposit := MonthlyDeposit(in.Entries)
	target := monthlyDeposit.Mul(months)
	projected := target.Mul(InterestRate)

	settled := projected
	isOverride := in.Override != nil && in.Override.IsOverride
	if isOverride {
		settled = in.Override.ManualInterest
	}

	completed := MonthsCompleted(in.Member.JoinDate, in.Now)
	share := settled.Div(months)
	accrued := settled.Mul(decimal.NewFromInt(int64(completed))).Div(months)
	maturityAmount := target.Add(settled)

	status := StatusRunning
	if completed >= SchemeMonths {
		status = StatusMatured
	}

	return Projection{
		MemberID:               in.Member.ID,
		MemberName:             in.Member.Name,
		JoinDate:               in.Member.JoinDate,
		MaturityDate:           in.Member.JoinDate.AddDate(0, SchemeMonths, 0),
		MonthlyDeposit:         monthlyDeposit,
		TargetDeposit:          target,
		ProjectedInterest:      projected,
		SettledInterest:        settled,
		IsOverride:             isOverride,
		MonthsCompleted:        completed,
		MonthlyInterestShare:   share.Round(2),
		CurrentAccruedInterest: accrued,
		MaturityAmount:         maturityAmount,
		OutstandingLoan:        in.OutstandingLoan,
		NetPayable:             maturityAmount.Sub(in.OutstandingLoan),
		Status:                 status,
	}
}

// MonthlyDeposit is the deposit amount of the member's earliest deposit entry
// by date, ties broken by append order. Zero when there is none.
func MonthlyDeposit(entries []passbook.Entry) decimal.Decimal {
	var (
		earliest passbook.Entry
		found    bool
	)
	for _, e := range entries {
		if e.Type != passbook.TypeDeposit {
			continue
		}
		if !found || e.Date.Before(earliest.Date) {
			earliest = e
			found = true
		}
	}
	if !found {
		return decimal.Zero
	}
	return earliest.DepositAmount
}

// MonthsCompleted counts whole 30-day periods since joining, capped at the scheme length
func MonthsCompleted(joinDate, now time.Time) int {
	if !now.After(joinDate) {
		return 0
	}
	months := int(now.Sub(joinDate).Hours() / 24 / daysPerMonth)
	return min(months, SchemeMonths)
}
