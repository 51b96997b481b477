package passbook

import (
	"errors"
	"strings"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Common errors
var (
	ErrInvalidAmount = errors.New("component amounts cannot be negative")
	ErrEmptyEntry    = errors.New("entry must carry at least one non-zero amount")
	ErrMissingMember = errors.New("entry must reference a member")
)

// EntryType classifies a passbook entry
type EntryType string

const (
	TypeDeposit     EntryType = "deposit"
	TypeInstallment EntryType = "installment"
	TypeInterest    EntryType = "interest"
	TypeFine        EntryType = "fine"
	TypeWithdrawal  EntryType = "withdrawal"
	TypeLoan        EntryType = "loan"
)

// ParseEntryType normalizes raw input. An empty value returns an empty type,
// which NewEntry replaces with the type inferred from the components.
func ParseEntryType(raw string) (EntryType, error) {
	t := EntryType(strings.ToLower(strings.TrimSpace(raw)))
	switch t {
	case "", TypeDeposit, TypeInstallment, TypeInterest, TypeFine, TypeWithdrawal, TypeLoan:
		return t, nil
	default:
		return "", ErrInvalidEntryType{Type: raw}
	}
}

// Components are the amounts one entry moves. Deposit, interest and fine are
// credits to the passbook balance; installment and withdrawal are debits.
type Components struct {
	DepositAmount     decimal.Decimal `json:"depositAmount"`
	InstallmentAmount decimal.Decimal `json:"installmentAmount"`
	InterestAmount    decimal.Decimal `json:"interestAmount"`
	FineAmount        decimal.Decimal `json:"fineAmount"`
	WithdrawalAmount  decimal.Decimal `json:"withdrawalAmount"`
}

// NetDelta is the signed change the entry applies to the running balance
func (c Components) NetDelta() decimal.Decimal {
	return c.Credits().Sub(c.InstallmentAmount).Sub(c.WithdrawalAmount)
}

// Credits sums the credit components
func (c Components) Credits() decimal.Decimal {
	return c.DepositAmount.Add(c.InterestAmount).Add(c.FineAmount)
}

// Total is the gross amount of money the entry records, regardless of direction
func (c Components) Total() decimal.Decimal {
	return c.Credits().Add(c.InstallmentAmount).Add(c.WithdrawalAmount)
}

// Validate rejects negative components and entries that move nothing
func (c Components) Validate() error {
	for _, amount := range []decimal.Decimal{
		c.DepositAmount, c.InstallmentAmount, c.InterestAmount, c.FineAmount, c.WithdrawalAmount,
	} {
		if amount.IsNegative() {
			return ErrInvalidAmount
		}
	}
	if c.Total().IsZero() {
		return ErrEmptyEntry
	}
	return nil
}

// InferType picks the type of the first non-zero component
func (c Components) InferType() EntryType {
	switch {
	case c.DepositAmount.IsPositive():
		return TypeDeposit
	case c.InstallmentAmount.IsPositive():
		return TypeInstallment
	case c.InterestAmount.IsPositive():
		return TypeInterest
	case c.FineAmount.IsPositive():
		return TypeFine
	default:
		return TypeWithdrawal
	}
}

// Entry is one immutable passbook record
type Entry struct {
	ID       string    `json:"id"`
	MemberID string    `json:"memberId"`
	LoanID   string    `json:"loanId,omitempty"`
	Date     time.Time `json:"date"`
	Type     EntryType `json:"type"`
	Components
	PaymentMode shared.PaymentMode `json:"paymentMode"`
	Balance     decimal.Decimal    `json:"balance"`
	Description string             `json:"description,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// Input describes an entry before it is placed in the ledger
type Input struct {
	MemberID    string
	LoanID      string
	Type        EntryType
	Components  Components
	Date        time.Time
	PaymentMode shared.PaymentMode
	Description string
}

// NewEntry validates in and builds the entry that follows priorBalance
func NewEntry(in Input, priorBalance decimal.Decimal, now time.Time) (Entry, error) {
	if strings.TrimSpace(in.MemberID) == "" {
		return Entry{}, ErrMissingMember
	}
	if err := in.Components.Validate(); err != nil {
		return Entry{}, err
	}

	entryType, err := ParseEntryType(string(in.Type))
	if err != nil {
		return Entry{}, err
	}
	if entryType == "" {
		entryType = in.Components.InferType()
	}

	mode, err := shared.ParsePaymentMode(string(in.PaymentMode))
	if err != nil {
		return Entry{}, err
	}

	date := in.Date
	if date.IsZero() {
		date = now
	}

	return Entry{
		ID:          uuid.NewString(),
		MemberID:    in.MemberID,
		LoanID:      strings.TrimSpace(in.LoanID),
		Date:        date,
		Type:        entryType,
		Components:  in.Components,
		PaymentMode: mode,
		Balance:     priorBalance.Add(in.Components.NetDelta()),
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
	}, nil
}

// ErrInvalidEntryType indicates an unknown entry type
type ErrInvalidEntryType struct {
	Type string
}

func (e ErrInvalidEntryType) Error() string {
	return "invalid passbook entry type: " + e.Type
}

// Is implements the errors.Is interface for ErrInvalidEntryType
func (e ErrInvalidEntryType) Is(target error) bool {
	_, ok := target.(ErrInvalidEntryType)
	return ok
}
