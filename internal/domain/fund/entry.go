package fund

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
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrUnknownLedger = errors.New("ledger must be admin or expense")
)

// Kind selects one of the two society fund ledgers
type Kind string

const (
	KindAdmin   Kind = "admin"
	KindExpense Kind = "expense"
)

// ParseKind validates a ledger name
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case KindAdmin, KindExpense:
		return k, nil
	default:
		return "", ErrUnknownLedger
	}
}

// Direction says whether an entry adds to or takes from the fund
type Direction string

const (
	DirectionInject   Direction = "inject"
	DirectionWithdraw Direction = "withdraw"
	DirectionIncome   Direction = "income"
	DirectionExpense  Direction = "expense"
)

// IsCredit reports whether the direction increases the running balance
func (d Direction) IsCredit() bool {
	return d == DirectionInject || d == DirectionIncome
}

// Allows reports whether the ledger accepts the direction
func (k Kind) Allows(d Direction) bool {
	switch k {
	case KindAdmin:
		return d == DirectionInject || d == DirectionWithdraw
	case KindExpense:
		return d == DirectionIncome || d == DirectionExpense
	default:
		return false
	}
}

// Entry is one fund ledger record. RunningBalance follows ledger order, not date order.
type Entry struct {
	ID             string             `json:"id"`
	Date           time.Time          `json:"date"`
	Direction      Direction          `json:"type"`
	Category       string             `json:"category,omitempty"`
	Amount         decimal.Decimal    `json:"amount"`
	PaymentMode    shared.PaymentMode `json:"paymentMode"`
	Description    string             `json:"description,omitempty"`
	RunningBalance decimal.Decimal    `json:"runningBalance"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// Signed returns the amount with the sign the entry applies to the balance
func (e Entry) Signed() decimal.Decimal {
	if e.Direction.IsCredit() {
		return e.Amount
	}
	return e.Amount.Neg()
}

// Input describes an entry before it is placed in a ledger
type Input struct {
	Amount      decimal.Decimal
	Direction   Direction
	Category    string
	Description string
	PaymentMode shared.PaymentMode
	Date        time.Time
}

// NewEntry validates in for the given ledger. RunningBalance is filled in by Append.
func NewEntry(kind Kind, in Input, now time.Time) (Entry, error) {
	if !in.Amount.IsPositive() {
		return Entry{}, ErrInvalidAmount
	}

	direction := Direction(strings.ToLower(strings.TrimSpace(string(in.Direction))))
	if !kind.Allows(direction) {
		return Entry{}, ErrInvalidDirection{Kind: kind, Direction: string(in.Direction)}
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
		Date:        date,
		Direction:   direction,
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		PaymentMode: mode,
		Description: strings.TrimSpace(in.Description),
		CreatedAt:   now,
	}, nil
}

// ErrInvalidDirection indicates a direction the ledger does not accept
type ErrInvalidDirection struct {
	Kind      Kind
	Direction string
}

func (e ErrInvalidDirection) Error() string {
	return "invalid direction " + e.Direction + " for " + string(e.Kind) + " ledger"
}

// Is implements the errors.Is interface for ErrInvalidDirection
func (e ErrInvalidDirection) Is(target error) bool {
	_, ok := target.(ErrInvalidDirection)
	return ok
}

// ErrEntryNotFound indicates missing fund entry
type ErrEntryNotFound struct {
	EntryID string
}

func (e ErrEntryNotFound) Error() string {
	return "fund entry not found: " + e.EntryID
}

// Is implements the errors.Is interface for ErrEntryNotFound
func (e ErrEntryNotFound) Is(target error) bool {
	t, ok := target.(ErrEntryNotFound)
	if !ok {
		return false
	}
	if t.EntryID == "" {
		return true
	}
	return e.EntryID == t.EntryID
}
