package loan

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of a loan
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDefaulted Status = "defaulted"
)

// ParseStatus validates a raw status value
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusApproved, StatusActive, StatusCompleted, StatusDefaulted:
		return s, nil
	default:
		return "", ErrInvalidStatus{Status: raw}
	}
}

// Loan is a disbursed loan and its repayment state
type Loan struct {
	ID               string          `json:"id"`
	MemberID         string          `json:"memberId"`
	RequestID        string          `json:"requestId,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	InterestRate     decimal.Decimal `json:"interestRate"`
	Tenure           int             `json:"tenure"`
	EMIAmount        decimal.Decimal `json:"emiAmount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	Status           Status          `json:"status"`
	StartDate        time.Time       `json:"startDate"`
	MaturityDate     time.Time       `json:"maturityDate"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// New creates an active loan for an approved request. The EMI is the amount
// spread over the tenure (see EMI).
func New(memberID, requestID string, amount, interestRate decimal.Decimal, tenure int, start time.Time) (Loan, error) {
	if !amount.IsPositive() {
		return Loan{}, ErrInvalidAmount
	}
	if tenure < 1 {
		return Loan{}, ErrInvalidTenure
	}
	if interestRate.IsNegative() {
		return Loan{}, ErrInvalidRate
	}

	return Loan{
		ID:               uuid.NewString(),
		MemberID:         memberID,
		RequestID:        requestID,
		Amount:           amount,
		InterestRate:     interestRate,
		Tenure:           tenure,
		EMIAmount:        EMI(amount, tenure),
		RemainingBalance: amount,
		Status:           StatusActive,
		StartDate:        start,
		MaturityDate:     start.AddDate(0, tenure, 0),
		UpdatedAt:        start,
	}, nil
}

// EMI spreads amount over tenure, rounded up to paise so that tenure
// installments always clear the principal. The last one is clamped to what
// is left.
func EMI(amount decimal.Decimal, tenure int) decimal.Decimal {
	return amount.Div(decimal.NewFromInt(int64(tenure))).RoundCeil(2)
}

// IsActive reports whether installments still reduce the balance
func (l Loan) IsActive() bool {
	return l.Status == StatusActive
}

// ApplyInstallment reduces the remaining balance by amount, never below zero,
// and completes the loan when nothing is left. Loans that are not active are
// left untouched and report a zero application.
func (l *Loan) ApplyInstallment(amount decimal.Decimal, at time.Time) (applied decimal.Decimal, completed bool) {
	if !l.IsActive() || !amount.IsPositive() {
		return decimal.Zero, false
	}

	applied = decimal.Min(amount, l.RemainingBalance)
	l.RemainingBalance = l.RemainingBalance.Sub(applied)
	l.UpdatedAt = at

	if l.RemainingBalance.IsZero() {
		l.Status = StatusCompleted
		return applied, true
	}
	return applied, false
}

// MarkDefaulted moves an active loan to the defaulted terminal state
func (l *Loan) MarkDefaulted(at time.Time) error {
	if !l.IsActive() {
		return ErrLoanNotActive
	}

	l.Status = StatusDefaulted
	l.UpdatedAt = at
	return nil
}

// InstallmentsPaid counts the whole EMIs covered by the principal repaid so far
func (l Loan) InstallmentsPaid() int {
	if !l.EMIAmount.IsPositive() {
		return 0
	}
	repaid := l.Amount.Sub(l.RemainingBalance)
	if !repaid.IsPositive() {
		return 0
	}
	return int(repaid.Div(l.EMIAmount).Floor().IntPart())
}

// NextDueDate is the date the first unpaid EMI falls due
func (l Loan) NextDueDate() time.Time {
	return l.StartDate.AddDate(0, l.InstallmentsPaid()+1, 0)
}

// Patch carries an administrative correction. Nil fields are left unchanged.
type Patch struct {
	Amount           *decimal.Decimal `json:"amount,omitempty"`
	InterestRate     *decimal.Decimal `json:"interestRate,omitempty"`
	Tenure           *int             `json:"tenure,omitempty"`
	EMIAmount        *decimal.Decimal `json:"emiAmount,omitempty"`
	RemainingBalance *decimal.Decimal `json:"remainingBalance,omitempty"`
	Status           *Status          `json:"status,omitempty"`
	StartDate        *time.Time       `json:"startDate,omitempty"`
	MaturityDate     *time.Time       `json:"maturityDate,omitempty"`
}

// ApplyPatch validates p against a copy and only then replaces the loan, so a
// rejected patch leaves l untouched. Ledger history is not re-derived, but the
// result must still agree with the state machine: a completed loan owes
// nothing and an active one owes something.
func (l *Loan) ApplyPatch(p Patch, at time.Time) error {
	next := *l

	if p.Amount != nil {
		if !p.Amount.IsPositive() {
			return ErrInvalidAmount
		}
		next.Amount = *p.Amount
	}
	if p.InterestRate != nil {
		if p.InterestRate.IsNegative() {
			return ErrInvalidRate
		}
		next.InterestRate = *p.InterestRate
	}
	if p.Tenure != nil {
		if *p.Tenure < 1 {
			return ErrInvalidTenure
		}
		next.Tenure = *p.Tenure
	}
	if p.EMIAmount != nil {
		if p.EMIAmount.IsNegative() {
			return ErrInvalidAmount
		}
		next.EMIAmount = *p.EMIAmount
	}
	if p.RemainingBalance != nil {
		if p.RemainingBalance.IsNegative() {
			return ErrNegativeBalance
		}
		next.RemainingBalance = *p.RemainingBalance
	}
	if p.Status != nil {
		status, err := ParseStatus(string(*p.Status))
		if err != nil {
			return err
		}
		next.Status = status
	}
	if err := next.checkStatusBalance(); err != nil {
		return err
	}
	if p.StartDate != nil {
		next.StartDate = *p.StartDate
	}
	if p.MaturityDate != nil {
		next.MaturityDate = *p.MaturityDate
	}

	next.UpdatedAt = at
	*l = next
	return nil
}

func (l Loan) checkStatusBalance() error {
	switch {
	case l.Status == StatusCompleted && !l.RemainingBalance.IsZero():
		return ErrStatusBalanceMismatch
	case l.Status == StatusActive && l.RemainingBalance.IsZero():
		return ErrStatusBalanceMismatch
	}
	return nil
}
