package report

import (
	"time"

	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/shopspring/decimal"
)

// Defaulter is an active loan with an outstanding balance
type Defaulter struct {
	LoanID           string          `json:"loanId"`
	MemberID         string          `json:"memberId"`
	MemberName       string          `json:"memberName"`
	Amount           decimal.Decimal `json:"amount"`
	EMIAmount        decimal.Decimal `json:"emiAmount"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	InstallmentsPaid int             `json:"installmentsPaid"`
	StartDate        time.Time       `json:"startDate"`
	NextDueDate      time.Time       `json:"nextDueDate"`
	DaysOverdue      int             `json:"daysOverdue"`
	IsOverdue        bool            `json:"isOverdue"`
}

// Defaulters lists every active loan with a balance. A loan is overdue once
// now passes its next due date plus the grace period; DaysOverdue counts whole
// days past the due date itself.
func Defaulters(loans []loan.Loan, names map[string]string, now time.Time, graceDays int) []Defaulter {
	var out []Defaulter
	for _, l := range loans {
		if !l.IsActive() || !l.RemainingBalance.IsPositive() {
			continue
		}

		due := l.NextDueDate()
		overdue := now.After(due.AddDate(0, 0, graceDays))
		days := 0
		if overdue {
			days = int(now.Sub(due).Hours() / 24)
		}

		out = append(out, Defaulter{
			LoanID:           l.ID,
			MemberID:         l.MemberID,
			MemberName:       names[l.MemberID],
			Amount:           l.Amount,
			EMIAmount:        l.EMIAmount,
			RemainingBalance: l.RemainingBalance,
			InstallmentsPaid: l.InstallmentsPaid(),
			StartDate:        l.StartDate,
			NextDueDate:      due,
			DaysOverdue:      days,
			IsOverdue:        overdue,
		})
	}
	return out
}
