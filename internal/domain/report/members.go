package report

import (
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/shopspring/decimal"
)

// MemberReport summarizes one member over a period
type MemberReport struct {
	MemberID          string          `json:"memberId"`
	MemberName        string          `json:"memberName"`
	Status            member.Status   `json:"status"`
	TotalDeposits     decimal.Decimal `json:"totalDeposits"`
	PeriodDeposits    decimal.Decimal `json:"periodDeposits"`
	LoanTaken         decimal.Decimal `json:"loanTaken"`
	PrincipalPaid     decimal.Decimal `json:"principalPaid"`
	InterestPaid      decimal.Decimal `json:"interestPaid"`
	FinePaid          decimal.Decimal `json:"finePaid"`
	Withdrawals       decimal.Decimal `json:"withdrawals"`
	ActiveLoanBalance decimal.Decimal `json:"activeLoanBalance"`
	NetWorth          decimal.Decimal `json:"netWorth"`
}

// MemberReports builds one row per member in directory order. Paid subtotals
// come from the period's rows; balances and net worth from current state.
func MemberReports(members []member.Member, txs []Transaction, loans []loan.Loan) []MemberReport {
	index := make(map[string]int, len(members))
	reports := make([]MemberReport, len(members))
	for i, m := range members {
		index[m.ID] = i
		reports[i] = MemberReport{
			MemberID:      m.ID,
			MemberName:    m.Name,
			Status:        m.Status,
			TotalDeposits: m.TotalDeposits,
		}
	}

	for _, tx := range txs {
		i, ok := index[tx.MemberID]
		if !ok {
			continue
		}
		r := &reports[i]
		r.PeriodDeposits = r.PeriodDeposits.Add(tx.Deposit)
		r.LoanTaken = r.LoanTaken.Add(tx.LoanOut)
		r.PrincipalPaid = r.PrincipalPaid.Add(tx.Installment)
		r.InterestPaid = r.InterestPaid.Add(tx.Interest)
		r.FinePaid = r.FinePaid.Add(tx.Fine)
		r.Withdrawals = r.Withdrawals.Add(tx.Withdrawal)
	}

	for _, l := range loans {
		i, ok := index[l.MemberID]
		if !ok || !l.IsActive() {
			continue
		}
		reports[i].ActiveLoanBalance = reports[i].ActiveLoanBalance.Add(l.RemainingBalance)
	}

	for i := range reports {
		reports[i].NetWorth = reports[i].TotalDeposits.Sub(reports[i].ActiveLoanBalance)
	}
	return reports
}
