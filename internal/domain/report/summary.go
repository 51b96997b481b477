package report

import (
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/maturity"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/shopspring/decimal"
)

// IncomeSummary totals what the society earned in the period: loan interest,
// fines and other income booked in the expense ledger
type IncomeSummary struct {
	Interest decimal.Decimal `json:"interest"`
	Fine     decimal.Decimal `json:"fine"`
	Other    decimal.Decimal `json:"otherIncome"`
	Total    decimal.Decimal `json:"total"`
}

// ExpenseSummary totals operating expenses for the period together with the
// maturity interest currently allocated to members
type ExpenseSummary struct {
	Operating        decimal.Decimal `json:"operating"`
	MaturityInterest decimal.Decimal `json:"maturityInterest"`
	Total            decimal.Decimal `json:"total"`
}

// LoanSummary covers loans disbursed and installments recovered in the period,
// plus the balance still pending on active loans
type LoanSummary struct {
	Issued      decimal.Decimal `json:"issued"`
	Recovered   decimal.Decimal `json:"recovered"`
	Pending     decimal.Decimal `json:"pending"`
	ActiveCount int             `json:"activeCount"`
}

// AssetSummary totals what members have deposited with the society
type AssetSummary struct {
	Total   decimal.Decimal `json:"total"`
	Members int             `json:"members"`
}

// Summary aggregates the merged rows of a period. Pending loans, assets and
// allocated maturity interest describe the current state, not the period.
type Summary struct {
	Income         IncomeSummary   `json:"income"`
	Expenses       ExpenseSummary  `json:"expenses"`
	NetSurplus     decimal.Decimal `json:"netSurplus"`
	Loans          LoanSummary     `json:"loans"`
	Assets         AssetSummary    `json:"assets"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// Summarize builds the aggregate summary
func Summarize(txs []Transaction, loans []loan.Loan, members []member.Member, projections []maturity.Projection) Summary {
	var s Summary

	for _, tx := range txs {
		s.Income.Interest = s.Income.Interest.Add(tx.Interest)
		s.Income.Fine = s.Income.Fine.Add(tx.Fine)
		s.Loans.Recovered = s.Loans.Recovered.Add(tx.Installment)
		s.Loans.Issued = s.Loans.Issued.Add(tx.LoanOut)

		switch tx.Type {
		case TypeIncome:
			s.Income.Other = s.Income.Other.Add(tx.Other)
		case TypeExpense:
			s.Expenses.Operating = s.Expenses.Operating.Add(tx.Other)
		}
		s.ClosingBalance = s.ClosingBalance.Add(tx.NetFlow())
	}
	s.Income.Total = s.Income.Interest.Add(s.Income.Fine).Add(s.Income.Other)

	for _, p := range projections {
		s.Expenses.MaturityInterest = s.Expenses.MaturityInterest.Add(p.CurrentAccruedInterest)
	}
	s.Expenses.Total = s.Expenses.Operating.Add(s.Expenses.MaturityInterest)
	s.NetSurplus = s.Income.Total.Sub(s.Expenses.Total)

	for _, l := range loans {
		if l.IsActive() {
			s.Loans.Pending = s.Loans.Pending.Add(l.RemainingBalance)
			s.Loans.ActiveCount++
		}
	}

	for _, m := range members {
		s.Assets.Total = s.Assets.Total.Add(m.TotalDeposits)
	}
	s.Assets.Members = len(members)

	return s
}
