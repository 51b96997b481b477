// Package report reconciles the passbook, loan book and fund ledgers into the
// audit views: daily ledger, mode-wise cashbook, summary, member reports and
// defaulters. Every function here is a read-only projection.
package report

import (
	"slices"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransactionType labels a merged row
type TransactionType string

const (
	TypeDeposit     TransactionType = "DEPOSIT"
	TypeInstallment TransactionType = "INSTALLMENT"
	TypeInterest    TransactionType = "INTEREST"
	TypeFine        TransactionType = "FINE"
	TypeWithdrawal  TransactionType = "WITHDRAWAL"
	TypeLoan        TransactionType = "LOAN"
	TypeLoanGiven   TransactionType = "LOAN_GIVEN"
	TypeIncome      TransactionType = "INCOME"
	TypeExpense     TransactionType = "EXPENSE"
	TypeInject      TransactionType = "INJECT"
	TypeWithdraw    TransactionType = "WITHDRAW"
)

// IsCredit reports whether rows of this type bring money in
func (t TransactionType) IsCredit() bool {
	switch t {
	case TypeDeposit, TypeInstallment, TypeInterest, TypeFine, TypeIncome, TypeInject:
		return true
	default:
		return false
	}
}

// Source names the ledger a merged row came from
type Source string

const (
	SourcePassbook Source = "passbook"
	SourceLoan     Source = "loan"
	SourceExpense  Source = "expense"
	SourceAdmin    Source = "admin"
)

// Transaction is one row of the merged view. Passbook rows spread their amount
// over the component fields; every other row carries a single amount in
// LoanOut or Other.
type Transaction struct {
	ID          string             `json:"id"`
	Source      Source             `json:"source"`
	Date        time.Time          `json:"date"`
	Type        TransactionType    `json:"type"`
	MemberID    string             `json:"memberId,omitempty"`
	MemberName  string             `json:"memberName,omitempty"`
	LoanID      string             `json:"loanId,omitempty"`
	Category    string             `json:"category,omitempty"`
	PaymentMode shared.PaymentMode `json:"paymentMode"`
	Description string             `json:"description,omitempty"`
	Deposit     decimal.Decimal    `json:"deposit"`
	Installment decimal.Decimal    `json:"installment"`
	Interest    decimal.Decimal    `json:"interest"`
	Fine        decimal.Decimal    `json:"fine"`
	Withdrawal  decimal.Decimal    `json:"withdrawal"`
	LoanOut     decimal.Decimal    `json:"loanOut"`
	Other       decimal.Decimal    `json:"other"`
}

// CashIn is the money the row brings into the society
func (t Transaction) CashIn() decimal.Decimal {
	in := t.Deposit.Add(t.Installment).Add(t.Interest).Add(t.Fine)
	if t.Type.IsCredit() {
		in = in.Add(t.Other)
	}
	return in
}

// CashOut is the money the row takes out of the society
func (t Transaction) CashOut() decimal.Decimal {
	out := t.Withdrawal.Add(t.LoanOut)
	if !t.Type.IsCredit() {
		out = out.Add(t.Other)
	}
	return out
}

// NetFlow is CashIn minus CashOut
func (t Transaction) NetFlow() decimal.Decimal {
	return t.CashIn().Sub(t.CashOut())
}

// Sources is the ledger state a report reads
type Sources struct {
	Members   []member.Member
	Passbook  []passbook.Entry
	Loans     []loan.Loan
	AdminFund []fund.Entry
	Expenses  []fund.Entry
}

func (s Sources) memberNames() map[string]string {
	names := make(map[string]string, len(s.Members))
	for _, m := range s.Members {
		names[m.ID] = m.Name
	}
	return names
}

// Merge combines every ledger into one list inside rng, stable-sorted by date
func Merge(src Sources, rng Range) []Transaction {
	names := src.memberNames()
	txs := make([]Transaction, 0, len(src.Passbook)+len(src.Loans)+len(src.AdminFund)+len(src.Expenses))

	for _, e := range src.Passbook {
		if !rng.Contains(e.Date) {
			continue
		}
		txs = append(txs, Transaction{
			ID:          e.ID,
			Source:      SourcePassbook,
			Date:        e.Date,
			Type:        passbookType(e.Type),
			MemberID:    e.MemberID,
			MemberName:  names[e.MemberID],
			LoanID:      e.LoanID,
			PaymentMode: e.PaymentMode,
			Description: e.Description,
			Deposit:     e.DepositAmount,
			Installment: e.InstallmentAmount,
			Interest:    e.InterestAmount,
			Fine:        e.FineAmount,
			Withdrawal:  e.WithdrawalAmount,
		})
	}

	for _, l := range src.Loans {
		if !disbursed(l) || !rng.Contains(l.StartDate) {
			continue
		}
		txs = append(txs, Transaction{
			ID:          l.ID,
			Source:      SourceLoan,
			Date:        l.StartDate,
			Type:        TypeLoanGiven,
			MemberID:    l.MemberID,
			MemberName:  names[l.MemberID],
			LoanID:      l.ID,
			PaymentMode: shared.PaymentModeCash,
			Description: "Loan disbursed",
			LoanOut:     l.Amount,
		})
	}

	txs = appendFundRows(txs, src.Expenses, SourceExpense, rng)
	txs = appendFundRows(txs, src.AdminFund, SourceAdmin, rng)

	slices.SortStableFunc(txs, func(a, b Transaction) int {
		return a.Date.Compare(b.Date)
	})
	return txs
}

func appendFundRows(txs []Transaction, entries []fund.Entry, source Source, rng Range) []Transaction {
	for _, e := range entries {
		if !rng.Contains(e.Date) {
			continue
		}
		txs = append(txs, Transaction{
			ID:          e.ID,
			Source:      source,
			Date:        e.Date,
			Type:        fundType(e.Direction),
			Category:    e.Category,
			PaymentMode: e.PaymentMode,
			Description: e.Description,
			Other:       e.Amount,
		})
	}
	return txs
}

// disbursed reports whether money has left the society for the loan
func disbursed(l loan.Loan) bool {
	return l.Status != loan.StatusPending && l.Status != loan.StatusApproved
}

func passbookType(t passbook.EntryType) TransactionType {
	switch t {
	case passbook.TypeDeposit:
		return TypeDeposit
	case passbook.TypeInstallment:
		return TypeInstallment
	case passbook.TypeInterest:
		return TypeInterest
	case passbook.TypeFine:
		return TypeFine
	case passbook.TypeWithdrawal:
		return TypeWithdrawal
	default:
		return TypeLoan
	}
}

func fundType(d fund.Direction) TransactionType {
	switch d {
	case fund.DirectionInject:
		return TypeInject
	case fund.DirectionWithdraw:
		return TypeWithdraw
	case fund.DirectionIncome:
		return TypeIncome
	default:
		return TypeExpense
	}
}
