package report

import (
	"testing"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/maturity"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func day(month time.Month, dayOfMonth int) time.Time {
	return time.Date(2024, month, dayOfMonth, 10, 0, 0, 0, time.UTC)
}

func fixture() Sources {
	members := []member.Member{
		{ID: "m-1", Name: "Asha", Status: member.StatusActive, TotalDeposits: d(2000)},
		{ID: "m-2", Name: "Ravi", Status: member.StatusActive, TotalDeposits: d(1000)},
	}

	passbookEntries := []passbook.Entry{
		{ID: "p1", MemberID: "m-1", Date: day(1, 5), Type: passbook.TypeDeposit, PaymentMode: shared.PaymentModeCash,
			Components: passbook.Components{DepositAmount: d(1000)}},
		{ID: "p2", MemberID: "m-2", Date: day(1, 6), Type: passbook.TypeDeposit, PaymentMode: shared.PaymentModeBank,
			Components: passbook.Components{DepositAmount: d(1000)}},
		{ID: "p3", MemberID: "m-1", Date: day(2, 5), Type: passbook.TypeDeposit, PaymentMode: shared.PaymentModeUPI,
			Components: passbook.Components{DepositAmount: d(1000), InstallmentAmount: d(500), InterestAmount: d(60), FineAmount: d(20)}},
		// Back-dated entry appended last
		{ID: "p4", MemberID: "m-2", Date: day(1, 2), Type: passbook.TypeWithdrawal, PaymentMode: shared.PaymentModeCheque,
			Components: passbook.Components{WithdrawalAmount: d(200)}},
	}

	loans := []loan.Loan{
		{ID: "l-1", MemberID: "m-1", Amount: d(6000), EMIAmount: d(500), RemainingBalance: d(5500),
			Status: loan.StatusActive, StartDate: day(1, 20)},
		{ID: "l-2", MemberID: "m-2", Amount: d(1200), EMIAmount: d(100), RemainingBalance: decimal.Zero,
			Status: loan.StatusCompleted, StartDate: day(1, 1)},
	}

	admin := []fund.Entry{
		{ID: "a1", Date: day(1, 1), Direction: fund.DirectionInject, Amount: d(10000), PaymentMode: shared.PaymentModeBank},
		{ID: "a2", Date: day(3, 1), Direction: fund.DirectionWithdraw, Amount: d(2000), PaymentMode: shared.PaymentModeBank},
	}
	expenses := []fund.Entry{
		{ID: "x1", Date: day(2, 10), Direction: fund.DirectionExpense, Amount: d(300), PaymentMode: shared.PaymentModeCash, Category: "rent"},
		{ID: "x2", Date: day(2, 11), Direction: fund.DirectionIncome, Amount: d(150), PaymentMode: shared.PaymentModeUPI},
	}

	return Sources{Members: members, Passbook: passbookEntries, Loans: loans, AdminFund: admin, Expenses: expenses}
}

func ptr(t time.Time) *time.Time {
	return &t
}

func TestMerge_SortsAndLabels(t *testing.T) {
	txs := Merge(fixture(), Range{})
	require.Len(t, txs, 10)

	for i := 1; i < len(txs); i++ {
		assert.False(t, txs[i].Date.Before(txs[i-1].Date), "rows must be sorted by date")
	}

	// Same-day rows keep merge order: loan l-2 was merged before admin entry a1
	assert.Equal(t, "l-2", txs[0].ID)
	assert.Equal(t, TypeLoanGiven, txs[0].Type)
	assert.Equal(t, "a1", txs[1].ID)
	assert.Equal(t, TypeInject, txs[1].Type)
	assert.Equal(t, "p4", txs[2].ID)
	assert.Equal(t, TypeWithdrawal, txs[2].Type)
	assert.Equal(t, "Ravi", txs[2].MemberName)

	byID := make(map[string]Transaction)
	for _, tx := range txs {
		byID[tx.ID] = tx
	}
	assert.Equal(t, TypeExpense, byID["x1"].Type)
	assert.Equal(t, TypeIncome, byID["x2"].Type)
	assert.Equal(t, TypeWithdraw, byID["a2"].Type)
	assert.True(t, d(1580).Equal(byID["p3"].CashIn()))
	assert.True(t, d(6000).Equal(byID["l-1"].CashOut()))
}

func TestMerge_RangeIsInclusiveByDay(t *testing.T) {
	rng := Range{
		Start: ptr(time.Date(2024, 2, 5, 23, 59, 0, 0, time.UTC)),
		End:   ptr(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)),
	}
	txs := Merge(fixture(), rng)

	require.Len(t, txs, 2)
	assert.Equal(t, "p3", txs[0].ID)
	assert.Equal(t, "x1", txs[1].ID)

	onlyEnd := Merge(fixture(), Range{End: ptr(day(1, 2))})
	assert.Len(t, onlyEnd, 3)
}

func TestReconciliation(t *testing.T) {
	ranges := []Range{
		{},
		{Start: ptr(day(1, 6))},
		{End: ptr(day(2, 5))},
		{Start: ptr(day(2, 1)), End: ptr(day(2, 28))},
		{Start: ptr(day(6, 1)), End: ptr(day(6, 30))},
	}

	for _, rng := range ranges {
		txs := Merge(fixture(), rng)
		daily := DailyLedger(txs)
		cashbook := BuildCashbook(txs)

		sum := cashbook.Cash.Add(cashbook.Bank).Add(cashbook.UPI)
		assert.True(t, ClosingBalance(daily).Equal(sum), "cash+bank+upi %s must equal closing %s", sum, ClosingBalance(daily))
		assert.True(t, sum.Equal(cashbook.Total))
		assert.Len(t, cashbook.Rows, len(daily))
	}
}

func TestDailyLedger(t *testing.T) {
	rows := DailyLedger(Merge(fixture(), Range{}))

	// 10000 - 1200 - 200 + 1000 + 1000 - 6000 + 1580 - 300 + 150 - 2000
	assert.True(t, d(4030).Equal(ClosingBalance(rows)))

	var p3 DailyRow
	for _, r := range rows {
		if r.ID == "p3" {
			p3 = r
		}
	}
	assert.True(t, d(500).Equal(p3.EMI))
	assert.True(t, d(60).Equal(p3.Interest))
	assert.True(t, d(1580).Equal(p3.NetFlow))
	assert.True(t, ClosingBalance(nil).IsZero())
}

func TestBucketFor(t *testing.T) {
	assert.Equal(t, BucketBank, BucketFor("bank"))
	assert.Equal(t, BucketBank, BucketFor("Bank Transfer"))
	assert.Equal(t, BucketUPI, BucketFor("UPI"))
	assert.Equal(t, BucketCash, BucketFor("cheque"))
	assert.Equal(t, BucketCash, BucketFor(""))
}

func TestCashbook_Buckets(t *testing.T) {
	cb := BuildCashbook(Merge(fixture(), Range{}))

	// bank: +10000 inject, +1000 p2, -2000 withdraw
	assert.True(t, d(9000).Equal(cb.Bank))
	// upi: +1580 p3, +150 income
	assert.True(t, d(1730).Equal(cb.UPI))
	// cash: -1200 l-2, -200 p4 cheque, +1000 p1, -6000 l-1, -300 expense
	assert.True(t, d(-6700).Equal(cb.Cash))
}

func TestSummarize(t *testing.T) {
	src := fixture()
	projections := []maturity.Projection{
		{MemberID: "m-1", CurrentAccruedInterest: d(240)},
		{MemberID: "m-2", CurrentAccruedInterest: d(120)},
	}

	s := Summarize(Merge(src, Range{}), src.Loans, src.Members, projections)

	assert.True(t, d(60).Equal(s.Income.Interest))
	assert.True(t, d(20).Equal(s.Income.Fine))
	assert.True(t, d(150).Equal(s.Income.Other))
	assert.True(t, d(230).Equal(s.Income.Total))
	assert.True(t, d(300).Equal(s.Expenses.Operating))
	assert.True(t, d(360).Equal(s.Expenses.MaturityInterest))
	assert.True(t, d(660).Equal(s.Expenses.Total))
	assert.True(t, d(-430).Equal(s.NetSurplus))
	assert.True(t, d(7200).Equal(s.Loans.Issued))
	assert.True(t, d(500).Equal(s.Loans.Recovered))
	assert.True(t, d(5500).Equal(s.Loans.Pending))
	assert.Equal(t, 1, s.Loans.ActiveCount)
	assert.True(t, d(3000).Equal(s.Assets.Total))
	assert.Equal(t, 2, s.Assets.Members)
	assert.True(t, d(4030).Equal(s.ClosingBalance))
}

func TestMemberReports(t *testing.T) {
	src := fixture()
	reports := MemberReports(src.Members, Merge(src, Range{}), src.Loans)
	require.Len(t, reports, 2)

	asha := reports[0]
	assert.Equal(t, "m-1", asha.MemberID)
	assert.True(t, d(2000).Equal(asha.PeriodDeposits))
	assert.True(t, d(6000).Equal(asha.LoanTaken))
	assert.True(t, d(500).Equal(asha.PrincipalPaid))
	assert.True(t, d(60).Equal(asha.InterestPaid))
	assert.True(t, d(20).Equal(asha.FinePaid))
	assert.True(t, d(5500).Equal(asha.ActiveLoanBalance))
	assert.True(t, d(-3500).Equal(asha.NetWorth))

	ravi := reports[1]
	assert.True(t, d(1200).Equal(ravi.LoanTaken))
	assert.True(t, d(200).Equal(ravi.Withdrawals))
	assert.True(t, ravi.ActiveLoanBalance.IsZero(), "Completed loans carry no balance")
	assert.True(t, d(1000).Equal(ravi.NetWorth))
}

func TestDefaulters(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	loans := []loan.Loan{
		// One EMI paid, next due 2024-03-10
		{ID: "l-1", MemberID: "m-1", Amount: d(12000), EMIAmount: d(1000), RemainingBalance: d(11000), Status: loan.StatusActive, StartDate: start},
		{ID: "l-2", MemberID: "m-2", Amount: d(1200), EMIAmount: d(100), RemainingBalance: decimal.Zero, Status: loan.StatusCompleted, StartDate: start},
		{ID: "l-3", MemberID: "m-2", Amount: d(1200), EMIAmount: d(100), RemainingBalance: d(1200), Status: loan.StatusDefaulted, StartDate: start},
	}
	names := map[string]string{"m-1": "Asha"}

	t.Run("Overdue", func(t *testing.T) {
		now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
		out := Defaulters(loans, names, now, 0)
		require.Len(t, out, 1)

		assert.Equal(t, "l-1", out[0].LoanID)
		assert.Equal(t, "Asha", out[0].MemberName)
		assert.Equal(t, 1, out[0].InstallmentsPaid)
		assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), out[0].NextDueDate)
		assert.True(t, out[0].IsOverdue)
		assert.Equal(t, 10, out[0].DaysOverdue)
	})

	t.Run("WithinGracePeriod", func(t *testing.T) {
		now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
		out := Defaulters(loans, names, now, 15)
		require.Len(t, out, 1)
		assert.False(t, out[0].IsOverdue)
		assert.Zero(t, out[0].DaysOverdue)
	})

	t.Run("NotYetDue", func(t *testing.T) {
		out := Defaulters(loans, names, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), 0)
		require.Len(t, out, 1)
		assert.False(t, out[0].IsOverdue, "Due date itself is not overdue")
	})
}

func TestBuild(t *testing.T) {
	src := fixture()
	// l-1 has one EMI paid, so its next due date is 2024-03-20
	now := day(4, 1)
	in := Input{Sources: src, Now: now}

	first := Build(in, Range{})
	second := Build(in, Range{})

	assert.Equal(t, first, second, "Building twice over the same state must agree")
	assert.Len(t, first.DailyLedger, 10)
	assert.Len(t, first.MemberReports, 2)
	require.Len(t, first.Defaulters, 1)
	assert.True(t, first.Defaulters[0].IsOverdue)
	assert.True(t, ClosingBalance(first.DailyLedger).Equal(first.Cashbook.Total))
}
