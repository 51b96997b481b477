package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyRow is one line of the daily ledger
type DailyRow struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	Type           TransactionType `json:"type"`
	Source         Source          `json:"source"`
	MemberName     string          `json:"memberName,omitempty"`
	Description    string          `json:"description,omitempty"`
	PaymentMode    string          `json:"paymentMode"`
	Deposit        decimal.Decimal `json:"deposit"`
	EMI            decimal.Decimal `json:"emi"`
	LoanOut        decimal.Decimal `json:"loanOut"`
	Interest       decimal.Decimal `json:"interest"`
	Fine           decimal.Decimal `json:"fine"`
	CashIn         decimal.Decimal `json:"cashIn"`
	CashOut        decimal.Decimal `json:"cashOut"`
	NetFlow        decimal.Decimal `json:"netFlow"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// DailyLedger carries a running balance across the merged rows, starting from zero
func DailyLedger(txs []Transaction) []DailyRow {
	rows := make([]DailyRow, 0, len(txs))
	balance := decimal.Zero

	for _, tx := range txs {
		net := tx.NetFlow()
		balance = balance.Add(net)
		rows = append(rows, DailyRow{
			ID:             tx.ID,
			Date:           tx.Date,
			Type:           tx.Type,
			Source:         tx.Source,
			MemberName:     tx.MemberName,
			Description:    tx.Description,
			PaymentMode:    string(tx.PaymentMode),
			Deposit:        tx.Deposit,
			EMI:            tx.Installment,
			LoanOut:        tx.LoanOut,
			Interest:       tx.Interest,
			Fine:           tx.Fine,
			CashIn:         tx.CashIn(),
			CashOut:        tx.CashOut(),
			NetFlow:        net,
			RunningBalance: balance,
		})
	}
	return rows
}

// ClosingBalance is the running balance after the last row
func ClosingBalance(rows []DailyRow) decimal.Decimal {
	if len(rows) == 0 {
		return decimal.Zero
	}
	return rows[len(rows)-1].RunningBalance
}
