package report

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Bucket is a cashbook column
type Bucket string

const (
	BucketCash Bucket = "cash"
	BucketBank Bucket = "bank"
	BucketUPI  Bucket = "upi"
)

// BucketFor matches the payment mode by substring; anything unrecognized is cash
func BucketFor(mode string) Bucket {
	m := strings.ToLower(mode)
	switch {
	case strings.Contains(m, "bank"):
		return BucketBank
	case strings.Contains(m, "upi"):
		return BucketUPI
	default:
		return BucketCash
	}
}

// CashbookRow is one merged row with the three bucket balances after it
type CashbookRow struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Type        TransactionType `json:"type"`
	MemberName  string          `json:"memberName,omitempty"`
	Description string          `json:"description,omitempty"`
	Bucket      Bucket          `json:"bucket"`
	CashIn      decimal.Decimal `json:"cashIn"`
	CashOut     decimal.Decimal `json:"cashOut"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	BankBalance decimal.Decimal `json:"bankBalance"`
	UPIBalance  decimal.Decimal `json:"upiBalance"`
}

// Cashbook is the mode-wise view of the merged rows
type Cashbook struct {
	Rows  []CashbookRow   `json:"rows"`
	Cash  decimal.Decimal `json:"cash"`
	Bank  decimal.Decimal `json:"bank"`
	UPI   decimal.Decimal `json:"upi"`
	Total decimal.Decimal `json:"total"`
}

// BuildCashbook keeps an independent running total per bucket. The three
// closing balances always add up to the daily ledger's closing balance.
func BuildCashbook(txs []Transaction) Cashbook {
	balances := map[Bucket]decimal.Decimal{
		BucketCash: decimal.Zero,
		BucketBank: decimal.Zero,
		BucketUPI:  decimal.Zero,
	}
	rows := make([]CashbookRow, 0, len(txs))

	for _, tx := range txs {
		bucket := BucketFor(string(tx.PaymentMode))
		balances[bucket] = balances[bucket].Add(tx.NetFlow())

		rows = append(rows, CashbookRow{
			ID:          tx.ID,
			Date:        tx.Date,
			Type:        tx.Type,
			MemberName:  tx.MemberName,
			Description: tx.Description,
			Bucket:      bucket,
			CashIn:      tx.CashIn(),
			CashOut:     tx.CashOut(),
			CashBalance: balances[BucketCash],
			BankBalance: balances[BucketBank],
			UPIBalance:  balances[BucketUPI],
		})
	}

	cash, bank, upi := balances[BucketCash], balances[BucketBank], balances[BucketUPI]
	return Cashbook{
		Rows:  rows,
		Cash:  cash,
		Bank:  bank,
		UPI:   upi,
		Total: cash.Add(bank).Add(upi),
	}
}
