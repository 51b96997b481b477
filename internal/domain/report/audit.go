package report

import (
	"time"

	"github.com/cooperative-society-ledger/internal/domain/maturity"
)

// Input is everything the audit engine reads
type Input struct {
	Sources
	Projections     []maturity.Projection
	Now             time.Time
	GracePeriodDays int
}

// AuditData is the five-part audit report over one range
type AuditData struct {
	Range         Range          `json:"range"`
	DailyLedger   []DailyRow     `json:"dailyLedger"`
	Cashbook      Cashbook       `json:"cashbook"`
	Summary       Summary        `json:"summary"`
	MemberReports []MemberReport `json:"memberReports"`
	Defaulters    []Defaulter    `json:"defaulters"`
}

// Build computes every audit view from one merge of the ledgers
func Build(in Input, rng Range) AuditData {
	txs := Merge(in.Sources, rng)

	return AuditData{
		Range:         rng,
		DailyLedger:   DailyLedger(txs),
		Cashbook:      BuildCashbook(txs),
		Summary:       Summarize(txs, in.Loans, in.Members, in.Projections),
		MemberReports: MemberReports(in.Members, txs, in.Loans),
		Defaulters:    Defaulters(in.Loans, in.memberNames(), in.Now, in.GracePeriodDays),
	}
}
