package fund

import (
	"slices"

	"github.com/shopspring/decimal"
)

// Summary totals a ledger from its amounts
type Summary struct {
	TotalIn  decimal.Decimal `json:"totalIn"`
	TotalOut decimal.Decimal `json:"totalOut"`
	Net      decimal.Decimal `json:"net"`
	Entries  int             `json:"entries"`
}

// Balance is the running balance after the last entry
func Balance(entries []Entry) decimal.Decimal {
	if len(entries) == 0 {
		return decimal.Zero
	}
	return entries[len(entries)-1].RunningBalance
}

// Append returns a new slice with e added after the prior balance. The input
// slice is never written to.
func Append(entries []Entry, e Entry) ([]Entry, Entry) {
	e.RunningBalance = Balance(entries).Add(e.Signed())

	next := make([]Entry, len(entries), len(entries)+1)
	copy(next, entries)
	return append(next, e), e
}

// Delete returns a new slice without the entry and with every later running
// balance recomputed.
func Delete(entries []Entry, id string) ([]Entry, Entry, error) {
	idx := slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
	if idx < 0 {
		return nil, Entry{}, ErrEntryNotFound{EntryID: id}
	}

	removed := entries[idx]
	next := slices.Delete(slices.Clone(entries), idx, idx+1)
	recompute(next, idx)
	return next, removed, nil
}

// recompute rewrites running balances from position from onwards
func recompute(entries []Entry, from int) {
	balance := decimal.Zero
	if from > 0 {
		balance = entries[from-1].RunningBalance
	}
	for i := from; i < len(entries); i++ {
		balance = balance.Add(entries[i].Signed())
		entries[i].RunningBalance = balance
	}
}

// Summarize scans every amount instead of trusting stored running balances
func Summarize(entries []Entry) Summary {
	s := Summary{TotalIn: decimal.Zero, TotalOut: decimal.Zero, Entries: len(entries)}
	for _, e := range entries {
		if e.Direction.IsCredit() {
			s.TotalIn = s.TotalIn.Add(e.Amount)
		} else {
			s.TotalOut = s.TotalOut.Add(e.Amount)
		}
	}
	s.Net = s.TotalIn.Sub(s.TotalOut)
	return s
}
