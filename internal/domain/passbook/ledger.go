package passbook

import (
	"iter"

	"github.com/shopspring/decimal"
)

// CurrentBalance returns the balance of the member's most recently appended
// entry. Entries are scanned in append order; dates are not consulted.
func CurrentBalance(entries []Entry, memberID string) decimal.Decimal {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].MemberID == memberID {
			return entries[i].Balance
		}
	}
	return decimal.Zero
}

// EntriesFor yields the member's entries in append order. The sequence reads
// the slice it was given, so it can be ranged over any number of times.
func EntriesFor(entries []Entry, memberID string) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range entries {
			if e.MemberID != memberID {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}
