package engine

import (
	"context"
	"iter"
	"slices"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AppendEntry records a passbook entry for a member. The entry's balance
// follows the member's last appended entry, the deposit component grows the
// member's deposit total, and a non-zero installment pays down the loan the
// entry resolves to.
func (s *Service) AppendEntry(ctx context.Context, in passbook.Input) (passbook.Entry, error) {
	var created passbook.Entry
	err := s.mutate(ctx, "append passbook entry", func(st *State, now time.Time) ([]change, error) {
		memberIdx, err := st.memberIndex(in.MemberID)
		if err != nil {
			return nil, err
		}

		entry, err := passbook.NewEntry(in, passbook.CurrentBalance(st.Passbook, in.MemberID), now)
		if err != nil {
			return nil, err
		}

		loanIdx, err := st.installmentLoan(entry.MemberID, entry.LoanID, entry.InstallmentAmount)
		if err != nil {
			return nil, err
		}
		if loanIdx >= 0 {
			entry.LoanID = st.Loans[loanIdx].ID
		}

		if err := st.Members[memberIdx].AddDeposit(entry.DepositAmount, now); err != nil {
			return nil, err
		}
		st.Passbook = append(st.Passbook, entry)
		created = entry

		changes := []change{{shared.EventPassbookEntryAppended, entry.MemberID, entry}}
		if loanIdx >= 0 {
			if _, completed := st.Loans[loanIdx].ApplyInstallment(entry.InstallmentAmount, now); completed {
				changes = append(changes, change{shared.EventLoanCompleted, entry.LoanID, st.Loans[loanIdx]})
			}
		}
		return changes, nil
	})
	return created, err
}

// CurrentBalance is the balance of the member's most recently appended entry
func (s *Service) CurrentBalance(memberID string) (decimal.Decimal, error) {
	st := s.current()
	if _, err := st.memberIndex(memberID); err != nil {
		return decimal.Zero, err
	}
	return passbook.CurrentBalance(st.Passbook, memberID), nil
}

// EntriesFor yields the member's entries in append order. The sequence is
// bound to the state current at the call and can be ranged over repeatedly.
func (s *Service) EntriesFor(memberID string) iter.Seq[passbook.Entry] {
	return passbook.EntriesFor(s.current().Passbook, memberID)
}

// ListPassbook returns one member's entries, or every entry when memberID is empty
func (s *Service) ListPassbook(memberID string) ([]passbook.Entry, error) {
	st := s.current()
	if memberID == "" {
		return slices.Clone(st.Passbook), nil
	}
	if _, err := st.memberIndex(memberID); err != nil {
		return nil, err
	}
	return slices.Collect(passbook.EntriesFor(st.Passbook, memberID)), nil
}
