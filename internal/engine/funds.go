package engine

import (
	"context"
	"slices"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/cooperative-society-ledger/internal/domain/shared"
)

// fundChange is the payload of fund ledger events
type fundChange struct {
	Ledger fund.Kind  `json:"ledger"`
	Entry  fund.Entry `json:"entry"`
}

// AppendFundEntry adds an entry to the admin fund or expense ledger and
// returns it with its running balance.
func (s *Service) AppendFundEntry(ctx context.Context, kind fund.Kind, in fund.Input) (fund.Entry, error) {
	var created fund.Entry
	err := s.mutate(ctx, "append fund entry", func(st *State, now time.Time) ([]change, error) {
		ledger, err := st.ledger(kind)
		if err != nil {
			return nil, err
		}
		entry, err := fund.NewEntry(kind, in, now)
		if err != nil {
			return nil, err
		}
		*ledger, created = fund.Append(*ledger, entry)
		return []change{{shared.EventFundEntryAppended, created.ID, fundChange{Ledger: kind, Entry: created}}}, nil
	})
	return created, err
}

// DeleteFundEntry removes an entry and recomputes the running balances after it
func (s *Service) DeleteFundEntry(ctx context.Context, kind fund.Kind, entryID string) (fund.Entry, error) {
	var removed fund.Entry
	err := s.mutate(ctx, "delete fund entry", func(st *State, _ time.Time) ([]change, error) {
		ledger, err := st.ledger(kind)
		if err != nil {
			return nil, err
		}
		next, entry, err := fund.Delete(*ledger, entryID)
		if err != nil {
			return nil, err
		}
		*ledger = next
		removed = entry
		return []change{{shared.EventFundEntryDeleted, entryID, fundChange{Ledger: kind, Entry: entry}}}, nil
	})
	return removed, err
}

// ListFundEntries returns a ledger in append order
func (s *Service) ListFundEntries(kind fund.Kind) ([]fund.Entry, error) {
	ledger, err := s.current().ledger(kind)
	if err != nil {
		return nil, err
	}
	return slices.Clone(*ledger), nil
}

// FundSummary totals a ledger by scanning every amount
func (s *Service) FundSummary(kind fund.Kind) (fund.Summary, error) {
	ledger, err := s.current().ledger(kind)
	if err != nil {
		return fund.Summary{}, err
	}
	return fund.Summarize(*ledger), nil
}
