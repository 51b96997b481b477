package engine

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/maturity"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ErrOverrideNotFound is returned when clearing an override the member never had
var ErrOverrideNotFound = errors.New("member has no maturity override")

// SetOverride replaces any override the member already has
func (s *Service) SetOverride(ctx context.Context, memberID string, manualInterest decimal.Decimal) (maturity.Override, error) {
	var created maturity.Override
	err := s.mutate(ctx, "set maturity override", func(st *State, now time.Time) ([]change, error) {
		if _, err := st.memberIndex(memberID); err != nil {
			return nil, err
		}
		o, err := maturity.NewOverride(memberID, manualInterest, now)
		if err != nil {
			return nil, err
		}
		st.Overrides[memberID] = o
		created = o
		return []change{{shared.EventMaturityOverrideSet, memberID, o}}, nil
	})
	return created, err
}

// ClearOverride reverts the member to the computed projection
func (s *Service) ClearOverride(ctx context.Context, memberID string) error {
	return s.mutate(ctx, "clear maturity override", func(st *State, _ time.Time) ([]change, error) {
		if _, err := st.memberIndex(memberID); err != nil {
			return nil, err
		}
		removed, ok := st.Overrides[memberID]
		if !ok {
			return nil, ErrOverrideNotFound
		}
		delete(st.Overrides, memberID)
		return []change{{shared.EventMaturityOverrideCleared, memberID, removed}}, nil
	})
}

// GetMaturityData projects every member, in directory order
func (s *Service) GetMaturityData() []maturity.Projection {
	return s.current().projections(s.now())
}

// GetMemberMaturity projects a single member's deposits and interest at
// maturity, honouring any override. Unknown members yield member.ErrMemberNotFound.
func (s *Service) GetMemberMaturity(memberID string) (maturity.Projection, error) {
	st := s.current()
	idx, err := st.memberIndex(memberID)
	if err != nil {
		return maturity.Projection{}, err
	}

	entries := slices.Collect(passbook.EntriesFor(st.Passbook, memberID))
	return st.projection(st.Members[idx], entries, s.now()), nil
}
