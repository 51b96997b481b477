package engine

import (
	"context"
	"slices"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/shared"
)

// RegisterMember adds an active member with zero totals
func (s *Service) RegisterMember(ctx context.Context, reg member.Registration) (member.Member, error) {
	var created member.Member
	err := s.mutate(ctx, "register member", func(st *State, now time.Time) ([]change, error) {
		m, err := member.NewMember(reg, now)
		if err != nil {
			return nil, err
		}
		st.Members = append(st.Members, m)
		created = m
		return []change{{shared.EventMemberRegistered, m.ID, m}}, nil
	})
	return created, err
}

// UpdateMember edits contact details
func (s *Service) UpdateMember(ctx context.Context, id string, contact member.Contact) (member.Member, error) {
	var updated member.Member
	err := s.mutate(ctx, "update member", func(st *State, now time.Time) ([]change, error) {
		idx, err := st.memberIndex(id)
		if err != nil {
			return nil, err
		}
		if err := st.Members[idx].UpdateContact(contact, now); err != nil {
			return nil, err
		}
		updated = st.Members[idx]
		return []change{{shared.EventMemberUpdated, id, updated}}, nil
	})
	return updated, err
}

// DeactivateMember stops a member from requesting new loans. Members are never deleted.
func (s *Service) DeactivateMember(ctx context.Context, id string) (member.Member, error) {
	return s.setMemberStatus(ctx, id, member.StatusInactive)
}

// ActivateMember reinstates an inactive member
func (s *Service) ActivateMember(ctx context.Context, id string) (member.Member, error) {
	return s.setMemberStatus(ctx, id, member.StatusActive)
}

func (s *Service) setMemberStatus(ctx context.Context, id string, status member.Status) (member.Member, error) {
	var updated member.Member
	err := s.mutate(ctx, "set member status", func(st *State, now time.Time) ([]change, error) {
		idx, err := st.memberIndex(id)
		if err != nil {
			return nil, err
		}
		if err := st.Members[idx].SetStatus(status, now); err != nil {
			return nil, err
		}
		updated = st.Members[idx]
		return []change{{shared.EventMemberUpdated, id, updated}}, nil
	})
	return updated, err
}

// GetMember returns one member
func (s *Service) GetMember(id string) (member.Member, error) {
	st := s.current()
	idx, err := st.memberIndex(id)
	if err != nil {
		return member.Member{}, err
	}
	return st.Members[idx], nil
}

// ListMembers returns every member in registration order
func (s *Service) ListMembers() []member.Member {
	return slices.Clone(s.current().Members)
}
