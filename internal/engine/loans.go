package engine

import (
	"context"
	"slices"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RequestLoan files a pending request, copying the member's name and deposit total
func (s *Service) RequestLoan(ctx context.Context, memberID string, amount decimal.Decimal, purpose string) (loan.Request, error) {
	var created loan.Request
	err := s.mutate(ctx, "request loan", func(st *State, now time.Time) ([]change, error) {
		idx, err := st.memberIndex(memberID)
		if err != nil {
			return nil, err
		}
		m := st.Members[idx]
		if !m.IsActive() {
			return nil, member.ErrMemberInactive
		}

		req, err := loan.NewRequest(m.ID, m.Name, amount, purpose, m.TotalDeposits, now)
		if err != nil {
			return nil, err
		}
		st.LoanRequests = append(st.LoanRequests, req)
		created = req
		return []change{{shared.EventLoanRequested, req.ID, req}}, nil
	})
	return created, err
}

// loanApproval is the payload of a loan.approved event
type loanApproval struct {
	Request loan.Request `json:"request"`
	Loan    loan.Loan    `json:"loan"`
}

// ApproveLoan turns a pending request into an active loan. A zero
// approvedAmount approves the requested amount; a tenure below one month uses
// the society default.
func (s *Service) ApproveLoan(ctx context.Context, requestID string, approvedAmount decimal.Decimal, tenure int) (loan.Loan, error) {
	var created loan.Loan
	err := s.mutate(ctx, "approve loan", func(st *State, now time.Time) ([]change, error) {
		reqIdx, err := st.requestIndex(requestID)
		if err != nil {
			return nil, err
		}
		req := &st.LoanRequests[reqIdx]
		if !req.IsPending() {
			return nil, loan.ErrRequestNotPending
		}

		memberIdx, err := st.memberIndex(req.MemberID)
		if err != nil {
			return nil, err
		}

		if approvedAmount.IsZero() {
			approvedAmount = req.Amount
		}
		if tenure < 1 {
			tenure = st.Settings.DefaultLoanTenure
		}

		l, err := loan.New(req.MemberID, req.ID, approvedAmount, st.Settings.LoanInterestRate, tenure, now)
		if err != nil {
			return nil, err
		}
		if err := req.Approve(approvedAmount, l.ID, now); err != nil {
			return nil, err
		}
		if err := st.Members[memberIdx].AddLoan(approvedAmount, now); err != nil {
			return nil, err
		}

		st.Loans = append(st.Loans, l)
		created = l
		return []change{{shared.EventLoanApproved, l.ID, loanApproval{Request: *req, Loan: l}}}, nil
	})
	return created, err
}

// RejectLoan closes a pending request without creating a loan
func (s *Service) RejectLoan(ctx context.Context, requestID, reason string) (loan.Request, error) {
	var updated loan.Request
	err := s.mutate(ctx, "reject loan", func(st *State, now time.Time) ([]change, error) {
		idx, err := st.requestIndex(requestID)
		if err != nil {
			return nil, err
		}
		if err := st.LoanRequests[idx].Reject(reason, now); err != nil {
			return nil, err
		}
		updated = st.LoanRequests[idx]
		return []change{{shared.EventLoanRejected, requestID, updated}}, nil
	})
	return updated, err
}

// UpdateLoan applies an administrative correction. Passbook history is not re-derived.
func (s *Service) UpdateLoan(ctx context.Context, loanID string, patch loan.Patch) (loan.Loan, error) {
	var updated loan.Loan
	err := s.mutate(ctx, "update loan", func(st *State, now time.Time) ([]change, error) {
		idx, err := st.loanIndex(loanID)
		if err != nil {
			return nil, err
		}
		if err := st.Loans[idx].ApplyPatch(patch, now); err != nil {
			return nil, err
		}
		updated = st.Loans[idx]
		return []change{{shared.EventLoanUpdated, loanID, updated}}, nil
	})
	return updated, err
}

// DeleteLoan removes a loan record. Member totals are left as they are. Loans
// with passbook installments against them cannot be deleted, and the request
// the loan came from no longer points at it.
func (s *Service) DeleteLoan(ctx context.Context, loanID string) error {
	return s.mutate(ctx, "delete loan", func(st *State, _ time.Time) ([]change, error) {
		idx, err := st.loanIndex(loanID)
		if err != nil {
			return nil, err
		}
		removed := st.Loans[idx]
		if slices.ContainsFunc(st.Passbook, func(e passbook.Entry) bool { return e.LoanID == removed.ID }) {
			return nil, loan.ErrLoanHasEntries
		}
		for i := range st.LoanRequests {
			if st.LoanRequests[i].LoanID == removed.ID {
				st.LoanRequests[i].LoanID = ""
			}
		}
		st.Loans = slices.Delete(st.Loans, idx, idx+1)
		return []change{{shared.EventLoanDeleted, loanID, removed}}, nil
	})
}

// MarkLoanDefaulted moves an active loan to defaulted
func (s *Service) MarkLoanDefaulted(ctx context.Context, loanID string) (loan.Loan, error) {
	var updated loan.Loan
	err := s.mutate(ctx, "mark loan defaulted", func(st *State, now time.Time) ([]change, error) {
		idx, err := st.loanIndex(loanID)
		if err != nil {
			return nil, err
		}
		if err := st.Loans[idx].MarkDefaulted(now); err != nil {
			return nil, err
		}
		updated = st.Loans[idx]
		return []change{{shared.EventLoanDefaulted, loanID, updated}}, nil
	})
	return updated, err
}

// GetLoan returns one loan
func (s *Service) GetLoan(loanID string) (loan.Loan, error) {
	st := s.current()
	idx, err := st.loanIndex(loanID)
	if err != nil {
		return loan.Loan{}, err
	}
	return st.Loans[idx], nil
}

// ListLoans filters loans by member and status; empty filters match everything
func (s *Service) ListLoans(memberID string, status loan.Status) []loan.Loan {
	var out []loan.Loan
	for _, l := range s.current().Loans {
		if memberID != "" && l.MemberID != memberID {
			continue
		}
		if status != "" && l.Status != status {
			continue
		}
		out = append(out, l)
	}
	return out
}

// GetLoanRequest returns one loan request
func (s *Service) GetLoanRequest(requestID string) (loan.Request, error) {
	st := s.current()
	idx, err := st.requestIndex(requestID)
	if err != nil {
		return loan.Request{}, err
	}
	return st.LoanRequests[idx], nil
}

// ListLoanRequests filters requests by status; an empty status matches everything
func (s *Service) ListLoanRequests(status loan.RequestStatus) []loan.Request {
	var out []loan.Request
	for _, r := range s.current().LoanRequests {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	return out
}
