package engine

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/maturity"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/report"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
	"github.com/shopspring/decimal"
)

// State is one version of the society. A published State is never written
// to again; every mutation works on a clone.
type State struct {
	Version      uint64
	Settings     snapshot.Settings
	Members      []member.Member
	Passbook     []passbook.Entry
	Loans        []loan.Loan
	LoanRequests []loan.Request
	AdminFund    []fund.Entry
	Expenses     []fund.Entry
	Overrides    map[string]maturity.Override
}

func newState(settings snapshot.Settings) *State {
	return &State{
		Settings:  settings,
		Overrides: make(map[string]maturity.Override),
	}
}

func (s *State) clone() *State {
	overrides := maps.Clone(s.Overrides)
	if overrides == nil {
		overrides = make(map[string]maturity.Override)
	}

	return &State{
		Version:      s.Version,
		Settings:     s.Settings,
		Members:      slices.Clone(s.Members),
		Passbook:     slices.Clone(s.Passbook),
		Loans:        slices.Clone(s.Loans),
		LoanRequests: slices.Clone(s.LoanRequests),
		AdminFund:    slices.Clone(s.AdminFund),
		Expenses:     slices.Clone(s.Expenses),
		Overrides:    overrides,
	}
}

func (s *State) memberIndex(id string) (int, error) {
	idx := slices.IndexFunc(s.Members, func(m member.Member) bool { return m.ID == id })
	if idx < 0 {
		return -1, member.ErrMemberNotFound{MemberID: id}
	}
	return idx, nil
}

func (s *State) loanIndex(id string) (int, error) {
	idx := slices.IndexFunc(s.Loans, func(l loan.Loan) bool { return l.ID == id })
	if idx < 0 {
		return -1, loan.ErrLoanNotFound{LoanID: id}
	}
	return idx, nil
}

func (s *State) requestIndex(id string) (int, error) {
	idx := slices.IndexFunc(s.LoanRequests, func(r loan.Request) bool { return r.ID == id })
	if idx < 0 {
		return -1, loan.ErrRequestNotFound{RequestID: id}
	}
	return idx, nil
}

// ledger returns the fund ledger slice for kind so callers can replace it
func (s *State) ledger(kind fund.Kind) (*[]fund.Entry, error) {
	switch kind {
	case fund.KindAdmin:
		return &s.AdminFund, nil
	case fund.KindExpense:
		return &s.Expenses, nil
	default:
		return nil, fund.ErrUnknownLedger
	}
}

// installmentLoan resolves the loan an entry pays into. An explicit loanID
// must name one of the member's loans. Without one, an installment goes to the
// member's only active loan; several active loans make the entry ambiguous.
// -1 means no loan is touched.
func (s *State) installmentLoan(memberID, loanID string, installment decimal.Decimal) (int, error) {
	if loanID = strings.TrimSpace(loanID); loanID != "" {
		idx, err := s.loanIndex(loanID)
		if err != nil {
			return -1, err
		}
		if s.Loans[idx].MemberID != memberID {
			return -1, loan.ErrLoanNotFound{LoanID: loanID}
		}
		return idx, nil
	}

	if !installment.IsPositive() {
		return -1, nil
	}

	found := -1
	for i, l := range s.Loans {
		if l.MemberID != memberID || !l.IsActive() {
			continue
		}
		if found >= 0 {
			return -1, loan.ErrAmbiguousLoan
		}
		found = i
	}
	return found, nil
}

// outstandingLoans sums the remaining balance of the member's active loans
func (s *State) outstandingLoans(memberID string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range s.Loans {
		if l.MemberID == memberID && l.IsActive() {
			total = total.Add(l.RemainingBalance)
		}
	}
	return total
}

// projections computes one maturity row per member, in directory order
func (s *State) projections(now time.Time) []maturity.Projection {
	byMember := make(map[string][]passbook.Entry, len(s.Members))
	for _, e := range s.Passbook {
		byMember[e.MemberID] = append(byMember[e.MemberID], e)
	}

	out := make([]maturity.Projection, 0, len(s.Members))
	for _, m := range s.Members {
		out = append(out, s.projection(m, byMember[m.ID], now))
	}
	return out
}

func (s *State) projection(m member.Member, entries []passbook.Entry, now time.Time) maturity.Projection {
	in := maturity.Input{
		Member:          m,
		Entries:         entries,
		OutstandingLoan: s.outstandingLoans(m.ID),
		Now:             now,
	}
	if o, ok := s.Overrides[m.ID]; ok {
		in.Override = &o
	}
	return maturity.Project(in)
}

func (s *State) reportInput(now time.Time) report.Input {
	return report.Input{
		Sources: report.Sources{
			Members:   s.Members,
			Passbook:  s.Passbook,
			Loans:     s.Loans,
			AdminFund: s.AdminFund,
			Expenses:  s.Expenses,
		},
		Projections:     s.projections(now),
		Now:             now,
		GracePeriodDays: s.Settings.DefaulterGracePeriodDays,
	}
}

// toDocument renders the state as the persisted snapshot. Slices are never
// nil so every key serializes as a JSON array.
func (s *State) toDocument(exportDate time.Time) *snapshot.Document {
	overrides := slices.SortedFunc(maps.Values(s.Overrides), func(a, b maturity.Override) int {
		return strings.Compare(a.MemberID, b.MemberID)
	})
	settings := s.Settings

	return &snapshot.Document{
		Version:           snapshot.FormatVersion,
		StateVersion:      s.Version,
		Settings:          &settings,
		Members:           orEmpty(s.Members),
		Passbook:          orEmpty(s.Passbook),
		Loans:             orEmpty(s.Loans),
		LoanRequests:      orEmpty(s.LoanRequests),
		AdminFundLedger:   orEmpty(s.AdminFund),
		ExpenseLedger:     orEmpty(s.Expenses),
		MaturityOverrides: orEmpty(overrides),
		ExportDate:        exportDate,
	}
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// stateFromDocument rebuilds a state and checks that every record points at
// something that exists.
func stateFromDocument(doc *snapshot.Document) (*State, error) {
	if doc.Settings == nil {
		return nil, snapshot.ErrMissingSettings
	}

	st := &State{
		Version:      doc.StateVersion,
		Settings:     *doc.Settings,
		Members:      doc.Members,
		Passbook:     doc.Passbook,
		Loans:        doc.Loans,
		LoanRequests: doc.LoanRequests,
		AdminFund:    doc.AdminFundLedger,
		Expenses:     doc.ExpenseLedger,
		Overrides:    make(map[string]maturity.Override, len(doc.MaturityOverrides)),
	}
	for _, o := range doc.MaturityOverrides {
		st.Overrides[o.MemberID] = o
	}

	if err := st.validate(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *State) validate() error {
	known := make(map[string]bool, len(s.Members))
	for _, m := range s.Members {
		if m.ID == "" {
			return ErrInvalidDocument{Reason: "member without id"}
		}
		if known[m.ID] {
			return ErrInvalidDocument{Reason: "duplicate member " + m.ID}
		}
		known[m.ID] = true
	}

	loans, err := uniqueIDs("loan", s.Loans, func(l loan.Loan) string { return l.ID })
	if err != nil {
		return err
	}
	requests, err := uniqueIDs("loan request", s.LoanRequests, func(r loan.Request) string { return r.ID })
	if err != nil {
		return err
	}
	if _, err := uniqueIDs("passbook entry", s.Passbook, func(e passbook.Entry) string { return e.ID }); err != nil {
		return err
	}

	for _, e := range s.Passbook {
		if !known[e.MemberID] {
			return ErrInvalidDocument{Reason: "passbook entry " + e.ID + " references unknown member " + e.MemberID}
		}
		if e.LoanID != "" && !loans[e.LoanID] {
			return ErrInvalidDocument{Reason: "passbook entry " + e.ID + " references unknown loan " + e.LoanID}
		}
	}
	for _, l := range s.Loans {
		if !known[l.MemberID] {
			return ErrInvalidDocument{Reason: "loan " + l.ID + " references unknown member " + l.MemberID}
		}
		if l.RequestID != "" && !requests[l.RequestID] {
			return ErrInvalidDocument{Reason: "loan " + l.ID + " references unknown loan request " + l.RequestID}
		}
		if l.RemainingBalance.IsNegative() {
			return ErrInvalidDocument{Reason: "loan " + l.ID + " has a negative remaining balance"}
		}
	}
	for _, r := range s.LoanRequests {
		if !known[r.MemberID] {
			return ErrInvalidDocument{Reason: "loan request " + r.ID + " references unknown member " + r.MemberID}
		}
		if r.LoanID != "" && !loans[r.LoanID] {
			return ErrInvalidDocument{Reason: "loan request " + r.ID + " references unknown loan " + r.LoanID}
		}
	}
	for id := range s.Overrides {
		if !known[id] {
			return ErrInvalidDocument{Reason: "maturity override references unknown member " + id}
		}
	}
	return nil
}

// uniqueIDs collects record ids, rejecting empty and repeated ones
func uniqueIDs[T any](kind string, records []T, id func(T) string) (map[string]bool, error) {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		key := id(r)
		if key == "" {
			return nil, ErrInvalidDocument{Reason: kind + " without id"}
		}
		if seen[key] {
			return nil, ErrInvalidDocument{Reason: "duplicate " + kind + " " + key}
		}
		seen[key] = true
	}
	return seen, nil
}
