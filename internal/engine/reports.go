package engine

import (
	"github.com/cooperative-society-ledger/internal/domain/report"
)

// GetAuditData builds the full audit report over rng
func (s *Service) GetAuditData(rng report.Range) report.AuditData {
	return report.Build(s.current().reportInput(s.now()), rng)
}

// GetCashbookData is the mode-wise cashbook over rng
func (s *Service) GetCashbookData(rng report.Range) report.Cashbook {
	in := s.current().reportInput(s.now())
	return report.BuildCashbook(report.Merge(in.Sources, rng))
}

// GetMemberSummaryData reports every member over the whole history
func (s *Service) GetMemberSummaryData() []report.MemberReport {
	st := s.current()
	in := st.reportInput(s.now())
	return report.MemberReports(st.Members, report.Merge(in.Sources, report.Range{}), st.Loans)
}

// GetDefaultersData lists active loans with their overdue status
func (s *Service) GetDefaultersData() []report.Defaulter {
	st := s.current()
	names := make(map[string]string, len(st.Members))
	for _, m := range st.Members {
		names[m.ID] = m.Name
	}
	return report.Defaulters(st.Loans, names, s.now(), st.Settings.DefaulterGracePeriodDays)
}
