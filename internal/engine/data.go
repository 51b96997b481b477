package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
)

// importSummary is the payload of a data.imported event
type importSummary struct {
	SourceExportDate time.Time `json:"source_export_date"`
	Members          int       `json:"members"`
	PassbookEntries  int       `json:"passbook_entries"`
	Loans            int       `json:"loans"`
	LoanRequests     int       `json:"loan_requests"`
}

// ExportData serializes the current state as a snapshot document
func (s *Service) ExportData() ([]byte, error) {
	return s.current().toDocument(s.now()).Marshal()
}

// ImportData replaces the whole state with the given document. Failures are
// reported in the result and leave the current state untouched.
func (s *Service) ImportData(ctx context.Context, data []byte) shared.Result {
	doc, err := snapshot.Parse(data)
	if err != nil {
		s.logger.Warn("rejected data import", "error", err)
		return shared.Failed("Invalid data format: " + err.Error())
	}

	imported, err := stateFromDocument(doc)
	if err != nil {
		s.logger.Warn("rejected data import", "error", err)
		return shared.Failed(err.Error())
	}

	summary := importSummary{
		SourceExportDate: doc.ExportDate,
		Members:          len(imported.Members),
		PassbookEntries:  len(imported.Passbook),
		Loans:            len(imported.Loans),
		LoanRequests:     len(imported.LoanRequests),
	}

	err = s.mutate(ctx, "import data", func(st *State, _ time.Time) ([]change, error) {
		version := st.Version
		*st = *imported
		st.Version = version
		return []change{{shared.EventDataImported, "society", summary}}, nil
	})
	if err != nil {
		return shared.Failed("Failed to save imported data: " + err.Error())
	}

	return shared.Succeeded(fmt.Sprintf("Imported %d members, %d passbook entries and %d loans",
		summary.Members, summary.PassbookEntries, summary.Loans))
}
