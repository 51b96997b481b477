package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/maturity"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/shopspring/decimal"
)

// FormatVersion is written into every exported document
const FormatVersion = "1.0"

var (
	ErrMissingVersion  = errors.New("snapshot document has no version")
	ErrMissingSettings = errors.New("snapshot document has no settings")
	ErrInvalidSettings = errors.New("snapshot settings are invalid")
)

// Settings are the society-wide parameters stored with the state
type Settings struct {
	SocietyName              string          `json:"societyName"`
	DefaultLoanTenure        int             `json:"defaultLoanTenure"`
	LoanInterestRate         decimal.Decimal `json:"loanInterestRate"`
	DefaulterGracePeriodDays int             `json:"defaulterGracePeriodDays"`
}

// Validate checks the settings a loan approval and the defaulter report rely on
func (s Settings) Validate() error {
	if s.DefaultLoanTenure < 1 || s.DefaulterGracePeriodDays < 0 || s.LoanInterestRate.IsNegative() {
		return ErrInvalidSettings
	}
	return nil
}

// Document is the full persisted state
type Document struct {
	Version           string              `json:"version"`
	StateVersion      uint64              `json:"stateVersion"`
	Settings          *Settings           `json:"settings"`
	Members           []member.Member     `json:"members"`
	Passbook          []passbook.Entry    `json:"passbook"`
	Loans             []loan.Loan         `json:"loans"`
	LoanRequests      []loan.Request      `json:"loanRequests"`
	AdminFundLedger   []fund.Entry        `json:"adminFundLedger"`
	ExpenseLedger     []fund.Entry        `json:"expenseLedger"`
	MaturityOverrides []maturity.Override `json:"maturityOverrides"`
	ExportDate        time.Time           `json:"exportDate"`
}

// Parse decodes and validates a document
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot document: %w", err)
	}
	if doc.Version == "" {
		return nil, ErrMissingVersion
	}
	if doc.Settings == nil {
		return nil, ErrMissingSettings
	}
	if err := doc.Settings.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Marshal encodes the document as indented JSON
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
