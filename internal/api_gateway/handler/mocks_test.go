package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cooperative-society-ledger/internal/domain/eventlog"
	"github.com/cooperative-society-ledger/internal/domain/fund"
	"github.com/cooperative-society-ledger/internal/domain/loan"
	"github.com/cooperative-society-ledger/internal/domain/maturity"
	"github.com/cooperative-society-ledger/internal/domain/member"
	"github.com/cooperative-society-ledger/internal/domain/passbook"
	"github.com/cooperative-society-ledger/internal/domain/report"
	"github.com/cooperative-society-ledger/internal/domain/shared"
	"github.com/cooperative-society-ledger/internal/domain/snapshot"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockLedger mocks every engine facing service interface
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) RegisterMember(ctx context.Context, reg member.Registration) (member.Member, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(member.Member), args.Error(1)
}

func (m *MockLedger) UpdateMember(ctx context.Context, id string, contact member.Contact) (member.Member, error) {
	args := m.Called(ctx, id, contact)
	return args.Get(0).(member.Member), args.Error(1)
}

func (m *MockLedger) DeactivateMember(ctx context.Context, id string) (member.Member, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(member.Member), args.Error(1)
}

func (m *MockLedger) ActivateMember(ctx context.Context, id string) (member.Member, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(member.Member), args.Error(1)
}

func (m *MockLedger) GetMember(id string) (member.Member, error) {
	args := m.Called(id)
	return args.Get(0).(member.Member), args.Error(1)
}

func (m *MockLedger) ListMembers() []member.Member {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]member.Member)
}

func (m *MockLedger) AppendEntry(ctx context.Context, in passbook.Input) (passbook.Entry, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(passbook.Entry), args.Error(1)
}

func (m *MockLedger) CurrentBalance(memberID string) (decimal.Decimal, error) {
	args := m.Called(memberID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) ListPassbook(memberID string) ([]passbook.Entry, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]passbook.Entry), args.Error(1)
}

func (m *MockLedger) RequestLoan(ctx context.Context, memberID string, amount decimal.Decimal, purpose string) (loan.Request, error) {
	args := m.Called(ctx, memberID, amount, purpose)
	return args.Get(0).(loan.Request), args.Error(1)
}

func (m *MockLedger) ApproveLoan(ctx context.Context, requestID string, approvedAmount decimal.Decimal, tenure int) (loan.Loan, error) {
	args := m.Called(ctx, requestID, approvedAmount, tenure)
	return args.Get(0).(loan.Loan), args.Error(1)
}

func (m *MockLedger) RejectLoan(ctx context.Context, requestID, reason string) (loan.Request, error) {
	args := m.Called(ctx, requestID, reason)
	return args.Get(0).(loan.Request), args.Error(1)
}

func (m *MockLedger) UpdateLoan(ctx context.Context, loanID string, patch loan.Patch) (loan.Loan, error) {
	args := m.Called(ctx, loanID, patch)
	return args.Get(0).(loan.Loan), args.Error(1)
}

func (m *MockLedger) DeleteLoan(ctx context.Context, loanID string) error {
	args := m.Called(ctx, loanID)
	return args.Error(0)
}

func (m *MockLedger) MarkLoanDefaulted(ctx context.Context, loanID string) (loan.Loan, error) {
	args := m.Called(ctx, loanID)
	return args.Get(0).(loan.Loan), args.Error(1)
}

func (m *MockLedger) GetLoan(loanID string) (loan.Loan, error) {
	args := m.Called(loanID)
	return args.Get(0).(loan.Loan), args.Error(1)
}

func (m *MockLedger) ListLoans(memberID string, status loan.Status) []loan.Loan {
	args := m.Called(memberID, status)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]loan.Loan)
}

func (m *MockLedger) GetLoanRequest(requestID string) (loan.Request, error) {
	args := m.Called(requestID)
	return args.Get(0).(loan.Request), args.Error(1)
}

func (m *MockLedger) ListLoanRequests(status loan.RequestStatus) []loan.Request {
	args := m.Called(status)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]loan.Request)
}

func (m *MockLedger) AppendFundEntry(ctx context.Context, kind fund.Kind, in fund.Input) (fund.Entry, error) {
	args := m.Called(ctx, kind, in)
	return args.Get(0).(fund.Entry), args.Error(1)
}

func (m *MockLedger) DeleteFundEntry(ctx context.Context, kind fund.Kind, entryID string) (fund.Entry, error) {
	args := m.Called(ctx, kind, entryID)
	return args.Get(0).(fund.Entry), args.Error(1)
}

func (m *MockLedger) ListFundEntries(kind fund.Kind) ([]fund.Entry, error) {
	args := m.Called(kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fund.Entry), args.Error(1)
}

func (m *MockLedger) FundSummary(kind fund.Kind) (fund.Summary, error) {
	args := m.Called(kind)
	return args.Get(0).(fund.Summary), args.Error(1)
}

func (m *MockLedger) SetOverride(ctx context.Context, memberID string, manualInterest decimal.Decimal) (maturity.Override, error) {
	args := m.Called(ctx, memberID, manualInterest)
	return args.Get(0).(maturity.Override), args.Error(1)
}

func (m *MockLedger) ClearOverride(ctx context.Context, memberID string) error {
	args := m.Called(ctx, memberID)
	return args.Error(0)
}

func (m *MockLedger) GetMaturityData() []maturity.Projection {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]maturity.Projection)
}

func (m *MockLedger) GetMemberMaturity(memberID string) (maturity.Projection, error) {
	args := m.Called(memberID)
	return args.Get(0).(maturity.Projection), args.Error(1)
}

func (m *MockLedger) GetAuditData(rng report.Range) report.AuditData {
	args := m.Called(rng)
	return args.Get(0).(report.AuditData)
}

func (m *MockLedger) GetCashbookData(rng report.Range) report.Cashbook {
	args := m.Called(rng)
	return args.Get(0).(report.Cashbook)
}

func (m *MockLedger) GetMemberSummaryData() []report.MemberReport {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]report.MemberReport)
}

func (m *MockLedger) GetDefaultersData() []report.Defaulter {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]report.Defaulter)
}

func (m *MockLedger) Settings() snapshot.Settings {
	args := m.Called()
	return args.Get(0).(snapshot.Settings)
}

func (m *MockLedger) UpdateSettings(ctx context.Context, settings snapshot.Settings) (snapshot.Settings, error) {
	args := m.Called(ctx, settings)
	return args.Get(0).(snapshot.Settings), args.Error(1)
}

func (m *MockLedger) ExportData() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockLedger) ImportData(ctx context.Context, data []byte) shared.Result {
	args := m.Called(ctx, data)
	return args.Get(0).(shared.Result)
}

func (m *MockLedger) Version() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

type MockEventHistoryService struct {
	mock.Mock
}

func (m *MockEventHistoryService) ListEvents(ctx context.Context, filter eventlog.Filter, page, perPage int) ([]*eventlog.Record, int64, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*eventlog.Record), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventHistoryService) GetEvent(ctx context.Context, eventID string) (*eventlog.Record, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*eventlog.Record), args.Error(1)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// performRequest sends body (marshalled to JSON unless it is already a string)
func performRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// decodeResponse unmarshals the envelope and its data into out
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, out any) Response {
	t.Helper()

	var envelope struct {
		Response
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope), "Failed to unmarshal response: %s", rr.Body.String())
	if out != nil {
		require.NotEmpty(t, envelope.Data, "'data' field should not be empty")
		require.NoError(t, json.Unmarshal(envelope.Data, out))
	}
	return envelope.Response
}

// decimalEq matches a decimal argument by value rather than representation
func decimalEq(want string) any {
	expected := decimal.RequireFromString(want)
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(expected)
	})
}
