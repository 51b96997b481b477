package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/cooperative-society-ledger/internal/domain/report"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func reportRouter(ledger *MockLedger) *gin.Engine {
	h := NewReportHandler(newTestLogger(), ledger)
	router := setupTestRouter()
	router.GET("/reports/audit", h.Audit)
	router.GET("/reports/cashbook", h.Cashbook)
	router.GET("/reports/member-summary", h.MemberSummary)
	router.GET("/reports/defaulters", h.Defaulters)
	return router
}

func TestReportHandler_Ranges(t *testing.T) {
	t.Run("AuditWithBothBounds", func(t *testing.T) {
		ledger := new(MockLedger)
		ledger.On("GetAuditData", mock.MatchedBy(func(rng report.Range) bool {
			return rng.Start != nil && rng.Start.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) &&
				rng.End != nil && rng.End.Equal(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC))
		})).Return(report.AuditData{
			Cashbook: report.Cashbook{Total: decimal.NewFromInt(4500)},
		}).Once()

		rr := performRequest(t, reportRouter(ledger), http.MethodGet, "/reports/audit?startDate=2024-01-01&endDate=2024-03-31", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got report.AuditData
		decodeResponse(t, rr, &got)
		assert.True(t, got.Cashbook.Total.Equal(decimal.NewFromInt(4500)))
		ledger.AssertExpectations(t)
	})

	t.Run("CashbookOpenRange", func(t *testing.T) {
		ledger := new(MockLedger)
		ledger.On("GetCashbookData", report.Range{}).Return(report.Cashbook{}).Once()

		rr := performRequest(t, reportRouter(ledger), http.MethodGet, "/reports/cashbook", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		ledger.AssertExpectations(t)
	})

	t.Run("MalformedDate", func(t *testing.T) {
		ledger := new(MockLedger)
		rr := performRequest(t, reportRouter(ledger), http.MethodGet, "/reports/audit?startDate=01/02/2024", nil)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		resp := decodeResponse(t, rr, nil)
		assert.Contains(t, resp.Error.Message, "startDate")
	})

	t.Run("InvertedRange", func(t *testing.T) {
		ledger := new(MockLedger)
		rr := performRequest(t, reportRouter(ledger), http.MethodGet, "/reports/cashbook?startDate=2024-05-01&endDate=2024-04-01", nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestReportHandler_Lists(t *testing.T) {
	t.Run("MemberSummary", func(t *testing.T) {
		ledger := new(MockLedger)
		ledger.On("GetMemberSummaryData").Return([]report.MemberReport{{MemberID: "m-1", NetWorth: decimal.NewFromInt(900)}}).Once()

		rr := performRequest(t, reportRouter(ledger), http.MethodGet, "/reports/member-summary", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []report.MemberReport
		decodeResponse(t, rr, &got)
		assert.Len(t, got, 1)
	})

	t.Run("NoDefaulters", func(t *testing.T) {
		ledger := new(MockLedger)
		ledger.On("GetDefaultersData").Return(nil).Once()

		rr := performRequest(t, reportRouter(ledger), http.MethodGet, "/reports/defaulters", nil)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"data":[]`)
	})
}
