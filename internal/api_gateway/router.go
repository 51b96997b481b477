package api_gateway

import (
	"log/slog"

	"github.com/cooperative-society-ledger/internal/api_gateway/handler"
	"github.com/cooperative-society-ledger/internal/api_gateway/middleware"
	"github.com/gin-gonic/gin"
)

// handlers groups every handler the router mounts. Events is nil when no
// event archive is configured.
type handlers struct {
	members  *handler.MemberHandler
	passbook *handler.PassbookHandler
	loans    *handler.LoanHandler
	funds    *handler.FundHandler
	maturity *handler.MaturityHandler
	reports  *handler.ReportHandler
	society  *handler.SocietyHandler
	events   *handler.EventHandler
	checks   []HealthCheck
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	v1 := r.Group("/api/v1")
	{
		members := v1.Group("/members")
		{
			members.POST("", h.members.Register)
			members.GET("", h.members.List)
			members.GET("/:id", h.members.GetByID)
			members.PATCH("/:id", h.members.Update)
			members.POST("/:id/activate", h.members.Activate)
			members.POST("/:id/deactivate", h.members.Deactivate)

			members.POST("/:id/passbook", h.passbook.Append)
			members.GET("/:id/passbook", h.passbook.List)
			members.GET("/:id/balance", h.passbook.Balance)

			members.GET("/:id/maturity", h.maturity.GetByMember)
			members.PUT("/:id/maturity/override", h.maturity.SetOverride)
			members.DELETE("/:id/maturity/override", h.maturity.ClearOverride)
		}

		loanRequests := v1.Group("/loan-requests")
		{
			loanRequests.POST("", h.loans.CreateRequest)
			loanRequests.GET("", h.loans.ListRequests)
			loanRequests.GET("/:id", h.loans.GetRequest)
			loanRequests.POST("/:id/approve", h.loans.Approve)
			loanRequests.POST("/:id/reject", h.loans.Reject)
		}

		loans := v1.Group("/loans")
		{
			loans.GET("", h.loans.List)
			loans.GET("/:id", h.loans.GetByID)
			loans.PATCH("/:id", h.loans.Update)
			loans.DELETE("/:id", h.loans.Delete)
			loans.POST("/:id/default", h.loans.MarkDefaulted)
		}

		funds := v1.Group("/funds/:kind")
		{
			funds.POST("/entries", h.funds.Append)
			funds.GET("/entries", h.funds.List)
			funds.DELETE("/entries/:entryId", h.funds.Delete)
			funds.GET("/summary", h.funds.Summary)
		}

		v1.GET("/maturity", h.maturity.List)

		reports := v1.Group("/reports")
		{
			reports.GET("/audit", h.reports.Audit)
			reports.GET("/cashbook", h.reports.Cashbook)
			reports.GET("/member-summary", h.reports.MemberSummary)
			reports.GET("/defaulters", h.reports.Defaulters)
		}

		v1.GET("/settings", h.society.GetSettings)
		v1.PUT("/settings", h.society.UpdateSettings)

		data := v1.Group("/data")
		{
			data.GET("/export", h.society.Export)
			data.POST("/import", h.society.Import)
			data.GET("/version", h.society.Version)
		}

		if h.events != nil {
			events := v1.Group("/events")
			{
				events.GET("", h.events.List)
				events.GET("/:id", h.events.GetByID)
			}
		}
	}

	r.GET("/health", healthHandler(h.checks))
}
