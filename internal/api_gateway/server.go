package api_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cooperative-society-ledger/internal/api_gateway/handler"
	"github.com/cooperative-society-ledger/internal/api_gateway/service"
	"github.com/cooperative-society-ledger/internal/config"
	"github.com/gin-gonic/gin"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger
	httpServer *http.Server
	httpRouter *gin.Engine
}

// NewServer creates and configures a new HTTP server over the ledger engine.
// history may be nil, in which case the event history routes are not mounted.
// checks back the /health endpoint.
func NewServer(log *slog.Logger, cfg *config.Config, ledger service.LedgerEngine, history service.EventHistoryService, checks ...HealthCheck) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	h := handlers{
		members:  handler.NewMemberHandler(log, ledger),
		passbook: handler.NewPassbookHandler(log, ledger),
		loans:    handler.NewLoanHandler(log, ledger),
		funds:    handler.NewFundHandler(log, ledger),
		maturity: handler.NewMaturityHandler(log, ledger),
		reports:  handler.NewReportHandler(log, ledger),
		society:  handler.NewSocietyHandler(log, ledger),
		checks:   checks,
	}
	if history != nil {
		h.events = handler.NewEventHandler(log, history)
	}

	setupRouter(log, httpRouter, h)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.httpRouter
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests, bounded by ctx
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}
	return nil
}
