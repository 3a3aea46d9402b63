package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/connector"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/store"
)

// Server exposes the journal over a local HTTP JSON API. It is the thin
// surface a desktop shell or browser dashboard talks to; all domain logic
// stays in the journal and store packages.
type Server struct {
	server  *http.Server
	handler *Handler
	logger  *zap.Logger
}

// NewServer wires the router and creates the HTTP server.
func NewServer(cfg *config.Config, logger *zap.Logger, s *store.TradeStore, conn connector.Connector, engine *journal.Engine) *Server {
	handler := NewHandler(logger, s, conn, engine)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: NewRouter(handler),
	}

	return &Server{
		server:  srv,
		handler: handler,
		logger:  logger.Named("api-server"),
	}
}

// NewRouter builds the API route table.
func NewRouter(handler *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", handler.Health).Methods(http.MethodGet)
	r.HandleFunc("/api/trades", handler.ListTrades).Methods(http.MethodGet)
	r.HandleFunc("/api/trades", handler.CreateTrade).Methods(http.MethodPost)
	r.HandleFunc("/api/summary", handler.Summary).Methods(http.MethodGet)
	r.HandleFunc("/api/equity", handler.EquityCurve).Methods(http.MethodGet)
	r.HandleFunc("/api/import", handler.ImportCSV).Methods(http.MethodPost)
	r.HandleFunc("/api/export", handler.ExportCSV).Methods(http.MethodGet)
	r.HandleFunc("/api/backup", handler.Backup).Methods(http.MethodPost)
	r.HandleFunc("/api/demo", handler.SeedDemo).Methods(http.MethodPost)
	r.HandleFunc("/api/connect", handler.Connect).Methods(http.MethodPost)
	r.HandleFunc("/api/disconnect", handler.Disconnect).Methods(http.MethodPost)
	r.HandleFunc("/api/account", handler.Account).Methods(http.MethodGet)
	return r
}

// Start runs the HTTP server in a new goroutine.
func (s *Server) Start() {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))
	go func() {
		if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
			s.logger.Error("API server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping API server...")
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
