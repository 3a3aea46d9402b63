package api

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"trade-journal-go/internal/connector"
	"trade-journal-go/internal/journal"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

// Handler holds dependencies for the API endpoints.
type Handler struct {
	logger    *zap.Logger
	store     *store.TradeStore
	conn      connector.Connector
	engine    *journal.Engine
	importer  *journal.Importer
	exporter  *journal.Exporter
	analytics *journal.Analytics
}

// NewHandler creates a Handler with all journal components wired in.
func NewHandler(logger *zap.Logger, s *store.TradeStore, conn connector.Connector, engine *journal.Engine) *Handler {
	return &Handler{
		logger:    logger,
		store:     s,
		conn:      conn,
		engine:    engine,
		importer:  journal.NewImporter(s, logger),
		exporter:  journal.NewExporter(s, logger),
		analytics: journal.NewAnalytics(s),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", zap.Error(err))
	}
}

// writeError maps the journal error taxonomy onto HTTP status codes.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var status int
	var valErr *models.ValidationError
	var impErr *journal.ImportError
	var connErr *connector.ConnectorError

	switch {
	case errors.As(err, &valErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &impErr):
		status = http.StatusBadRequest
	case errors.Is(err, journal.ErrNothingToExport):
		status = http.StatusNotFound
	case errors.As(err, &connErr):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"connected": h.conn.Connected(),
	})
}

// ListTrades returns all stored trades, newest open time first.
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.store.GetAll()
	if err != nil {
		h.logger.Error("Failed to list trades", zap.Error(err))
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, trades)
}

// CreateTrade records a manually entered trade. A missing ID gets a
// generated ULID so manual entries never collide with broker tickets.
func (h *Handler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	var trade models.Trade
	if err := json.NewDecoder(r.Body).Decode(&trade); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	if trade.ID == "" {
		trade.ID = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	}

	if err := trade.Validate(); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.store.Upsert(&trade); err != nil {
		h.logger.Error("Failed to save manual trade", zap.Error(err))
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, trade)
}

// Summary returns the dashboard metrics.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.analytics.ComputeSummary()
	if err != nil {
		h.logger.Error("Failed to compute summary", zap.Error(err))
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summary)
}

// EquityCurve returns the cumulative realized P&L series.
func (h *Handler) EquityCurve(w http.ResponseWriter, r *http.Request) {
	curve, err := h.analytics.EquityCurve()
	if err != nil {
		h.logger.Error("Failed to compute equity curve", zap.Error(err))
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, curve)
}

// ImportCSV merges a CSV request body into the store. On an identifier
// parse failure the response names the offending row; rows imported before
// it stay in the store.
func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	count, err := h.importer.ImportCSV(r.Body)
	if err != nil {
		h.logger.Warn("CSV import failed", zap.Int("imported", count), zap.Error(err))
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// ExportCSV streams the full store as CSV.
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	// Header must be decided before the first byte, so check emptiness
	// up front; the exporter re-checks under the same rule.
	count, err := h.store.Count()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if count == 0 {
		h.writeError(w, &journal.ExportError{Err: journal.ErrNothingToExport})
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="trades.csv"`)
	if _, err := h.exporter.ExportCSV(w); err != nil {
		h.logger.Error("CSV export failed", zap.Error(err))
	}
}

type backupRequest struct {
	Destination string `json:"destination"`
}

// Backup copies the database file to a caller-chosen destination.
func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	var req backupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Destination == "" {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "destination is required"})
		return
	}

	if err := h.store.Backup(req.Destination); err != nil {
		h.logger.Error("Backup failed", zap.Error(err))
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"backup": req.Destination})
}

// SeedDemo loads the example trades.
func (h *Handler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	count, err := journal.SeedDemoData(h.store)
	if err != nil {
		h.logger.Error("Demo seed failed", zap.Error(err))
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"seeded": count})
}

type connectRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
	Server   string `json:"server"`
}

// Connect establishes the broker session. Unlike the background sync,
// interactive connect surfaces connector failures to the caller.
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}

	ok, err := h.conn.Connect(r.Context(), connector.Credentials{
		Account:  req.Account,
		Password: req.Password,
		Server:   req.Server,
	})
	if err != nil {
		h.logger.Error("Broker connect failed", zap.Error(err))
		h.writeError(w, err)
		return
	}

	if ok {
		// Pull fresh data right away instead of waiting for the next tick.
		if err := h.engine.SyncOnce(r.Context()); err != nil {
			h.logger.Warn("Initial sync after connect failed", zap.Error(err))
		}
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"connected": ok})
}

// Disconnect tears down the broker session.
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.conn.Disconnect()
	h.writeJSON(w, http.StatusOK, map[string]bool{"connected": false})
}

// Account returns the latest stored account snapshot.
func (h *Handler) Account(w http.ResponseWriter, r *http.Request) {
	snap, found, err := h.store.LatestAccountSnapshot()
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !found {
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "no account snapshot yet"})
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}
