package journal

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"trade-journal-go/internal/config"
	"trade-journal-go/internal/connector"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

// Engine owns the background broker sync loop. Every tick it pulls open
// positions and recent history from the connector and reconciles them into
// the store. One bad cycle is logged and the loop keeps going; only
// context cancellation stops it.
type Engine struct {
	logger  *zap.Logger
	cfg     *config.Config
	store   *store.TradeStore
	conn    connector.Connector
	updates chan struct{}
}

// NewEngine creates a sync engine. The connector may be the stub; the loop
// then degrades to a no-op until a real session exists.
func NewEngine(logger *zap.Logger, cfg *config.Config, s *store.TradeStore, conn connector.Connector) *Engine {
	return &Engine{
		logger:  logger,
		cfg:     cfg,
		store:   s,
		conn:    conn,
		updates: make(chan struct{}, 1),
	}
}

// Updates returns the data-changed notification channel. A notification is
// published after every cycle that wrote to the store; when nobody is
// draining the channel, notifications are dropped rather than blocking the
// loop.
func (e *Engine) Updates() <-chan struct{} {
	return e.updates
}

func (e *Engine) notify() {
	select {
	case e.updates <- struct{}{}:
	default:
	}
}

// Run starts the periodic sync loop and, if configured, the scheduled
// database backup. It blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	if e.cfg.Backup.Schedule != "" {
		c := cron.New()
		_, err := c.AddFunc(e.cfg.Backup.Schedule, e.scheduledBackup)
		if err != nil {
			e.logger.Error("Invalid backup schedule, automatic backups disabled",
				zap.String("schedule", e.cfg.Backup.Schedule), zap.Error(err))
		} else {
			c.Start()
			defer c.Stop()
			e.logger.Info("Scheduled backups enabled", zap.String("schedule", e.cfg.Backup.Schedule))
		}
	}

	interval := time.Duration(e.cfg.Sync.IntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.logger.Info("Starting broker sync loop", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Stopping broker sync loop...")
			return
		case <-ticker.C:
			if err := e.SyncOnce(ctx); err != nil {
				e.logger.Error("Sync cycle failed", zap.Error(err))
			}
		}
	}
}

// SyncOnce runs a single reconciliation cycle. A connector without a
// session, or one that errors at the batch level, makes the cycle a no-op;
// store failures are returned to the caller. Individual records that fail
// validation are skipped and logged, never fatal to the batch.
func (e *Engine) SyncOnce(ctx context.Context) error {
	if !e.conn.Connected() {
		e.logger.Debug("Broker not connected, skipping sync cycle")
		return nil
	}

	timeout := time.Duration(e.cfg.Broker.TimeoutSeconds) * time.Second
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	wrote := false

	open, err := e.conn.GetOpenTrades(ctx)
	if err != nil {
		e.logger.Warn("Could not fetch open trades, skipping cycle", zap.Error(err))
		return nil
	}
	n, err := e.upsertBatch(open)
	if err != nil {
		return err
	}
	wrote = wrote || n > 0

	history, err := e.conn.GetTradeHistory(ctx, e.cfg.Sync.HistoryDays)
	if err != nil {
		e.logger.Warn("Could not fetch trade history", zap.Error(err))
	} else {
		n, err := e.upsertBatch(history)
		if err != nil {
			return err
		}
		wrote = wrote || n > 0
	}

	if err := e.refreshAccountSnapshot(ctx); err != nil {
		e.logger.Warn("Could not refresh account snapshot", zap.Error(err))
	}

	if wrote {
		e.notify()
	}
	return nil
}

// upsertBatch reconciles one batch of broker records into the store and
// returns how many were written. Invalid records are skipped, not fatal.
func (e *Engine) upsertBatch(trades []models.Trade) (int, error) {
	written := 0
	for i := range trades {
		t := &trades[i]
		if err := t.Validate(); err != nil {
			e.logger.Warn("Skipping invalid broker record",
				zap.String("id", t.ID), zap.Error(err))
			continue
		}
		if err := e.store.Upsert(t); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (e *Engine) refreshAccountSnapshot(ctx context.Context) error {
	info, err := e.conn.GetAccountInfo(ctx)
	if err != nil {
		return err
	}

	snap := &models.AccountSnapshot{
		Broker:     e.conn.Name(),
		Balance:    info["balance"],
		Equity:     info["equity"],
		Margin:     info["margin"],
		FreeMargin: info["margin_free"],
	}
	if login, ok := info["login"]; ok {
		snap.AccountNumber = formatAccountNumber(login)
	}
	return e.store.SaveAccountSnapshot(snap)
}

// scheduledBackup writes a timestamped copy of the database into the
// configured backup directory.
func (e *Engine) scheduledBackup() {
	name := fmt.Sprintf("journal_backup_%s.db", time.Now().Format("20060102_150405"))
	dst := filepath.Join(e.cfg.Backup.Directory, name)

	if err := e.store.Backup(dst); err != nil {
		e.logger.Error("Scheduled backup failed", zap.Error(err))
		return
	}
	e.logger.Info("Scheduled backup written", zap.String("path", dst))
}

func formatAccountNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
