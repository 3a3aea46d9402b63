package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trade-journal-go/internal/models"
)

// PersistenceError reports an I/O or schema failure inside the trade store.
// The store remains usable after a failed call; each operation is its own
// transaction, so a failure never leaves a half-written row behind.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("trade store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// TradeStore is the single owner of persisted trade records. All writes go
// through Upsert, which is safe to call concurrently from the main control
// flow and the background sync loop.
type TradeStore struct {
	db   *gorm.DB
	file string // path of the database file, for backups
}

// NewTradeStore creates a store on top of an opened database.
// The file path is only needed for Backup; pass the DSN used to open it.
func NewTradeStore(db *gorm.DB, file string) *TradeStore {
	return &TradeStore{db: db, file: file}
}

// Upsert inserts the trade, or fully replaces the stored row with the same
// ID. Each call is a self-contained transaction.
func (s *TradeStore) Upsert(trade *models.Trade) error {
	if trade.Status == "" {
		trade.Status = models.StatusOpen
	}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(trade).Error
	if err != nil {
		return &PersistenceError{Op: "upsert", Err: err}
	}
	return nil
}

// GetAll returns every stored trade ordered by open time, newest first.
// Trades without an open time sort as if opened at the earliest possible
// moment, which places them last.
func (s *TradeStore) GetAll() ([]models.Trade, error) {
	var trades []models.Trade
	if err := s.db.Order("open_time DESC").Find(&trades).Error; err != nil {
		return nil, &PersistenceError{Op: "get all", Err: err}
	}
	return trades, nil
}

// Get looks up one trade by ID. The second return value reports whether it
// exists.
func (s *TradeStore) Get(id string) (*models.Trade, bool, error) {
	var trade models.Trade
	err := s.db.First(&trade, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &PersistenceError{Op: "get", Err: err}
	}
	return &trade, true, nil
}

// Count returns the number of stored trades.
func (s *TradeStore) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.Trade{}).Count(&n).Error; err != nil {
		return 0, &PersistenceError{Op: "count", Err: err}
	}
	return n, nil
}

// SaveAccountSnapshot replaces the stored account state with the latest one
// reported by the broker.
func (s *TradeStore) SaveAccountSnapshot(snap *models.AccountSnapshot) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.AccountSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Create(snap).Error
	})
	if err != nil {
		return &PersistenceError{Op: "save account snapshot", Err: err}
	}
	return nil
}

// LatestAccountSnapshot returns the last stored account state, if any.
func (s *TradeStore) LatestAccountSnapshot() (*models.AccountSnapshot, bool, error) {
	var snap models.AccountSnapshot
	err := s.db.Order("created_at DESC").First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &PersistenceError{Op: "latest account snapshot", Err: err}
	}
	return &snap, true, nil
}

// Backup copies the database file byte-for-byte to dst. No format
// transformation is applied; the result is a drop-in replacement for the
// live file.
func (s *TradeStore) Backup(dst string) error {
	if s.file == "" {
		return &PersistenceError{Op: "backup", Err: errors.New("store has no backing file")}
	}

	src, err := os.Open(s.file)
	if err != nil {
		return &PersistenceError{Op: "backup", Err: err}
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return &PersistenceError{Op: "backup", Err: err}
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return &PersistenceError{Op: "backup", Err: err}
	}
	return out.Sync()
}
