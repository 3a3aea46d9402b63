package models

import (
	"fmt"
	"time"
)

// Trade sides.
const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Trade lifecycle states.
const (
	StatusOpen    = "open"
	StatusClosed  = "closed"
	StatusPending = "pending"
)

// Trade is the canonical record of one position, regardless of whether it
// came from the broker feed, a CSV import, or manual entry. The broker
// ticket (or a caller-supplied string) is the primary key; writing a trade
// with an existing ID replaces the stored row.
//
// ClosePrice, OpenTime and CloseTime are pointers so that an absent value
// survives a round trip through the database as absent, not as zero.
type Trade struct {
	ID         string     `gorm:"primaryKey" json:"id"`
	Symbol     string     `gorm:"not null" json:"symbol"`
	Type       string     `gorm:"not null" json:"type"` // "buy" or "sell"
	Lots       float64    `gorm:"not null" json:"lots"`
	OpenPrice  float64    `gorm:"not null" json:"open_price"`
	ClosePrice *float64   `json:"close_price,omitempty"`
	OpenTime   *time.Time `json:"open_time,omitempty"`
	CloseTime  *time.Time `json:"close_time,omitempty"`
	Profit     float64    `json:"profit"`
	Commission float64    `json:"commission"`
	Swap       float64    `json:"swap"`
	Comment    string     `json:"comment"`
	Magic      int64      `json:"magic"`
	Status     string     `json:"status"` // "open", "closed", "pending"
}

// ValidationError reports a trade payload that cannot be stored.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid trade: %s %s", e.Field, e.Reason)
}

// Validate checks the invariants a trade must satisfy before it is written
// to the store.
func (t *Trade) Validate() error {
	if t.Symbol == "" {
		return &ValidationError{Field: "symbol", Reason: "must not be empty"}
	}
	if t.Lots <= 0 {
		return &ValidationError{Field: "lots", Reason: "must be positive"}
	}
	if t.Status == StatusClosed {
		if t.ClosePrice == nil {
			return &ValidationError{Field: "close_price", Reason: "required for closed trades"}
		}
		if t.CloseTime == nil {
			return &ValidationError{Field: "close_time", Reason: "required for closed trades"}
		}
	}
	return nil
}

// IsOpen reports whether the trade is still an open position.
func (t *Trade) IsOpen() bool {
	return t.Status == StatusOpen
}

// IsClosed reports whether the trade has been closed out.
func (t *Trade) IsClosed() bool {
	return t.Status == StatusClosed
}
