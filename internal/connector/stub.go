package connector

import (
	"context"

	"trade-journal-go/internal/models"
)

// Stub is the connector used on hosts without a broker bridge. Connect
// reports unavailable, data calls return nothing, so the sync loop
// degrades to a no-op.
type Stub struct{}

var _ Connector = (*Stub)(nil)

func (Stub) Name() string { return "stub" }

func (Stub) Connect(context.Context, Credentials) (bool, error) { return false, nil }

func (Stub) Disconnect() {}

func (Stub) Connected() bool { return false }

func (Stub) GetOpenTrades(context.Context) ([]models.Trade, error) { return nil, nil }

func (Stub) GetTradeHistory(context.Context, int) ([]models.Trade, error) { return nil, nil }

func (Stub) GetAccountInfo(context.Context) (map[string]float64, error) {
	return map[string]float64{}, nil
}
