package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trade-journal-go/internal/database"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

func newTestStore(t *testing.T) *store.TradeStore {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "journal.db")
	db, err := database.New(dsn)
	require.NoError(t, err)
	return store.NewTradeStore(db, dsn)
}

// closedTrade builds a valid closed trade with the given profit, closed at
// the given time.
func closedTrade(id string, profit float64, closeTime time.Time) models.Trade {
	openTime := closeTime.Add(-2 * time.Hour)
	return models.Trade{
		ID:         id,
		Symbol:     "EURUSD",
		Type:       models.SideBuy,
		Lots:       0.1,
		OpenPrice:  1.0850,
		ClosePrice: ptr(1.0900),
		OpenTime:   &openTime,
		CloseTime:  &closeTime,
		Profit:     profit,
		Status:     models.StatusClosed,
	}
}

func openTrade(id string, openTime time.Time) models.Trade {
	return models.Trade{
		ID:        id,
		Symbol:    "GBPUSD",
		Type:      models.SideSell,
		Lots:      0.2,
		OpenPrice: 1.2150,
		OpenTime:  &openTime,
		Status:    models.StatusOpen,
	}
}
