package journal

import (
	"time"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

func ptr[T any](v T) *T { return &v }

// SeedDemoData upserts a small set of closed example trades so a fresh
// install has something to look at. Re-seeding is harmless: the fixed IDs
// make it an overwrite, not a duplication.
func SeedDemoData(s *store.TradeStore) (int, error) {
	now := time.Now().UTC().Truncate(time.Second)
	day := 24 * time.Hour

	demo := []models.Trade{
		{
			ID: "DEMO001", Symbol: "EURUSD", Type: models.SideBuy, Lots: 0.1,
			OpenPrice: 1.1850, ClosePrice: ptr(1.1920),
			OpenTime: ptr(now.Add(-5 * day)), CloseTime: ptr(now.Add(-4 * day)),
			Profit: 70.0, Status: models.StatusClosed,
		},
		{
			ID: "DEMO002", Symbol: "GBPUSD", Type: models.SideSell, Lots: 0.2,
			OpenPrice: 1.2150, ClosePrice: ptr(1.2100),
			OpenTime: ptr(now.Add(-3 * day)), CloseTime: ptr(now.Add(-2 * day)),
			Profit: 100.0, Status: models.StatusClosed,
		},
		{
			ID: "DEMO003", Symbol: "USDJPY", Type: models.SideBuy, Lots: 0.15,
			OpenPrice: 149.50, ClosePrice: ptr(150.20),
			OpenTime: ptr(now.Add(-1 * day)), CloseTime: ptr(now),
			Profit: 105.0, Status: models.StatusClosed,
		},
	}

	for i := range demo {
		if err := s.Upsert(&demo[i]); err != nil {
			return i, err
		}
	}
	return len(demo), nil
}
