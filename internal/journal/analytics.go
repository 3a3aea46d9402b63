package journal

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"trade-journal-go/internal/models"
	"trade-journal-go/internal/store"
)

// Summary holds the derived metrics shown on the dashboard. It is always
// recomputed from the current store contents; nothing here is persisted.
type Summary struct {
	TotalTrades   int     `json:"total_trades"`
	OpenPositions int     `json:"open_positions"`
	ClosedTrades  int     `json:"closed_trades"`
	WinRate       float64 `json:"win_rate"`  // percent
	TotalPnl      float64 `json:"total_pnl"` // over all trades, open included
}

// EquityPoint is one step of the cumulative realized P&L curve.
type EquityPoint struct {
	Time          time.Time `json:"time"`
	CumulativePnl float64   `json:"cumulative_pnl"`
}

// Analytics computes metrics over the store's current snapshot.
type Analytics struct {
	store *store.TradeStore
}

// NewAnalytics creates an aggregator reading from the given store.
func NewAnalytics(s *store.TradeStore) *Analytics {
	return &Analytics{store: s}
}

// ComputeSummary derives the headline stats. Win rate is the share of
// closed trades with positive profit, in percent, and 0 when there are no
// closed trades yet.
func (a *Analytics) ComputeSummary() (*Summary, error) {
	trades, err := a.store.GetAll()
	if err != nil {
		return nil, err
	}

	s := &Summary{TotalTrades: len(trades)}

	wins := 0
	total := decimal.Zero
	for i := range trades {
		t := &trades[i]
		switch t.Status {
		case models.StatusOpen:
			s.OpenPositions++
		case models.StatusClosed:
			s.ClosedTrades++
			if t.Profit > 0 {
				wins++
			}
		}
		total = total.Add(decimal.NewFromFloat(t.Profit))
	}

	if s.ClosedTrades > 0 {
		s.WinRate = float64(wins) / float64(s.ClosedTrades) * 100
	}
	s.TotalPnl = total.InexactFloat64()

	return s, nil
}

// EquityCurve returns the running sum of realized profit over closed
// trades, ordered by close time ascending (stable for ties). Trades
// without a close time have no place on the time axis and are excluded
// rather than defaulted; this deliberately differs from ComputeSummary,
// which counts every trade.
func (a *Analytics) EquityCurve() ([]EquityPoint, error) {
	trades, err := a.store.GetAll()
	if err != nil {
		return nil, err
	}

	closed := make([]models.Trade, 0, len(trades))
	for i := range trades {
		if trades[i].IsClosed() && trades[i].CloseTime != nil {
			closed = append(closed, trades[i])
		}
	}

	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].CloseTime.Before(*closed[j].CloseTime)
	})

	curve := make([]EquityPoint, 0, len(closed))
	running := decimal.Zero
	for i := range closed {
		running = running.Add(decimal.NewFromFloat(closed[i].Profit))
		curve = append(curve, EquityPoint{
			Time:          *closed[i].CloseTime,
			CumulativePnl: running.InexactFloat64(),
		})
	}

	return curve, nil
}
