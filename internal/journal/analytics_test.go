package journal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryEmptyStore(t *testing.T) {
	a := NewAnalytics(newTestStore(t))

	s, err := a.ComputeSummary()
	require.NoError(t, err)

	assert.Equal(t, 0, s.TotalTrades)
	assert.Equal(t, 0, s.OpenPositions)
	assert.Equal(t, 0, s.ClosedTrades)
	assert.Equal(t, 0.0, s.WinRate) // no division by zero
	assert.Equal(t, 0.0, s.TotalPnl)
}

func TestSummaryWinRate(t *testing.T) {
	st := newTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	win := closedTrade("W", 10, base)
	loss := closedTrade("L", -5, base.Add(time.Hour))
	require.NoError(t, st.Upsert(&win))
	require.NoError(t, st.Upsert(&loss))

	s, err := NewAnalytics(st).ComputeSummary()
	require.NoError(t, err)

	assert.Equal(t, 2, s.TotalTrades)
	assert.Equal(t, 2, s.ClosedTrades)
	assert.Equal(t, 50.0, s.WinRate)
	assert.Equal(t, 5.0, s.TotalPnl)
}

func TestSummaryCountsAndPnl(t *testing.T) {
	st := newTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t1 := closedTrade("1", 70, base)
	t2 := closedTrade("2", 100, base.Add(time.Hour))
	t3 := closedTrade("3", -20, base.Add(2*time.Hour))
	o := openTrade("4", base)
	require.NoError(t, st.Upsert(&t1))
	require.NoError(t, st.Upsert(&t2))
	require.NoError(t, st.Upsert(&t3))
	require.NoError(t, st.Upsert(&o))

	s, err := NewAnalytics(st).ComputeSummary()
	require.NoError(t, err)

	assert.Equal(t, 4, s.TotalTrades)
	assert.Equal(t, 1, s.OpenPositions)
	assert.Equal(t, 3, s.ClosedTrades)
	// Total P&L covers all trades, open ones included.
	assert.Equal(t, 150.0, s.TotalPnl)
}

func TestEquityCurveOrdering(t *testing.T) {
	st := newTestStore(t)

	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC)
	}

	// Inserted out of order on purpose.
	t3 := closedTrade("3", 100, day(3))
	t1 := closedTrade("1", 70, day(1))
	t2 := closedTrade("2", -30, day(2))
	require.NoError(t, st.Upsert(&t3))
	require.NoError(t, st.Upsert(&t1))
	require.NoError(t, st.Upsert(&t2))

	curve, err := NewAnalytics(st).EquityCurve()
	require.NoError(t, err)
	require.Len(t, curve, 3)

	assert.True(t, curve[0].Time.Equal(day(1)))
	assert.Equal(t, 70.0, curve[0].CumulativePnl)
	assert.True(t, curve[1].Time.Equal(day(2)))
	assert.Equal(t, 40.0, curve[1].CumulativePnl)
	assert.True(t, curve[2].Time.Equal(day(3)))
	assert.Equal(t, 140.0, curve[2].CumulativePnl)
}

func TestEquityCurveExcludesOpenTrades(t *testing.T) {
	st := newTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	closed := closedTrade("C", 50, base)
	open := openTrade("O", base)
	require.NoError(t, st.Upsert(&closed))
	require.NoError(t, st.Upsert(&open))

	curve, err := NewAnalytics(st).EquityCurve()
	require.NoError(t, err)
	require.Len(t, curve, 1)
	assert.Equal(t, 50.0, curve[0].CumulativePnl)
}

func TestEquityCurveEmpty(t *testing.T) {
	curve, err := NewAnalytics(newTestStore(t)).EquityCurve()
	require.NoError(t, err)
	assert.Empty(t, curve)
}
