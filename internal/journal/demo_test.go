package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoData(t *testing.T) {
	st := newTestStore(t)

	count, err := SeedDemoData(st)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Re-seeding overwrites, it does not duplicate.
	_, err = SeedDemoData(st)
	require.NoError(t, err)

	n, err := st.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	s, err := NewAnalytics(st).ComputeSummary()
	require.NoError(t, err)
	assert.Equal(t, 3, s.ClosedTrades)
	assert.Equal(t, 100.0, s.WinRate)
	assert.Equal(t, 275.0, s.TotalPnl)

	curve, err := NewAnalytics(st).EquityCurve()
	require.NoError(t, err)
	require.Len(t, curve, 3)
	assert.Equal(t, 275.0, curve[2].CumulativePnl)
}
