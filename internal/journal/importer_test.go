package journal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const importHeader = "ID,Symbol,Type,Lots,Open Price,Close Price,Open Time,Close Time,Profit,Commission,Swap,Comment,Status\n"

func TestImportCSV(t *testing.T) {
	t.Run("WellFormedRows", func(t *testing.T) {
		st := newTestStore(t)
		im := NewImporter(st, zap.NewNop())

		csv := importHeader +
			"1001,EURUSD,buy,0.1,1.085,1.09,2024-03-01T10:00:00Z,2024-03-01T15:00:00Z,70,-1.2,0,scalp,closed\n" +
			"1002,GBPUSD,sell,0.2,1.215,1.21,2024-03-02T10:00:00Z,2024-03-02T15:00:00Z,100,0,0,,closed\n"

		count, err := im.ImportCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		trades, err := st.GetAll()
		require.NoError(t, err)
		assert.Len(t, trades, 2)
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		st := newTestStore(t)
		im := NewImporter(st, zap.NewNop())

		// Only symbol, lots, close fields given: type defaults to buy,
		// status to closed, numerics to 0.
		csv := importHeader +
			",EURUSD,,0.1,,1.09,,2024-03-01T15:00:00Z,,,,,\n"

		count, err := im.ImportCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, found, err := st.Get("IMPORT_0")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "buy", got.Type)
		assert.Equal(t, "closed", got.Status)
		assert.Equal(t, 0.0, got.OpenPrice)
		assert.Equal(t, 0.0, got.Profit)
		assert.Nil(t, got.OpenTime)
	})

	t.Run("GeneratedIDUsesRowPosition", func(t *testing.T) {
		st := newTestStore(t)
		im := NewImporter(st, zap.NewNop())

		csv := importHeader +
			"1001,EURUSD,buy,0.1,1.085,1.09,,2024-03-01T15:00:00Z,70,0,0,,closed\n" +
			",GBPUSD,sell,0.2,1.215,1.21,,2024-03-02T15:00:00Z,100,0,0,,closed\n"

		count, err := im.ImportCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		_, found, err := st.Get("IMPORT_1")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("NumericTicketCanonicalized", func(t *testing.T) {
		st := newTestStore(t)
		im := NewImporter(st, zap.NewNop())

		// Spreadsheet tools re-render tickets as floats.
		csv := importHeader +
			"184420.0,EURUSD,buy,0.1,1.085,1.09,,2024-03-01T15:00:00Z,70,0,0,,closed\n"

		count, err := im.ImportCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		_, found, err := st.Get("184420")
		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("UnparsableIDAbortsKeepingPriorRows", func(t *testing.T) {
		st := newTestStore(t)
		im := NewImporter(st, zap.NewNop())

		csv := importHeader +
			"1001,EURUSD,buy,0.1,1.085,1.09,,2024-03-01T15:00:00Z,70,0,0,,closed\n" +
			"1002,GBPUSD,sell,0.2,1.215,1.21,,2024-03-02T15:00:00Z,100,0,0,,closed\n" +
			"1003,USDJPY,buy,0.15,149.5,150.2,,2024-03-03T15:00:00Z,105,0,0,,closed\n" +
			"12.34.56,AUDUSD,buy,0.1,0.655,0.66,,2024-03-04T15:00:00Z,20,0,0,,closed\n" +
			"1005,NZDUSD,buy,0.1,0.61,0.615,,2024-03-05T15:00:00Z,15,0,0,,closed\n"

		count, err := im.ImportCSV(strings.NewReader(csv))
		require.Error(t, err)

		var impErr *ImportError
		require.ErrorAs(t, err, &impErr)
		assert.Equal(t, 3, impErr.Row)
		assert.Equal(t, 3, count)

		// Rows written before the bad one stay; nothing after it was read.
		n, err := st.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("InvalidRowSkippedNotFatal", func(t *testing.T) {
		st := newTestStore(t)
		im := NewImporter(st, zap.NewNop())

		// Second row has no symbol, so it fails validation and is skipped.
		csv := importHeader +
			"1001,EURUSD,buy,0.1,1.085,1.09,,2024-03-01T15:00:00Z,70,0,0,,closed\n" +
			"1002,,buy,0.1,1.085,1.09,,2024-03-01T15:00:00Z,70,0,0,,closed\n" +
			"1003,USDJPY,buy,0.15,149.5,150.2,,2024-03-03T15:00:00Z,105,0,0,,closed\n"

		count, err := im.ImportCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("ReorderedColumns", func(t *testing.T) {
		st := newTestStore(t)
		im := NewImporter(st, zap.NewNop())

		csv := "Symbol,ID,Status,Type,Lots,Open Price,Close Price,Close Time\n" +
			"EURUSD,1001,closed,buy,0.1,1.085,1.09,2024-03-01T15:00:00Z\n"

		count, err := im.ImportCSV(strings.NewReader(csv))
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		got, _, err := st.Get("1001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "EURUSD", got.Symbol)
	})

	t.Run("ImportIsUpsert", func(t *testing.T) {
		st := newTestStore(t)
		im := NewImporter(st, zap.NewNop())

		csv := importHeader +
			"1001,EURUSD,buy,0.1,1.085,1.09,,2024-03-01T15:00:00Z,70,0,0,,closed\n"
		_, err := im.ImportCSV(strings.NewReader(csv))
		require.NoError(t, err)

		updated := importHeader +
			"1001,EURUSD,buy,0.1,1.085,1.095,,2024-03-01T16:00:00Z,85,0,0,revised,closed\n"
		_, err = im.ImportCSV(strings.NewReader(updated))
		require.NoError(t, err)

		n, err := st.Count()
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, _, err := st.Get("1001")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 85.0, got.Profit)
		assert.Equal(t, "revised", got.Comment)
	})
}
