package signals

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/vadiminshakov/pipwatch/internal/domain"
)

func newTestStore(t *testing.T) *WALStore {
	t.Helper()
	store, err := NewWALStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func signalRecord(t *testing.T, symbol string) domain.TradeRecord {
	t.Helper()
	record, err := domain.NewTradeRecord(symbol, domain.DirectionBuy,
		decimal.RequireFromString("1.1000"),
		decimal.RequireFromString("1.0950"),
		decimal.RequireFromString("1.1100"),
		time.Now().UTC().Truncate(time.Second))
	require.NoError(t, err)
	return *record
}

func TestSaveAndAll(t *testing.T) {
	store := newTestStore(t)

	first := signalRecord(t, "EURUSD=X")
	second := signalRecord(t, "GBPUSD=X")
	require.NoError(t, store.Save(first))
	require.NoError(t, store.Save(second))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, first.ID, all[0].ID)
	require.Equal(t, second.ID, all[1].ID)
	require.True(t, all[0].Entry.Equal(first.Entry))
	require.Equal(t, domain.StatusRunning, all[0].Status)
}

func TestRecordsAfter(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(signalRecord(t, "EURUSD=X")))
	require.NoError(t, store.Save(signalRecord(t, "^DJI")))
	checkpoint := store.CurrentIndex()
	require.NoError(t, store.Save(signalRecord(t, "XAUUSD=X")))

	records, err := store.RecordsAfter(checkpoint)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "XAUUSD=X", records[0].Signal.Symbol)
	require.Greater(t, records[0].Index, checkpoint)

	records, err = store.RecordsAfter(store.CurrentIndex())
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestSaveValidates(t *testing.T) {
	store := newTestStore(t)

	err := store.Save(domain.TradeRecord{})
	require.Error(t, err)

	var uninitialized *WALStore
	require.Error(t, uninitialized.Save(signalRecord(t, "EURUSD=X")))
}

func TestReopenKeepsSignals(t *testing.T) {
	dir := t.TempDir()

	store, err := NewWALStore(dir)
	require.NoError(t, err)
	saved := signalRecord(t, "EURUSD=X")
	require.NoError(t, store.Save(saved))
	require.NoError(t, store.Close())

	reopened, err := NewWALStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	all, err := reopened.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, saved.ID, all[0].ID)
}
