package rate

import (
	"context"
	"testing"
	"time"

	sqliteadapter "fxconvert/internal/adapters/sqlite"
	"fxconvert/internal/domain"
	"fxconvert/internal/platform/sqlite"
	"fxconvert/internal/settings"

	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *sqliteadapter.KVStore {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return sqliteadapter.NewKVStore(db.DB)
}

func TestStore_LoadEmpty(t *testing.T) {
	store := NewStore(settings.NewStore(newTestKV(t)))

	_, ok := store.Load(context.Background())
	require.False(t, ok)
}

func TestStore_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	settingsStore := settings.NewStore(newTestKV(t))
	store := NewStore(settingsStore)
	ts := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	err := store.Save(ctx, domain.RateSnapshot{
		Table:     domain.RateTable{Base: "EUR", Rates: map[string]float64{"EUR": 1, "USD": 1.1, "GBP": 0.85}},
		Timestamp: ts,
	})
	require.NoError(t, err)

	got, ok := store.Load(ctx)
	require.True(t, ok)
	require.Equal(t, "EUR", got.Table.Base)
	require.Equal(t, map[string]float64{"EUR": 1, "USD": 1.1, "GBP": 0.85}, got.Table.Rates)
	require.True(t, ts.Equal(got.Timestamp))

	last, ok := settingsStore.LastUpdateTime(ctx)
	require.True(t, ok)
	require.True(t, ts.Equal(last))
}

func TestStore_SaveReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	store := NewStore(settings.NewStore(newTestKV(t)))

	require.NoError(t, store.Save(ctx, domain.RateSnapshot{
		Table:     domain.RateTable{Base: "EUR", Rates: map[string]float64{"USD": 1.1, "JPY": 160}},
		Timestamp: time.Unix(100, 0),
	}))
	require.NoError(t, store.Save(ctx, domain.RateSnapshot{
		Table:     domain.RateTable{Base: "USD", Rates: map[string]float64{"EUR": 0.9}},
		Timestamp: time.Unix(200, 0),
	}))

	got, ok := store.Load(ctx)
	require.True(t, ok)
	require.Equal(t, "USD", got.Table.Base)
	require.Equal(t, map[string]float64{"EUR": 0.9}, got.Table.Rates)
}

func TestStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: "{rates"},
		{name: "no rates", raw: `{"base":"EUR","rates":{},"timestamp":"2025-01-01T00:00:00Z"}`},
		{name: "negative rate", raw: `{"base":"EUR","rates":{"USD":-1},"timestamp":"2025-01-01T00:00:00Z"}`},
		{name: "zero rate", raw: `{"base":"EUR","rates":{"USD":0},"timestamp":"2025-01-01T00:00:00Z"}`},
		{name: "bad timestamp", raw: `{"base":"EUR","rates":{"USD":1.1},"timestamp":"yesterday"}`},
		{name: "rates wrong type", raw: `{"base":"EUR","rates":["USD"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			kv := newTestKV(t)
			require.NoError(t, kv.Set(ctx, "currency_rates", tt.raw))

			_, ok := NewStore(settings.NewStore(kv)).Load(ctx)
			require.False(t, ok)
		})
	}
}

func TestStore_LoadWithoutBase(t *testing.T) {
	ctx := context.Background()
	kv := newTestKV(t)
	require.NoError(t, kv.Set(ctx, "currency_rates", `{"rates":{"USD":1.1},"timestamp":"2025-01-01T00:00:00Z"}`))

	got, ok := NewStore(settings.NewStore(kv)).Load(ctx)
	require.True(t, ok)
	require.Equal(t, "", got.Table.Base)
	rate, found := got.Table.Rate("USD")
	require.True(t, found)
	require.Equal(t, 1.1, rate)
}
