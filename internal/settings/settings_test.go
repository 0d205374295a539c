package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"fxconvert/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockKVStore struct{ mock.Mock }

func (m *MockKVStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKVStore) Set(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// memKV is a map-backed KVStore for round-trip tests.
type memKV map[string]string

func (m memKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m memKV) Set(_ context.Context, key string, value string) error {
	m[key] = value
	return nil
}

func TestStore_Defaults(t *testing.T) {
	s := NewStore(memKV{})
	ctx := context.Background()

	require.Equal(t, "EUR", s.MainCurrency(ctx))
	require.Equal(t, "", s.LocationCurrency(ctx))
	require.Equal(t, []string{}, s.AdditionalCurrencies(ctx))
	require.True(t, s.AutoUpdate(ctx))
	require.False(t, s.DarkMode(ctx))
	_, ok := s.LastUpdateTime(ctx)
	require.False(t, ok)
}

func TestStore_CorruptValuesFallBackToDefaults(t *testing.T) {
	kv := memKV{
		"currency_mainCurrency":         "{not json",
		"currency_additionalCurrencies": `"USD"`,
		"currency_autoUpdate":           "maybe",
		"currency_darkMode":             "[]",
		"currency_lastUpdateTime":       `"yesterday"`,
	}
	s := NewStore(kv)
	ctx := context.Background()

	require.Equal(t, "EUR", s.MainCurrency(ctx))
	require.Equal(t, []string{}, s.AdditionalCurrencies(ctx))
	require.True(t, s.AutoUpdate(ctx))
	require.False(t, s.DarkMode(ctx))
	_, ok := s.LastUpdateTime(ctx)
	require.False(t, ok)
}

func TestStore_RoundTrip(t *testing.T) {
	kv := memKV{}
	s := NewStore(kv)
	ctx := context.Background()
	ts := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)

	require.NoError(t, s.SetMainCurrency(ctx, "USD"))
	require.NoError(t, s.SetLocationCurrency(ctx, "CHF"))
	require.NoError(t, s.SetAdditionalCurrencies(ctx, []string{"GBP", "JPY"}))
	require.NoError(t, s.SetAutoUpdate(ctx, false))
	require.NoError(t, s.SetDarkMode(ctx, true))
	require.NoError(t, s.SetLastUpdateTime(ctx, ts))

	require.Equal(t, `"USD"`, kv["currency_mainCurrency"])
	require.Equal(t, `["GBP","JPY"]`, kv["currency_additionalCurrencies"])

	require.Equal(t, "USD", s.MainCurrency(ctx))
	require.Equal(t, "CHF", s.LocationCurrency(ctx))
	require.Equal(t, []string{"GBP", "JPY"}, s.AdditionalCurrencies(ctx))
	require.False(t, s.AutoUpdate(ctx))
	require.True(t, s.DarkMode(ctx))
	got, ok := s.LastUpdateTime(ctx)
	require.True(t, ok)
	require.True(t, got.Equal(ts))

	require.Equal(t, domain.TrackedCurrencies{
		Main: "USD", Location: "CHF", Additional: []string{"GBP", "JPY"},
	}, s.Tracked(ctx))
}

func TestStore_SetNilAdditionalStoresEmptyList(t *testing.T) {
	kv := memKV{}
	s := NewStore(kv)

	require.NoError(t, s.SetAdditionalCurrencies(context.Background(), nil))
	require.Equal(t, `[]`, kv["currency_additionalCurrencies"])
}

func TestStore_ReadErrorUsesDefault(t *testing.T) {
	kv := new(MockKVStore)
	kv.On("Get", mock.Anything, "currency_mainCurrency").Return("", false, errors.New("disk gone")).Once()
	s := NewStore(kv)

	require.Equal(t, "EUR", s.MainCurrency(context.Background()))
	kv.AssertExpectations(t)
}

func TestStore_WriteErrorIsStorageUnavailable(t *testing.T) {
	kv := new(MockKVStore)
	kv.On("Set", mock.Anything, "currency_darkMode", "true").Return(errors.New("quota exceeded")).Once()
	s := NewStore(kv)

	err := s.SetDarkMode(context.Background(), true)
	require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	kv.AssertExpectations(t)
}
