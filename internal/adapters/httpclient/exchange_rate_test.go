package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"fxconvert/internal/assetcache"
	"fxconvert/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestExchangeRateClient_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
            "base": "EUR",
            "date": "2025-01-02",
            "rates": {"EUR": 1, "USD": 1.1, "GBP": 0.85}
        }`))
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/v4/latest/")

	table, err := c.GetLatestRates(context.Background(), "EUR")
	require.NoError(t, err)
	require.Equal(t, "/v4/latest/EUR", gotPath)
	require.Equal(t, "EUR", table.Base)
	require.Len(t, table.Rates, 3)
	require.InDelta(t, 1.1, table.Rates["USD"], 1e-9)
	require.InDelta(t, 0.85, table.Rates["GBP"], 1e-9)
}

func TestExchangeRateClient_MissingBaseFallsBackToRequested(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rates": {"USD": 1.1}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	table, err := c.GetLatestRates(context.Background(), "EUR")
	require.NoError(t, err)
	require.Equal(t, "EUR", table.Base)
}

func TestExchangeRateClient_StatusCodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetLatestRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrBadStatus)
	var fe *domain.FetchError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	require.Equal(t, "USD", fe.Base)
}

func TestExchangeRateClient_EmptyRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base": "USD", "rates": {}}`))
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetLatestRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrEmptyPayload)
}

func TestExchangeRateClient_JSONDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{")) // invalid JSON
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetLatestRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrEmptyPayload)
	require.Contains(t, err.Error(), "failed to decode response")
}

func TestExchangeRateClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewExchangeRateClient(&http.Client{}, url+"/latest")

	_, err := c.GetLatestRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrNetworkUnavailable)
}

func TestExchangeRateClient_OfflinePayloadIsNetworkUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(assetcache.HeaderName, assetcache.StatusOffline)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Offline"}`))
	}))
	t.Cleanup(srv.Close)

	c := NewExchangeRateClient(srv.Client(), srv.URL+"/latest")

	_, err := c.GetLatestRates(context.Background(), "USD")
	require.ErrorIs(t, err, domain.ErrNetworkUnavailable)
}

func TestExchangeRateClient_BaseURLParseError(t *testing.T) {
	c := NewExchangeRateClient(&http.Client{}, "http://::1]")
	_, err := c.GetLatestRates(context.Background(), "USD")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to parse base URL")
}
