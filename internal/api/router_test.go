package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fxconvert/internal/assetcache"
	"fxconvert/internal/converter"
	"fxconvert/internal/converter/handler"
	"fxconvert/internal/domain"
	"fxconvert/internal/metrics"
	"fxconvert/internal/rate"
	"fxconvert/internal/settings"

	"github.com/stretchr/testify/require"
)

type memKV struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

type staticRates struct{}

func (staticRates) GetLatestRates(_ context.Context, base string) (domain.RateTable, error) {
	return domain.RateTable{Base: base, Rates: map[string]float64{"USD": 1.1, "GBP": 0.85}}, nil
}

func newTestRouter(t *testing.T, assets http.Handler) (*httptest.Server, *metrics.Metrics) {
	t.Helper()
	m := metrics.NewMetrics()
	settingsStore := settings.NewStore(&memKV{data: map[string]string{}})
	store := rate.NewStore(settingsStore)
	fetcher := rate.NewFetcher(staticRates{}, store, m, time.Now)
	state := converter.New(settingsStore, store, fetcher, nil, rate.NewCatalogValidator(), m)
	t.Cleanup(state.Close)

	srv := httptest.NewServer(NewRouter(handler.NewConverterHandler(state), m, assets))
	t.Cleanup(srv.Close)
	return srv, m
}

func TestRouter_Healthz(t *testing.T) {
	srv, _ := newTestRouter(t, nil)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_ConvertEndToEnd(t *testing.T) {
	srv, _ := newTestRouter(t, nil)

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/settings", strings.NewReader(`{"additional_currencies":["usd","GBP"]}`))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/v1/convert", "application/json", strings.NewReader(`{"currency":"EUR","amount":"100"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `"currency":"USD","action":"set","value":"110.00"`)
	require.Contains(t, string(body), `"currency":"GBP","action":"set","value":"85.00"`)
}

func TestRouter_MetricsRecordRoutePattern(t *testing.T) {
	srv, _ := newTestRouter(t, nil)

	resp, err := http.Get(srv.URL + "/api/v1/currencies")
	require.NoError(t, err)
	_ = resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Contains(t, string(body), `http_requests_total{method="GET",path="/api/v1/currencies",status_code="200"} 1`)
}

func TestRouter_UnknownPathWithoutAssets(t *testing.T) {
	srv, _ := newTestRouter(t, nil)

	resp, err := http.Get(srv.URL + "/index.html")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_AssetsServedOfflineFromCache(t *testing.T) {
	var hits atomic.Int32
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>"+r.URL.Path+"</html>")
	}))

	originURL, err := url.Parse(origin.URL)
	require.NoError(t, err)

	storage := assetcache.NewStorage(64, 1<<20)
	t.Cleanup(storage.Close)
	cache, err := assetcache.New(origin.Client().Transport, storage, assetcache.Config{
		Origin:       origin.URL,
		Generation:   "currency-converter-v1",
		Manifest:     []string{"./", "./index.html"},
		RootDocument: "./index.html",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, cache.Install(context.Background()))
	require.Equal(t, int32(2), hits.Load())

	srv, _ := newTestRouter(t, NewAssetProxy(originURL, cache))
	origin.Close()

	resp, err := http.Get(srv.URL + "/index.html")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "<html>/index.html</html>", string(body))
	require.Equal(t, assetcache.StatusHit, resp.Header.Get(assetcache.HeaderName))

	// navigation to an unknown page falls back to the root document
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/settings", nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/html")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, "<html>/index.html</html>", string(body))

	// other misses are reported as unavailable
	resp, err = http.Get(srv.URL + "/logo.png")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
