package app

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fxconvert/internal/adapters"
	"fxconvert/internal/adapters/httpclient"
	"fxconvert/internal/adapters/postgres"
	sqliteadapter "fxconvert/internal/adapters/sqlite"
	"fxconvert/internal/api"
	"fxconvert/internal/assetcache"
	"fxconvert/internal/config"
	"fxconvert/internal/converter"
	"fxconvert/internal/converter/handler"
	"fxconvert/internal/metrics"
	"fxconvert/internal/platform/db"
	httpserver "fxconvert/internal/platform/http"
	"fxconvert/internal/platform/sqlite"
	"fxconvert/internal/rate"
	"fxconvert/internal/settings"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	// Logger
	logrus.SetOutput(os.Stdout)
	cfgLevel := appCfg.Logging.Level
	if parsedLvl, parseErr := logrus.ParseLevel(cfgLevel); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, asset install, first fetch)
	startupCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	m := metrics.NewMetrics()

	// Durable key-value store
	kv, closeStore, err := openStore(startupCtx, appCfg)
	if err != nil {
		logrus.WithError(err).Error("Error opening storage")
		return err
	}
	defer closeStore()
	logrus.Infof("✅ Storage (%s) ready", appCfg.Storage.Driver)

	// Static asset cache, also the transport of every outbound client
	assetStorage := assetcache.NewStorage(appCfg.AssetCache.MaxItems, appCfg.AssetCache.MaxBytes)
	defer assetStorage.Close()
	cache, err := assetcache.New(http.DefaultTransport, assetStorage, assetcache.Config{
		Origin:       appCfg.AssetCache.Origin,
		Generation:   appCfg.AssetCache.Generation,
		Manifest:     appCfg.AssetCache.Manifest,
		RootDocument: appCfg.AssetCache.RootDocument,
		BypassHosts:  bypassHosts(appCfg),
	}, m)
	if err != nil {
		logrus.WithError(err).Error("Failed to create asset cache")
		return err
	}
	var assets http.Handler
	if appCfg.AssetCache.Origin != "" {
		if installErr := cache.Install(startupCtx); installErr != nil {
			logrus.WithError(installErr).Warn("Asset cache install failed, assets will be cached on first use")
		}
		cache.Activate()
		originURL, _ := url.Parse(appCfg.AssetCache.Origin)
		assets = api.NewAssetProxy(originURL, cache)
		logrus.Info("✅ Asset cache activated")
	}

	// Base HTTP client (configurable timeout)
	httpTimeout := time.Duration(appCfg.HTTPClient.TimeoutSeconds) * time.Second
	if httpTimeout <= 0 {
		httpTimeout = 10 * time.Second
	}
	baseHTTPClient := &http.Client{Timeout: httpTimeout, Transport: cache}

	// External clients
	ratesClient := httpclient.NewExchangeRateClient(baseHTTPClient, strings.TrimSuffix(appCfg.RatesAPI.BaseURL, "/"))
	var locator adapters.LocationClient
	if appCfg.Geolocation.Enabled {
		locator = httpclient.NewGeolocationClient(baseHTTPClient, appCfg.Geolocation.URL)
	}

	// Services
	settingsStore := settings.NewStore(kv)
	rateStore := rate.NewStore(settingsStore)
	fetcher := rate.NewFetcher(ratesClient, rateStore, m, time.Now)
	state := converter.New(settingsStore, rateStore, fetcher, locator, rate.NewCatalogValidator(), m)
	state.Start(startupCtx)
	defer state.Close()
	logrus.Info("✅ Converter state initialized")

	scheduler := rate.NewScheduler(state, settingsStore.AutoUpdate, time.Duration(appCfg.Scheduler.RefreshIntervalSec)*time.Second)
	state.OnAutoUpdateChange(scheduler.Rearm)
	// Ensure scheduler stops before storage closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	// Start scheduler tied to root context
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	converterHandler := handler.NewConverterHandler(state)
	router := api.NewRouter(converterHandler, m, assets)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		// Cancel the root context to stop scheduler and other in-flight work
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

// openStore opens the configured key-value backend and returns its closer.
func openStore(ctx context.Context, cfg *config.AppConfig) (adapters.KVStore, func(), error) {
	switch strings.ToLower(cfg.Storage.Driver) {
	case "", "sqlite":
		database, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return sqliteadapter.NewKVStore(database.DB), func() { _ = database.Close() }, nil
	case "postgres":
		pool, err := db.CreatePoolAndPing(ctx, cfg.DbServer)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err = db.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewKVStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// bypassHosts adds the hosts of the rates and geolocation services to the
// configured list so they are never cached.
func bypassHosts(cfg *config.AppConfig) []string {
	hosts := append([]string{}, cfg.AssetCache.BypassHosts...)
	for _, raw := range []string{cfg.RatesAPI.BaseURL, cfg.Geolocation.URL} {
		if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
			hosts = append(hosts, u.Hostname())
		}
	}
	return hosts
}
