package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFiles(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, ".env"), filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.HTTPServer.Port)
	require.Equal(t, 10, cfg.HTTPClient.TimeoutSeconds)
	require.Equal(t, "https://api.exchangerate-api.com/v4/latest", cfg.RatesAPI.BaseURL)
	require.True(t, cfg.Geolocation.Enabled)
	require.Equal(t, "https://ipapi.co/json/", cfg.Geolocation.URL)
	require.Equal(t, "sqlite", cfg.Storage.Driver)
	require.Equal(t, 300, cfg.Scheduler.RefreshIntervalSec)
	require.Equal(t, "currency-converter-v1", cfg.AssetCache.Generation)
	require.Equal(t, []string{"./", "./index.html", "./styles.css", "./app.js", "./manifest.json"}, cfg.AssetCache.Manifest)
	require.Equal(t, []string{"api.exchangerate-api.com", "ipapi.co"}, cfg.AssetCache.BypassHosts)
	require.Empty(t, cfg.AssetCache.Origin)
	require.Equal(t, int32(10), cfg.DbServer.MaxConns)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ConfigFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
http_server:
  port: "9090"
storage:
  driver: postgres
scheduler:
  refresh_interval_sec: 60
asset_cache:
  origin: http://localhost:3000
  manifest: ["./", "./index.html"]
logging:
  level: debug
`), 0o600))

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("FXCONVERT_TEST_UNUSED=1\n"), 0o600))

	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(envFile, configFile)
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.HTTPServer.Port)
	require.Equal(t, "postgres", cfg.Storage.Driver)
	require.Equal(t, 60, cfg.Scheduler.RefreshIntervalSec)
	require.Equal(t, "http://localhost:3000", cfg.AssetCache.Origin)
	require.Equal(t, []string{"./", "./index.html"}, cfg.AssetCache.Manifest)
	require.Equal(t, "db.internal", cfg.DbServer.Host)
	require.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("http_server: [unclosed"), 0o600))

	_, err := Load(filepath.Join(dir, ".env"), configFile)
	require.Error(t, err)
}

func TestDbServer_GetConnectionStr(t *testing.T) {
	cfg := DbServer{Host: "localhost", Port: "5432", User: "fx", Pass: "secret", Name: "fxconvert"}
	require.Equal(t, "user=fx password=secret host=localhost port=5432 dbname=fxconvert sslmode=disable", cfg.GetConnectionStr())
}
