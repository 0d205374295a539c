package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type HTTPServer struct {
	Port string `mapstructure:"port"`
}

type DbServer struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Pass     string `mapstructure:"pass"`
	Name     string `mapstructure:"name"`
	MaxConns int32  `mapstructure:"max_conns"`
}

func (config *DbServer) GetConnectionStr() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%s dbname=%s sslmode=disable",
		config.User, config.Pass, config.Host, config.Port, config.Name,
	)
}

type HTTPClient struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type RatesAPI struct {
	BaseURL string `mapstructure:"base_url"`
}

type Geolocation struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// Storage selects the durable key-value backend: "sqlite" or "postgres".
type Storage struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type Scheduler struct {
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec"`
}

// AssetCache configures the static asset front. An empty Origin disables it.
type AssetCache struct {
	Origin       string   `mapstructure:"origin"`
	Generation   string   `mapstructure:"generation"`
	Manifest     []string `mapstructure:"manifest"`
	RootDocument string   `mapstructure:"root_document"`
	BypassHosts  []string `mapstructure:"bypass_hosts"`
	MaxItems     int64    `mapstructure:"max_items"`
	MaxBytes     int64    `mapstructure:"max_bytes"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	HTTPServer  HTTPServer  `mapstructure:"http_server"`
	DbServer    DbServer    `mapstructure:"db_server"`
	HTTPClient  HTTPClient  `mapstructure:"http_client"`
	RatesAPI    RatesAPI    `mapstructure:"rates_api"`
	Geolocation Geolocation `mapstructure:"geolocation"`
	Storage     Storage     `mapstructure:"storage"`
	Scheduler   Scheduler   `mapstructure:"scheduler"`
	AssetCache  AssetCache  `mapstructure:"asset_cache"`
	Logging     Logging     `mapstructure:"logging"`
}

// Init loads .env and config.yaml from the working directory. Both are optional.
func Init() (*AppConfig, error) {
	return Load(".env", "config.yaml")
}

// Load reads envFile into the process environment, then configFile, then the
// bound environment variables. Missing files are skipped.
func Load(envFile, configFile string) (*AppConfig, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	bindEnv(v)

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 10)
	v.SetDefault("http_client.timeout_seconds", 10)
	v.SetDefault("rates_api.base_url", "https://api.exchangerate-api.com/v4/latest")
	v.SetDefault("geolocation.enabled", true)
	v.SetDefault("geolocation.url", "https://ipapi.co/json/")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.sqlite_path", "fxconvert.db")
	v.SetDefault("scheduler.refresh_interval_sec", 300)
	v.SetDefault("asset_cache.generation", "currency-converter-v1")
	v.SetDefault("asset_cache.manifest", []string{"./", "./index.html", "./styles.css", "./app.js", "./manifest.json"})
	v.SetDefault("asset_cache.root_document", "./index.html")
	v.SetDefault("asset_cache.bypass_hosts", []string{"api.exchangerate-api.com", "ipapi.co"})
	v.SetDefault("asset_cache.max_items", 256)
	v.SetDefault("asset_cache.max_bytes", 32<<20)
	v.SetDefault("logging.level", "info")
}

func bindEnv(v *viper.Viper) {
	// http server env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http client env vars
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	// external services
	_ = v.BindEnv("rates_api.base_url", "RATES_API_BASE_URL")
	_ = v.BindEnv("geolocation.enabled", "GEOLOCATION_ENABLED")
	_ = v.BindEnv("geolocation.url", "GEOLOCATION_URL")

	// storage
	_ = v.BindEnv("storage.driver", "STORAGE_DRIVER")
	_ = v.BindEnv("storage.sqlite_path", "SQLITE_PATH")

	_ = v.BindEnv("scheduler.refresh_interval_sec", "REFRESH_INTERVAL_SEC")
	_ = v.BindEnv("asset_cache.origin", "ASSET_CACHE_ORIGIN")
	_ = v.BindEnv("asset_cache.generation", "ASSET_CACHE_GENERATION")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
}
