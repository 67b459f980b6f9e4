package config

import (
	"fmt"
	"time"

	"nbprates/internal/domain"

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

type NbpAPI struct {
	BaseURL string `mapstructure:"base_url"`
}

type Logging struct {
	Level string `mapstructure:"level"`
}

type Scheduler struct {
	SyncIntervalSec int `mapstructure:"sync_interval_sec"`
}

type Sync struct {
	OnStartup     bool   `mapstructure:"on_startup"`
	BootstrapDate string `mapstructure:"bootstrap_date"`
}

// Bootstrap returns the date history starts from when no table of a type is stored yet.
func (s Sync) Bootstrap() (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, s.BootstrapDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sync.bootstrap_date %q: %w", s.BootstrapDate, err)
	}
	return t, nil
}

type Session struct {
	MaxItems   int64 `mapstructure:"max_items"`
	TTLMinutes int   `mapstructure:"ttl_minutes"`
}

// Chart describes one chart kind offered to clients.
type Chart struct {
	Kind        string `mapstructure:"kind"`
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

type AppConfig struct {
	HTTPServer    HTTPServer `mapstructure:"http_server"`
	DbServer      DbServer   `mapstructure:"db_server"`
	HTTPClient    HTTPClient `mapstructure:"http_client"`
	NbpAPI        NbpAPI     `mapstructure:"nbp_api"`
	Logging       Logging    `mapstructure:"logging"`
	Scheduler     Scheduler  `mapstructure:"scheduler"`
	Sync          Sync       `mapstructure:"sync"`
	Session       Session    `mapstructure:"session"`
	Tables        []string   `mapstructure:"tables"`
	Charts        []Chart    `mapstructure:"charts"`
	ShowDataframe bool       `mapstructure:"show_dataframe"`
}

// Init reads config.yaml from the working directory, overlaid by .env and environment variables.
func Init() (*AppConfig, error) {
	return Load("config.yaml")
}

func Load(path string) (*AppConfig, error) {
	var cfg AppConfig

	// .env is optional, real environment variables work without it
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	v.SetDefault("http_server.port", "8080")
	v.SetDefault("db_server.max_conns", 1)
	v.SetDefault("http_client.timeout_seconds", 30)
	v.SetDefault("nbp_api.base_url", "https://api.nbp.pl/api/exchangerates/tables")
	v.SetDefault("logging.level", "info")
	v.SetDefault("scheduler.sync_interval_sec", 0)
	v.SetDefault("sync.on_startup", true)
	v.SetDefault("sync.bootstrap_date", "2025-10-01")
	v.SetDefault("session.max_items", 256)
	v.SetDefault("session.ttl_minutes", 60)
	v.SetDefault("tables", []string{"A", "B", "C"})
	v.SetDefault("show_dataframe", true)

	// db server env vars
	_ = v.BindEnv("db_server.host", "DB_HOST")
	_ = v.BindEnv("db_server.port", "DB_PORT")
	_ = v.BindEnv("db_server.user", "DB_USER")
	_ = v.BindEnv("db_server.pass", "DB_PASS")
	_ = v.BindEnv("db_server.name", "DB_NAME")
	_ = v.BindEnv("db_server.max_conns", "DB_MAX_CONNS")

	// http env vars
	_ = v.BindEnv("http_server.port", "HTTP_PORT")
	_ = v.BindEnv("http_client.timeout_seconds", "HTTP_CLIENT_TIMEOUT_SECONDS")

	_ = v.BindEnv("nbp_api.base_url", "NBP_API_BASE_URL")
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("scheduler.sync_interval_sec", "SYNC_INTERVAL_SEC")

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if _, err := cfg.Sync.Bootstrap(); err != nil {
		return nil, err
	}
	if len(cfg.Tables) == 0 {
		return nil, fmt.Errorf("at least one table type must be configured")
	}

	return &cfg, nil
}
