package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	ErrMissingEnvironmentVariables = errors.New("missing required environment variables")
	ErrUnknownStorageDriver        = errors.New("unknown storage driver")
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverBolt     = "bolt"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string  `mapstructure:"env"`      // current application environment (local, dev, production)
	TelegramAPIToken string  `mapstructure:"-"`        // Telegram API token loaded from environment
	OwnerID          int64   `mapstructure:"owner_id"` // the only Telegram user allowed to use the bot, 0 allows anyone
	Storage          Storage `mapstructure:"storage"`  // persistence slot configuration
	DB               DB      `mapstructure:"database"` // database configuration section
	Images           Images  `mapstructure:"images"`   // image upload limits
	Metrics          Metrics `mapstructure:"metrics"`  // prometheus endpoint
}

// Storage selects the key/value backend holding the flashcard bank.
type Storage struct {
	Driver   string `mapstructure:"driver"`    // postgres or bolt
	SlotKey  string `mapstructure:"slot_key"`  // name of the slot holding the serialized bank
	BoltPath string `mapstructure:"bolt_path"` // bbolt file path, used by the bolt driver
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Images contains limits for uploaded question and answer images.
type Images struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// Metrics configures the prometheus HTTP endpoint. An empty Addr disables it.
type Metrics struct {
	Addr string `mapstructure:"addr"`
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// A local .env file is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("owner_id", 0)
	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("storage.slot_key", "teachme-topics")
	v.SetDefault("storage.bolt_path", "data/teachme.db")
	v.SetDefault("database.max_connections", 5)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("images.max_bytes", 5<<20)
	v.SetDefault("metrics.addr", ":9090")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("owner_id", "TELEGRAM_OWNER_ID")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	switch cfg.Storage.Driver {
	case DriverPostgres:
		cfg.DB.URL = v.GetString("database_url")
		if cfg.DB.URL == "" {
			return nil, ErrMissingEnvironmentVariables
		}
	case DriverBolt:
		if cfg.Storage.BoltPath == "" {
			return nil, fmt.Errorf("storage.bolt_path: %w", ErrMissingEnvironmentVariables)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStorageDriver, cfg.Storage.Driver)
	}

	return &cfg, nil
}
