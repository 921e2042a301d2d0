package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string        `yaml:"port"             env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	DatabaseType   string `yaml:"database_type"   env:"DATABASE_TYPE"   env-default:"sqlite"`
	DatabasePath   string `yaml:"db_path"         env:"DB_PATH"         env-default:"./vitrola.db"`
	DatabaseURL    string `yaml:"database_url"    env:"DATABASE_URL"`
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH"`

	RoundSeconds     int    `yaml:"round_seconds"      env:"ROUND_SECONDS"      env-default:"7"`
	DefaultFilter    string `yaml:"default_filter"     env:"DEFAULT_FILTER"     env-default:"ALL"`
	DetectLanguage   bool   `yaml:"detect_language"    env:"DETECT_LANGUAGE"    env-default:"false"`
	SeedDefaultWords bool   `yaml:"seed_default_words" env:"SEED_DEFAULT_WORDS" env-default:"true"`

	AdminRateLimit  int           `yaml:"admin_rate_limit"  env:"ADMIN_RATE_LIMIT"  env-default:"30"`
	AdminRateWindow time.Duration `yaml:"admin_rate_window" env:"ADMIN_RATE_WINDOW" env-default:"1m"`

	LogLevel  string `yaml:"log_level"  env:"LOG_LEVEL"  env-default:"info"`
	LogFormat string `yaml:"log_format" env:"LOG_FORMAT" env-default:"console"`
}

// Load reads configuration from an optional .env file, an optional YAML file
// and environment variables. Priority: ENV > YAML > defaults.
// The YAML path comes from CONFIG_PATH (fallback "./config.yaml"); a missing
// file is only an error when CONFIG_PATH was set explicitly.
func Load() (*Config, error) {
	// .env is optional; real environment variables always win
	_ = godotenv.Load()

	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	explicitPath := path != ""
	if !explicitPath {
		path = "./config.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks the loaded values and normalises enumerations.
func (c *Config) Validate() error {
	if c.RoundSeconds < 1 || c.RoundSeconds > 3600 {
		return fmt.Errorf("round_seconds must be between 1 and 3600 (got %d)", c.RoundSeconds)
	}

	c.DefaultFilter = strings.ToUpper(strings.TrimSpace(c.DefaultFilter))
	if c.DefaultFilter != "ALL" && c.DefaultFilter != "PT" {
		return fmt.Errorf("default_filter must be ALL or PT (got %q)", c.DefaultFilter)
	}

	if c.AdminRateLimit < 0 {
		return fmt.Errorf("admin_rate_limit must not be negative (got %d)", c.AdminRateLimit)
	}
	if c.AdminRateLimit > 0 && c.AdminRateWindow <= 0 {
		return fmt.Errorf("admin_rate_window must be positive when admin_rate_limit is set")
	}

	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "sqlite3", "":
		if c.DatabasePath == "" {
			return fmt.Errorf("db_path is required for sqlite")
		}
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("database_url is required for %s", c.DatabaseType)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}

	return nil
}

// RoundDuration returns the configured round length.
func (c *Config) RoundDuration() time.Duration {
	return time.Duration(c.RoundSeconds) * time.Second
}
