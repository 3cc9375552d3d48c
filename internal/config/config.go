// Package config loads degreeplan settings from viper: the config file,
// DEGREEPLAN_* environment variables, an optional .env file, and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by viper.
const EnvPrefix = "DEGREEPLAN"

// Prerequisite ordering modes.
const (
	PrereqChronological = "chronological"
	PrereqLenient       = "lenient"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid value")

// Band is an inclusive credit-load range.
type Band struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// LoadConfig holds the credit-load bands per kind of term.
type LoadConfig struct {
	Fall       Band `mapstructure:"fall"`
	Spring     Band `mapstructure:"spring"`
	Summer1    Band `mapstructure:"summer1"`
	Summer2    Band `mapstructure:"summer2"`
	SummerFull Band `mapstructure:"summer_full"`
	Coop       Band `mapstructure:"coop"`
}

// CatalogConfig locates the course store.
type CatalogConfig struct {
	DBPath    string `mapstructure:"db_path"`
	CacheSize int    `mapstructure:"cache_size"`
}

// ScrapeConfig tunes catalog scraping.
type ScrapeConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	EntryTypes  []string      `mapstructure:"entry_types"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

// LogConfig selects the logger level and encoding.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig enables the JSONL event stream when Path is set.
type TelemetryConfig struct {
	Path string `mapstructure:"path"`
}

// Config holds all runtime configuration for degreeplan.
// Values are populated from degreeplan.yaml, DEGREEPLAN_* env vars, and CLI flags.
type Config struct {
	Load        LoadConfig      `mapstructure:"load"`
	Fillers     []string        `mapstructure:"fillers"`
	PrereqOrder string          `mapstructure:"prereq_order"`
	MaxDepth    int             `mapstructure:"max_depth"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
	Scrape      ScrapeConfig    `mapstructure:"scrape"`
	Log         LogConfig       `mapstructure:"log"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Verbose     bool            `mapstructure:"verbose"`
}

// SetupEnv makes viper read DEGREEPLAN_* variables, mapping nested keys
// such as load.fall.min to DEGREEPLAN_LOAD_FALL_MIN.
func SetupEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from viper, applying built-in defaults for any
// values not set by config file, environment, or flags, and validates the
// result.
func Load() (Config, error) {
	viper.SetDefault("load.fall.min", 12)
	viper.SetDefault("load.fall.max", 18)
	viper.SetDefault("load.spring.min", 12)
	viper.SetDefault("load.spring.max", 18)
	viper.SetDefault("load.summer1.min", 4)
	viper.SetDefault("load.summer1.max", 9)
	viper.SetDefault("load.summer2.min", 4)
	viper.SetDefault("load.summer2.max", 9)
	viper.SetDefault("load.summer_full.min", 12)
	viper.SetDefault("load.summer_full.max", 18)
	viper.SetDefault("load.coop.min", 0)
	viper.SetDefault("load.coop.max", 5)
	viper.SetDefault("fillers", []string{"XXXX9999"})
	viper.SetDefault("prereq_order", PrereqChronological)
	viper.SetDefault("max_depth", 64)
	viper.SetDefault("catalog.db_path", "degreeplan.db")
	viper.SetDefault("catalog.cache_size", 1024)
	viper.SetDefault("scrape.concurrency", 8)
	viper.SetDefault("scrape.entry_types", []string{"major"})
	viper.SetDefault("scrape.timeout", 30*time.Second)
	viper.SetDefault("scrape.user_agent", "degreeplan-scraper")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("telemetry.path", "")
	viper.SetDefault("verbose", false)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every inconsistent setting.
func (c Config) Validate() error {
	var errs []error
	bands := []struct {
		key string
		b   Band
	}{
		{"load.fall", c.Load.Fall},
		{"load.spring", c.Load.Spring},
		{"load.summer1", c.Load.Summer1},
		{"load.summer2", c.Load.Summer2},
		{"load.summer_full", c.Load.SummerFull},
		{"load.coop", c.Load.Coop},
	}
	for _, b := range bands {
		if b.b.Min < 0 || b.b.Min > b.b.Max {
			errs = append(errs, fmt.Errorf("%w: %s min %d, max %d", ErrInvalid, b.key, b.b.Min, b.b.Max))
		}
	}
	switch c.PrereqOrder {
	case PrereqChronological, PrereqLenient:
	default:
		errs = append(errs, fmt.Errorf("%w: prereq_order %q, want %q or %q", ErrInvalid, c.PrereqOrder, PrereqChronological, PrereqLenient))
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalid, c.MaxDepth))
	}
	if c.Scrape.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("%w: scrape.concurrency must be positive, got %d", ErrInvalid, c.Scrape.Concurrency))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log.format %q, want console or json", ErrInvalid, c.Log.Format))
	}
	return errors.Join(errs...)
}
