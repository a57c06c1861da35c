package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/GreyRaphael/eqClient/internal/bars"
)

// Config holds application configuration from env (and an optional .env).
type Config struct {
	Profile      string `env:"PROFILE" envDefault:"prod"`
	DataDir      string `env:"DATA_DIR" envDefault:"data" validate:"required"`
	TickDir      string `env:"TICK_DIR"` // default {DataDir}/{secu}-tick
	CalendarDir  string `env:"CALENDAR_DIR" envDefault:"calendar" validate:"required"`
	SecuType     string `env:"SECU_TYPE" envDefault:"etf" validate:"oneof=etf stock"`
	TickFormat   string `env:"TICK_FORMAT" envDefault:"parquet" validate:"oneof=parquet csv"`
	SaveFormat   string `env:"SAVE_FORMAT" validate:"required,oneof=csv parquet json"`
	Intervals    string `env:"INTERVALS" envDefault:"1,5,15,30,60,120" validate:"required"`
	Workers      int    `env:"WORKERS" envDefault:"4" validate:"min=1,max=64"`
	OutOfSession string `env:"OUT_OF_SESSION" envDefault:"reject" validate:"oneof=reject drop"`
	AmountScale  uint64 `env:"AMOUNT_SCALE" envDefault:"1" validate:"min=1"`
	MetricsFile  string `env:"METRICS_FILE"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	LogFile       string `env:"LOG_FILE"`
	LogMaxSizeMB  int    `env:"LOG_MAX_SIZE_MB" envDefault:"100" validate:"min=1"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5" validate:"min=0"`
	LogMaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"30" validate:"min=0"`

	S3 S3Config `envPrefix:"S3_"`

	// Set from the command line only.
	Resume    bool
	FromBar1m bool
}

// S3Config enables the bucket mirror of written bar files.
type S3Config struct {
	Enabled         bool   `env:"ENABLED"`
	Bucket          string `env:"BUCKET" validate:"required_if=Enabled true"`
	Prefix          string `env:"PREFIX"`
	Region          string `env:"REGION" envDefault:"us-east-1"`
	Endpoint        string `env:"ENDPOINT" validate:"omitempty,url"`
	PathStyle       bool   `env:"PATH_STYLE"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY"`
}

// Overrides are command-line values that win over the environment.
// Zero values leave the environment setting alone.
type Overrides struct {
	SecuType  string
	Intervals string
	Workers   int
	Resume    bool
	FromBar1m bool
}

// LoadConfig reads .env (when present) and the environment, applies the
// PROFILE defaults and overrides, then validates.
func LoadConfig(o Overrides) (*Config, error) {
	_ = godotenv.Load()
	return loadConfig(env.ToMap(os.Environ()), o)
}

func loadConfig(environ map[string]string, o Overrides) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.SaveFormat == "" {
		cfg.SaveFormat = saveFormatFor(cfg.Profile)
	}
	if o.SecuType != "" {
		cfg.SecuType = o.SecuType
	}
	if o.Intervals != "" {
		cfg.Intervals = o.Intervals
	}
	if o.Workers > 0 {
		cfg.Workers = o.Workers
	}
	cfg.Resume = o.Resume
	cfg.FromBar1m = o.FromBar1m

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the interval list.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var msgs []string
		if ves, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ves {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.BarIntervals(); err != nil {
		return fmt.Errorf("invalid config: INTERVALS: %w", err)
	}
	return nil
}

func saveFormatFor(profile string) string {
	switch strings.ToLower(profile) {
	case "dev", "development":
		return "csv"
	default:
		return "parquet"
	}
}

// BarIntervals parses Intervals.
func (c *Config) BarIntervals() ([]bars.Interval, error) {
	return bars.ParseIntervals(c.Intervals)
}

// TickBaseDir returns TICK_DIR or data/{secu}-tick.
func (c *Config) TickBaseDir() string {
	if c.TickDir != "" {
		return c.TickDir
	}
	return filepath.Join(c.DataDir, c.SecuType+"-tick")
}

// ProgressPath returns path to .lastday.json
func (c *Config) ProgressPath() string {
	return filepath.Join(c.DataDir, ".lastday.json")
}
