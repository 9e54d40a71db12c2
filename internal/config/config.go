// Package config loads the YAML configuration shared by the commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/esios-spectrum/esios"
	"github.com/cwbudde/esios-spectrum/internal/logger"
	"github.com/cwbudde/esios-spectrum/series"
)

// Config is the root configuration document.
type Config struct {
	Server ServerConfig  `yaml:"server"`
	Data   DataConfig    `yaml:"data"`
	Log    logger.Config `yaml:"log"`
	Esios  EsiosConfig   `yaml:"esios"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Addr            string        `yaml:"addr" default:":8501" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	CacheCapacity   int           `yaml:"cache_capacity" default:"64" validate:"gte=1"`
	MetricsPath     string        `yaml:"metrics_path" default:"/metrics"`
}

// DataConfig locates the persisted indicator data.
type DataConfig struct {
	Dir string `yaml:"dir" default:"data" validate:"required"`
}

// EsiosConfig configures the indicator fetch.
//
// Connection settings are validated by esios.NewClient, so a dashboard-only
// configuration may leave them empty.
type EsiosConfig struct {
	esios.Config `yaml:",inline" validate:"-"`
	Indicator    string `yaml:"indicator" default:"1293" validate:"required"`
	Locale       string `yaml:"locale" default:"es"`
	StartDate    string `yaml:"start_date" default:"2018-09-02T00:00:00"`
	EndDate      string `yaml:"end_date" default:"2018-10-06T23:00:00"`
	TimeAgg      string `yaml:"time_agg" default:"sum" validate:"oneof=sum average"`
	TimeTrunc    string `yaml:"time_trunc" default:"ten_minutes" validate:"oneof=ten_minutes fifteen_minutes hour day month year"`
}

// Environment variables overriding the file.
const (
	EnvBaseURL    = "BASE_URL"
	EnvToken      = "ESIOS_TOKEN"
	EnvDataDir    = "DATA_DIR"
	EnvListenAddr = "LISTEN_ADDR"
	EnvLogLevel   = "LOG_LEVEL"
)

var validate = validator.New()

// Load reads path (a missing file yields defaults), applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	var c Config
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("set defaults: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if c.Esios.BaseURL == "" {
		c.Esios.BaseURL = esios.DefaultBaseURL
	}
	applyEnv(&c)

	if err := validate.Struct(&c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

func applyEnv(c *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Esios.BaseURL = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		c.Esios.Token = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.Data.Dir = v
	}
	if v := os.Getenv(EnvListenAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

// Query builds the indicator request described by e.
func (e EsiosConfig) Query() (esios.Query, error) {
	start, err := series.ParseTimestamp(e.StartDate)
	if err != nil {
		return esios.Query{}, fmt.Errorf("esios.start_date: %w", err)
	}
	end, err := series.ParseTimestamp(e.EndDate)
	if err != nil {
		return esios.Query{}, fmt.Errorf("esios.end_date: %w", err)
	}
	if end.Before(start) {
		return esios.Query{}, fmt.Errorf("esios.end_date %s is before start_date %s", e.EndDate, e.StartDate)
	}
	return esios.Query{
		Locale:    e.Locale,
		Start:     start,
		End:       end,
		TimeAgg:   e.TimeAgg,
		TimeTrunc: e.TimeTrunc,
	}, nil
}
