// Package config loads runtime configuration from an optional YAML
// file plus LUMIR_-prefixed environment variables, with sane defaults
// for every key.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/trungthanhnguyenn/lumir/internal/analytics"
)

type Config struct {
	LogLevel   string           `mapstructure:"log_level"`
	Postgres   PostgresConfig   `mapstructure:"postgres"`
	Clickhouse ClickhouseConfig `mapstructure:"clickhouse"`
	Ingest     IngestConfig     `mapstructure:"ingest"`
	Analytics  AnalyticsConfig  `mapstructure:"analytics"`
}

type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

type ClickhouseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type IngestConfig struct {
	WSEndpoint  string `mapstructure:"ws_endpoint"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// AnalyticsConfig carries the tunable behavioral and risk thresholds.
type AnalyticsConfig struct {
	RapidFireWindow           string  `mapstructure:"rapid_fire_window"`
	RevengeWindow             string  `mapstructure:"revenge_window"`
	MaxTradesPerDayMultiplier float64 `mapstructure:"max_trades_per_day_multiplier"`
	RiskHaircut               float64 `mapstructure:"risk_haircut"`
}

// EngineConfig converts the duration strings into an analytics.Config.
func (a AnalyticsConfig) EngineConfig() (analytics.Config, error) {
	cfg := analytics.DefaultConfig()

	if a.RapidFireWindow != "" {
		d, err := time.ParseDuration(a.RapidFireWindow)
		if err != nil {
			return cfg, fmt.Errorf("parse rapid_fire_window: %w", err)
		}
		cfg.RapidFireWindow = d
	}
	if a.RevengeWindow != "" {
		d, err := time.ParseDuration(a.RevengeWindow)
		if err != nil {
			return cfg, fmt.Errorf("parse revenge_window: %w", err)
		}
		cfg.RevengeWindow = d
	}
	if a.MaxTradesPerDayMultiplier > 0 {
		cfg.MaxTradesPerDayMultiplier = a.MaxTradesPerDayMultiplier
	}
	if a.RiskHaircut > 0 {
		cfg.RiskHaircut = a.RiskHaircut
	}

	return cfg, nil
}

// Load reads configuration. path may be empty, in which case only
// defaults and environment variables apply; a named file that does not
// exist is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("LUMIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("clickhouse.dsn", "")

	v.SetDefault("ingest.ws_endpoint", "")
	v.SetDefault("ingest.metrics_addr", ":9102")

	v.SetDefault("analytics.rapid_fire_window", "5m")
	v.SetDefault("analytics.revenge_window", "30m")
	v.SetDefault("analytics.max_trades_per_day_multiplier", 1.5)
	v.SetDefault("analytics.risk_haircut", 0.8)
}
