// Package config loads the server binary's settings from an optional file
// and the environment via viper, the way the rest of this codebase's
// dependency stack expects configuration to be layered. Command-line flags
// are not bound to these settings.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full set of tunables for cmd/server.
type Config struct {
	TCPAddress    string        `mapstructure:"tcp_address"`
	TCPPort       int           `mapstructure:"tcp_port"`
	HTTPAddress   string        `mapstructure:"http_address"`
	MetricsPath   string        `mapstructure:"metrics_path"`
	FeedPath      string        `mapstructure:"feed_path"`
	Workers       int           `mapstructure:"workers"`
	ArchiveSinkURL string       `mapstructure:"archive_sink_url"`
	ArchiveTimeout time.Duration `mapstructure:"archive_timeout"`
	LogLevel      string        `mapstructure:"log_level"`
}

// Default returns the configuration used when no file or environment
// variable overrides a setting.
func Default() Config {
	return Config{
		TCPAddress:     "0.0.0.0",
		TCPPort:        7878,
		HTTPAddress:    "0.0.0.0:8080",
		MetricsPath:    "/metrics",
		FeedPath:       "/feed",
		Workers:        10,
		ArchiveSinkURL: "",
		ArchiveTimeout: 5 * time.Second,
		LogLevel:       "info",
	}
}

// Load reads configuration from configPath (if non-empty), then from
// environment variables prefixed FENRIR_, layered over Default.
func Load(configPath string) (Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("tcp_address", defaults.TCPAddress)
	v.SetDefault("tcp_port", defaults.TCPPort)
	v.SetDefault("http_address", defaults.HTTPAddress)
	v.SetDefault("metrics_path", defaults.MetricsPath)
	v.SetDefault("feed_path", defaults.FeedPath)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("archive_sink_url", defaults.ArchiveSinkURL)
	v.SetDefault("archive_timeout", defaults.ArchiveTimeout)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix("fenrir")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshalling: %w", err)
	}
	return cfg, nil
}
