// Package config loads process configuration from .env files, an optional
// config file and PRIORA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "PRIORA"

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string `mapstructure:"app_env"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// Storage
	StoreURL string `mapstructure:"store_url"`

	// Scoring service
	ScorerMode           string        `mapstructure:"scorer_mode"`
	ScorerURL            string        `mapstructure:"scorer_url"`
	ScorerPluginPath     string        `mapstructure:"scorer_plugin_path"`
	ScorerPluginChecksum string        `mapstructure:"scorer_plugin_checksum"`
	ScorerTimeout        time.Duration `mapstructure:"scorer_timeout"`
	Strategy             string        `mapstructure:"strategy"`

	// Events
	RabbitMQURL string `mapstructure:"rabbitmq_url"`

	// Servers
	ScorerAddr string `mapstructure:"scorer_addr"`
	MCPAddr    string `mapstructure:"mcp_addr"`
	// MCPAuthToken is a comma-separated list of accepted bearer tokens.
	MCPAuthToken string `mapstructure:"mcp_auth_token"`
}

var defaults = map[string]any{
	"app_env":                "development",
	"log_level":              "info",
	"log_format":             "text",
	"store_url":              "",
	"scorer_mode":            "http",
	"scorer_url":             "http://localhost:8000",
	"scorer_plugin_path":     "",
	"scorer_plugin_checksum": "",
	"scorer_timeout":         10 * time.Second,
	"strategy":               "smart",
	"rabbitmq_url":           "",
	"scorer_addr":            "127.0.0.1:8000",
	"mcp_addr":               "127.0.0.1:8082",
	"mcp_auth_token":         "",
}

// Load reads configuration. Values come, lowest precedence first, from the
// built-in defaults, the config file at path (if any), and the environment.
// A .env file in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("priora")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ScorerMode = strings.ToLower(strings.TrimSpace(cfg.ScorerMode))
	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
