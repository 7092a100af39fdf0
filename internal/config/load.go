package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for namespaced environment variables,
// e.g. TASKAPI_SERVER_PORT.
const EnvPrefix = "TASKAPI"

// envAliases binds config keys to the plain variable names the service has
// always read. The first variable that is set wins.
var envAliases = map[string][]string{
	"server.port":           {"PORT"},
	"server.environment":    {"ENVIRONMENT", "NODE_ENV"},
	"server.log_level":      {"LOG_LEVEL"},
	"database.driver":       {"DB_DRIVER"},
	"database.url":          {"DATABASE_URL"},
	"database.host":         {"DB_HOST"},
	"database.port":         {"DB_PORT"},
	"database.user":         {"DB_USER"},
	"database.password":     {"DB_PASSWORD"},
	"database.name":         {"DB_NAME"},
	"database.auto_migrate": {"DB_AUTO_MIGRATE"},
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 3000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.driver", DriverMemory)
	v.SetDefault("database.auto_migrate", true)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envAliases {
		args := append([]string{key, EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Server.LogLevel = strings.ToLower(cfg.Server.LogLevel)
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)
	if cfg.Database.URL == "" && cfg.Database.Driver == DriverPostgres {
		cfg.Database.URL = cfg.Database.postgresURL()
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &cfg, nil
}

// postgresURL assembles a connection URL from the discrete DB_* settings.
// It returns an empty string when no host is configured.
func (c DatabaseConfig) postgresURL() string {
	if c.Host == "" {
		return ""
	}

	host := c.Host
	if c.Port != "" {
		host = net.JoinHostPort(c.Host, c.Port)
	}

	u := url.URL{
		Scheme:   "postgres",
		Host:     host,
		Path:     "/" + c.Name,
		RawQuery: "sslmode=disable",
	}
	if c.User != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.User, c.Password)
		} else {
			u.User = url.User(c.User)
		}
	}
	return u.String()
}
