/*
Copyright © 2026 masteryyh <yyh991013@163.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/masteryyh/jobboard/pkg/utils"
)

type DBDriver string

const (
	DBDriverSQLite   DBDriver = "sqlite"
	DBDriverPostgres DBDriver = "postgres"
)

// AppConfig is the config definition for the API server
type AppConfig struct {
	// Debug mode enabled or not
	Debug bool `mapstructure:"debug"`

	// Port of the HTTP server
	Port int `mapstructure:"port"`

	// LogLevel is one of debug, info, warn, error. Changes apply without restart.
	LogLevel string `mapstructure:"logLevel"`

	// DB configuration
	DB *DatabaseConfig `mapstructure:"db"`

	// Auth configuration for HTTP Basic Auth
	Auth *AuthConfig `mapstructure:"auth"`

	CORS *CORSConfig `mapstructure:"cors"`

	// RateLimit limits requests per client IP. Changes apply without restart.
	RateLimit *RateLimitConfig `mapstructure:"rateLimit"`

	Metrics *MetricsConfig `mapstructure:"metrics"`

	// Seed loads fixture records into an empty database on startup
	Seed *SeedConfig `mapstructure:"seed"`
}

// AuthConfig is the config definition for HTTP Basic Auth
type AuthConfig struct {
	// Enabled indicates whether HTTP Basic Auth is enabled
	Enabled bool `mapstructure:"enabled"`

	// Username for HTTP Basic Auth
	Username string `mapstructure:"username"`

	// Password for HTTP Basic Auth
	Password string `mapstructure:"password"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allowOrigins"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requestsPerMinute"`
	Burst             int  `mapstructure:"burst"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`

	// File is a YAML fixture file, the embedded fixtures are used when empty
	File string `mapstructure:"file"`
}

// DatabaseConfig is the config definition for database connection. sqlite is
// meant for local development, postgres for everything else.
type DatabaseConfig struct {
	Driver DBDriver `mapstructure:"driver"`

	// Path of the sqlite database file
	Path string `mapstructure:"path"`

	// Host of the database server
	Host string `mapstructure:"host"`

	// Port of the database server
	Port int `mapstructure:"port"`

	// Username for database authentication
	Username string `mapstructure:"username"`

	// Password for database authentication
	Password string `mapstructure:"password"`

	// Database name
	Database string `mapstructure:"database"`

	SSLMode string `mapstructure:"sslMode"`
}

func (c *DatabaseConfig) Validate() error {
	if c == nil {
		return fmt.Errorf("database config is required")
	}

	switch c.Driver {
	case "":
		c.Driver = DBDriverSQLite
		fallthrough
	case DBDriverSQLite:
		if c.Path == "" {
			c.Path = "./data/jobboard.db"
		}
		if c.Path != ":memory:" {
			cleaned, err := utils.GetCleanPath(c.Path, false)
			if err != nil {
				return fmt.Errorf("invalid sqlite path '%s': %w", c.Path, err)
			}
			c.Path = cleaned
		}
		return nil
	case DBDriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Driver)
	}

	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port <= 0 || c.Port > 65535 {
		c.Port = 5432
	}
	if c.Username == "" {
		c.Username = "postgres"
	}
	if c.Password == "" {
		return fmt.Errorf("database password is required")
	}
	if c.Database == "" {
		c.Database = "jobboard"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	if c.Driver == DBDriverPostgres {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode)
	}
	return c.Path
}

func (c *AuthConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.Username == "" {
		return fmt.Errorf("auth username is required when auth is enabled")
	}
	if c.Password == "" {
		return fmt.Errorf("auth password is required when auth is enabled")
	}
	return nil
}

func (c *RateLimitConfig) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("requestsPerMinute must be positive, got %d", c.RequestsPerMinute)
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	return nil
}

func (c *MetricsConfig) Validate() error {
	if c == nil {
		return nil
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %s", c.Path)
	}
	return nil
}

func (c *AppConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", c.Port)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("invalid auth config: %w", err)
	}

	if c.CORS == nil {
		c.CORS = &CORSConfig{}
	}
	if len(c.CORS.AllowOrigins) == 0 {
		c.CORS.AllowOrigins = []string{"*"}
	}

	if c.RateLimit == nil {
		c.RateLimit = &RateLimitConfig{}
	}
	if err := c.RateLimit.Validate(); err != nil {
		return fmt.Errorf("invalid rate limit config: %w", err)
	}

	if c.Metrics == nil {
		c.Metrics = &MetricsConfig{}
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("invalid metrics config: %w", err)
	}

	if c.Seed == nil {
		c.Seed = &SeedConfig{}
	}

	return c.DB.Validate()
}

func ParseLogLevel(raw string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level: %s", raw)
	}
}
