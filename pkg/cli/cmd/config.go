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

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/masteryyh/jobboard/pkg/listing"
	"github.com/masteryyh/jobboard/pkg/utils/pagination"
	"github.com/spf13/viper"
)

const defaultBaseURL = "http://localhost:8080"

type BreakerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Failures uint32        `mapstructure:"failures"`
	Cooldown time.Duration `mapstructure:"cooldown"`
}

type CLIConfig struct {
	BaseURL  string        `mapstructure:"baseUrl"`
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"pageSize"`

	// Debounce delays search requests typed in the browser
	Debounce time.Duration `mapstructure:"debounce"`

	Breaker BreakerConfig `mapstructure:"breaker"`
}

var cliConfig *CLIConfig

func defaultCLIConfig() *CLIConfig {
	return &CLIConfig{
		BaseURL:  defaultBaseURL,
		Timeout:  30 * time.Second,
		PageSize: listing.DefaultPageSize,
		Debounce: listing.DefaultDebounce,
		Breaker: BreakerConfig{
			Failures: 3,
			Cooldown: 30 * time.Second,
		},
	}
}

func loadCLIConfig() error {
	v := viper.New()
	v.SetConfigName("cli-config")
	v.SetConfigType("yaml")

	defaults := defaultCLIConfig()
	v.SetDefault("baseUrl", defaults.BaseURL)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("pageSize", defaults.PageSize)
	v.SetDefault("debounce", defaults.Debounce)
	v.SetDefault("breaker.failures", defaults.Breaker.Failures)
	v.SetDefault("breaker.cooldown", defaults.Breaker.Cooldown)

	v.SetEnvPrefix("JOBBOARD_CLI")
	v.BindEnv("baseUrl", "JOBBOARD_CLI_BASE_URL")
	v.BindEnv("username", "JOBBOARD_CLI_USERNAME")
	v.BindEnv("password", "JOBBOARD_CLI_PASSWORD")

	homeDir, err := os.UserHomeDir()
	if err == nil {
		v.AddConfigPath(filepath.Join(homeDir, ".jobboard"))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("error reading CLI config file: %w", err)
		}
	}

	cfg := &CLIConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode CLI config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	cliConfig = cfg
	return nil
}

func (c *CLIConfig) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.PageSize <= 0 {
		c.PageSize = listing.DefaultPageSize
	}
	if err := pagination.CheckPageSize(c.PageSize); err != nil {
		return err
	}
	if c.Debounce < listing.MinDebounce || c.Debounce > listing.MaxDebounce {
		return fmt.Errorf("debounce must be between %s and %s, got %s", listing.MinDebounce, listing.MaxDebounce, c.Debounce)
	}
	return nil
}

func GetCLIConfig() *CLIConfig {
	if cliConfig == nil {
		if err := loadCLIConfig(); err != nil {
			cliConfig = defaultCLIConfig()
		}
	}
	return cliConfig
}
