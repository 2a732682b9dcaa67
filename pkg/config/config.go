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
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const configName = "jobboard"

type ConfigManager struct {
	mu     sync.RWMutex
	cfg    *AppConfig
	vipers *viper.Viper
}

func NewConfigManager() *ConfigManager {
	return &ConfigManager{
		cfg:    &AppConfig{},
		vipers: viper.New(),
	}
}

func (cm *ConfigManager) GetConfig() *AppConfig {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.cfg
}

func (cm *ConfigManager) Validate() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.cfg.Validate()
}

// LoadDotEnv exports the variables of the given .env files, or ./.env when
// none are given, without overriding variables already set. Missing files
// are skipped.
func (cm *ConfigManager) LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load env file %q: %w", f, err)
		}
		slog.Info("loaded env file", "file", f)
	}
	return nil
}

func (cm *ConfigManager) BindEnvVariables() {
	cm.vipers.SetEnvPrefix("JOBBOARD")
	cm.vipers.AutomaticEnv()
	cm.vipers.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		"debug",
		"port",
		"logLevel",
		"db.driver",
		"db.path",
		"db.host",
		"db.port",
		"db.username",
		"db.password",
		"db.database",
		"db.sslMode",
		"auth.enabled",
		"auth.username",
		"auth.password",
		"rateLimit.enabled",
		"rateLimit.requestsPerMinute",
		"rateLimit.burst",
		"metrics.enabled",
		"seed.enabled",
		"seed.file",
	}
	for _, key := range keys {
		env := "JOBBOARD_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		cm.vipers.BindEnv(key, env)
	}
}

func (cm *ConfigManager) SetDefaults() {
	cm.vipers.SetDefault("port", 8080)
	cm.vipers.SetDefault("logLevel", "info")
	cm.vipers.SetDefault("db.driver", string(DBDriverSQLite))
	cm.vipers.SetDefault("db.path", "./data/jobboard.db")
	cm.vipers.SetDefault("db.host", "localhost")
	cm.vipers.SetDefault("db.port", 5432)
	cm.vipers.SetDefault("db.username", "postgres")
	cm.vipers.SetDefault("db.database", "jobboard")
	cm.vipers.SetDefault("rateLimit.requestsPerMinute", 600)
	cm.vipers.SetDefault("rateLimit.burst", 50)
	cm.vipers.SetDefault("metrics.enabled", true)
	cm.vipers.SetDefault("metrics.path", "/metrics")
}

func (cm *ConfigManager) LoadConfig(configPaths ...string) error {
	cm.SetDefaults()

	cm.vipers.SetConfigName(configName)
	cm.vipers.SetConfigType("yaml")

	searchPaths := append(slices.Clone(configPaths),
		".",
		"./config",
		"./configs",
		"/etc/jobboard",
		"$HOME/.jobboard",
	)
	for _, path := range searchPaths {
		cm.vipers.AddConfigPath(path)
	}

	if err := cm.vipers.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		slog.Warn("no config file found, using defaults")
	} else {
		slog.Info("using config file", "file", cm.vipers.ConfigFileUsed())
	}

	if err := cm.mergeFragments(); err != nil {
		return err
	}
	return cm.decode()
}

// Watch reloads the config file whenever it changes on disk and passes the
// validated result to fn. Invalid edits are logged and ignored.
func (cm *ConfigManager) Watch(fn func(*AppConfig)) {
	if cm.vipers.ConfigFileUsed() == "" {
		return
	}

	cm.vipers.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := cm.reload()
		if err != nil {
			slog.Error("ignoring config change", "file", e.Name, "error", err)
			return
		}
		slog.Info("config reloaded", "file", e.Name)
		if fn != nil {
			fn(next)
		}
	})
	cm.vipers.WatchConfig()
}

// reload rebuilds the config after viper re-read the main file. The re-read
// drops merged fragments, so they are merged again before decoding. The
// current config is kept when the result does not validate.
func (cm *ConfigManager) reload() (*AppConfig, error) {
	if err := cm.mergeFragments(); err != nil {
		return nil, err
	}
	next := &AppConfig{}
	if err := cm.vipers.Unmarshal(next); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	cm.mu.Lock()
	cm.cfg = next
	cm.mu.Unlock()
	return next, nil
}

func (cm *ConfigManager) decode() error {
	next := &AppConfig{}
	if err := cm.vipers.Unmarshal(next); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}
	cm.mu.Lock()
	cm.cfg = next
	cm.mu.Unlock()
	return nil
}

// mergeFragments merges jobboard.*.yaml files next to the main config file,
// in name order, followed by the files listed under include.
func (cm *ConfigManager) mergeFragments() error {
	mainFile := cm.vipers.ConfigFileUsed()
	if mainFile == "" {
		return nil
	}
	mainFile = filepath.Clean(mainFile)
	dir := filepath.Dir(mainFile)
	base := strings.TrimSuffix(filepath.Base(mainFile), filepath.Ext(mainFile))

	var candidates []string
	for _, ext := range []string{"yaml", "yml"} {
		pattern := filepath.Join(dir, fmt.Sprintf("%s.*.%s", base, ext))
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("glob pattern %q failed: %w", pattern, err)
		}
		slices.Sort(matches)
		candidates = append(candidates, matches...)
	}

	for _, inc := range cm.vipers.GetStringSlice("include") {
		inc = strings.TrimSpace(inc)
		if inc == "" {
			continue
		}
		if !filepath.IsAbs(inc) {
			inc = filepath.Join(dir, inc)
		}
		info, err := os.Stat(inc)
		if err != nil {
			return fmt.Errorf("include file %q not accessible: %w", inc, err)
		}
		if info.IsDir() {
			return fmt.Errorf("include path %q is a directory", inc)
		}
		candidates = append(candidates, inc)
	}

	seen := map[string]struct{}{mainFile: {}}
	for _, path := range candidates {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}

		if err := cm.mergeFile(path); err != nil {
			return err
		}
		slog.Info("merged config fragment", "file", path)
	}
	return nil
}

func (cm *ConfigManager) mergeFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config fragment %q: %w", path, err)
	}

	fragment := viper.New()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		fragment.SetConfigType("yaml")
	case ".json":
		fragment.SetConfigType("json")
	case ".toml":
		fragment.SetConfigType("toml")
	default:
		return fmt.Errorf("unsupported config fragment type %q for file %s", ext, path)
	}

	if err := fragment.ReadConfig(bytes.NewReader(content)); err != nil {
		return fmt.Errorf("failed to parse config fragment %q: %w", path, err)
	}
	if err := cm.vipers.MergeConfigMap(fragment.AllSettings()); err != nil {
		return fmt.Errorf("failed to merge config fragment %q: %w", path, err)
	}
	return nil
}

var (
	globalConfigManager *ConfigManager
	once                sync.Once
)

func Init(files ...string) error {
	var err error
	once.Do(func() {
		globalConfigManager = NewConfigManager()
		if err = globalConfigManager.LoadDotEnv(); err != nil {
			return
		}
		globalConfigManager.BindEnvVariables()

		if err = globalConfigManager.LoadConfig(files...); err != nil {
			return
		}

		err = globalConfigManager.Validate()
	})
	return err
}

func GetConfigManager() *ConfigManager {
	return globalConfigManager
}
