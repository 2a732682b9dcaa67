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
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestLoadConfigMergesFragments(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jobboard.yaml"), `
port: 9090
db:
  driver: sqlite
  path: `+filepath.Join(dir, "main.db")+`
include:
  - extra/limits.yaml
`)
	writeFile(t, filepath.Join(dir, "jobboard.auth.yaml"), `
auth:
  enabled: true
  username: admin
  password: secret
`)
	if err := os.MkdirAll(filepath.Join(dir, "extra"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(dir, "extra", "limits.yaml"), `
rateLimit:
  enabled: true
  requestsPerMinute: 120
`)

	cm := NewConfigManager()
	if err := cm.LoadConfig(dir); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cm.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	cfg := cm.GetConfig()
	if cfg.Port != 9090 {
		t.Fatalf("expected port 9090, got %d", cfg.Port)
	}
	if !cfg.Auth.Enabled || cfg.Auth.Username != "admin" {
		t.Fatalf("expected auth fragment to be merged, got %+v", cfg.Auth)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerMinute != 120 {
		t.Fatalf("expected include to be merged, got %+v", cfg.RateLimit)
	}
	if cfg.RateLimit.Burst != 50 {
		t.Fatalf("expected default burst 50, got %d", cfg.RateLimit.Burst)
	}
	if cfg.DB.Driver != DBDriverSQLite || cfg.DB.Path != filepath.Join(dir, "main.db") {
		t.Fatalf("unexpected db config %+v", cfg.DB)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "jobboard.yaml"), "port: 9090\n")
	t.Setenv("JOBBOARD_PORT", "7070")
	t.Setenv("JOBBOARD_LOGLEVEL", "debug")

	cm := NewConfigManager()
	cm.BindEnvVariables()
	if err := cm.LoadConfig(dir); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cm.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cm.GetConfig().Port != 7070 {
		t.Fatalf("expected env port 7070, got %d", cm.GetConfig().Port)
	}
	if cm.GetConfig().LogLevel != "debug" {
		t.Fatalf("expected env log level debug, got %q", cm.GetConfig().LogLevel)
	}
}

func TestLoadDotEnvSkipsMissingFiles(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	writeFile(t, envFile, "JOBBOARD_TEST_DOTENV=loaded\n")
	t.Setenv("JOBBOARD_TEST_DOTENV", "")
	os.Unsetenv("JOBBOARD_TEST_DOTENV")

	cm := NewConfigManager()
	if err := cm.LoadDotEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if os.Getenv("JOBBOARD_TEST_DOTENV") != "loaded" {
		t.Fatalf("expected variable from env file, got %q", os.Getenv("JOBBOARD_TEST_DOTENV"))
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := &AppConfig{Port: 8080, DB: &DatabaseConfig{Driver: DBDriverSQLite, Path: ":memory:"}}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Fatalf("expected default metrics path, got %q", cfg.Metrics.Path)
	}
	if len(cfg.CORS.AllowOrigins) != 1 || cfg.CORS.AllowOrigins[0] != "*" {
		t.Fatalf("expected wildcard origin, got %v", cfg.CORS.AllowOrigins)
	}
}

func TestValidateRejectsBadInput(t *testing.T) {
	cases := map[string]*AppConfig{
		"port":     {Port: 0, DB: &DatabaseConfig{}},
		"driver":   {Port: 80, DB: &DatabaseConfig{Driver: "oracle"}},
		"password": {Port: 80, DB: &DatabaseConfig{Driver: DBDriverPostgres}},
		"auth":     {Port: 80, DB: &DatabaseConfig{}, Auth: &AuthConfig{Enabled: true}},
		"level":    {Port: 80, DB: &DatabaseConfig{}, LogLevel: "verbose"},
		"rate":     {Port: 80, DB: &DatabaseConfig{}, RateLimit: &RateLimitConfig{Enabled: true}},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("WARN")
	if err != nil || level != slog.LevelWarn {
		t.Fatalf("expected warn, got %v %v", level, err)
	}
}

func TestPostgresDSN(t *testing.T) {
	db := &DatabaseConfig{Driver: DBDriverPostgres, Password: "pw"}
	if err := db.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	want := "host=127.0.0.1 port=5432 user=postgres password=pw dbname=jobboard sslmode=disable"
	if db.DSN() != want {
		t.Fatalf("unexpected dsn %q", db.DSN())
	}
}

func loadWithLimitsFragment(t *testing.T) (*ConfigManager, string) {
	t.Helper()
	dir := t.TempDir()
	mainFile := filepath.Join(dir, "jobboard.yaml")
	writeFile(t, mainFile, "port: 9090\ndb:\n  driver: sqlite\n  path: "+filepath.Join(dir, "main.db")+"\n")
	writeFile(t, filepath.Join(dir, "jobboard.limits.yaml"), "rateLimit:\n  enabled: true\n  requestsPerMinute: 7\n")

	cm := NewConfigManager()
	if err := cm.LoadConfig(dir); err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if err := cm.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if rl := cm.GetConfig().RateLimit; !rl.Enabled || rl.RequestsPerMinute != 7 {
		t.Fatalf("expected fragment rate limit, got %+v", rl)
	}
	return cm, mainFile
}

func TestReloadKeepsFragments(t *testing.T) {
	cm, mainFile := loadWithLimitsFragment(t)

	writeFile(t, mainFile, "port: 9191\ndb:\n  driver: sqlite\n  path: "+filepath.Join(filepath.Dir(mainFile), "main.db")+"\n")
	if err := cm.vipers.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}
	next, err := cm.reload()
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if next.Port != 9191 {
		t.Fatalf("expected edited port 9191, got %d", next.Port)
	}
	if !next.RateLimit.Enabled || next.RateLimit.RequestsPerMinute != 7 {
		t.Fatalf("fragment rate limit lost on reload: %+v", next.RateLimit)
	}
	if cm.GetConfig() != next {
		t.Fatal("expected reloaded config to become current")
	}
}

func TestReloadRejectsInvalidEdit(t *testing.T) {
	cm, mainFile := loadWithLimitsFragment(t)
	before := cm.GetConfig()

	writeFile(t, mainFile, "port: 9090\nlogLevel: verbose\n")
	if err := cm.vipers.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig failed: %v", err)
	}
	if _, err := cm.reload(); err == nil {
		t.Fatal("expected invalid log level to be rejected")
	}
	if cm.GetConfig() != before {
		t.Fatal("expected previous config to stay current")
	}
}

func TestWatchAppliesEditsWithFragments(t *testing.T) {
	cm, mainFile := loadWithLimitsFragment(t)

	changes := make(chan *AppConfig, 16)
	cm.Watch(func(cfg *AppConfig) {
		select {
		case changes <- cfg:
		default:
		}
	})

	writeFile(t, mainFile, "port: 9292\nlogLevel: debug\ndb:\n  driver: sqlite\n  path: "+filepath.Join(filepath.Dir(mainFile), "main.db")+"\n")

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-changes:
			if cfg.Port != 9292 {
				continue
			}
			if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerMinute != 7 {
				t.Fatalf("fragment rate limit lost on reload: %+v", cfg.RateLimit)
			}
			if cfg.LogLevel != "debug" {
				t.Fatalf("expected log level debug, got %q", cfg.LogLevel)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for the config change")
		}
	}
}
