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

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/masteryyh/jobboard/pkg/config"
	"github.com/masteryyh/jobboard/pkg/conn"
	"github.com/masteryyh/jobboard/pkg/middleware"
	"github.com/masteryyh/jobboard/pkg/routes"
	"github.com/masteryyh/jobboard/pkg/utils/safe"
	"github.com/masteryyh/jobboard/pkg/utils/signal"
)

func main() {
	logLevel := &slog.LevelVar{}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("starting jobboard server...")

	slog.Info("loading configuration...")
	if err := config.Init(); err != nil {
		slog.Error("failed to load configuration", "error", err)
		return
	}
	cfg := config.GetConfigManager().GetConfig()
	if level, err := config.ParseLogLevel(cfg.LogLevel); err == nil {
		logLevel.Set(level)
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	baseCtx, cancel := signal.SetupContext()
	defer cancel()

	slog.InfoContext(baseCtx, "initializing database connection...", "driver", cfg.DB.Driver)
	if err := conn.InitDB(baseCtx, cfg.DB); err != nil {
		slog.ErrorContext(baseCtx, "failed to initialize database connection", "error", err)
		return
	}
	defer func() {
		if err := conn.CloseDB(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	if cfg.Seed.Enabled {
		data, err := conn.LoadFixtures(cfg.Seed.File)
		if err != nil {
			slog.ErrorContext(baseCtx, "failed to load fixtures", "error", err)
			return
		}
		seeded, err := conn.Seed(baseCtx, conn.GetDB(), data)
		if err != nil {
			slog.ErrorContext(baseCtx, "failed to seed database", "error", err)
			return
		}
		slog.InfoContext(baseCtx, "seed finished", "inserted", seeded)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit)
	limiter.Run(baseCtx)

	config.GetConfigManager().Watch(func(next *config.AppConfig) {
		if level, err := config.ParseLogLevel(next.LogLevel); err == nil {
			logLevel.Set(level)
		}
		limiter.Configure(next.RateLimit)
	})

	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.RequestLogMiddleware())
	engine.Use(middleware.CORSMiddleware(cfg.CORS))
	if cfg.Metrics.Enabled {
		metrics := middleware.NewMetrics()
		engine.Use(metrics.Middleware())
		engine.GET(cfg.Metrics.Path, gin.WrapH(metrics.Handler()))
	}
	engine.GET("/healthz", routes.HealthHandler(conn.GetDB()))

	apiRoute := engine.Group("/api")
	apiRoute.Use(middleware.BasicAuthMiddleware(cfg.Auth))
	apiRoute.Use(middleware.RateLimitMiddleware(limiter))
	v1Route := routes.GetV1Routes()
	if err := v1Route.RegisterRoutes(apiRoute.Group("/v1")); err != nil {
		slog.ErrorContext(baseCtx, "failed to register routes", "error", err)
		return
	}

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	safe.GoSafeWithCtx("http-server", baseCtx, func(ctx context.Context) {
		slog.InfoContext(ctx, "starting http server", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "failed to start http server", "error", err)
			cancel()
		}
	})

	<-baseCtx.Done()
	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
