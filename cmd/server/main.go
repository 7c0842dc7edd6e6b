/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"fi-dashboard-go/internal/api"
	"fi-dashboard-go/internal/common"
	"fi-dashboard-go/internal/config"
	"fi-dashboard-go/internal/listener"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func startWatcher(ctx context.Context, services *common.Services) *listener.MaturityWatcher {
	cfg := services.Config

	notifiers := []listener.Notifier{listener.NewConsoleNotifier(os.Stdout, services.Money)}
	if cfg.SMTP.Enabled() {
		notifiers = append(notifiers, listener.NewEmailNotifier(cfg.SMTP, services.Money))
		zap.L().Info("Maturity reminders will be e-mailed", zap.Strings("to", cfg.SMTP.To))
	}

	w, err := listener.NewMaturityWatcher(listener.MaturityWatcherConfig{
		DbService:       services.Store,
		Notifiers:       notifiers,
		Schedule:        cfg.Listener.Schedule,
		WindowDays:      cfg.Listener.WindowDays,
		CleanupInterval: cfg.Listener.CleanupInterval,
	})
	if err != nil {
		zap.L().Fatal("Failed to create maturity watcher", zap.Error(err))
	}

	// The API stays up even when the first scan fails
	if err := w.Start(ctx); err != nil {
		zap.L().Error("Failed to start maturity watcher", zap.Error(err))
		return nil
	}
	return w
}

func main() {
	noWatcher := flag.Bool("no-watcher", false, "Serve the API without the FD maturity watcher")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger, _ := common.InitializeLogger(false)
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	_, loggerCleanup := common.InitializeLogger(cfg.Server.GinMode == gin.DebugMode)
	defer loggerCleanup()

	gin.SetMode(cfg.Server.GinMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	zap.L().Info("Starting FI dashboard server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("store_backend", cfg.Store.Backend))

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	services.Chat.Initialize()

	var watcher *listener.MaturityWatcher
	if !*noWatcher {
		watcher = startWatcher(ctx, services)
	}

	svc := api.NewFinanceService(services.Store, services.Tracker)
	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.NewRouter(cfg.Server, svc, services.Chat),
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	zap.L().Info("Server running", zap.String("addr", cfg.Server.Addr))
	zap.L().Info("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zap.L().Info("Shutdown signal received, stopping server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		if watcher != nil {
			watcher.Stop()
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("HTTP server shutdown failed", zap.Error(err))
		}
		close(done)
	}()

	select {
	case <-done:
		zap.L().Info("Server stopped gracefully")
	case <-shutdownCtx.Done():
		zap.L().Warn("Forced shutdown after timeout")
	}
}
