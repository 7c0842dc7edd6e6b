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

package listener

import (
	"context"
	"fmt"

	"fi-dashboard-go/internal/metrics"
	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"
	"fi-dashboard-go/internal/tracker"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Start runs an initial scan, then schedules the recurring ones
func (w *MaturityWatcher) Start(ctx context.Context) error {
	zap.L().Info("Starting maturity watcher")

	// Catch anything that entered the window while we were down
	if _, err := w.Scan(ctx); err != nil {
		return fmt.Errorf("startup scan failed: %w", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() {
		if _, err := w.Scan(ctx); err != nil {
			zap.L().Error("Scheduled maturity scan failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("invalid maturity schedule %q: %w", w.schedule, err)
	}
	w.cron = c
	w.cron.Start()

	go w.cleanupLoop(ctx)

	zap.L().Info("Maturity watcher started successfully",
		zap.String("schedule", w.schedule),
		zap.Int("window_days", w.windowDays),
		zap.Duration("cleanup_interval", w.cleanupInterval))

	return nil
}

// Stop gracefully stops the watcher, waiting for a running scan to finish
func (w *MaturityWatcher) Stop() {
	zap.L().Info("Stopping maturity watcher")
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	close(w.stopChan)
	<-w.doneChan
	zap.L().Info("Maturity watcher stopped")
}

// Scan reports the active FDs maturing within the window that have not been
// reported yet. It returns the notices it delivered.
func (w *MaturityWatcher) Scan(ctx context.Context) ([]models.MaturityNotice, error) {
	w.scanMutex.Lock()
	defer w.scanMutex.Unlock()

	fds, err := w.dbService.ListFDs(ctx, store.FDFilter{Status: models.FDStatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to list fds: %w", err)
	}

	today := models.DateOf(w.now())
	upcoming := tracker.UpcomingMaturities(fds, today, w.windowDays)

	var delivered []models.MaturityNotice
	for _, fd := range upcoming {
		if w.isReported(fd) {
			continue
		}

		notice := models.MaturityNotice{FD: fd, DaysLeft: tracker.DaysBetween(today, fd.MaturityDate)}
		if err := w.notify(ctx, notice); err != nil {
			zap.L().Error("Failed to deliver maturity notice",
				zap.String("fd_id", fd.Id),
				zap.String("bank_name", fd.BankName),
				zap.Error(err))
			continue
		}

		w.markReported(fd)
		metrics.MaturityNotices.Inc()
		delivered = append(delivered, notice)
	}

	zap.L().Debug("Maturity scan complete",
		zap.Int("active_fds", len(fds)),
		zap.Int("upcoming", len(upcoming)),
		zap.Int("reported", len(delivered)))

	return delivered, nil
}

// notify hands the notice to every notifier and returns the first failure
func (w *MaturityWatcher) notify(ctx context.Context, notice models.MaturityNotice) error {
	var firstErr error
	for _, n := range w.notifiers {
		if err := n.Notify(ctx, notice); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
