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
	"errors"
	"sync"
	"time"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"
	"fi-dashboard-go/internal/tracker"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// MaturityWatcherConfig contains configuration for MaturityWatcher
type MaturityWatcherConfig struct {
	DbService       store.FinanceStore
	Notifiers       []Notifier
	Schedule        string
	WindowDays      int
	CleanupInterval time.Duration
	Now             func() time.Time
}

// MaturityWatcher scans active FDs on a schedule and reports each one entering
// the upcoming-maturity window once
type MaturityWatcher struct {
	dbService store.FinanceStore
	notifiers []Notifier
	now       func() time.Time

	// State management for reported FDs, keyed by id and maturity date
	reported        map[string]models.Date
	mutex           sync.RWMutex
	scanMutex       sync.Mutex
	schedule        string
	windowDays      int
	cleanupInterval time.Duration

	cron *cron.Cron

	// Control channels
	stopChan chan struct{}
	doneChan chan struct{}
}

// NewMaturityWatcher creates a new maturity watcher
func NewMaturityWatcher(cfg MaturityWatcherConfig) (*MaturityWatcher, error) {
	if cfg.DbService == nil {
		return nil, errors.New("maturity watcher needs a store")
	}
	if cfg.Schedule == "" {
		return nil, errors.New("maturity watcher needs a schedule")
	}
	windowDays := cfg.WindowDays
	if windowDays <= 0 {
		windowDays = tracker.MaturityWindowDays
	}
	cleanupInterval := cfg.CleanupInterval
	if cleanupInterval <= 0 {
		cleanupInterval = 24 * time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &MaturityWatcher{
		dbService:       cfg.DbService,
		notifiers:       cfg.Notifiers,
		now:             now,
		reported:        make(map[string]models.Date),
		schedule:        cfg.Schedule,
		windowDays:      windowDays,
		cleanupInterval: cleanupInterval,
		stopChan:        make(chan struct{}),
		doneChan:        make(chan struct{}),
	}, nil
}

func reportKey(fd models.FDTracker) string {
	return fd.Id + "@" + fd.MaturityDate.String()
}

// isReported checks if we've already reported this FD for its current maturity date
func (w *MaturityWatcher) isReported(fd models.FDTracker) bool {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	_, exists := w.reported[reportKey(fd)]
	return exists
}

func (w *MaturityWatcher) markReported(fd models.FDTracker) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.reported[reportKey(fd)] = fd.MaturityDate
}

// cleanupLoop periodically forgets FDs that have already matured
func (w *MaturityWatcher) cleanupLoop(ctx context.Context) {
	defer close(w.doneChan)

	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.cleanupReported()
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

// cleanupReported removes entries whose maturity date is in the past
func (w *MaturityWatcher) cleanupReported() {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	today := models.DateOf(w.now())
	cleaned := 0

	for key, maturity := range w.reported {
		if maturity.Before(today.Time) {
			delete(w.reported, key)
			cleaned++
		}
	}

	if cleaned > 0 {
		zap.L().Debug("Cleaned up matured FDs",
			zap.Int("cleaned", cleaned),
			zap.Int("remaining", len(w.reported)))
	}
}
