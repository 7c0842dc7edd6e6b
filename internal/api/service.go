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

package api

import (
	"context"
	"fmt"

	"fi-dashboard-go/internal/store"
	"fi-dashboard-go/internal/tracker"
)

// FinanceService serves the dashboard, record listings and inserts for the
// configured user
type FinanceService struct {
	db      store.FinanceStore
	tracker *tracker.Tracker
}

func NewFinanceService(db store.FinanceStore, t *tracker.Tracker) *FinanceService {
	return &FinanceService{
		db:      db,
		tracker: t,
	}
}

func (s *FinanceService) HealthCheck(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	return nil
}
