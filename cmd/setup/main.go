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
	"flag"
	"fmt"
	"os"
	"strconv"

	"fi-dashboard-go/internal/common"
	"fi-dashboard-go/internal/config"
	"fi-dashboard-go/internal/database"
	"fi-dashboard-go/internal/store"

	"go.uber.org/zap"
)

// countRecords lists every table once so the operator sees what the store holds
func countRecords(ctx context.Context, db store.FinanceStore) (map[string]int, error) {
	expenses, err := db.ListExpenses(ctx, store.ExpenseFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	incomes, err := db.ListIncomes(ctx, store.IncomeFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list income: %w", err)
	}
	fds, err := db.ListFDs(ctx, store.FDFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list fds: %w", err)
	}
	assets, err := db.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	return map[string]int{
		"expenses":         len(expenses),
		"passive_income":   len(incomes),
		"fd_tracker":       len(fds),
		"financial_assets": len(assets),
	}, nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger(false)
	defer loggerCleanup()

	seedFlag := flag.Bool("seed", false, "Insert sample FDs, assets, income and expenses when the store is empty")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	// Opening a SQLite store creates its tables
	db, err := common.InitializeStoreOnly(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to open store", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(ctx); err != nil {
		zap.L().Fatal("Store is not reachable", zap.Error(err))
	}

	if *seedFlag {
		sqlStore, ok := db.(*database.Service)
		if !ok {
			zap.L().Fatal("Sample data can only be seeded into a SQL backend",
				zap.String("store_backend", cfg.Store.Backend))
		}
		if err := sqlStore.SeedSampleData(ctx); err != nil {
			zap.L().Fatal("Failed to seed sample data", zap.Error(err))
		}
	}

	counts, err := countRecords(ctx, db)
	if err != nil {
		zap.L().Fatal("Failed to read store", zap.Error(err))
	}

	r := common.NewReport(os.Stdout, 50)
	r.Header(fmt.Sprintf("Store ready (%s, user %s)", cfg.Store.Backend, cfg.Finance.UserId))
	tables := []string{"expenses", "passive_income", "fd_tracker", "financial_assets"}
	for i, table := range tables {
		r.Line(table, strconv.Itoa(counts[table])+" rows", i == len(tables)-1)
	}
	r.Footer("Setup complete")
}
