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

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"
	"fi-dashboard-go/internal/tracker"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Dashboard refetches every accessor and returns the derived summary
func (s *FinanceService) Dashboard(ctx context.Context) (models.DashboardSummary, error) {
	if err := s.tracker.RefreshAll(ctx); err != nil {
		zap.L().Error("Failed to refresh dashboard", zap.Error(err))
		return models.DashboardSummary{}, fmt.Errorf("failed to load dashboard: %w", err)
	}
	return s.tracker.Dashboard(), nil
}

// FDs returns every FD, nearest maturity first. Listings read the store
// directly and leave the shared caches alone.
func (s *FinanceService) FDs(ctx context.Context) ([]models.FDTracker, error) {
	fds, err := s.db.ListFDs(ctx, store.FDFilter{})
	if err != nil {
		zap.L().Error("Failed to list fds", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve fds: %w", err)
	}
	return fds, nil
}

// AddFD creates an FD starting today unless the request names a start date
func (s *FinanceService) AddFD(ctx context.Context, fd models.FDTracker) (*models.FDTracker, error) {
	if fd.StartDate.IsZero() {
		fd.StartDate = s.tracker.Today()
	}
	if fd.MaturityDate.IsZero() {
		fd.MaturityDate = fd.StartDate
	}
	created, err := s.tracker.FDs.Add(ctx, store.FDDefaults(fd))
	if err != nil {
		return nil, fmt.Errorf("failed to create fd: %w", err)
	}

	zap.L().Info("FD created",
		zap.String("fd_id", created.Id),
		zap.String("bank_name", created.BankName),
		zap.String("principal", created.Principal.String()))
	return created, nil
}

// Transactions lists the most recent expenses and income, at most limit of each
func (s *FinanceService) Transactions(ctx context.Context, limit int) (models.TransactionsView, error) {
	if limit <= 0 || limit > tracker.RecentLimit {
		limit = tracker.RecentLimit
	}

	var view models.TransactionsView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		view.Expenses, err = s.db.ListExpenses(gctx, store.ExpenseFilter{Limit: limit})
		return err
	})
	g.Go(func() (err error) {
		view.Incomes, err = s.db.ListIncomes(gctx, store.IncomeFilter{Limit: limit})
		return err
	})
	if err := g.Wait(); err != nil {
		zap.L().Error("Failed to list transactions", zap.Int("limit", limit), zap.Error(err))
		return models.TransactionsView{}, fmt.Errorf("failed to retrieve transactions: %w", err)
	}
	return view, nil
}

// AddExpense records an expense dated today unless the request names a date
func (s *FinanceService) AddExpense(ctx context.Context, e models.Expense) (*models.Expense, error) {
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = s.tracker.Today()
	}
	created, err := s.tracker.Expenses.Add(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("failed to record expense: %w", err)
	}
	return created, nil
}

// AddIncome records passive income dated today unless the request names a date
func (s *FinanceService) AddIncome(ctx context.Context, i models.PassiveIncome) (*models.PassiveIncome, error) {
	if i.IncomeDate.IsZero() {
		i.IncomeDate = s.tracker.Today()
	}
	created, err := s.tracker.Incomes.Add(ctx, i)
	if err != nil {
		return nil, fmt.Errorf("failed to record income: %w", err)
	}
	return created, nil
}

func (s *FinanceService) Assets(ctx context.Context) ([]models.FinancialAsset, error) {
	assets, err := s.db.ListAssets(ctx)
	if err != nil {
		zap.L().Error("Failed to list assets", zap.Error(err))
		return nil, fmt.Errorf("failed to retrieve assets: %w", err)
	}
	return assets, nil
}

func (s *FinanceService) AddAsset(ctx context.Context, a models.FinancialAsset) (*models.FinancialAsset, error) {
	created, err := s.tracker.Assets.Add(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}
	return created, nil
}
