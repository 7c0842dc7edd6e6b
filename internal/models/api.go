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

package models

import "github.com/shopspring/decimal"

// DashboardSummary is the aggregate view served on the dashboard
type DashboardSummary struct {
	NetWorth           decimal.Decimal            `json:"net_worth"`
	AssetCount         int                        `json:"asset_count"`
	AssetsByType       map[string]decimal.Decimal `json:"assets_by_type"`
	FIProgress         FIProgress                 `json:"fi_progress"`
	ActiveFDCount      int                        `json:"active_fd_count"`
	TotalFDValue       decimal.Decimal            `json:"total_fd_value"`
	UpcomingMaturities []FDTracker                `json:"upcoming_maturities"`
	ExpensesByCategory map[string]decimal.Decimal `json:"expenses_by_category"`
	IncomeByType       map[string]decimal.Decimal `json:"income_by_type"`
}

// TransactionsView lists recent expenses and income side by side
type TransactionsView struct {
	Expenses []Expense       `json:"expenses"`
	Incomes  []PassiveIncome `json:"incomes"`
}

// ErrorResponse is the JSON body of every failed API call
type ErrorResponse struct {
	Error string `json:"error"`
}
