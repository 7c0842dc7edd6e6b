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
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"fi-dashboard-go/internal/common"
	"fi-dashboard-go/internal/config"
	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/money"
	"fi-dashboard-go/internal/tracker"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const reportWidth = 78

// printTotals prints one line per key, largest first
func printTotals(r *common.Report, f *money.Formatter, totals map[string]decimal.Decimal, empty string) {
	if len(totals) == 0 {
		r.Empty(empty)
		return
	}
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := totals[b].Cmp(totals[a]); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	for i, k := range keys {
		r.Line(strings.ReplaceAll(k, "_", " "), f.Format(totals[k]), i == len(keys)-1)
	}
}

func printFDs(r *common.Report, f *money.Formatter, t *tracker.Tracker, fds []models.FDTracker) {
	if len(fds) == 0 {
		r.Empty("no active FDs")
		return
	}
	for i, fd := range fds {
		isLast := i == len(fds)-1
		r.Line(fd.BankName, f.Format(fd.Principal), isLast)
		detail := fmt.Sprintf("%s%% p.a., matures %s (%d days)",
			fd.InterestRate.String(), f.Date(fd.MaturityDate), t.FDs.DaysUntilMaturity(fd))
		if fd.FdNumber != "" {
			detail = fd.FdNumber + ": " + detail
		}
		r.Detail(detail, isLast)
	}
}

func printReport(t *tracker.Tracker, f *money.Formatter, summary models.DashboardSummary) {
	r := common.NewReport(os.Stdout, reportWidth)
	r.Header(fmt.Sprintf("FI DASHBOARD - %s", f.Date(t.Today())))

	p := summary.FIProgress
	r.Section("Financial independence")
	r.Line("Monthly passive income", f.Format(p.MonthlyIncome), false)
	r.Line("Target", f.Format(p.TargetIncome), false)
	r.Line("Gap", f.Format(p.Gap), false)
	r.Line("Progress", f.Percent(p.Progress), true)

	r.Section(fmt.Sprintf("Net worth %s across %d assets", f.Format(summary.NetWorth), summary.AssetCount))
	printTotals(r, f, summary.AssetsByType, "no assets")

	r.Section(fmt.Sprintf("Active FDs: %d (%s)", summary.ActiveFDCount, f.Format(summary.TotalFDValue)))
	printFDs(r, f, t, t.FDs.Active())

	r.Section(fmt.Sprintf("Maturing in the next %d days", tracker.MaturityWindowDays))
	printFDs(r, f, t, summary.UpcomingMaturities)

	r.Section("Expenses this month")
	printTotals(r, f, tracker.ExpensesByCategory(tracker.ExpensesInMonth(t.Expenses.List(), t.Today())), "no expenses this month")

	r.Section("Passive income this month")
	printTotals(r, f, p.IncomeBreakdown, "no income this month")

	r.Footer("Summary complete")
}

func main() {
	ctx := context.Background()

	asJSON := flag.Bool("json", false, "Print the dashboard summary as JSON")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger, _ := common.InitializeLogger(false)
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, loggerCleanup := common.InitializeLogger(false)
	defer loggerCleanup()

	logger.Info("Starting dashboard summary", zap.String("store_backend", cfg.Store.Backend))

	// Read-only, so the language model is never needed
	db, err := common.InitializeStoreOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer db.Close()

	t := tracker.New(db, decimal.NewFromFloat(cfg.Finance.FITarget), nil)
	if err := t.RefreshAll(ctx); err != nil {
		logger.Fatal("Failed to load financial data", zap.Error(err))
	}
	summary := t.Dashboard()

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			logger.Fatal("Failed to encode summary", zap.Error(err))
		}
		return
	}

	printReport(t, money.NewFormatter(cfg.Finance.CurrencySymbol, cfg.Finance.Locale), summary)
}
