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
	"slices"
	"strings"

	"fi-dashboard-go/internal/common"
	"fi-dashboard-go/internal/config"
	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/money"
	"fi-dashboard-go/internal/store"
	"fi-dashboard-go/internal/tracker"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var kinds = []string{"expense", "income", "fd", "asset"}

type entryFlags struct {
	kind        string
	amount      string
	date        string
	category    string
	description string
	sourceType  string
	sourceName  string
	bank        string
	rate        string
	maturity    string
	assetType   string
	name        string
}

func validateKind(kind string) error {
	if !slices.Contains(kinds, kind) {
		return fmt.Errorf("kind must be one of %s, got %q", strings.Join(kinds, ", "), kind)
	}
	return nil
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, fmt.Errorf("-%s is required", name)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid -%s %q: %w", name, raw, err)
	}
	return d, nil
}

// parseDay returns today for an empty flag
func parseDay(raw string, today models.Date) (models.Date, error) {
	if raw == "" {
		return today, nil
	}
	return models.ParseDate(raw)
}

func addEntry(ctx context.Context, t *tracker.Tracker, f *money.Formatter, in entryFlags) (string, error) {
	today := t.Today()
	day, err := parseDay(in.date, today)
	if err != nil {
		return "", err
	}

	switch in.kind {
	case "expense":
		amount, err := parseAmount("amount", in.amount)
		if err != nil {
			return "", err
		}
		created, err := t.Expenses.Add(ctx, models.Expense{
			Category:    in.category,
			Amount:      amount,
			Description: in.description,
			ExpenseDate: day,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Expense of %s saved (%s)", f.Format(created.Amount), created.Id), nil

	case "income":
		amount, err := parseAmount("amount", in.amount)
		if err != nil {
			return "", err
		}
		created, err := t.Incomes.Add(ctx, models.PassiveIncome{
			SourceType: in.sourceType,
			SourceName: in.sourceName,
			Amount:     amount,
			IncomeDate: day,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Income of %s recorded (%s)", f.Format(created.Amount), created.Id), nil

	case "fd":
		principal, err := parseAmount("amount", in.amount)
		if err != nil {
			return "", err
		}
		rate, err := parseAmount("rate", in.rate)
		if err != nil {
			return "", err
		}
		maturity, err := parseDay(in.maturity, day)
		if err != nil {
			return "", err
		}
		created, err := t.FDs.Add(ctx, store.FDDefaults(models.FDTracker{
			BankName:     in.bank,
			Principal:    principal,
			InterestRate: rate,
			StartDate:    day,
			MaturityDate: maturity,
		}))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("FD of %s created, %s at maturity on %s (%s)",
			f.Format(created.Principal), f.Format(created.MaturityAmount.Decimal), f.Date(created.MaturityDate), created.Id), nil

	default:
		value, err := parseAmount("amount", in.amount)
		if err != nil {
			return "", err
		}
		created, err := t.Assets.Add(ctx, models.FinancialAsset{
			AssetType:    in.assetType,
			Name:         in.name,
			CurrentValue: models.NullAmount(value),
			StartDate:    day,
		})
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Asset %s worth %s created (%s)", created.Name, f.Format(created.Valuation()), created.Id), nil
	}
}

func main() {
	ctx := context.Background()

	var in entryFlags
	flag.StringVar(&in.kind, "kind", "expense", "Entry kind: expense, income, fd or asset")
	flag.StringVar(&in.amount, "amount", "", "Amount, principal or current value")
	flag.StringVar(&in.date, "date", "", "Entry or start date (YYYY-MM-DD, default today)")
	flag.StringVar(&in.category, "category", models.CategoryOther, "Expense category")
	flag.StringVar(&in.description, "description", "", "Expense description")
	flag.StringVar(&in.sourceType, "source-type", models.SourceOther, "Income source type")
	flag.StringVar(&in.sourceName, "source-name", "", "Income source name")
	flag.StringVar(&in.bank, "bank", "", "FD bank name")
	flag.StringVar(&in.rate, "rate", "0", "FD interest rate in percent")
	flag.StringVar(&in.maturity, "maturity", "", "FD maturity date (YYYY-MM-DD)")
	flag.StringVar(&in.assetType, "asset-type", models.AssetOther, "Asset type")
	flag.StringVar(&in.name, "name", "", "Asset name")
	flag.Parse()

	logger, loggerCleanup := common.InitializeLogger(false)
	defer loggerCleanup()

	if err := validateKind(in.kind); err != nil {
		logger.Fatal("Invalid arguments", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := common.InitializeStoreOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}
	defer db.Close()

	t := tracker.New(db, decimal.NewFromFloat(cfg.Finance.FITarget), nil)
	f := money.NewFormatter(cfg.Finance.CurrencySymbol, cfg.Finance.Locale)

	result, err := addEntry(ctx, t, f, in)
	if err != nil {
		logger.Fatal("Failed to add entry", zap.String("kind", in.kind), zap.Error(err))
	}

	fmt.Println("✓ " + result)
}
