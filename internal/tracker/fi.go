package tracker

import (
	"context"
	"fmt"
	"slices"
	"time"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// FIAggregator measures this month's passive income against the FI target.
type FIAggregator struct {
	cache[models.PassiveIncome]
	store  store.FinanceStore
	target decimal.Decimal
	now    func() time.Time
}

func NewFIAggregator(s store.FinanceStore, target decimal.Decimal, now func() time.Time) *FIAggregator {
	if now == nil {
		now = time.Now
	}
	return &FIAggregator{store: s, target: target, now: now}
}

func monthStart(t time.Time) models.Date {
	return models.NewDate(t.Year(), t.Month(), 1)
}

// Refresh reloads the income recorded since the 1st of the current month.
func (a *FIAggregator) Refresh(ctx context.Context) (err error) {
	a.begin()
	defer func() { a.end(err) }()

	rows, err := a.store.ListIncomes(ctx, store.IncomeFilter{StartDate: monthStart(a.now())})
	if err != nil {
		zap.L().Warn("Failed to fetch monthly income", zap.Error(err))
		return fmt.Errorf("failed to fetch monthly income: %w", err)
	}
	a.replace(rows)
	return nil
}

func (a *FIAggregator) Target() decimal.Decimal {
	return a.target
}

func (a *FIAggregator) Progress() models.FIProgress {
	return Compute(a.snapshot(), a.target, a.now())
}

// Compute buckets the income dated from the 1st of now's month through now
// into the five source types (unrecognised types count as other). Progress is
// capped at 100 and the gap never goes below zero.
func Compute(incomes []models.PassiveIncome, target decimal.Decimal, now time.Time) models.FIProgress {
	breakdown := make(map[string]decimal.Decimal, len(models.IncomeSourceTypes))
	for _, t := range models.IncomeSourceTypes {
		breakdown[t] = decimal.Zero
	}

	from := monthStart(now)
	today := models.DateOf(now)
	total := decimal.Zero
	for _, in := range incomes {
		if in.IncomeDate.Before(from.Time) || in.IncomeDate.After(today.Time) {
			continue
		}
		bucket := in.SourceType
		if !slices.Contains(models.IncomeSourceTypes, bucket) {
			bucket = models.SourceOther
		}
		breakdown[bucket] = breakdown[bucket].Add(in.Amount)
		total = total.Add(in.Amount)
	}

	progress := 0.0
	if target.IsPositive() {
		progress = min(total.Mul(hundred).Div(target).InexactFloat64(), 100)
	}
	gap := target.Sub(total)
	if gap.IsNegative() {
		gap = decimal.Zero
	}

	return models.FIProgress{
		MonthlyIncome:   total,
		TargetIncome:    target,
		Progress:        progress,
		Gap:             gap,
		IncomeBreakdown: breakdown,
	}
}
