package tracker

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaturityWindowDays bounds the upcoming-maturity list.
const MaturityWindowDays = 90

type FDs struct {
	cache[models.FDTracker]
	store store.FinanceStore
	now   func() time.Time
}

func NewFDs(s store.FinanceStore, now func() time.Time) *FDs {
	if now == nil {
		now = time.Now
	}
	return &FDs{store: s, now: now}
}

func byMaturity(a, b models.FDTracker) int {
	return a.MaturityDate.Compare(b.MaturityDate.Time)
}

func (f *FDs) Fetch(ctx context.Context, filter store.FDFilter) (err error) {
	f.begin()
	defer func() { f.end(err) }()

	rows, err := f.store.ListFDs(ctx, filter)
	if err != nil {
		zap.L().Warn("Failed to fetch fixed deposits", zap.Error(err))
		return fmt.Errorf("failed to fetch FDs: %w", err)
	}
	f.replace(rows)
	return nil
}

// Add fills in the maturity amount when it was not supplied, stores the FD and
// keeps the cache ordered by maturity date.
func (f *FDs) Add(ctx context.Context, fd models.FDTracker) (_ *models.FDTracker, err error) {
	f.begin()
	defer func() { f.end(err) }()

	if !fd.MaturityAmount.Valid {
		fd.MaturityAmount = models.NullAmount(
			MaturityAmount(fd.Principal, fd.InterestRate, fd.StartDate, fd.MaturityDate))
	}

	created, err := f.store.InsertFD(ctx, fd)
	if err != nil {
		return nil, fmt.Errorf("failed to add FD: %w", err)
	}
	f.prepend(*created, byMaturity)
	return created, nil
}

func (f *FDs) List() []models.FDTracker {
	return f.snapshot()
}

func (f *FDs) Active() []models.FDTracker {
	return ActiveFDs(f.snapshot())
}

func (f *FDs) TotalValue() decimal.Decimal {
	return TotalFDValue(f.snapshot())
}

func (f *FDs) UpcomingMaturities() []models.FDTracker {
	return UpcomingMaturities(f.snapshot(), models.DateOf(f.now()), MaturityWindowDays)
}

func (f *FDs) DaysUntilMaturity(fd models.FDTracker) int {
	return DaysBetween(models.DateOf(f.now()), fd.MaturityDate)
}

func ActiveFDs(fds []models.FDTracker) []models.FDTracker {
	var out []models.FDTracker
	for _, fd := range fds {
		if fd.Status == models.FDStatusActive {
			out = append(out, fd)
		}
	}
	return out
}

// TotalFDValue sums the principal of the active FDs.
func TotalFDValue(fds []models.FDTracker) decimal.Decimal {
	total := decimal.Zero
	for _, fd := range ActiveFDs(fds) {
		total = total.Add(fd.Principal)
	}
	return total
}

// UpcomingMaturities returns the active FDs maturing between today and
// today+windowDays inclusive, nearest first.
func UpcomingMaturities(fds []models.FDTracker, today models.Date, windowDays int) []models.FDTracker {
	limit := today.AddDays(windowDays)
	var out []models.FDTracker
	for _, fd := range ActiveFDs(fds) {
		if fd.MaturityDate.Before(today.Time) || fd.MaturityDate.After(limit.Time) {
			continue
		}
		out = append(out, fd)
	}
	slices.SortStableFunc(out, byMaturity)
	return out
}

// DaysBetween counts calendar days from a to b; negative when b is earlier.
func DaysBetween(a, b models.Date) int {
	return int(math.Round(b.Sub(a.Time).Hours() / 24))
}

// MaturityAmount applies simple interest over the elapsed fraction of years,
// rounded to the nearest whole unit.
func MaturityAmount(principal, ratePercent decimal.Decimal, start, maturity models.Date) decimal.Decimal {
	years := decimal.NewFromFloat(YearFraction(start, maturity))
	interest := principal.Mul(ratePercent).Div(decimal.NewFromInt(100)).Mul(years)
	return principal.Add(interest).Round(0)
}

// YearFraction counts whole calendar years from start, then the remainder as a
// share of the following year's length, so 2024-01-01 to 2025-01-01 is exactly 1.
func YearFraction(start, end models.Date) float64 {
	if start.IsZero() || end.IsZero() || !end.After(start.Time) {
		return 0
	}
	years := 0
	anchor := start.Time
	for {
		next := start.AddDate(years+1, 0, 0)
		if next.After(end.Time) {
			break
		}
		years++
		anchor = next
	}
	if anchor.Equal(end.Time) {
		return float64(years)
	}
	span := anchor.AddDate(1, 0, 0).Sub(anchor).Hours()
	return float64(years) + end.Sub(anchor).Hours()/span
}
