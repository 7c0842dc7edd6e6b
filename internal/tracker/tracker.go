package tracker

import (
	"context"
	"time"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// RecentLimit caps the expense and income listings used for answers and dashboards.
const RecentLimit = 100

// Tracker bundles the accessors over one store.
type Tracker struct {
	Expenses *Expenses
	Incomes  *Incomes
	FDs      *FDs
	Assets   *Assets
	FI       *FIAggregator

	now func() time.Time
}

// New builds every accessor over s. A nil now uses time.Now.
func New(s store.FinanceStore, fiTarget decimal.Decimal, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		Expenses: NewExpenses(s),
		Incomes:  NewIncomes(s),
		FDs:      NewFDs(s, now),
		Assets:   NewAssets(s),
		FI:       NewFIAggregator(s, fiTarget, now),
		now:      now,
	}
}

// Today is the current calendar day on the tracker's clock.
func (t *Tracker) Today() models.Date {
	return models.DateOf(t.now())
}

// RefreshAll refetches every accessor concurrently and returns the first error
// once all of them have finished. Accessors that succeeded keep their fresh data.
func (t *Tracker) RefreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return t.Expenses.Fetch(ctx, store.ExpenseFilter{Limit: RecentLimit}) })
	g.Go(func() error { return t.Incomes.Fetch(ctx, store.IncomeFilter{Limit: RecentLimit}) })
	g.Go(func() error { return t.FDs.Fetch(ctx, store.FDFilter{}) })
	g.Go(func() error { return t.Assets.Fetch(ctx) })
	g.Go(func() error { return t.FI.Refresh(ctx) })
	return g.Wait()
}

// Dashboard derives the summary from the current caches.
func (t *Tracker) Dashboard() models.DashboardSummary {
	assets := t.Assets.List()
	fds := t.FDs.List()
	return models.DashboardSummary{
		NetWorth:           NetWorth(assets),
		AssetCount:         len(assets),
		AssetsByType:       AssetsByType(assets),
		FIProgress:         t.FI.Progress(),
		ActiveFDCount:      len(ActiveFDs(fds)),
		TotalFDValue:       TotalFDValue(fds),
		UpcomingMaturities: t.FDs.UpcomingMaturities(),
		ExpensesByCategory: t.Expenses.ByCategory(),
		IncomeByType:       t.Incomes.ByType(),
	}
}
