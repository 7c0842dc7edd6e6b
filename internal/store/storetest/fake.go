// Package storetest provides an in-memory store.FinanceStore for tests.
package storetest

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"
)

// Compile-time check: *Fake must satisfy store.FinanceStore.
var _ store.FinanceStore = (*Fake)(nil)

// Fake keeps rows in memory and mimics the ordering and filters of the real backends.
// Setting ListErr or InsertErr makes the matching calls fail.
type Fake struct {
	mu sync.Mutex

	UserId   string
	Expenses []models.Expense
	Incomes  []models.PassiveIncome
	FDs      []models.FDTracker
	Assets   []models.FinancialAsset

	ListErr   error
	InsertErr error

	ListCalls   int
	InsertCalls int
	seq         int
}

func New() *Fake {
	return &Fake{UserId: "tester"}
}

func (f *Fake) nextId(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func inRange(d, start, end models.Date) bool {
	if !start.IsZero() && d.Before(start.Time) {
		return false
	}
	if !end.IsZero() && d.After(end.Time) {
		return false
	}
	return true
}

func (f *Fake) ListExpenses(_ context.Context, filter store.ExpenseFilter) ([]models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	var out []models.Expense
	for _, e := range f.Expenses {
		if !inRange(e.ExpenseDate, filter.StartDate, filter.EndDate) {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b models.Expense) int { return b.ExpenseDate.Compare(a.ExpenseDate.Time) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *Fake) InsertExpense(_ context.Context, e models.Expense) (*models.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertCalls++
	if f.InsertErr != nil {
		return nil, f.InsertErr
	}
	if err := store.ValidateExpense(e); err != nil {
		return nil, err
	}
	e.Id = f.nextId("exp")
	e.UserId = f.UserId
	e.CreatedAt = time.Now()
	f.Expenses = append(f.Expenses, e)
	return &e, nil
}

func (f *Fake) ListIncomes(_ context.Context, filter store.IncomeFilter) ([]models.PassiveIncome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	var out []models.PassiveIncome
	for _, i := range f.Incomes {
		if inRange(i.IncomeDate, filter.StartDate, filter.EndDate) {
			out = append(out, i)
		}
	}
	slices.SortStableFunc(out, func(a, b models.PassiveIncome) int { return b.IncomeDate.Compare(a.IncomeDate.Time) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *Fake) InsertIncome(_ context.Context, i models.PassiveIncome) (*models.PassiveIncome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertCalls++
	if f.InsertErr != nil {
		return nil, f.InsertErr
	}
	if err := store.ValidateIncome(i); err != nil {
		return nil, err
	}
	i.Id = f.nextId("inc")
	i.UserId = f.UserId
	i.CreatedAt = time.Now()
	f.Incomes = append(f.Incomes, i)
	return &i, nil
}

func (f *Fake) ListFDs(_ context.Context, filter store.FDFilter) ([]models.FDTracker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	var out []models.FDTracker
	for _, fd := range f.FDs {
		if filter.Status == "" || fd.Status == filter.Status {
			out = append(out, fd)
		}
	}
	slices.SortStableFunc(out, func(a, b models.FDTracker) int { return a.MaturityDate.Compare(b.MaturityDate.Time) })
	return out, nil
}

func (f *Fake) InsertFD(_ context.Context, fd models.FDTracker) (*models.FDTracker, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertCalls++
	if f.InsertErr != nil {
		return nil, f.InsertErr
	}
	if err := store.ValidateFD(fd); err != nil {
		return nil, err
	}
	fd = store.FDDefaults(fd)
	fd.Id = f.nextId("fd")
	fd.UserId = f.UserId
	fd.CreatedAt = time.Now()
	f.FDs = append(f.FDs, fd)
	return &fd, nil
}

func (f *Fake) ListAssets(_ context.Context) ([]models.FinancialAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := slices.Clone(f.Assets)
	slices.Reverse(out)
	return out, nil
}

func (f *Fake) InsertAsset(_ context.Context, a models.FinancialAsset) (*models.FinancialAsset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.InsertCalls++
	if f.InsertErr != nil {
		return nil, f.InsertErr
	}
	if err := store.ValidateAsset(a); err != nil {
		return nil, err
	}
	a.Id = f.nextId("asset")
	a.UserId = f.UserId
	a.CreatedAt = time.Now()
	f.Assets = append(f.Assets, a)
	return &a, nil
}

func (f *Fake) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListErr
}

func (f *Fake) Close() {}
