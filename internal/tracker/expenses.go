package tracker

import (
	"context"
	"fmt"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Expenses struct {
	cache[models.Expense]
	store store.FinanceStore
}

func NewExpenses(s store.FinanceStore) *Expenses {
	return &Expenses{store: s}
}

// Fetch replaces the cache with the filtered listing. On failure the previous cache is kept.
func (e *Expenses) Fetch(ctx context.Context, filter store.ExpenseFilter) (err error) {
	e.begin()
	defer func() { e.end(err) }()

	rows, err := e.store.ListExpenses(ctx, filter)
	if err != nil {
		zap.L().Warn("Failed to fetch expenses", zap.Error(err))
		return fmt.Errorf("failed to fetch expenses: %w", err)
	}
	e.replace(rows)
	return nil
}

func (e *Expenses) Add(ctx context.Context, expense models.Expense) (_ *models.Expense, err error) {
	e.begin()
	defer func() { e.end(err) }()

	created, err := e.store.InsertExpense(ctx, expense)
	if err != nil {
		return nil, fmt.Errorf("failed to add expense: %w", err)
	}
	e.prepend(*created, nil)
	return created, nil
}

func (e *Expenses) List() []models.Expense {
	return e.snapshot()
}

// ByCategory totals the cached expenses per category.
func (e *Expenses) ByCategory() map[string]decimal.Decimal {
	return ExpensesByCategory(e.snapshot())
}

func ExpensesByCategory(expenses []models.Expense) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, e := range expenses {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}
	return totals
}

// ExpensesInMonth keeps the expenses dated in the calendar month of day.
func ExpensesInMonth(expenses []models.Expense, day models.Date) []models.Expense {
	var out []models.Expense
	for _, e := range expenses {
		if e.ExpenseDate.Year() == day.Year() && e.ExpenseDate.Month() == day.Month() {
			out = append(out, e)
		}
	}
	return out
}

func TotalExpenses(expenses []models.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}
