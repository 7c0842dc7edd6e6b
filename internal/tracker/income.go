package tracker

import (
	"context"
	"fmt"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Incomes struct {
	cache[models.PassiveIncome]
	store store.FinanceStore
}

func NewIncomes(s store.FinanceStore) *Incomes {
	return &Incomes{store: s}
}

func (i *Incomes) Fetch(ctx context.Context, filter store.IncomeFilter) (err error) {
	i.begin()
	defer func() { i.end(err) }()

	rows, err := i.store.ListIncomes(ctx, filter)
	if err != nil {
		zap.L().Warn("Failed to fetch passive income", zap.Error(err))
		return fmt.Errorf("failed to fetch income: %w", err)
	}
	i.replace(rows)
	return nil
}

func (i *Incomes) Add(ctx context.Context, income models.PassiveIncome) (_ *models.PassiveIncome, err error) {
	i.begin()
	defer func() { i.end(err) }()

	created, err := i.store.InsertIncome(ctx, income)
	if err != nil {
		return nil, fmt.Errorf("failed to add income: %w", err)
	}
	i.prepend(*created, nil)
	return created, nil
}

func (i *Incomes) List() []models.PassiveIncome {
	return i.snapshot()
}

func (i *Incomes) ByType() map[string]decimal.Decimal {
	return IncomeByType(i.snapshot())
}

// IncomeByType totals income per source_type as recorded.
func IncomeByType(incomes []models.PassiveIncome) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, in := range incomes {
		totals[in.SourceType] = totals[in.SourceType].Add(in.Amount)
	}
	return totals
}
