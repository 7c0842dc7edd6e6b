package postgrest

import (
	"context"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	supa "github.com/supabase-community/postgrest-go"
)

var (
	newestFirst = &supa.OrderOpts{Ascending: false}
	oldestFirst = &supa.OrderOpts{Ascending: true}
)

func (s *Service) ListExpenses(ctx context.Context, filter store.ExpenseFilter) ([]models.Expense, error) {
	var expenses []models.Expense
	err := s.list(ctx, store.TableExpenses, &expenses, func(q *supa.FilterBuilder) *supa.FilterBuilder {
		q = between(q, "expense_date", filter.StartDate, filter.EndDate)
		if filter.Category != "" {
			q = q.Eq("category", filter.Category)
		}
		return limit(q.Order("expense_date", newestFirst), filter.Limit)
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func (s *Service) InsertExpense(ctx context.Context, expense models.Expense) (*models.Expense, error) {
	if err := store.ValidateExpense(expense); err != nil {
		return nil, err
	}
	expense.Id = ""
	expense.UserId = s.userId

	created, err := insert(ctx, s, store.TableExpenses, expense)
	if err != nil {
		return nil, err
	}
	if created.Id == "" {
		return nil, store.ErrNoRowReturned
	}
	return created, nil
}

func (s *Service) ListIncomes(ctx context.Context, filter store.IncomeFilter) ([]models.PassiveIncome, error) {
	var incomes []models.PassiveIncome
	err := s.list(ctx, store.TablePassiveIncome, &incomes, func(q *supa.FilterBuilder) *supa.FilterBuilder {
		q = between(q, "income_date", filter.StartDate, filter.EndDate)
		return limit(q.Order("income_date", newestFirst), filter.Limit)
	})
	if err != nil {
		return nil, err
	}
	return incomes, nil
}

func (s *Service) InsertIncome(ctx context.Context, income models.PassiveIncome) (*models.PassiveIncome, error) {
	if err := store.ValidateIncome(income); err != nil {
		return nil, err
	}
	income.Id = ""
	income.UserId = s.userId

	created, err := insert(ctx, s, store.TablePassiveIncome, income)
	if err != nil {
		return nil, err
	}
	if created.Id == "" {
		return nil, store.ErrNoRowReturned
	}
	return created, nil
}

func (s *Service) ListFDs(ctx context.Context, filter store.FDFilter) ([]models.FDTracker, error) {
	var fds []models.FDTracker
	err := s.list(ctx, store.TableFDTracker, &fds, func(q *supa.FilterBuilder) *supa.FilterBuilder {
		if filter.Status != "" {
			q = q.Eq("status", filter.Status)
		}
		return q.Order("maturity_date", oldestFirst)
	})
	if err != nil {
		return nil, err
	}
	return fds, nil
}

func (s *Service) InsertFD(ctx context.Context, fd models.FDTracker) (*models.FDTracker, error) {
	if err := store.ValidateFD(fd); err != nil {
		return nil, err
	}
	fd = store.FDDefaults(fd)
	fd.Id = ""
	fd.UserId = s.userId

	created, err := insert(ctx, s, store.TableFDTracker, fd)
	if err != nil {
		return nil, err
	}
	if created.Id == "" {
		return nil, store.ErrNoRowReturned
	}
	return created, nil
}

func (s *Service) ListAssets(ctx context.Context) ([]models.FinancialAsset, error) {
	var assets []models.FinancialAsset
	err := s.list(ctx, store.TableAssets, &assets, func(q *supa.FilterBuilder) *supa.FilterBuilder {
		return q.Order("created_at", newestFirst)
	})
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (s *Service) InsertAsset(ctx context.Context, asset models.FinancialAsset) (*models.FinancialAsset, error) {
	if err := store.ValidateAsset(asset); err != nil {
		return nil, err
	}
	asset.Id = ""
	asset.UserId = s.userId

	created, err := insert(ctx, s, store.TableAssets, asset)
	if err != nil {
		return nil, err
	}
	if created.Id == "" {
		return nil, store.ErrNoRowReturned
	}
	return created, nil
}
