package store

import (
	"context"
	"errors"

	"fi-dashboard-go/internal/models"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrNotConfigured = errors.New("data store not configured")
	ErrNoRowReturned = errors.New("insert returned no row")
	ErrInvalidRecord = errors.New("invalid record")
)

// Logical table names, shared by every backend.
const (
	TableExpenses      = "expenses"
	TablePassiveIncome = "passive_income"
	TableFDTracker     = "fd_tracker"
	TableAssets        = "financial_assets"
)

// ExpenseFilter narrows an expense listing. Zero values mean "no constraint".
type ExpenseFilter struct {
	Limit     int
	StartDate models.Date
	EndDate   models.Date
	Category  string
}

// IncomeFilter narrows a passive income listing.
type IncomeFilter struct {
	Limit     int
	StartDate models.Date
	EndDate   models.Date
}

// FDFilter narrows an FD listing.
type FDFilter struct {
	Status string
}

// FinanceStore defines the contract that every backend (REST, Postgres, SQLite) must satisfy.
// Every call is scoped to the single user the backend was constructed for.
type FinanceStore interface {
	// --- Expenses --- newest expense_date first
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)
	InsertExpense(ctx context.Context, expense models.Expense) (*models.Expense, error)

	// --- Passive income --- newest income_date first
	ListIncomes(ctx context.Context, filter IncomeFilter) ([]models.PassiveIncome, error)
	InsertIncome(ctx context.Context, income models.PassiveIncome) (*models.PassiveIncome, error)

	// --- Fixed deposits --- nearest maturity_date first
	ListFDs(ctx context.Context, filter FDFilter) ([]models.FDTracker, error)
	InsertFD(ctx context.Context, fd models.FDTracker) (*models.FDTracker, error)

	// --- Assets --- newest created_at first
	ListAssets(ctx context.Context) ([]models.FinancialAsset, error)
	InsertAsset(ctx context.Context, asset models.FinancialAsset) (*models.FinancialAsset, error)

	// --- Lifecycle ---
	Ping(ctx context.Context) error
	Close()
}
