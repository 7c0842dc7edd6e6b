package store

import (
	"fmt"

	"fi-dashboard-go/internal/models"
)

// ValidateExpense checks the columns every backend requires before an insert.
func ValidateExpense(e models.Expense) error {
	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: expense amount must be positive, got %s", ErrInvalidRecord, e.Amount)
	}
	if e.Category == "" {
		return fmt.Errorf("%w: expense category is required", ErrInvalidRecord)
	}
	if e.ExpenseDate.IsZero() {
		return fmt.Errorf("%w: expense date is required", ErrInvalidRecord)
	}
	return nil
}

func ValidateIncome(i models.PassiveIncome) error {
	if !i.Amount.IsPositive() {
		return fmt.Errorf("%w: income amount must be positive, got %s", ErrInvalidRecord, i.Amount)
	}
	if i.SourceType == "" || i.SourceName == "" {
		return fmt.Errorf("%w: income source type and name are required", ErrInvalidRecord)
	}
	if i.IncomeDate.IsZero() {
		return fmt.Errorf("%w: income date is required", ErrInvalidRecord)
	}
	return nil
}

func ValidateFD(fd models.FDTracker) error {
	if !fd.Principal.IsPositive() {
		return fmt.Errorf("%w: fd principal must be positive, got %s", ErrInvalidRecord, fd.Principal)
	}
	if fd.InterestRate.IsNegative() {
		return fmt.Errorf("%w: fd interest rate cannot be negative", ErrInvalidRecord)
	}
	if fd.BankName == "" {
		return fmt.Errorf("%w: fd bank name is required", ErrInvalidRecord)
	}
	if fd.StartDate.IsZero() || fd.MaturityDate.IsZero() {
		return fmt.Errorf("%w: fd start and maturity dates are required", ErrInvalidRecord)
	}
	if fd.MaturityDate.Before(fd.StartDate.Time) {
		return fmt.Errorf("%w: fd matures before it starts", ErrInvalidRecord)
	}
	return nil
}

func ValidateAsset(a models.FinancialAsset) error {
	if a.AssetType == "" || a.Name == "" {
		return fmt.Errorf("%w: asset type and name are required", ErrInvalidRecord)
	}
	return nil
}

// FDDefaults fills the columns the fd_tracker table defaults server-side.
func FDDefaults(fd models.FDTracker) models.FDTracker {
	if fd.Status == "" {
		fd.Status = models.FDStatusActive
	}
	if fd.InterestPayout == "" {
		fd.InterestPayout = models.PayoutMaturity
	}
	return fd
}
