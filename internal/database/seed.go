package database

import (
	"context"
	"fmt"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SeedSampleData inserts a small portfolio when the user has no FDs and no assets yet.
func (s *Service) SeedSampleData(ctx context.Context) error {
	fds, err := s.ListFDs(ctx, store.FDFilter{})
	if err != nil {
		return err
	}
	assets, err := s.ListAssets(ctx)
	if err != nil {
		return err
	}
	if len(fds) > 0 || len(assets) > 0 {
		zap.L().Debug("Sample data skipped, user already has records", zap.String("user_id", s.userId))
		return nil
	}

	today := models.Today()
	monthStart := models.NewDate(today.Year(), today.Month(), 1)

	for _, fd := range []models.FDTracker{
		{BankName: "SBI", Principal: decimal.NewFromInt(500000), InterestRate: decimal.RequireFromString("7.1"),
			StartDate: today.AddDays(-300), MaturityDate: today.AddDays(65)},
		{BankName: "HDFC Bank", Principal: decimal.NewFromInt(300000), InterestRate: decimal.RequireFromString("7.25"),
			StartDate: today.AddDays(-120), MaturityDate: today.AddDays(610)},
	} {
		if _, err := s.InsertFD(ctx, fd); err != nil {
			return fmt.Errorf("failed to seed fd: %w", err)
		}
	}

	for _, a := range []models.FinancialAsset{
		{AssetType: models.AssetMutualFund, Name: "Nifty 50 Index Fund", Institution: "UTI",
			Principal: models.NullAmount(decimal.NewFromInt(400000)), CurrentValue: models.NullAmount(decimal.NewFromInt(465000))},
		{AssetType: models.AssetRental, Name: "Chennai Flat", Principal: models.NullAmount(decimal.NewFromInt(4500000))},
	} {
		if _, err := s.InsertAsset(ctx, a); err != nil {
			return fmt.Errorf("failed to seed asset: %w", err)
		}
	}

	for _, i := range []models.PassiveIncome{
		{SourceType: models.SourceRental, SourceName: "Chennai Flat", Amount: decimal.NewFromInt(18000),
			IncomeDate: monthStart, Frequency: models.FrequencyMonthly},
		{SourceType: models.SourceFDInterest, SourceName: "SBI", Amount: decimal.NewFromInt(2950),
			IncomeDate: monthStart, Frequency: models.FrequencyMonthly},
	} {
		if _, err := s.InsertIncome(ctx, i); err != nil {
			return fmt.Errorf("failed to seed income: %w", err)
		}
	}

	for _, e := range []models.Expense{
		{Category: models.CategoryFood, Amount: decimal.NewFromInt(450), Description: "groceries", ExpenseDate: today},
		{Category: models.CategoryUtilities, Amount: decimal.NewFromInt(1800), Description: "electricity bill", ExpenseDate: monthStart},
	} {
		if _, err := s.InsertExpense(ctx, e); err != nil {
			return fmt.Errorf("failed to seed expense: %w", err)
		}
	}

	zap.L().Info("Seeded sample data", zap.String("user_id", s.userId))
	return nil
}
