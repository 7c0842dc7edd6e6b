package tracker

import (
	"context"
	"fmt"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Assets struct {
	cache[models.FinancialAsset]
	store store.FinanceStore
}

func NewAssets(s store.FinanceStore) *Assets {
	return &Assets{store: s}
}

func (a *Assets) Fetch(ctx context.Context) (err error) {
	a.begin()
	defer func() { a.end(err) }()

	rows, err := a.store.ListAssets(ctx)
	if err != nil {
		zap.L().Warn("Failed to fetch assets", zap.Error(err))
		return fmt.Errorf("failed to fetch assets: %w", err)
	}
	a.replace(rows)
	return nil
}

func (a *Assets) Add(ctx context.Context, asset models.FinancialAsset) (_ *models.FinancialAsset, err error) {
	a.begin()
	defer func() { a.end(err) }()

	created, err := a.store.InsertAsset(ctx, asset)
	if err != nil {
		return nil, fmt.Errorf("failed to add asset: %w", err)
	}
	a.prepend(*created, nil)
	return created, nil
}

func (a *Assets) List() []models.FinancialAsset {
	return a.snapshot()
}

// NetWorth is the total valuation of the cached assets.
func (a *Assets) NetWorth() decimal.Decimal {
	return NetWorth(a.snapshot())
}

func (a *Assets) ByType() map[string]decimal.Decimal {
	return AssetsByType(a.snapshot())
}

func NetWorth(assets []models.FinancialAsset) decimal.Decimal {
	total := decimal.Zero
	for _, asset := range assets {
		total = total.Add(asset.Valuation())
	}
	return total
}

func AssetsByType(assets []models.FinancialAsset) map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{}
	for _, asset := range assets {
		totals[asset.AssetType] = totals[asset.AssetType].Add(asset.Valuation())
	}
	return totals
}
