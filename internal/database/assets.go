package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"go.uber.org/zap"
)

func (s *Service) ListAssets(ctx context.Context) ([]models.FinancialAsset, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(querySelectAssets), s.userId)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer closeRows(rows)

	var assets []models.FinancialAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate assets: %w", err)
	}
	return assets, nil
}

func (s *Service) InsertAsset(ctx context.Context, asset models.FinancialAsset) (*models.FinancialAsset, error) {
	if err := store.ValidateAsset(asset); err != nil {
		return nil, err
	}
	metadata, err := metadataArg(asset.Metadata)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, s.dialect.rebind(queryInsertAsset),
		newId(), s.userId, asset.AssetType, asset.Name, nullString(asset.Institution),
		asset.Principal, asset.CurrentValue, asset.InterestRate, asset.StartDate,
		asset.MaturityDate, nullString(asset.Notes), metadata)

	created, err := scanAsset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoRowReturned
		}
		return nil, fmt.Errorf("failed to insert asset: %w", err)
	}

	zap.L().Info("Asset recorded",
		zap.String("id", created.Id),
		zap.String("type", created.AssetType),
		zap.String("name", created.Name))
	return &created, nil
}
