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

func (s *Service) ListIncomes(ctx context.Context, filter store.IncomeFilter) ([]models.PassiveIncome, error) {
	b := &selectBuilder{base: querySelectIncomes, order: "income_date DESC, id DESC", limit: filter.Limit}
	b.eq("user_id", s.userId)
	if !filter.StartDate.IsZero() {
		b.gte("income_date", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		b.lte("income_date", filter.EndDate)
	}
	query, args := b.build(s.dialect)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query passive income: %w", err)
	}
	defer closeRows(rows)

	var incomes []models.PassiveIncome
	for rows.Next() {
		i, err := scanIncome(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan passive income: %w", err)
		}
		incomes = append(incomes, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate passive income: %w", err)
	}
	return incomes, nil
}

func (s *Service) InsertIncome(ctx context.Context, income models.PassiveIncome) (*models.PassiveIncome, error) {
	if err := store.ValidateIncome(income); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, s.dialect.rebind(queryInsertIncome),
		newId(), s.userId, nullString(income.AssetId), income.SourceType, income.SourceName,
		income.Amount, income.IncomeDate, nullString(income.Frequency), nullString(income.Notes))

	created, err := scanIncome(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoRowReturned
		}
		return nil, fmt.Errorf("failed to insert passive income: %w", err)
	}

	zap.L().Info("Passive income recorded",
		zap.String("id", created.Id),
		zap.String("source_type", created.SourceType),
		zap.String("amount", created.Amount.String()))
	return &created, nil
}
