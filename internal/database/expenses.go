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

func (s *Service) ListExpenses(ctx context.Context, filter store.ExpenseFilter) ([]models.Expense, error) {
	b := &selectBuilder{base: querySelectExpenses, order: "expense_date DESC, id DESC", limit: filter.Limit}
	b.eq("user_id", s.userId)
	if !filter.StartDate.IsZero() {
		b.gte("expense_date", filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		b.lte("expense_date", filter.EndDate)
	}
	if filter.Category != "" {
		b.eq("category", filter.Category)
	}
	query, args := b.build(s.dialect)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer closeRows(rows)

	var expenses []models.Expense
	for rows.Next() {
		e, err := s.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func (s *Service) InsertExpense(ctx context.Context, expense models.Expense) (*models.Expense, error) {
	if err := store.ValidateExpense(expense); err != nil {
		return nil, err
	}
	tags, err := s.tagsArg(expense.Tags)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, s.dialect.rebind(queryInsertExpense),
		newId(), s.userId, expense.Category, nullString(expense.Subcategory), expense.Amount,
		expense.Description, expense.ExpenseDate, nullString(expense.PaymentMethod),
		expense.IsRecurring, tags)

	created, err := s.scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoRowReturned
		}
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	zap.L().Info("Expense recorded",
		zap.String("id", created.Id),
		zap.String("category", created.Category),
		zap.String("amount", created.Amount.String()))
	return &created, nil
}
