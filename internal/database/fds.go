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

func (s *Service) ListFDs(ctx context.Context, filter store.FDFilter) ([]models.FDTracker, error) {
	b := &selectBuilder{base: querySelectFDs, order: "maturity_date ASC, id ASC"}
	b.eq("user_id", s.userId)
	if filter.Status != "" {
		b.eq("status", filter.Status)
	}
	query, args := b.build(s.dialect)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixed deposits: %w", err)
	}
	defer closeRows(rows)

	var fds []models.FDTracker
	for rows.Next() {
		fd, err := scanFD(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixed deposit: %w", err)
		}
		fds = append(fds, fd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate fixed deposits: %w", err)
	}
	return fds, nil
}

func (s *Service) InsertFD(ctx context.Context, fd models.FDTracker) (*models.FDTracker, error) {
	if err := store.ValidateFD(fd); err != nil {
		return nil, err
	}
	fd = store.FDDefaults(fd)

	row := s.db.QueryRowContext(ctx, s.dialect.rebind(queryInsertFD),
		newId(), s.userId, fd.BankName, nullString(fd.FdNumber), fd.Principal, fd.InterestRate,
		fd.StartDate, fd.MaturityDate, fd.MaturityAmount, fd.InterestPayout, fd.Status,
		fd.AutoRenew, nullString(fd.Notes))

	created, err := scanFD(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNoRowReturned
		}
		return nil, fmt.Errorf("failed to insert fixed deposit: %w", err)
	}

	zap.L().Info("Fixed deposit recorded",
		zap.String("id", created.Id),
		zap.String("bank", created.BankName),
		zap.String("principal", created.Principal.String()),
		zap.String("maturity_date", created.MaturityDate.String()))
	return &created, nil
}
