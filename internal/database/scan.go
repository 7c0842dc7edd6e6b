package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"fi-dashboard-go/internal/models"

	"github.com/lib/pq"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// tagsArg encodes tags as text[] on Postgres and as a JSON array on SQLite.
func (s *Service) tagsArg(tags []string) (any, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	if s.dialect == DialectPostgres {
		return pq.Array(tags), nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(raw), nil
}

func metadataArg(metadata map[string]any) (any, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return string(raw), nil
}

func (s *Service) scanExpense(row rowScanner) (models.Expense, error) {
	var (
		e                                 models.Expense
		subcategory, description, payment sql.NullString
		createdAt                         sql.NullTime
		tagsText                          sql.NullString
		tags                              []string
	)

	var tagsDest any = &tagsText
	if s.dialect == DialectPostgres {
		tagsDest = pq.Array(&tags)
	}

	err := row.Scan(&e.Id, &e.UserId, &e.Category, &subcategory, &e.Amount, &description,
		&e.ExpenseDate, &payment, &e.IsRecurring, tagsDest, &createdAt)
	if err != nil {
		return e, err
	}

	if tagsText.Valid && tagsText.String != "" {
		if err := json.Unmarshal([]byte(tagsText.String), &tags); err != nil {
			return e, fmt.Errorf("failed to decode tags: %w", err)
		}
	}

	e.Subcategory = subcategory.String
	e.Description = description.String
	e.PaymentMethod = payment.String
	e.Tags = tags
	e.CreatedAt = createdAt.Time
	return e, nil
}

func scanIncome(row rowScanner) (models.PassiveIncome, error) {
	var (
		i                    models.PassiveIncome
		assetId, freq, notes sql.NullString
		createdAt            sql.NullTime
	)
	err := row.Scan(&i.Id, &i.UserId, &assetId, &i.SourceType, &i.SourceName, &i.Amount,
		&i.IncomeDate, &freq, &notes, &createdAt)
	if err != nil {
		return i, err
	}
	i.AssetId = assetId.String
	i.Frequency = freq.String
	i.Notes = notes.String
	i.CreatedAt = createdAt.Time
	return i, nil
}

func scanFD(row rowScanner) (models.FDTracker, error) {
	var (
		fd              models.FDTracker
		fdNumber, notes sql.NullString
		createdAt       sql.NullTime
	)
	err := row.Scan(&fd.Id, &fd.UserId, &fd.BankName, &fdNumber, &fd.Principal, &fd.InterestRate,
		&fd.StartDate, &fd.MaturityDate, &fd.MaturityAmount, &fd.InterestPayout, &fd.Status,
		&fd.AutoRenew, &notes, &createdAt)
	if err != nil {
		return fd, err
	}
	fd.FdNumber = fdNumber.String
	fd.Notes = notes.String
	fd.CreatedAt = createdAt.Time
	return fd, nil
}

func scanAsset(row rowScanner) (models.FinancialAsset, error) {
	var (
		a                    models.FinancialAsset
		institution, notes   sql.NullString
		metadata             []byte
		createdAt, updatedAt sql.NullTime
	)
	err := row.Scan(&a.Id, &a.UserId, &a.AssetType, &a.Name, &institution, &a.Principal,
		&a.CurrentValue, &a.InterestRate, &a.StartDate, &a.MaturityDate, &notes, &metadata,
		&createdAt, &updatedAt)
	if err != nil {
		return a, err
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &a.Metadata); err != nil {
			return a, fmt.Errorf("failed to decode asset metadata: %w", err)
		}
	}
	a.Institution = institution.String
	a.Notes = notes.String
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return a, nil
}
