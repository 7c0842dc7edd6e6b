package intent

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"fi-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
)

// Payload is one of ExpenseDraft, IncomeDraft, FDDraft or QueryDraft.
type Payload interface {
	action() Action
}

type ExpenseDraft struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
}

type IncomeDraft struct {
	Amount     decimal.Decimal `json:"amount"`
	SourceType string          `json:"source_type"`
	SourceName string          `json:"source_name"`
}

// FDDraft leaves MaturityDate zero when the utterance named none; it resolves to the save day.
type FDDraft struct {
	BankName     string          `json:"bank_name"`
	Principal    decimal.Decimal `json:"principal"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	MaturityDate models.Date     `json:"maturity_date,omitzero"`
}

type QueryDraft struct {
	QueryType QueryType `json:"query_type"`
}

func (ExpenseDraft) action() Action { return ActionAddExpense }
func (IncomeDraft) action() Action  { return ActionAddIncome }
func (FDDraft) action() Action      { return ActionAddFD }
func (QueryDraft) action() Action   { return ActionQuery }

// Expense maps the draft to a record dated today.
func (d ExpenseDraft) Expense(today models.Date) models.Expense {
	return models.Expense{
		Category:    d.Category,
		Amount:      d.Amount,
		Description: d.Description,
		ExpenseDate: today,
		IsRecurring: false,
	}
}

func (d IncomeDraft) Income(today models.Date) models.PassiveIncome {
	return models.PassiveIncome{
		SourceType: d.SourceType,
		SourceName: d.SourceName,
		Amount:     d.Amount,
		IncomeDate: today,
	}
}

// FD maps the draft to an active deposit starting today, paying out at maturity.
func (d FDDraft) FD(today models.Date) models.FDTracker {
	maturity := d.MaturityDate
	if maturity.IsZero() {
		maturity = today
	}
	return models.FDTracker{
		BankName:       d.BankName,
		Principal:      d.Principal,
		InterestRate:   d.InterestRate,
		StartDate:      today,
		MaturityDate:   maturity,
		InterestPayout: models.PayoutMaturity,
		Status:         models.FDStatusActive,
		AutoRenew:      false,
	}
}

// fields reads loosely typed model output and collects every problem found.
type fields struct {
	raw      map[string]any
	problems []string
}

func newFields(data json.RawMessage) (*fields, error) {
	f := &fields{raw: map[string]any{}}
	if len(data) == 0 || string(data) == "null" {
		return f, nil
	}
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	if err := dec.Decode(&f.raw); err != nil {
		return nil, fmt.Errorf("data is not an object: %w", err)
	}
	return f, nil
}

func (f *fields) problem(format string, args ...any) {
	f.problems = append(f.problems, fmt.Sprintf(format, args...))
}

func (f *fields) str(key, fallback string) string {
	v, ok := f.raw[key]
	if !ok || v == nil {
		return fallback
	}
	var s string
	switch t := v.(type) {
	case string:
		s = strings.TrimSpace(t)
	case json.Number:
		s = t.String()
	default:
		f.problem("%s must be text", key)
		return fallback
	}
	if s == "" {
		return fallback
	}
	return s
}

func (f *fields) decimal(key string) (decimal.Decimal, bool) {
	v, ok := f.raw[key]
	if !ok || v == nil {
		return decimal.Zero, false
	}
	var text string
	switch t := v.(type) {
	case json.Number:
		text = t.String()
	case string:
		text = strings.ReplaceAll(strings.TrimSpace(t), ",", "")
	default:
		f.problem("%s must be a number", key)
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		f.problem("%s must be a number, got %q", key, text)
		return decimal.Zero, false
	}
	return d, true
}

func (f *fields) positive(key string) decimal.Decimal {
	d, ok := f.decimal(key)
	if !ok {
		if _, present := f.raw[key]; !present {
			f.problem("%s is required", key)
		}
		return decimal.Zero
	}
	if !d.IsPositive() {
		f.problem("%s must be greater than zero", key)
	}
	return d
}

// enum lower-cases v and maps anything outside allowed to "other".
func enum(v string, allowed []string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if slices.Contains(allowed, v) {
		return v
	}
	return models.CategoryOther
}

func (f *fields) date(key string) models.Date {
	s := f.str(key, "")
	if s == "" {
		return models.Date{}
	}
	t, err := time.ParseInLocation(models.DateLayout, s, time.Local)
	if err != nil {
		f.problem("%s must be a YYYY-MM-DD date, got %q", key, s)
		return models.Date{}
	}
	return models.Date{Time: t}
}

func (p *Parser) decodePayload(action Action, data json.RawMessage) (Payload, []string, error) {
	if action == ActionUnknown {
		return nil, nil, nil
	}
	f, err := newFields(data)
	if err != nil {
		return nil, nil, err
	}

	var payload Payload
	switch action {
	case ActionAddExpense:
		payload = ExpenseDraft{
			Amount:      f.positive("amount"),
			Category:    enum(f.str("category", models.CategoryOther), p.categories),
			Description: f.str("description", ""),
		}
	case ActionAddIncome:
		payload = IncomeDraft{
			Amount:     f.positive("amount"),
			SourceType: enum(f.str("source_type", models.SourceOther), p.sourceTypes),
			SourceName: f.str("source_name", "Unknown"),
		}
	case ActionAddFD:
		rate, _ := f.decimal("interest_rate")
		if rate.IsNegative() {
			f.problem("interest_rate cannot be negative")
		}
		payload = FDDraft{
			BankName:     f.str("bank_name", "Unknown Bank"),
			Principal:    f.positive("principal"),
			InterestRate: rate,
			MaturityDate: f.date("maturity_date"),
		}
	case ActionQuery:
		payload = QueryDraft{QueryType: QueryType(strings.ToLower(f.str("query_type", "")))}
	}
	return payload, f.problems, nil
}
