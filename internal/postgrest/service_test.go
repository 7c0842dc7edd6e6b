package postgrest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := NewService(models.RestConfig{URL: srv.URL + "/", Key: "anon-key"}, "ram", srv.Client())
	require.NoError(t, err)
	return s
}

func TestNewServiceRequiresConfig(t *testing.T) {
	_, err := NewService(models.RestConfig{}, "ram", nil)
	assert.ErrorIs(t, err, store.ErrNotConfigured)
}

func TestListExpensesBuildsQuery(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/expenses", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))

		q := r.URL.Query()
		assert.Equal(t, "*", q.Get("select"))
		assert.Equal(t, "eq.ram", q.Get("user_id"))
		assert.Equal(t, "(expense_date.gte.2024-03-01,expense_date.lte.2024-03-31)", q.Get("and"))
		assert.Empty(t, q.Get("expense_date"))
		assert.Equal(t, "eq.food", q.Get("category"))
		assert.Equal(t, "expense_date.desc.nullslast", q.Get("order"))
		assert.Equal(t, "100", q.Get("limit"))

		_, _ = io.WriteString(w, `[{"id":"e1","user_id":"ram","category":"food","amount":500,
			"description":"lunch","expense_date":"2024-03-05","is_recurring":false,
			"tags":["office"],"created_at":"2024-03-05T10:00:00.123456+00:00"}]`)
	})

	expenses, err := s.ListExpenses(context.Background(), store.ExpenseFilter{
		Limit:     100,
		StartDate: models.NewDate(2024, time.March, 1),
		EndDate:   models.NewDate(2024, time.March, 31),
		Category:  "food",
	})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.True(t, expenses[0].Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "2024-03-05", expenses[0].ExpenseDate.String())
	assert.Equal(t, []string{"office"}, expenses[0].Tags)
}

func TestListIncomesFromStartDate(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/rest/v1/passive_income", r.URL.Path)
		assert.Equal(t, "gte.2025-06-01", q.Get("income_date"))
		assert.Empty(t, q.Get("and"))
		assert.Empty(t, q.Get("limit"))
		_, _ = io.WriteString(w, `[{"id":"i1","user_id":"ram","source_type":"rental","source_name":"Flat",
			"amount":20000,"income_date":"2025-06-05","is_recurring":true}]`)
	})

	incomes, err := s.ListIncomes(context.Background(), store.IncomeFilter{StartDate: models.NewDate(2025, time.June, 1)})
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.True(t, incomes[0].Amount.Equal(decimal.NewFromInt(20000)))
}

func TestListFDsOrdersByMaturity(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "maturity_date.asc.nullslast", r.URL.Query().Get("order"))
		assert.Equal(t, "eq.active", r.URL.Query().Get("status"))
		_, _ = io.WriteString(w, `[]`)
	})

	fds, err := s.ListFDs(context.Background(), store.FDFilter{Status: models.FDStatusActive})
	require.NoError(t, err)
	assert.Empty(t, fds)
}

func TestInsertFDReturnsRepresentation(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/fd_tracker", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ram", body["user_id"])
		assert.Equal(t, "active", body["status"])
		assert.Equal(t, "2025-01-01", body["maturity_date"])
		assert.NotContains(t, body, "id")
		assert.NotContains(t, body, "created_at")

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `[{"id":"fd1","user_id":"ram","bank_name":"SBI","principal":100000,
			"interest_rate":7,"start_date":"2024-01-01","maturity_date":"2025-01-01",
			"maturity_amount":107000,"interest_payout":"maturity","status":"active","auto_renew":false}]`)
	})

	created, err := s.InsertFD(context.Background(), models.FDTracker{
		BankName:       "SBI",
		Principal:      decimal.NewFromInt(100000),
		InterestRate:   decimal.NewFromInt(7),
		StartDate:      models.NewDate(2024, time.January, 1),
		MaturityDate:   models.NewDate(2025, time.January, 1),
		MaturityAmount: models.NullAmount(decimal.NewFromInt(107000)),
	})
	require.NoError(t, err)
	assert.Equal(t, "fd1", created.Id)
	assert.True(t, created.MaturityAmount.Valid)
	assert.True(t, created.MaturityAmount.Decimal.Equal(decimal.NewFromInt(107000)))
}

func TestInsertSurfacesAPIError(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"message":"new row violates check constraint","code":"23514"}`)
	})

	_, err := s.InsertExpense(context.Background(), models.Expense{
		Category: "food", Amount: decimal.NewFromInt(10), ExpenseDate: models.Today(),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, store.ErrInvalidRecord)
	assert.Contains(t, err.Error(), "failed to insert into expenses")
	assert.Contains(t, err.Error(), "check constraint")
	assert.Contains(t, err.Error(), "23514")
}

func TestInsertRejectsInvalidBeforeNetwork(t *testing.T) {
	called := false
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	_, err := s.InsertIncome(context.Background(), models.PassiveIncome{SourceType: "dividend", SourceName: "ITC"})
	assert.ErrorIs(t, err, store.ErrInvalidRecord)
	assert.False(t, called)
}

func TestInsertWithoutRowReturned(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[]`)
	})

	_, err := s.InsertAsset(context.Background(), models.FinancialAsset{AssetType: "stock", Name: "Infosys"})
	assert.ErrorIs(t, err, store.ErrNoRowReturned)
}

func TestPingSelectsOneRow(t *testing.T) {
	s := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/expenses", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `[]`)
	})

	assert.NoError(t, s.Ping(context.Background()))
}

func TestRequestsHonourContextAndTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	s, err := NewService(models.RestConfig{URL: srv.URL, Key: "anon-key"}, "ram", srv.Client())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = s.ListAssets(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	client := srv.Client()
	client.Timeout = 50 * time.Millisecond
	s, err = NewService(models.RestConfig{URL: srv.URL, Key: "anon-key"}, "ram", client)
	require.NoError(t, err)
	_, err = s.ListFDs(context.Background(), store.FDFilter{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
