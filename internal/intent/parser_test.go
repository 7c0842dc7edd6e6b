package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"fi-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply   string
	err     error
	calls   int
	system  string
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, system, prompt string) (string, error) {
	f.calls++
	f.system = system
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func TestParseNotConfigured(t *testing.T) {
	in := NewParser(nil).Parse(context.Background(), "spent 500 on lunch")

	assert.Equal(t, ActionUnknown, in.Action)
	assert.Zero(t, in.Confidence)
	assert.Equal(t, NotConfiguredMessage, in.Message)
}

func TestParseProseWithoutJSON(t *testing.T) {
	gen := &fakeGenerator{reply: "I am not sure what you mean, could you rephrase?"}
	in := NewParser(gen).Parse(context.Background(), "hmm")

	assert.Equal(t, ActionUnknown, in.Action)
	assert.Zero(t, in.Confidence)
	assert.NotEmpty(t, in.Message)
	assert.Nil(t, in.Payload)
}

func TestParseRemoteFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	in := NewParser(gen).Parse(context.Background(), "spent 500")

	assert.Equal(t, ActionUnknown, in.Action)
	assert.Zero(t, in.Confidence)
	assert.Contains(t, in.Message, "quota exceeded")
}

func TestParseExpenseFromFencedBlock(t *testing.T) {
	gen := &fakeGenerator{reply: "Sure!\n```json\n" +
		`{"action":"add_expense","data":{"amount":500,"category":"Food","description":"groceries"},"confidence":0.95,"message":"Recording Rs 500 expense."}` +
		"\n```\nAnything else?"}
	p := NewParser(gen)
	in := p.Parse(context.Background(), "Spent 500 on groceries")

	require.Equal(t, ActionAddExpense, in.Action)
	assert.Equal(t, 0.95, in.Confidence)
	assert.Equal(t, "Recording Rs 500 expense.", in.Message)
	assert.Equal(t, systemPrompt, gen.system)
	assert.Equal(t, []string{"User: Spent 500 on groceries"}, gen.prompts)

	draft, ok := in.Expense()
	require.True(t, ok)
	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, "food", draft.Category)
	assert.Equal(t, "groceries", draft.Description)
}

func TestParseBareObjectInProse(t *testing.T) {
	gen := &fakeGenerator{reply: `Here you go: {"action":"query","data":{"query_type":"net_worth"}} hope that helps`}
	in := NewParser(gen).Parse(context.Background(), "what's my net worth")

	require.Equal(t, ActionQuery, in.Action)
	q, ok := in.Query()
	require.True(t, ok)
	assert.Equal(t, QueryNetWorth, q.QueryType)
	assert.Equal(t, defaultConfidence, in.Confidence)
	assert.Equal(t, gen.reply, in.Message)
}

func TestParseDefaultsAndNormalisation(t *testing.T) {
	gen := &fakeGenerator{reply: `{"action":"add_income","data":{"amount":"10,000","source_type":"salary"},"confidence":0.8,"message":"ok"}`}
	in := NewParser(gen).Parse(context.Background(), "got 10000")

	draft, ok := in.Income()
	require.True(t, ok)
	assert.True(t, draft.Amount.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, models.SourceOther, draft.SourceType)
	assert.Equal(t, "Unknown", draft.SourceName)
}

func TestParseFDDraft(t *testing.T) {
	gen := &fakeGenerator{reply: `{"action":"add_fd","data":{"principal":100000,"interest_rate":7.1,"maturity_date":"2026-03-31"},"confidence":0.9,"message":"Creating FD"}`}
	in := NewParser(gen).Parse(context.Background(), "fd 1 lakh")

	draft, ok := in.FD()
	require.True(t, ok)
	assert.Equal(t, "Unknown Bank", draft.BankName)
	assert.Equal(t, "2026-03-31", draft.MaturityDate.String())

	today := models.NewDate(2025, time.June, 1)
	fd := draft.FD(today)
	assert.Equal(t, today, fd.StartDate)
	assert.Equal(t, models.FDStatusActive, fd.Status)
	assert.Equal(t, models.PayoutMaturity, fd.InterestPayout)
	assert.True(t, fd.InterestRate.Equal(decimal.RequireFromString("7.1")))

	noDate := FDDraft{BankName: "SBI", Principal: decimal.NewFromInt(1000)}
	assert.Equal(t, today, noDate.FD(today).MaturityDate)
}

func TestParseRejectsInvalidPayload(t *testing.T) {
	cases := map[string]string{
		"negative amount":   `{"action":"add_expense","data":{"amount":-20,"category":"food"},"confidence":0.9}`,
		"missing amount":    `{"action":"add_expense","data":{"category":"food"},"confidence":0.9}`,
		"word amount":       `{"action":"add_income","data":{"amount":"lots"},"confidence":0.9}`,
		"bad maturity date": `{"action":"add_fd","data":{"principal":5000,"maturity_date":"March 2026"},"confidence":0.9}`,
		"boolean principal": `{"action":"add_fd","data":{"principal":true},"confidence":0.9}`,
	}
	for name, reply := range cases {
		t.Run(name, func(t *testing.T) {
			in := NewParser(&fakeGenerator{reply: reply}).Parse(context.Background(), "x")

			assert.Equal(t, ActionUnknown, in.Action)
			assert.Zero(t, in.Confidence)
			assert.True(t, in.Invalid)
			assert.NotEmpty(t, in.Problems)
			assert.Nil(t, in.Payload)
		})
	}
}

func TestParseUnrecognisedAction(t *testing.T) {
	gen := &fakeGenerator{reply: `{"action":"delete_everything","data":"nope","confidence":0.7,"message":"Hello there"}`}
	in := NewParser(gen).Parse(context.Background(), "hi")

	assert.Equal(t, ActionUnknown, in.Action)
	assert.False(t, in.Invalid)
	assert.Equal(t, "Hello there", in.Message)
}

func TestParseWithCustomCategories(t *testing.T) {
	gen := &fakeGenerator{reply: `{"action":"add_expense","data":{"amount":50,"category":"pets"}}`}
	in := NewParser(gen, WithCategories([]string{"pets", "other"})).Parse(context.Background(), "dog food 50")

	draft, ok := in.Expense()
	require.True(t, ok)
	assert.Equal(t, "pets", draft.Category)
}

func TestGenerateResponse(t *testing.T) {
	gen := &fakeGenerator{reply: "You're doing great."}
	p := NewParser(gen)

	assert.Equal(t, "You're doing great.", p.GenerateResponse(context.Background(), "Net Worth: Rs 5", "how am I doing?"))
	assert.Empty(t, gen.system)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Net Worth: Rs 5")
	assert.Contains(t, gen.prompts[0], "User's question: how am I doing?")

	gen.err = errors.New("timeout")
	assert.Equal(t, "Sorry, I encountered an error: timeout", p.GenerateResponse(context.Background(), "", "?"))

	assert.Equal(t, NotConfiguredMessage, NewParser(nil).GenerateResponse(context.Background(), "", "?"))
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":{"b":2}}`, extractJSON(`x {"a":{"b":2}} y`))
	assert.Equal(t, "no braces", extractJSON("no braces"))
}
