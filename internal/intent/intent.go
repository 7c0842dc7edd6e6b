package intent

import (
	"strings"
)

type Action string

const (
	ActionAddExpense Action = "add_expense"
	ActionAddIncome  Action = "add_income"
	ActionAddFD      Action = "add_fd"
	ActionQuery      Action = "query"
	ActionUnknown    Action = "unknown"
)

// IsAdd reports whether the action writes a record and needs confirmation.
func (a Action) IsAdd() bool {
	return a == ActionAddExpense || a == ActionAddIncome || a == ActionAddFD
}

func parseAction(s string) Action {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionAddExpense, ActionAddIncome, ActionAddFD, ActionQuery:
		return a
	default:
		return ActionUnknown
	}
}

type QueryType string

const (
	QueryNetWorth   QueryType = "net_worth"
	QueryExpenses   QueryType = "expenses"
	QueryIncome     QueryType = "income"
	QueryFDMaturity QueryType = "fd_maturity"
	QueryFIProgress QueryType = "fi_progress"
)

// Intent is the typed reading of one utterance. Payload holds the variant
// matching Action and is nil for unknown.
type Intent struct {
	Action     Action   `json:"action"`
	Payload    Payload  `json:"data,omitempty"`
	Confidence float64  `json:"confidence"`
	Message    string   `json:"message,omitempty"`
	Invalid    bool     `json:"invalid,omitempty"`
	Problems   []string `json:"problems,omitempty"`
}

// Expense returns the expense draft, if any.
func (i Intent) Expense() (ExpenseDraft, bool) {
	d, ok := i.Payload.(ExpenseDraft)
	return d, ok
}

func (i Intent) Income() (IncomeDraft, bool) {
	d, ok := i.Payload.(IncomeDraft)
	return d, ok
}

func (i Intent) FD() (FDDraft, bool) {
	d, ok := i.Payload.(FDDraft)
	return d, ok
}

func (i Intent) Query() (QueryDraft, bool) {
	d, ok := i.Payload.(QueryDraft)
	return d, ok
}

func unknown(message string) Intent {
	return Intent{Action: ActionUnknown, Confidence: 0, Message: message}
}
