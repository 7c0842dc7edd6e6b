package chat

import (
	"fmt"
	"sort"
	"strings"

	"fi-dashboard-go/internal/intent"
	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/tracker"

	"github.com/shopspring/decimal"
)

const topCategories = 5

// answer formats a reply to a query from the current caches. Unrecognised
// query types get the financial summary.
func (o *Orchestrator) answer(q intent.QueryType) string {
	switch q {
	case intent.QueryNetWorth:
		assets := o.tracker.Assets.List()
		worth := tracker.NetWorth(assets)
		return fmt.Sprintf("Your current net worth is %s.\n\nThis includes %d assets with total value of %s.",
			o.money.Format(worth), len(assets), o.money.Format(worth))

	case intent.QueryExpenses:
		thisMonth := tracker.ExpensesInMonth(o.tracker.Expenses.List(), o.tracker.Today())
		return fmt.Sprintf("This month's expenses: %s\n\nTop categories:\n%s",
			o.money.Format(tracker.TotalExpenses(thisMonth)), o.expenseBreakdown(thisMonth))

	case intent.QueryIncome:
		p := o.tracker.FI.Progress()
		return fmt.Sprintf("Monthly passive income: %s\n\nBreakdown:\n%s",
			o.money.Format(p.MonthlyIncome), o.incomeBreakdown(p.IncomeBreakdown))

	case intent.QueryFDMaturity:
		upcoming := o.tracker.FDs.UpcomingMaturities()
		if len(upcoming) == 0 {
			return fmt.Sprintf("No FDs maturing in the next %d days.", tracker.MaturityWindowDays)
		}
		lines := make([]string, len(upcoming))
		for i, fd := range upcoming {
			lines[i] = fmt.Sprintf("- %s: %s on %s", fd.BankName, o.money.Format(fd.Principal), o.money.Date(fd.MaturityDate))
		}
		return "Upcoming FD Maturities:\n" + strings.Join(lines, "\n")

	case intent.QueryFIProgress:
		p := o.tracker.FI.Progress()
		return fmt.Sprintf("FI Progress: %s\n\nMonthly Income: %s\nTarget: %s\nGap: %s",
			o.money.Percent(p.Progress), o.money.Format(p.MonthlyIncome),
			o.money.Format(p.TargetIncome), o.money.Format(p.Gap))

	default:
		return o.summary()
	}
}

// summary is the context handed to the model for conversational replies.
func (o *Orchestrator) summary() string {
	p := o.tracker.FI.Progress()
	return fmt.Sprintf("User's Financial Summary:\n"+
		"- Net Worth: %s\n"+
		"- Monthly Passive Income: %s\n"+
		"- FI Target: %s/month\n"+
		"- FI Progress: %s\n"+
		"- Active FDs: %d (%s)",
		o.money.Format(o.tracker.Assets.NetWorth()),
		o.money.Format(p.MonthlyIncome),
		o.money.Format(p.TargetIncome),
		o.money.Percent(p.Progress),
		len(o.tracker.FDs.Active()),
		o.money.Format(o.tracker.FDs.TotalValue()))
}

type categoryTotal struct {
	name  string
	total decimal.Decimal
}

func (o *Orchestrator) expenseBreakdown(expenses []models.Expense) string {
	var totals []categoryTotal
	for name, total := range tracker.ExpensesByCategory(expenses) {
		totals = append(totals, categoryTotal{name, total})
	}
	if len(totals) == 0 {
		return "No expenses recorded this month."
	}
	sort.Slice(totals, func(i, j int) bool {
		if c := totals[i].total.Cmp(totals[j].total); c != 0 {
			return c > 0
		}
		return totals[i].name < totals[j].name
	})
	if len(totals) > topCategories {
		totals = totals[:topCategories]
	}

	lines := make([]string, len(totals))
	for i, c := range totals {
		lines[i] = fmt.Sprintf("- %s: %s", c.name, o.money.Format(c.total))
	}
	return strings.Join(lines, "\n")
}

func (o *Orchestrator) incomeBreakdown(breakdown map[string]decimal.Decimal) string {
	var lines []string
	for _, sourceType := range models.IncomeSourceTypes {
		amount := breakdown[sourceType]
		if !amount.IsPositive() {
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", strings.ReplaceAll(sourceType, "_", " "), o.money.Format(amount)))
	}
	if len(lines) == 0 {
		return "No income recorded this month."
	}
	return strings.Join(lines, "\n")
}

// restate describes an add intent when the model sent no message of its own.
func (o *Orchestrator) restate(in intent.Intent) string {
	switch p := in.Payload.(type) {
	case intent.ExpenseDraft:
		what := p.Description
		if what == "" {
			what = p.Category
		}
		return fmt.Sprintf("I'll record an expense of %s for %s.", o.money.Format(p.Amount), what)
	case intent.IncomeDraft:
		return fmt.Sprintf("I'll record income of %s from %s.", o.money.Format(p.Amount), p.SourceName)
	case intent.FDDraft:
		return fmt.Sprintf("I'll create an FD in %s for %s at %s%%.",
			p.BankName, o.money.Format(p.Principal), p.InterestRate.String())
	default:
		return "Ready to save this entry."
	}
}
