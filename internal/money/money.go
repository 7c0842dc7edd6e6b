package money

import (
	"fmt"

	"fi-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	DefaultSymbol = "Rs"
	DefaultLocale = "en-IN"
)

// Formatter renders amounts with locale digit grouping (1,00,000 for en-IN).
type Formatter struct {
	symbol  string
	printer *message.Printer
}

func NewFormatter(symbol, locale string) *Formatter {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	tag, err := language.Parse(locale)
	if err != nil {
		zap.L().Warn("Unknown locale, using default", zap.String("locale", locale), zap.Error(err))
		tag = language.MustParse(DefaultLocale)
	}
	return &Formatter{symbol: symbol, printer: message.NewPrinter(tag)}
}

// Amount formats d without a currency symbol, keeping up to two fraction digits.
func (f *Formatter) Amount(d decimal.Decimal) string {
	return f.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MaxFractionDigits(2)))
}

// Format prefixes the currency symbol, e.g. "Rs 1,00,000".
func (f *Formatter) Format(d decimal.Decimal) string {
	return f.symbol + " " + f.Amount(d)
}

func (f *Formatter) Symbol() string {
	return f.symbol
}

// Percent renders p with one decimal place.
func (f *Formatter) Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Date renders d as day/month/year without padding.
func (f *Formatter) Date(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d/%d/%d", d.Day(), int(d.Month()), d.Year())
}
