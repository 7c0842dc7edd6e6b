package money

import (
	"testing"
	"time"

	"fi-dashboard-go/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	f := NewFormatter("Rs", "en-IN")

	assert.Equal(t, "Rs 500", f.Format(decimal.NewFromInt(500)))
	assert.Equal(t, "Rs 120.5", f.Format(decimal.RequireFromString("120.50")))
	assert.Equal(t, "Rs 0", f.Format(decimal.Zero))
}

func TestFormatterDefaults(t *testing.T) {
	f := NewFormatter("", "not a locale!")
	assert.Equal(t, DefaultSymbol, f.Symbol())
	assert.Equal(t, "Rs 75", f.Format(decimal.NewFromInt(75)))
}

func TestPercentAndDate(t *testing.T) {
	f := NewFormatter("Rs", "en-IN")
	assert.Equal(t, "25.0%", f.Percent(25))
	assert.Equal(t, "31/3/2026", f.Date(models.NewDate(2026, time.March, 31)))
	assert.Equal(t, "", f.Date(models.Date{}))
}
