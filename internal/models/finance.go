/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense categories
const (
	CategoryHousing       = "housing"
	CategoryUtilities     = "utilities"
	CategoryFood          = "food"
	CategoryTransport     = "transport"
	CategoryHealthcare    = "healthcare"
	CategoryEducation     = "education"
	CategoryEntertainment = "entertainment"
	CategoryPersonal      = "personal"
	CategoryOther         = "other"
)

var ExpenseCategories = []string{
	CategoryHousing, CategoryUtilities, CategoryFood, CategoryTransport, CategoryHealthcare,
	CategoryEducation, CategoryEntertainment, CategoryPersonal, CategoryOther,
}

// Passive income source types
const (
	SourceFDInterest = "fd_interest"
	SourceDividend   = "dividend"
	SourceRental     = "rental"
	SourceBusiness   = "business"
	SourceOther      = "other"
)

// IncomeSourceTypes is also the bucket order of the FI breakdown
var IncomeSourceTypes = []string{SourceFDInterest, SourceDividend, SourceRental, SourceBusiness, SourceOther}

// Income frequencies
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyAnnually  = "annually"
	FrequencyOneTime   = "one_time"
)

// FD statuses
const (
	FDStatusActive  = "active"
	FDStatusMatured = "matured"
	FDStatusClosed  = "closed"
)

// FD interest payout schedules
const (
	PayoutMonthly   = "monthly"
	PayoutQuarterly = "quarterly"
	PayoutMaturity  = "maturity"
)

// Asset types
const (
	AssetFD         = "fd"
	AssetMutualFund = "mutual_fund"
	AssetStock      = "stock"
	AssetRental     = "rental"
	AssetBusiness   = "business"
	AssetOther      = "other"
)

var AssetTypes = []string{AssetFD, AssetMutualFund, AssetStock, AssetRental, AssetBusiness, AssetOther}

// Expense is one row of the expenses table
type Expense struct {
	Id            string          `json:"id,omitempty"`
	UserId        string          `json:"user_id"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	ExpenseDate   Date            `json:"expense_date"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	IsRecurring   bool            `json:"is_recurring"`
	Tags          []string        `json:"tags,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitzero"`
}

// PassiveIncome is one row of the passive_income table
type PassiveIncome struct {
	Id         string          `json:"id,omitempty"`
	UserId     string          `json:"user_id"`
	AssetId    string          `json:"asset_id,omitempty"`
	SourceType string          `json:"source_type"`
	SourceName string          `json:"source_name"`
	Amount     decimal.Decimal `json:"amount"`
	IncomeDate Date            `json:"income_date"`
	Frequency  string          `json:"frequency,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at,omitzero"`
}

// FDTracker is one row of the fd_tracker table
type FDTracker struct {
	Id             string              `json:"id,omitempty"`
	UserId         string              `json:"user_id"`
	BankName       string              `json:"bank_name"`
	FdNumber       string              `json:"fd_number,omitempty"`
	Principal      decimal.Decimal     `json:"principal"`
	InterestRate   decimal.Decimal     `json:"interest_rate"`
	StartDate      Date                `json:"start_date"`
	MaturityDate   Date                `json:"maturity_date"`
	MaturityAmount decimal.NullDecimal `json:"maturity_amount,omitzero"`
	InterestPayout string              `json:"interest_payout"`
	Status         string              `json:"status"`
	AutoRenew      bool                `json:"auto_renew"`
	Notes          string              `json:"notes,omitempty"`
	CreatedAt      time.Time           `json:"created_at,omitzero"`
}

// FinancialAsset is one row of the financial_assets table
type FinancialAsset struct {
	Id           string              `json:"id,omitempty"`
	UserId       string              `json:"user_id"`
	AssetType    string              `json:"asset_type"`
	Name         string              `json:"name"`
	Institution  string              `json:"institution,omitempty"`
	Principal    decimal.NullDecimal `json:"principal,omitzero"`
	CurrentValue decimal.NullDecimal `json:"current_value,omitzero"`
	InterestRate decimal.NullDecimal `json:"interest_rate,omitzero"`
	StartDate    Date                `json:"start_date,omitzero"`
	MaturityDate Date                `json:"maturity_date,omitzero"`
	Notes        string              `json:"notes,omitempty"`
	Metadata     map[string]any      `json:"metadata,omitempty"`
	CreatedAt    time.Time           `json:"created_at,omitzero"`
	UpdatedAt    time.Time           `json:"updated_at,omitzero"`
}

// Valuation is the current value, else the principal, else zero.
// A zero current value counts as unset.
func (a FinancialAsset) Valuation() decimal.Decimal {
	if a.CurrentValue.Valid && !a.CurrentValue.Decimal.IsZero() {
		return a.CurrentValue.Decimal
	}
	if a.Principal.Valid {
		return a.Principal.Decimal
	}
	return decimal.Zero
}

// FIProgress is the current month's passive income measured against the FI target
type FIProgress struct {
	MonthlyIncome   decimal.Decimal            `json:"monthly_income"`
	TargetIncome    decimal.Decimal            `json:"target_income"`
	Progress        float64                    `json:"progress"`
	Gap             decimal.Decimal            `json:"gap"`
	IncomeBreakdown map[string]decimal.Decimal `json:"income_breakdown"`
}

// NullAmount wraps a decimal as a valid NullDecimal
func NullAmount(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
