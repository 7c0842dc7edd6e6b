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

package database

// Queries are written with ? placeholders and rebound per dialect.
const (
	expenseColumns = `id, user_id, category, subcategory, amount, description, expense_date,
		payment_method, is_recurring, tags, created_at`

	incomeColumns = `id, user_id, asset_id, source_type, source_name, amount, income_date,
		frequency, notes, created_at`

	fdColumns = `id, user_id, bank_name, fd_number, principal, interest_rate, start_date,
		maturity_date, maturity_amount, interest_payout, status, auto_renew, notes, created_at`

	assetColumns = `id, user_id, asset_type, name, institution, principal, current_value,
		interest_rate, start_date, maturity_date, notes, metadata, created_at, updated_at`

	// Expense queries
	querySelectExpenses = `SELECT ` + expenseColumns + ` FROM expenses`

	queryInsertExpense = `
		INSERT INTO expenses (id, user_id, category, subcategory, amount, description,
			expense_date, payment_method, is_recurring, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + expenseColumns

	// Passive income queries
	querySelectIncomes = `SELECT ` + incomeColumns + ` FROM passive_income`

	queryInsertIncome = `
		INSERT INTO passive_income (id, user_id, asset_id, source_type, source_name, amount,
			income_date, frequency, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + incomeColumns

	// FD queries
	querySelectFDs = `SELECT ` + fdColumns + ` FROM fd_tracker`

	queryInsertFD = `
		INSERT INTO fd_tracker (id, user_id, bank_name, fd_number, principal, interest_rate,
			start_date, maturity_date, maturity_amount, interest_payout, status, auto_renew, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + fdColumns

	// Asset queries
	querySelectAssets = `SELECT ` + assetColumns + ` FROM financial_assets
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`

	queryInsertAsset = `
		INSERT INTO financial_assets (id, user_id, asset_type, name, institution, principal,
			current_value, interest_rate, start_date, maturity_date, notes, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + assetColumns

	// Schema for the local SQLite backend. The hosted Postgres schema is owned by the provider.
	sqliteSchema = `
	CREATE TABLE IF NOT EXISTS expenses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		category TEXT NOT NULL,
		subcategory TEXT,
		amount NUMERIC NOT NULL CHECK (amount > 0),
		description TEXT,
		expense_date DATE NOT NULL,
		payment_method TEXT,
		is_recurring BOOLEAN NOT NULL DEFAULT 0,
		tags TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_expenses_user_date ON expenses(user_id, expense_date);
	CREATE INDEX IF NOT EXISTS idx_expenses_category ON expenses(category);

	CREATE TABLE IF NOT EXISTS passive_income (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		asset_id TEXT,
		source_type TEXT NOT NULL,
		source_name TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		income_date DATE NOT NULL,
		frequency TEXT,
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_passive_income_user_date ON passive_income(user_id, income_date);

	CREATE TABLE IF NOT EXISTS fd_tracker (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		bank_name TEXT NOT NULL,
		fd_number TEXT,
		principal NUMERIC NOT NULL,
		interest_rate NUMERIC NOT NULL,
		start_date DATE NOT NULL,
		maturity_date DATE NOT NULL,
		maturity_amount NUMERIC,
		interest_payout TEXT NOT NULL DEFAULT 'maturity',
		status TEXT NOT NULL DEFAULT 'active',
		auto_renew BOOLEAN NOT NULL DEFAULT 0,
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_fd_tracker_user_maturity ON fd_tracker(user_id, maturity_date);
	CREATE INDEX IF NOT EXISTS idx_fd_tracker_status ON fd_tracker(status);

	CREATE TABLE IF NOT EXISTS financial_assets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		asset_type TEXT NOT NULL,
		name TEXT NOT NULL,
		institution TEXT,
		principal NUMERIC,
		current_value NUMERIC,
		interest_rate NUMERIC,
		start_date DATE,
		maturity_date DATE,
		notes TEXT,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_financial_assets_user ON financial_assets(user_id, created_at);
	`
)
