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

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/store"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.FinanceStore.
var _ store.FinanceStore = (*Service)(nil)

// Dialect selects the SQL flavour spoken by the connection.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) String() string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// rebind rewrites ? placeholders into $n for Postgres.
func (d Dialect) rebind(query string) string {
	if d != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type Service struct {
	db      *sql.DB
	dialect Dialect
	userId  string
}

func NewService(ctx context.Context, cfg models.DatabaseConfig, dialect Dialect, userId string) (*Service, error) {
	// Validate configuration
	if userId == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	var dsn string
	switch dialect {
	case DialectPostgres:
		if cfg.URL == "" {
			return nil, fmt.Errorf("database url cannot be empty: %w", store.ErrNotConfigured)
		}
		zap.L().Info("Opening Postgres database")
		dsn = cfg.URL
	default:
		if cfg.Path == "" {
			return nil, fmt.Errorf("database path cannot be empty: %w", store.ErrNotConfigured)
		}
		zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
		dsn = cfg.Path + "?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000"
	}

	db, err := sql.Open(dialect.String(), dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			zap.L().Warn("Failed to close database after ping failure", zap.Error(closeErr))
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := NewServiceFromDB(db, dialect, userId)
	if dialect == DialectSQLite {
		if err := service.InitSchema(); err != nil {
			if closeErr := db.Close(); closeErr != nil {
				zap.L().Warn("Failed to close database after schema failure", zap.Error(closeErr))
			}
			return nil, fmt.Errorf("unable to initialize schema: %w", err)
		}
	}

	if cfg.SeedSampleData {
		if err := service.SeedSampleData(ctx); err != nil {
			zap.L().Error("Failed to seed sample data", zap.Error(err))
		}
	} else {
		zap.L().Debug("Skipping sample data (SEED_SAMPLE_DATA=false)")
	}

	zap.L().Info("Database service initialized successfully",
		zap.String("dialect", dialect.String()),
		zap.String("user_id", userId))
	return service, nil
}

// NewServiceFromDB wraps an already opened connection pool.
func NewServiceFromDB(db *sql.DB, dialect Dialect, userId string) *Service {
	return &Service{db: db, dialect: dialect, userId: userId}
}

// InitSchema creates the local tables if they are missing.
func (s *Service) InitSchema() error {
	_, err := s.db.Exec(sqliteSchema)
	return err
}

func (s *Service) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

// newId returns a time-ordered row id so ties on date columns keep insertion order.
func newId() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// selectBuilder assembles a filtered, ordered, limited SELECT.
type selectBuilder struct {
	base  string
	where []string
	args  []any
	order string
	limit int
}

func (b *selectBuilder) eq(column string, value any) *selectBuilder {
	b.where = append(b.where, column+" = ?")
	b.args = append(b.args, value)
	return b
}

func (b *selectBuilder) gte(column string, value any) *selectBuilder {
	b.where = append(b.where, column+" >= ?")
	b.args = append(b.args, value)
	return b
}

func (b *selectBuilder) lte(column string, value any) *selectBuilder {
	b.where = append(b.where, column+" <= ?")
	b.args = append(b.args, value)
	return b
}

func (b *selectBuilder) build(d Dialect) (string, []any) {
	query := b.base
	if len(b.where) > 0 {
		query += " WHERE " + strings.Join(b.where, " AND ")
	}
	if b.order != "" {
		query += " ORDER BY " + b.order
	}
	args := b.args
	if b.limit > 0 {
		query += " LIMIT ?"
		args = append(args, b.limit)
	}
	return d.rebind(query), args
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zap.L().Warn("Failed to close rows", zap.Error(err))
	}
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
