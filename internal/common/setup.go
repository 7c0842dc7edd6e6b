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

package common

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"fi-dashboard-go/internal/chat"
	"fi-dashboard-go/internal/database"
	"fi-dashboard-go/internal/gemini"
	"fi-dashboard-go/internal/intent"
	"fi-dashboard-go/internal/models"
	"fi-dashboard-go/internal/money"
	"fi-dashboard-go/internal/postgrest"
	"fi-dashboard-go/internal/store"
	"fi-dashboard-go/internal/tracker"
	"fi-dashboard-go/internal/transport"
	"fi-dashboard-go/internal/voice"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// A missing .env is fine; the environment can come from the shell or the container
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file loaded (%v), using the process environment\n", err)
	} else {
		log.Println("✓ Loaded environment variables from .env file")
	}
}

// Services holds every component built from one configuration
type Services struct {
	Config     *models.Config
	Catalog    *Catalog
	Money      *money.Formatter
	HttpClient *http.Client
	// ModelClient has no request timeout; model calls end with their context
	ModelClient *http.Client
	Store       store.FinanceStore
	Tracker     *tracker.Tracker
	Parser      *intent.Parser
	Voice       *voice.Service
	Chat        *chat.Orchestrator
}

// InitializeLogger installs a global zap logger. debug switches to the
// development encoder at debug level.
func InitializeLogger(debug bool) (*zap.Logger, func()) {
	build := zap.NewProduction
	if debug {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// NewStore opens the backend selected by cfg.Store.Backend
func NewStore(ctx context.Context, cfg *models.Config, httpClient *http.Client) (store.FinanceStore, error) {
	userId := cfg.Finance.UserId

	zap.L().Info("Opening data store",
		zap.String("backend", cfg.Store.Backend),
		zap.String("user_id", userId))

	switch cfg.Store.Backend {
	case models.StoreBackendRest:
		svc, err := postgrest.NewService(cfg.Rest, userId, httpClient)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case models.StoreBackendPostgres, models.StoreBackendSQLite, "":
		dialect := database.DialectSQLite
		if cfg.Store.Backend == models.StoreBackendPostgres {
			dialect = database.DialectPostgres
		}
		svc, err := database.NewService(ctx, cfg.Database, dialect, userId)
		if err != nil {
			return nil, err
		}
		return svc, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// InitializeStoreOnly opens just the data store, for tools that never talk
// to the language model
func InitializeStoreOnly(ctx context.Context, cfg *models.Config) (store.FinanceStore, error) {
	httpClient, err := transport.NewHttpClient(cfg.Rest.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return NewStore(ctx, cfg, httpClient)
}

// InitializeServices builds the store, tracker, parser, voice service and
// chat orchestrator. A missing Gemini key leaves the parser unconfigured
// rather than failing; every chat message then gets the not-configured reply.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	catalog, err := LoadCatalog(cfg.Finance.CatalogFile)
	if err != nil {
		return nil, err
	}

	httpClient, err := transport.NewHttpClient(cfg.Rest.RequestTimeout)
	if err != nil {
		return nil, err
	}

	db, err := NewStore(ctx, cfg, httpClient)
	if err != nil {
		return nil, err
	}

	formatter := money.NewFormatter(cfg.Finance.CurrencySymbol, cfg.Finance.Locale)
	tr := tracker.New(db, decimal.NewFromFloat(cfg.Finance.FITarget), nil)

	modelClient, err := transport.NewHttpClient(0)
	if err != nil {
		db.Close()
		return nil, err
	}

	var gen gemini.Generator
	geminiService, err := gemini.NewService(ctx, cfg.Gemini, modelClient)
	switch {
	case err == nil:
		gen = geminiService
		zap.L().Info("Language model configured", zap.String("model", cfg.Gemini.Model))
	case errors.Is(err, gemini.ErrNotConfigured):
		zap.L().Warn("GEMINI_API_KEY not set, chat will answer with a configuration notice")
	default:
		db.Close()
		return nil, err
	}

	parser := intent.NewParser(gen,
		intent.WithCategories(catalog.ExpenseCategories),
		intent.WithSourceTypes(catalog.IncomeSourceTypes))

	voiceService := voice.NewService(cfg.Voice.Lang, voice.CommandPlatform(
		voice.ParseCommand(cfg.Voice.ListenCmd),
		voice.ParseCommand(cfg.Voice.SpeakCmd),
		catalog.Voices))

	orchestrator := chat.NewOrchestrator(parser, tr,
		chat.WithFormatter(formatter),
		chat.WithVoice(voiceService, cfg.Voice.SpeakCmd != "", cfg.Voice.Rate))

	return &Services{
		Config:      cfg,
		Catalog:     catalog,
		Money:       formatter,
		HttpClient:  httpClient,
		ModelClient: modelClient,
		Store:       db,
		Tracker:     tr,
		Parser:      parser,
		Voice:       voiceService,
		Chat:        orchestrator,
	}, nil
}

func (cs *Services) Close() {
	if cs.Voice != nil {
		cs.Voice.Close()
	}
	if cs.Store != nil {
		cs.Store.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
