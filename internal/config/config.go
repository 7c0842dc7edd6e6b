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

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"fi-dashboard-go/internal/models"
)

func Load() (*models.Config, error) {
	connMaxLifetime, err := getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	connMaxIdleTime, err := getEnvDuration("DB_CONN_MAX_IDLE_TIME", 30*time.Second)
	if err != nil {
		return nil, err
	}

	pingTimeout, err := getEnvDuration("DB_PING_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := getEnvDuration("REST_REQUEST_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}

	cleanupInterval, err := getEnvDuration("MATURITY_CLEANUP_INTERVAL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	fiTarget, err := getEnvFloat("FI_TARGET", 200000)
	if err != nil {
		return nil, err
	}
	if fiTarget <= 0 {
		return nil, fmt.Errorf("FI_TARGET must be positive, got %v", fiTarget)
	}

	voiceRate, err := getEnvFloat("VOICE_RATE", 1)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(getEnvString("STORE_BACKEND", models.StoreBackendSQLite))
	switch backend {
	case models.StoreBackendSQLite, models.StoreBackendPostgres, models.StoreBackendRest:
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND %q (want sqlite, postgres or rest)", backend)
	}

	return &models.Config{
		Store: models.StoreConfig{
			Backend: backend,
		},
		Database: models.DatabaseConfig{
			Path:            getEnvString("DATABASE_PATH", "finance.db"),
			URL:             getEnvString("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: connMaxLifetime,
			ConnMaxIdleTime: connMaxIdleTime,
			PingTimeout:     pingTimeout,
			SeedSampleData:  getEnvBool("SEED_SAMPLE_DATA", false),
		},
		Rest: models.RestConfig{
			URL:            strings.TrimRight(getEnvString("SUPABASE_URL", ""), "/"),
			Key:            getEnvString("SUPABASE_ANON_KEY", ""),
			RequestTimeout: requestTimeout,
		},
		Gemini: models.GeminiConfig{
			APIKey:  getEnvString("GEMINI_API_KEY", ""),
			Model:   getEnvString("GEMINI_MODEL", "gemini-2.5-flash"),
			BaseURL: getEnvString("GEMINI_BASE_URL", ""),
		},
		Finance: models.FinanceConfig{
			UserId:         getEnvString("USER_ID", "ram_kumaran"),
			FITarget:       fiTarget,
			CurrencySymbol: getEnvString("CURRENCY_SYMBOL", "Rs"),
			Locale:         getEnvString("LOCALE", "en-IN"),
			CatalogFile:    getEnvString("CATALOG_FILE", ""),
		},
		Voice: models.VoiceConfig{
			ListenCmd: getEnvString("VOICE_LISTEN_CMD", ""),
			SpeakCmd:  getEnvString("VOICE_SPEAK_CMD", ""),
			Lang:      getEnvString("VOICE_LANG", "en-IN"),
			Rate:      voiceRate,
		},
		Server: models.ServerConfig{
			Addr:            getEnvString("HTTP_ADDR", ":8080"),
			GinMode:         getEnvString("GIN_MODE", "release"),
			ShutdownTimeout: shutdownTimeout,
			AllowOrigins:    getEnvList("CORS_ALLOW_ORIGINS"),
			EnablePprof:     getEnvBool("ENABLE_PPROF", false),
		},
		Listener: models.ListenerConfig{
			Schedule:        getEnvString("MATURITY_SCHEDULE", "0 9 * * *"),
			WindowDays:      getEnvInt("MATURITY_WINDOW_DAYS", 90),
			CleanupInterval: cleanupInterval,
		},
		SMTP: models.SMTPConfig{
			Host:     getEnvString("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnvString("SMTP_USERNAME", ""),
			Password: getEnvString("SMTP_PASSWORD", ""),
			From:     getEnvString("REMINDER_FROM", ""),
			To:       getEnvList("REMINDER_TO"),
		},
	}, nil
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	if value := os.Getenv(key); value != "" {
		duration, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid duration for %s: %q (%w)", key, value, err)
		}
		return duration, nil
	}
	return defaultValue, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number for %s: %q (%w)", key, value, err)
		}
		return f, nil
	}
	return defaultValue, nil
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
