package config

import (
	"testing"
	"time"

	"fi-dashboard-go/internal/models"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"STORE_BACKEND", "FI_TARGET", "USER_ID", "GEMINI_MODEL", "DB_PING_TIMEOUT", "REMINDER_TO"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Backend != models.StoreBackendSQLite {
		t.Errorf("expected sqlite backend, got %s", cfg.Store.Backend)
	}
	if cfg.Finance.FITarget != 200000 {
		t.Errorf("expected FI target 200000, got %v", cfg.Finance.FITarget)
	}
	if cfg.Finance.UserId != "ram_kumaran" {
		t.Errorf("expected default user id, got %s", cfg.Finance.UserId)
	}
	if cfg.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("expected default model, got %s", cfg.Gemini.Model)
	}
	if cfg.Database.PingTimeout != 5*time.Second {
		t.Errorf("expected 5s ping timeout, got %v", cfg.Database.PingTimeout)
	}
	if cfg.SMTP.Enabled() {
		t.Error("expected SMTP to be disabled without host and recipients")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "REST")
	t.Setenv("SUPABASE_URL", "https://example.supabase.co/")
	t.Setenv("FI_TARGET", "150000")
	t.Setenv("REMINDER_TO", "a@example.com, b@example.com,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Store.Backend != models.StoreBackendRest {
		t.Errorf("expected rest backend, got %s", cfg.Store.Backend)
	}
	if cfg.Rest.URL != "https://example.supabase.co" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Rest.URL)
	}
	if cfg.Finance.FITarget != 150000 {
		t.Errorf("expected FI target 150000, got %v", cfg.Finance.FITarget)
	}
	if len(cfg.SMTP.To) != 2 {
		t.Errorf("expected 2 recipients, got %v", cfg.SMTP.To)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"STORE_BACKEND", "mongo"},
		{"FI_TARGET", "lots"},
		{"FI_TARGET", "-5"},
		{"DB_PING_TIMEOUT", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
