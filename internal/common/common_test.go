package common

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"fi-dashboard-go/internal/intent"
	"fi-dashboard-go/internal/models"

	"go.uber.org/zap"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadCatalogDefaults(t *testing.T) {
	catalog, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if !slices.Equal(catalog.ExpenseCategories, models.ExpenseCategories) {
		t.Errorf("categories = %v", catalog.ExpenseCategories)
	}
	if len(catalog.Voices) != 0 {
		t.Errorf("expected no voices by default, got %v", catalog.Voices)
	}
}

func TestLoadCatalogOverrides(t *testing.T) {
	path := writeFile(t, "finance.yaml", `
expense_categories: [Groceries, rent, groceries]
voices:
  - name: heera
    lang: en-IN
`)
	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}

	want := []string{"groceries", "rent", "other"}
	if !slices.Equal(catalog.ExpenseCategories, want) {
		t.Errorf("categories = %v, want %v", catalog.ExpenseCategories, want)
	}
	if !slices.Equal(catalog.IncomeSourceTypes, models.IncomeSourceTypes) {
		t.Errorf("source types should keep defaults, got %v", catalog.IncomeSourceTypes)
	}
	if len(catalog.Voices) != 1 || catalog.Voices[0].Name != "heera" {
		t.Errorf("voices = %v", catalog.Voices)
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "currencies: [INR]\n", "unable to parse"},
		{"blank entry", "asset_types: [stock, '  ']\n", "asset_types entry at index 1 is empty"},
		{"voice without lang", "voices:\n  - name: heera\n", "voice at index 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog(writeFile(t, "finance.yaml", tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	r := NewReport(&buf, 20)
	r.Header("Summary")
	r.Section("FDs")
	r.Line("SBI", "Rs 1,00,000", false)
	r.Detail("matures 1/7/2025", false)
	r.Line("HDFC", "Rs 50,000", true)
	r.Empty("nothing here")
	r.Footer("Done")

	out := buf.String()
	for _, want := range []string{
		strings.Repeat("=", 20) + "\nSummary\n",
		"│ FDs\n",
		"│  SBI",
		"│     matures 1/7/2025\n",
		"└  HDFC",
		"└  (nothing here)\n",
		"Done\n" + strings.Repeat("=", 20) + "\n\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestInitializeLoggerInstallsGlobal(t *testing.T) {
	previous := zap.L()
	t.Cleanup(func() { zap.ReplaceGlobals(previous) })
	zap.ReplaceGlobals(zap.NewNop())

	logger, cleanup := InitializeLogger(false)
	defer cleanup()

	if zap.L() != logger {
		t.Fatal("logger was not installed as the global logger")
	}
	if !zap.L().Core().Enabled(zap.ErrorLevel) {
		t.Error("global logger drops errors")
	}
	if zap.L().Core().Enabled(zap.DebugLevel) {
		t.Error("production logger should not log debug")
	}
}

func TestIsIgnorableSyncError(t *testing.T) {
	if !isIgnorableSyncError(errors.New("sync /dev/stderr: inappropriate ioctl for device")) {
		t.Error("tty sync error should be ignorable")
	}
	if isIgnorableSyncError(errors.New("disk full")) {
		t.Error("other errors should not be ignorable")
	}
}

func testConfig(t *testing.T) *models.Config {
	return &models.Config{
		Store: models.StoreConfig{Backend: models.StoreBackendSQLite},
		Database: models.DatabaseConfig{
			Path:         filepath.Join(t.TempDir(), "finance.db"),
			MaxOpenConns: 1,
			PingTimeout:  5 * time.Second,
		},
		Rest:    models.RestConfig{RequestTimeout: 5 * time.Second},
		Gemini:  models.GeminiConfig{Model: "gemini-2.5-flash"},
		Finance: models.FinanceConfig{UserId: "tester", FITarget: 200000, CurrencySymbol: "Rs", Locale: "en-IN"},
		Voice:   models.VoiceConfig{Lang: "en-IN", Rate: 1},
	}
}

func TestNewStoreSelectsBackend(t *testing.T) {
	ctx := context.Background()

	cfg := testConfig(t)
	cfg.Store.Backend = "mongo"
	if _, err := NewStore(ctx, cfg, nil); err == nil {
		t.Error("expected error for unknown backend")
	}

	cfg.Store.Backend = models.StoreBackendRest
	if _, err := NewStore(ctx, cfg, nil); err == nil {
		t.Error("expected error for rest backend without url and key")
	}

	cfg.Store.Backend = models.StoreBackendSQLite
	db, err := InitializeStoreOnly(ctx, cfg)
	if err != nil {
		t.Fatalf("InitializeStoreOnly: %v", err)
	}
	defer db.Close()
	if err := db.Ping(ctx); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestInitializeServicesWithoutModel(t *testing.T) {
	ctx := context.Background()
	services, err := InitializeServices(ctx, testConfig(t))
	if err != nil {
		t.Fatalf("InitializeServices: %v", err)
	}
	defer services.Close()

	if services.Parser.Configured() {
		t.Error("parser should be unconfigured without an API key")
	}
	if services.Voice.RecognitionSupported() {
		t.Error("recognition should be unsupported without a listen command")
	}

	if services.ModelClient == services.HttpClient || services.ModelClient.Timeout != 0 {
		t.Error("model calls should use their own client without a request timeout")
	}
	if services.HttpClient.Timeout != 5*time.Second {
		t.Errorf("store client timeout = %v", services.HttpClient.Timeout)
	}

	reply := services.Chat.SendMessage(ctx, "spent 500 on lunch")
	if reply == nil || reply.Content != intent.NotConfiguredMessage {
		t.Errorf("reply = %+v, want the not-configured notice", reply)
	}
}
