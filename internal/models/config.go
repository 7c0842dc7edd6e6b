package models

import "time"

// Config represents the application configuration
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Rest     RestConfig
	Gemini   GeminiConfig
	Finance  FinanceConfig
	Voice    VoiceConfig
	Server   ServerConfig
	Listener ListenerConfig
	SMTP     SMTPConfig
}

// Store backends
const (
	StoreBackendSQLite   = "sqlite"
	StoreBackendPostgres = "postgres"
	StoreBackendRest     = "rest"
)

// StoreConfig selects the data store backend
type StoreConfig struct {
	Backend string
}

// DatabaseConfig holds SQL connection settings for the sqlite and postgres backends
type DatabaseConfig struct {
	Path            string
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	SeedSampleData  bool
}

// RestConfig holds settings for the hosted REST data store
type RestConfig struct {
	URL            string
	Key            string
	RequestTimeout time.Duration
}

// GeminiConfig holds language model settings
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// FinanceConfig holds the single-user settings shared by every component
type FinanceConfig struct {
	UserId         string
	FITarget       float64
	CurrencySymbol string
	Locale         string
	CatalogFile    string
}

// VoiceConfig holds the speech command settings
type VoiceConfig struct {
	ListenCmd string
	SpeakCmd  string
	Lang      string
	Rate      float64
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr            string
	GinMode         string
	ShutdownTimeout time.Duration
	AllowOrigins    []string
	EnablePprof     bool
}

// ListenerConfig holds maturity watcher settings
type ListenerConfig struct {
	Schedule        string
	WindowDays      int
	CleanupInterval time.Duration
}

// SMTPConfig holds reminder e-mail settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
}

// Enabled reports whether reminder e-mails can be sent
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && len(c.To) > 0
}
