package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Locale    LocaleConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	WhatsApp  WhatsAppConfig
}

// AppConfig holds process-wide options.
type AppConfig struct {
	Env      string
	LogLevel string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// LocaleConfig controls how figures are rendered for people.
type LocaleConfig struct {
	Language string
	Currency string
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	Enabled      bool
	CronSchedule string
	Timezone     string
}

// SheetsConfig contains configuration required to append snapshots to Google Sheets.
// Either a credentials file path or the raw service account JSON may be given.
type SheetsConfig struct {
	CredentialsPath string
	CredentialsJSON string
	SpreadsheetID   string
}

// Enabled reports whether the Google Sheets export is configured.
func (c SheetsConfig) Enabled() bool {
	return c.SpreadsheetID != ""
}

// WhatsAppConfig contains credentials for the Meta WhatsApp Cloud API used to send digests.
type WhatsAppConfig struct {
	AccessToken     string
	PhoneNumberID   string
	BaseURL         string
	APIVersion      string
	DigestRecipient string
}

// Enabled reports whether the WhatsApp digest is configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.DigestRecipient != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	reportingEnabled, err := getenvBool("REPORT_ENABLED", true)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Env:      getenvWithDefault("APP_ENV", "production"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "herdledger"),
		},
		Locale: LocaleConfig{
			Language: getenvWithDefault("LOCALE", "pt-BR"),
			Currency: getenvWithDefault("CURRENCY", "BRL"),
		},
		Reporting: ReportingConfig{
			Enabled:      reportingEnabled,
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Sao_Paulo"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			CredentialsJSON: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:     os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID:   os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:         getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:      getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			DigestRecipient: os.Getenv("WHATSAPP_DIGEST_RECIPIENT"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch {
	case c.MongoDB.URI == "":
		return errors.New("MONGODB_URI must be provided")
	case c.MongoDB.DBName == "":
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Locale.Language == "" || c.Locale.Currency == "" {
		return errors.New("LOCALE and CURRENCY must not be empty")
	}

	if c.Reporting.Enabled {
		if c.Reporting.CronSchedule == "" {
			return errors.New("REPORT_CRON_SCHEDULE must be provided")
		}
		if c.Reporting.Timezone == "" {
			return errors.New("TIMEZONE must be provided")
		}
	}

	if c.Sheets.Enabled() && c.Sheets.CredentialsPath == "" && c.Sheets.CredentialsJSON == "" {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH or GOOGLE_SHEETS_CREDENTIALS_JSON must be provided with GOOGLE_SHEET_DATABASE_ID")
	}

	if c.WhatsApp.AccessToken != "" {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided with WHATSAPP_TOKEN")
		case c.WhatsApp.DigestRecipient == "":
			return errors.New("WHATSAPP_DIGEST_RECIPIENT must be provided with WHATSAPP_TOKEN")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
