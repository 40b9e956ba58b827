package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_ENV", "LOG_LEVEL", "APP_PORT", "MONGODB_URI", "MONGODB_DB_NAME", "LOCALE", "CURRENCY",
	"REPORT_ENABLED", "REPORT_CRON_SCHEDULE", "TIMEZONE",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEETS_CREDENTIALS_JSON", "GOOGLE_SHEET_DATABASE_ID",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_DIGEST_RECIPIENT",
}

// clearEnv blanks every key Load reads so the host environment cannot leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
	}
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "herdledger", cfg.MongoDB.DBName)
	assert.Equal(t, "pt-BR", cfg.Locale.Language)
	assert.Equal(t, "BRL", cfg.Locale.Currency)
	assert.True(t, cfg.Reporting.Enabled)
	assert.Equal(t, "0 20 * * *", cfg.Reporting.CronSchedule)
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "MONGODB_URI=mongodb://db:27017\nAPP_PORT=9090\nREPORT_ENABLED=false\nLOCALE=en-US\nCURRENCY=USD\n")

	// godotenv does not override variables that are already set, even to empty strings.
	for _, key := range []string{"MONGODB_URI", "APP_PORT", "REPORT_ENABLED", "LOCALE", "CURRENCY"} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.MongoDB.URI)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.False(t, cfg.Reporting.Enabled)
	assert.Equal(t, "en-US", cfg.Locale.Language)
}

func TestLoadRejectsMissingMongoURI(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.EqualError(t, err, "MONGODB_URI must be provided")
}

func TestLoadRejectsBadBool(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("REPORT_ENABLED", "sometimes")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestValidateIntegrations(t *testing.T) {
	base := func() Config {
		return Config{
			Server:    ServerConfig{Port: "8080"},
			MongoDB:   MongoDBConfig{URI: "mongodb://localhost", DBName: "herd"},
			Locale:    LocaleConfig{Language: "pt-BR", Currency: "BRL"},
			Reporting: ReportingConfig{Enabled: true, CronSchedule: "0 20 * * *", Timezone: "UTC"},
			WhatsApp:  WhatsAppConfig{BaseURL: "https://graph.facebook.com", APIVersion: "v20.0"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"sheets without credentials", func(c *Config) { c.Sheets.SpreadsheetID = "sheet" }, true},
		{"sheets with json credentials", func(c *Config) {
			c.Sheets.SpreadsheetID = "sheet"
			c.Sheets.CredentialsJSON = "{}"
		}, false},
		{"whatsapp without recipient", func(c *Config) {
			c.WhatsApp.AccessToken = "token"
			c.WhatsApp.PhoneNumberID = "123"
		}, true},
		{"whatsapp complete", func(c *Config) {
			c.WhatsApp.AccessToken = "token"
			c.WhatsApp.PhoneNumberID = "123"
			c.WhatsApp.DigestRecipient = "5511999999999"
		}, false},
		{"reporting without schedule", func(c *Config) { c.Reporting.CronSchedule = "" }, true},
		{"reporting disabled without schedule", func(c *Config) {
			c.Reporting.Enabled = false
			c.Reporting.CronSchedule = ""
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
