package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// clearEnv unsets every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DATABASE_URL", "DB_MAX_CONNS", "PORT", "CORS_ALLOW_ORIGIN",
		"GOLD_SOURCE_URL", "GOLD_ELEMENT_ID", "FETCH_MAX_ATTEMPTS",
		"WEBHOOK_URL", "NOTIFY_NAME", "LOG_LEVEL", "LOG_ENCODING", "LOG_DEVELOPMENT",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/gold?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "*", cfg.CORSAllowOrigin)
	assert.Equal(t, "https://www.goldtraders.or.th/", cfg.SourceURL)
	assert.Equal(t, "DetailPlace_uc_goldprices1_lblBLSell", cfg.ElementID)
	assert.Equal(t, 1, cfg.FetchMaxAttempts)
	assert.Equal(t, "GoldScraper", cfg.NotifyName)
	assert.Empty(t, cfg.WebhookURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.False(t, cfg.Log.Development)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingDatabaseURLFailsFast(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_EmptyDatabaseURLFailsFast(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/gold")
	t.Setenv("PORT", "9090")
	t.Setenv("GOLD_SOURCE_URL", "http://127.0.0.1:1234/page")
	t.Setenv("FETCH_MAX_ATTEMPTS", "3")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_ENCODING", "console")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "http://127.0.0.1:1234/page", cfg.SourceURL)
	assert.Equal(t, 3, cfg.FetchMaxAttempts)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Encoding)
	require.NoError(t, cfg.Validate())
}

func TestValidate_Errors(t *testing.T) {
	cfg := &Config{
		DatabaseURL:      "postgres://localhost/gold",
		DBMaxConns:       0,
		Port:             70000,
		SourceURL:        "ftp://example.com",
		ElementID:        " ",
		FetchMaxAttempts: 0,
	}

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"DB_MAX_CONNS", "PORT", "GOLD_SOURCE_URL", "GOLD_ELEMENT_ID", "FETCH_MAX_ATTEMPTS"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestRedactDSN(t *testing.T) {
	assert.Equal(t, "postgres://user:xxxxx@db:5432/gold", redactDSN("postgres://user:secret@db:5432/gold"))
	assert.Equal(t, "(set)", redactDSN("host=db user=u password=secret"))
}

func TestPrint(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@db/gold", FetchMaxAttempts: 2}
	cfg.Print(zap.NewNop())
}
