package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sovbot/internal/diagnosis"
	"github.com/abhisek/sovbot/internal/llm"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, diagnosis.DefaultConfig(), cfg.DiagnosisConfig())
	assert.Equal(t, ":8080", cfg.Telegram.Listen)
	ttl, err := cfg.SessionTTL()
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, ttl)
	assert.False(t, cfg.CommentaryEnabled(), "no provider configured")
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: file-token
  webhook_url: https://bot.example.com
diagnosis:
  narrow_to: 5
  top_n: 2
  unknown_session: ignore
sessions:
  ttl: 30m
llm:
  provider: openrouter
  api_key: k
  model: anthropic/claude-3.5-haiku
  timeout: 10s
  max_attempts: 5
commentary:
  queue_size: 4
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "file-token", cfg.Telegram.Token)
	assert.Equal(t, diagnosis.Config{NarrowTo: 5, TopN: 2, UnknownSession: diagnosis.PolicyIgnore}, cfg.DiagnosisConfig())

	ttl, err := cfg.SessionTTL()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, ttl)

	lc, err := cfg.LLMProviderConfig()
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenRouter, lc.Provider)
	assert.Equal(t, 10*time.Second, lc.Timeout)
	assert.Equal(t, 5, lc.Retry.MaxAttempts)

	cc := cfg.CommentaryConfig()
	assert.Equal(t, 4, cc.QueueSize)
	assert.Equal(t, 10*time.Second, cc.Timeout)
	assert.True(t, cfg.CommentaryEnabled())
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, "telegram:\n  token: file-token\n")
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("WEBHOOK_URL", "https://env.example.com")
	t.Setenv("WEBHOOK_SECRET", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("SOVBOT_UNKNOWN_SESSION", "ignore")
	t.Setenv("SOVBOT_LLM_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "ant-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Telegram.Token)
	assert.Equal(t, "https://env.example.com", cfg.Telegram.WebhookURL)
	assert.Equal(t, "s3cret", cfg.Telegram.WebhookSecret)
	assert.Equal(t, ":9090", cfg.Telegram.Listen)
	assert.Equal(t, "ignore", cfg.Diagnosis.UnknownSession)
	assert.Equal(t, "ant-key", cfg.LLM.APIKey)
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateTelegram())
}

func TestBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	_, err := Load("")
	assert.ErrorContains(t, err, "PORT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad policy", func(c *Config) { c.Diagnosis.UnknownSession = "both" }, "unknown_session"},
		{"bad top_n", func(c *Config) { c.Diagnosis.TopN = 0 }, "top_n"},
		{"bad ttl", func(c *Config) { c.Sessions.TTL = "soon" }, "sessions.ttl"},
		{"negative ttl", func(c *Config) { c.Sessions.TTL = "-1h" }, "sessions.ttl"},
		{"bad llm timeout", func(c *Config) { c.LLM.Timeout = "x" }, "llm.timeout"},
		{"provider without key", func(c *Config) { c.LLM.Provider = "gemini" }, "api key"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidateTelegram(t *testing.T) {
	cfg := Default()
	assert.ErrorContains(t, cfg.ValidateTelegram(), "BOT_TOKEN")
	cfg.Telegram.Token = "t"
	assert.NoError(t, cfg.ValidateTelegram())
}

func TestZeroTTL(t *testing.T) {
	cfg := Default()
	cfg.Sessions.TTL = "0"
	ttl, err := cfg.SessionTTL()
	require.NoError(t, err)
	assert.Zero(t, ttl)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/sovbot/config.yaml", DefaultPath())
}
