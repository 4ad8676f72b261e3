// Package config loads the bot's settings from a YAML file, a .env file and
// the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/sovbot/internal/commentary"
	"github.com/abhisek/sovbot/internal/diagnosis"
	"github.com/abhisek/sovbot/internal/llm"
	"github.com/abhisek/sovbot/internal/session"
)

// Config is the complete bot configuration.
type Config struct {
	Telegram   TelegramConfig   `yaml:"telegram"`
	Diagnosis  DiagnosisConfig  `yaml:"diagnosis"`
	Sessions   SessionsConfig   `yaml:"sessions"`
	Store      StoreConfig      `yaml:"store"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	LLM        LLMConfig        `yaml:"llm"`
	Commentary CommentaryConfig `yaml:"commentary"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TelegramConfig configures the bot transport and the webhook server.
type TelegramConfig struct {
	Token         string `yaml:"token"`
	WebhookURL    string `yaml:"webhook_url"`    // public base URL; /webhook is appended
	WebhookSecret string `yaml:"webhook_secret"` // X-Telegram-Bot-Api-Secret-Token
	Listen        string `yaml:"listen"`         // host:port of the HTTP server
	DeleteWebhook bool   `yaml:"delete_webhook_on_shutdown"`
	APIEndpoint   string `yaml:"api_endpoint"` // empty = api.telegram.org
}

// DiagnosisConfig configures the questionnaire engine.
type DiagnosisConfig struct {
	NarrowTo       int    `yaml:"narrow_to"`
	TopN           int    `yaml:"top_n"`
	UnknownSession string `yaml:"unknown_session"` // restart | ignore
}

// SessionsConfig configures the in-memory session store.
type SessionsConfig struct {
	TTL         string `yaml:"ttl"` // e.g. "24h"; empty or "0" = never expire
	MaxSessions int    `yaml:"max_sessions"`
}

// StoreConfig configures the SQLite event log.
type StoreConfig struct {
	Path string `yaml:"path"` // empty = default data path
}

// CatalogConfig points at alternative questionnaire content.
type CatalogConfig struct {
	Path string `yaml:"path"` // empty = built-in content
}

// LLMConfig selects the commentary model.
type LLMConfig struct {
	Provider    string `yaml:"provider"` // anthropic | openai | openrouter | gemini | mock; empty disables
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	BaseURL     string `yaml:"base_url"`
	Timeout     string `yaml:"timeout"`
	MaxAttempts int    `yaml:"max_attempts"`
}

// CommentaryConfig configures the follow-up commentary worker.
type CommentaryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	QueueSize   int     `yaml:"queue_size"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	d := diagnosis.DefaultConfig()
	c := commentary.DefaultConfig()
	l := llm.DefaultConfig()
	return &Config{
		Telegram: TelegramConfig{
			Listen: ":8080",
		},
		Diagnosis: DiagnosisConfig{
			NarrowTo:       d.NarrowTo,
			TopN:           d.TopN,
			UnknownSession: string(d.UnknownSession),
		},
		Sessions: SessionsConfig{
			TTL:         "24h",
			MaxSessions: session.DefaultMaxSessions,
		},
		LLM: LLMConfig{
			Timeout:     l.Timeout.String(),
			MaxAttempts: l.Retry.MaxAttempts,
		},
		Commentary: CommentaryConfig{
			Enabled:     true,
			QueueSize:   c.QueueSize,
			MaxTokens:   c.Generator.MaxTokens,
			Temperature: c.Generator.Temperature,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error. A .env file in the working directory is
// loaded first; variables already set in the environment win over it.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variables. The unprefixed names are
// the ones the bot has always been deployed with.
func (c *Config) applyEnvOverrides() error {
	setString(&c.Telegram.Token, "BOT_TOKEN", "SOVBOT_BOT_TOKEN")
	setString(&c.Telegram.WebhookURL, "WEBHOOK_URL", "SOVBOT_WEBHOOK_URL")
	setString(&c.Telegram.WebhookSecret, "WEBHOOK_SECRET", "SOVBOT_WEBHOOK_SECRET")
	setString(&c.Telegram.APIEndpoint, "SOVBOT_TELEGRAM_API_ENDPOINT")
	if port := os.Getenv("PORT"); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("PORT: %q is not a number", port)
		}
		c.Telegram.Listen = ":" + port
	}
	setString(&c.Telegram.Listen, "SOVBOT_LISTEN")

	setString(&c.Diagnosis.UnknownSession, "SOVBOT_UNKNOWN_SESSION")
	setString(&c.Sessions.TTL, "SOVBOT_SESSION_TTL")
	setString(&c.Store.Path, "SOVBOT_DB")
	setString(&c.Catalog.Path, "SOVBOT_CATALOG")
	setString(&c.Logging.Level, "SOVBOT_LOG_LEVEL")

	setString(&c.LLM.Provider, "SOVBOT_LLM_PROVIDER")
	setString(&c.LLM.Model, "SOVBOT_LLM_MODEL")
	setString(&c.LLM.BaseURL, "SOVBOT_LLM_BASE_URL")
	setString(&c.LLM.APIKey, "SOVBOT_LLM_API_KEY")
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case llm.ProviderAnthropic:
			setString(&c.LLM.APIKey, "ANTHROPIC_API_KEY")
		case llm.ProviderOpenAI:
			setString(&c.LLM.APIKey, "OPENAI_API_KEY")
		case llm.ProviderOpenRouter:
			setString(&c.LLM.APIKey, "OPENROUTER_API_KEY")
		case llm.ProviderGemini:
			setString(&c.LLM.APIKey, "GEMINI_API_KEY")
		}
	}
	return nil
}

// setString assigns the first non-empty variable among names.
func setString(dst *string, names ...string) {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			*dst = v
			return
		}
	}
}

// Validate checks settings that every command needs. Telegram settings are
// checked separately by ValidateTelegram because offline commands do not use
// them.
func (c *Config) Validate() error {
	var errs []error
	if err := c.DiagnosisConfig().Validate(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SessionTTL(); err != nil {
		errs = append(errs, err)
	}
	if c.Sessions.MaxSessions < 0 {
		errs = append(errs, fmt.Errorf("sessions: max_sessions must not be negative"))
	}
	llmCfg, err := c.LLMProviderConfig()
	if err != nil {
		errs = append(errs, err)
	} else if err := llmCfg.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("logging: unknown level %q", c.Logging.Level))
	}
	return errors.Join(errs...)
}

// ValidateTelegram checks the settings the webhook bot needs to start.
func (c *Config) ValidateTelegram() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram: bot token is required (set BOT_TOKEN)")
	}
	if c.Telegram.Listen == "" {
		return fmt.Errorf("telegram: listen address is required")
	}
	return nil
}

// DiagnosisConfig converts the engine section.
func (c *Config) DiagnosisConfig() diagnosis.Config {
	return diagnosis.Config{
		NarrowTo:       c.Diagnosis.NarrowTo,
		TopN:           c.Diagnosis.TopN,
		UnknownSession: diagnosis.UnknownSessionPolicy(c.Diagnosis.UnknownSession),
	}
}

// SessionTTL parses the session expiry. Zero means sessions never expire.
func (c *Config) SessionTTL() (time.Duration, error) {
	return parseDuration("sessions.ttl", c.Sessions.TTL)
}

// LLMProviderConfig converts the llm section.
func (c *Config) LLMProviderConfig() (llm.Config, error) {
	out := llm.DefaultConfig()
	out.Provider = c.LLM.Provider
	out.APIKey = c.LLM.APIKey
	out.Model = c.LLM.Model
	out.BaseURL = c.LLM.BaseURL
	if c.LLM.MaxAttempts > 0 {
		out.Retry.MaxAttempts = c.LLM.MaxAttempts
	}
	timeout, err := parseDuration("llm.timeout", c.LLM.Timeout)
	if err != nil {
		return llm.Config{}, err
	}
	if timeout > 0 {
		out.Timeout = timeout
	}
	return out, nil
}

// CommentaryConfig converts the commentary section. The job timeout follows
// the llm timeout.
func (c *Config) CommentaryConfig() commentary.Config {
	out := commentary.DefaultConfig()
	if c.Commentary.QueueSize > 0 {
		out.QueueSize = c.Commentary.QueueSize
	}
	if c.Commentary.MaxTokens > 0 {
		out.Generator.MaxTokens = c.Commentary.MaxTokens
	}
	out.Generator.Temperature = c.Commentary.Temperature
	if llmCfg, err := c.LLMProviderConfig(); err == nil {
		out.Timeout = llmCfg.Timeout
	}
	return out
}

// CommentaryEnabled reports whether commentary should run.
func (c *Config) CommentaryEnabled() bool {
	return c.Commentary.Enabled && c.LLM.Provider != ""
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", field)
	}
	return d, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/sovbot/config.yaml, falling back to
// ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sovbot", "config.yaml")
}
