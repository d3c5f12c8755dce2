package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Reply delivery modes.
const (
	ReplyModeGmail  = "gmail"
	ReplyModeResend = "resend"
)

// Config application configuration
type Config struct {
	// Anthropic
	AnthropicAPIKey   string  `env:"ANTHROPIC_API_KEY,required,notEmpty"`
	ClaudeModel       string  `env:"REPLYCAL_CLAUDE_MODEL" envDefault:"claude-sonnet-4-20250514"`
	ClaudeTemperature float64 `env:"REPLYCAL_CLAUDE_TEMPERATURE" envDefault:"0.1"`

	// Google / Gmail
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE" envDefault:"./credentials.json"`
	GoogleTokenFile       string `env:"GOOGLE_TOKEN_FILE" envDefault:"./token.json"`
	GmailQuery            string `env:"REPLYCAL_GMAIL_QUERY" envDefault:"is:unread"`

	// Polling
	PollInterval time.Duration `env:"REPLYCAL_POLL_INTERVAL" envDefault:"2m"`
	MaxPerPoll   int64         `env:"REPLYCAL_MAX_PER_POLL" envDefault:"10"`

	// Storage
	DBPath string `env:"REPLYCAL_DB_PATH" envDefault:"./replycal.db"`

	// Reply delivery
	ReplyMode    string `env:"REPLYCAL_REPLY_MODE" envDefault:"gmail"` // "gmail" or "resend"
	ResendAPIKey string `env:"RESEND_API_KEY"`
	ReplyFrom    string `env:"REPLYCAL_REPLY_FROM"` // From address for Resend replies

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.ReplyMode {
	case ReplyModeGmail:
	case ReplyModeResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is required when REPLYCAL_REPLY_MODE=resend")
		}
		if cfg.ReplyFrom == "" {
			return nil, fmt.Errorf("REPLYCAL_REPLY_FROM is required when REPLYCAL_REPLY_MODE=resend")
		}
	default:
		return nil, fmt.Errorf("unknown REPLYCAL_REPLY_MODE %q", cfg.ReplyMode)
	}

	return cfg, nil
}
