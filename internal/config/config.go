// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	TrelloAPIKey    string
	TrelloAPISecret string
	GeminiAPIKey    string
	ListenAddr      string
	DBPath          string
	CheckInterval   time.Duration
	RemoteTimeout   time.Duration
	SecretKey       []byte // 32-byte AES-256 key; nil when credential encryption is disabled.

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// HasTrelloCredentials returns true when both the Trello API key and secret
// are configured. The accountability worker refuses to build per-user Trello
// clients without them.
func (c *Config) HasTrelloCredentials() bool {
	return c.TrelloAPIKey != "" && c.TrelloAPISecret != ""
}

// HasSMTPCredentials returns true when outbound email is configured.
func (c *Config) HasSMTPCredentials() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != "" && c.SenderEmail != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// A .env file in the working directory is loaded first when present.
// Integration keys (MEETINGHUB_TRELLO_API_KEY, MEETINGHUB_GEMINI_API_KEY, SMTP
// settings) are optional; the affected features degrade to per-request error
// messages when absent. Optional variables with defaults:
// MEETINGHUB_LISTEN_ADDR (127.0.0.1:8080), MEETINGHUB_DB_PATH (meetinghub.db),
// MEETINGHUB_CHECK_INTERVAL (1m), MEETINGHUB_REMOTE_TIMEOUT (10s).
func Load() (*Config, error) {
	// Missing .env is the normal production case, not an error.
	_ = godotenv.Load()

	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("MEETINGHUB_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	dbPath := "meetinghub.db"
	if v, ok := os.LookupEnv("MEETINGHUB_DB_PATH"); ok {
		dbPath = v
	}

	checkInterval := time.Minute
	if v, ok := os.LookupEnv("MEETINGHUB_CHECK_INTERVAL"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MEETINGHUB_CHECK_INTERVAL has invalid duration %q: %w", v, err)
		}
		checkInterval = parsed
	}

	remoteTimeout := 10 * time.Second
	if v, ok := os.LookupEnv("MEETINGHUB_REMOTE_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MEETINGHUB_REMOTE_TIMEOUT has invalid duration %q: %w", v, err)
		}
		remoteTimeout = parsed
	}

	var secretKey []byte
	if v, ok := os.LookupEnv("MEETINGHUB_SECRET_KEY"); ok && v != "" {
		decoded, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("MEETINGHUB_SECRET_KEY is not valid hex: %w", err)
		}
		if len(decoded) != 32 {
			return nil, fmt.Errorf("MEETINGHUB_SECRET_KEY must decode to 32 bytes, got %d", len(decoded))
		}
		secretKey = decoded
	}

	smtpPort := 465
	if v, ok := os.LookupEnv("MEETINGHUB_SMTP_PORT"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("MEETINGHUB_SMTP_PORT has invalid value %q", v)
		}
		smtpPort = parsed
	}

	return &Config{
		TrelloAPIKey:    os.Getenv("MEETINGHUB_TRELLO_API_KEY"),
		TrelloAPISecret: os.Getenv("MEETINGHUB_TRELLO_API_SECRET"),
		GeminiAPIKey:    os.Getenv("MEETINGHUB_GEMINI_API_KEY"),
		ListenAddr:      listenAddr,
		DBPath:          dbPath,
		CheckInterval:   checkInterval,
		RemoteTimeout:   remoteTimeout,
		SecretKey:       secretKey,
		SMTPHost:        os.Getenv("MEETINGHUB_SMTP_HOST"),
		SMTPPort:        smtpPort,
		SMTPUsername:    os.Getenv("MEETINGHUB_SMTP_USERNAME"),
		SMTPPassword:    os.Getenv("MEETINGHUB_SMTP_PASSWORD"),
		SenderEmail:     os.Getenv("MEETINGHUB_SENDER_EMAIL"),
	}, nil
}
