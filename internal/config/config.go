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
	Server    ServerConfig
	WhatsApp  WhatsAppConfig
	Webhook   WebhookConfig
	Broadcast BroadcastConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
}

// WebhookConfig holds the inbound webhook options. VerifyToken is optional;
// leaving it empty disables the GET verification route entirely.
type WebhookConfig struct {
	Path         string
	VerifyToken  string
	AutoMarkRead bool
}

// BroadcastConfig drives the optional cron broadcast. An empty CronSchedule
// disables the scheduler.
type BroadcastConfig struct {
	CronSchedule string
	To           string
	Message      string
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
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "3000"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v14.0"),
		},
		Webhook: WebhookConfig{
			Path:         getenvWithDefault("WEBHOOK_PATH", "/webhook/whatsapp"),
			VerifyToken:  os.Getenv("META_VERIFY_TOKEN"),
			AutoMarkRead: getenvBool("AUTO_MARK_READ"),
		},
		Broadcast: BroadcastConfig{
			CronSchedule: os.Getenv("BROADCAST_CRON"),
			To:           os.Getenv("BROADCAST_TO"),
			Message:      os.Getenv("BROADCAST_MESSAGE"),
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
	case c.WhatsApp.AccessToken == "":
		return errors.New("WHATSAPP_TOKEN must be provided")
	case c.WhatsApp.PhoneNumberID == "":
		return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
	}

	if c.WhatsApp.BaseURL == "" {
		return errors.New("WHATSAPP_BASE_URL must not be empty")
	}

	if c.WhatsApp.APIVersion == "" {
		return errors.New("WHATSAPP_API_VERSION must not be empty")
	}

	if c.Webhook.Path == "" {
		return errors.New("WEBHOOK_PATH must not be empty")
	}

	if c.Broadcast.CronSchedule != "" {
		if c.Broadcast.To == "" {
			return errors.New("BROADCAST_TO must be provided when BROADCAST_CRON is set")
		}
		if c.Broadcast.Message == "" {
			return errors.New("BROADCAST_MESSAGE must be provided when BROADCAST_CRON is set")
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

func getenvBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}
