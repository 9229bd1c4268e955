package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Notification channels.
const (
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
)

// Config keeps runtime settings for the service.
type Config struct {
	Environment string
	DatabaseURL string
	HTTPAddr    string

	// Scheduler settings.
	TickInterval        time.Duration
	ToleranceMinutes    float64
	DefaultReminderHour int
	// MarkSentOnFailure controls whether a one-shot reminder is marked sent
	// even when delivery fails. True trades lost reminders on transient mail
	// outages for no retry storms on a broken mailbox.
	MarkSentOnFailure   bool
	AutoCompleteEnabled bool

	// Delivery settings.
	NotifyChannel string
	TelegramToken string
	SMTP          SMTPConfig
}

// SMTPConfig holds the outbound mail settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Load reads configuration from the environment with sane defaults.
// A .env file is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		DatabaseURL: getEnv("DATABASE_URL", "task_manager.db"),
		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),

		TickInterval:        getEnvAsDuration("TICK_INTERVAL", time.Minute),
		ToleranceMinutes:    getEnvAsFloat("TOLERANCE_MINUTES", 5),
		DefaultReminderHour: getEnvAsInt("DEFAULT_REMINDER_HOUR", 8),
		MarkSentOnFailure:   getEnvAsBool("MARK_SENT_ON_FAILURE", true),
		AutoCompleteEnabled: getEnvAsBool("AUTO_COMPLETE_ENABLED", false),

		NotifyChannel: getEnv("NOTIFY_CHANNEL", ChannelEmail),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		SMTP: SMTPConfig{
			Host:      getEnv("SMTP_HOST", "localhost"),
			Port:      getEnvAsInt("SMTP_PORT", 587),
			Username:  os.Getenv("SMTP_USER"),
			Password:  os.Getenv("SMTP_PASS"),
			FromName:  getEnv("SMTP_FROM_NAME", "Task Manager"),
			FromEmail: getEnv("SMTP_FROM_EMAIL", "no-reply@localhost"),
		},
	}

	switch cfg.NotifyChannel {
	case ChannelEmail:
	case ChannelTelegram:
		if cfg.TelegramToken == "" {
			return cfg, fmt.Errorf("TELEGRAM_TOKEN is required when NOTIFY_CHANNEL=telegram")
		}
	default:
		return cfg, fmt.Errorf("unknown NOTIFY_CHANNEL %q", cfg.NotifyChannel)
	}

	if cfg.TickInterval <= 0 {
		return cfg, fmt.Errorf("TICK_INTERVAL must be positive")
	}
	if cfg.ToleranceMinutes <= 0 {
		return cfg, fmt.Errorf("TOLERANCE_MINUTES must be positive")
	}
	if cfg.DefaultReminderHour < 0 || cfg.DefaultReminderHour > 23 {
		return cfg, fmt.Errorf("DEFAULT_REMINDER_HOUR must be within 0..23")
	}

	return cfg, nil
}

// Production reports whether the service runs with production delivery
// policy (default-hour reminders enabled).
func (c Config) Production() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(key)), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key))); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}
