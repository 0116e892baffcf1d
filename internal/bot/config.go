package bot

import (
	"fmt"
	"os"
	"strconv"

	"github.com/example/vocabtrainer/internal/reminder"
)

// Config holds the bot settings read from the environment.
type Config struct {
	// Token authenticates against the Telegram Bot API.
	Token string
	// ChatID is the single chat the bot answers. Messages from any other
	// chat are ignored.
	ChatID int64
	// TargetLang is the translation target for word enrichment.
	TargetLang string
	// Reminder window, hours of day.
	NotificationStartHour int
	NotificationEndHour   int
}

// ConfigFromEnv builds the config from environment variables.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		Token:                 os.Getenv("TELEGRAM_BOT_TOKEN"),
		TargetLang:            os.Getenv("TARGET_LANG"),
		NotificationStartHour: reminder.DefaultStartHour,
		NotificationEndHour:   reminder.DefaultEndHour,
	}
	if cfg.Token == "" {
		return Config{}, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	chatID := os.Getenv("TELEGRAM_CHAT_ID")
	if chatID == "" {
		return Config{}, fmt.Errorf("TELEGRAM_CHAT_ID environment variable is not set")
	}
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}
	cfg.ChatID = id

	if v := os.Getenv("NOTIFICATION_START_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			cfg.NotificationStartHour = h
		}
	}
	if v := os.Getenv("NOTIFICATION_END_HOUR"); v != "" {
		if h, err := strconv.Atoi(v); err == nil && h >= 0 && h <= 23 {
			cfg.NotificationEndHour = h
		}
	}
	return cfg, nil
}
