package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the planner.
type Config struct {
	DatabaseURL    string
	TelegramToken  string
	TelegramChatID int64
	ReminderPoll   time.Duration
	AgendaTime     string
}

// Load reads configuration from environment variables with sane
// defaults. The Telegram settings are optional: without a token the
// engine runs headless.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		ReminderPoll:  parseMinutes(strings.TrimSpace(os.Getenv("REMINDER_POLL_MINUTES"))),
		AgendaTime:    strings.TrimSpace(os.Getenv("AGENDA_TIME")),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "task_planner.db"
	}
	if cfg.ReminderPoll == 0 {
		cfg.ReminderPoll = time.Minute
	}
	if cfg.AgendaTime == "" {
		cfg.AgendaTime = "08:00"
	}

	if raw := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be an integer: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	return cfg, nil
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}
