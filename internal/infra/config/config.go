package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// DateLayout is the format of BACKFILL_FROM / BACKFILL_TO.
const DateLayout = "2006-01-02"

// JobSpec is one raw "name=anchor" entry from TRIGGER_JOBS.
type JobSpec struct {
	Name   string
	Anchor string
}

// AppConfig holds all configuration for the application
type AppConfig struct {
	DatabaseURL          string
	TelegramToken        string // Empty disables Telegram notifications and commands
	NotifyChatID         int64
	NotifySilent         bool // Deliver notifications without a sound
	LogLevel             string
	LogReportCaller      bool // Add file:line of the logging call to every entry
	Environment          string
	CronSpecClosingCheck string // Daily check whether today closes a reporting period
	TriggerJobs          []JobSpec
	BackfillFrom         time.Time // Zero when unset
	BackfillTo           time.Time // Zero when unset
	BackfillStep         int
	CheckpointDir        string
}

// BackfillEnabled reports whether at least one backfill bound is configured.
func (c *AppConfig) BackfillEnabled() bool {
	return !c.BackfillFrom.IsZero() || !c.BackfillTo.IsZero()
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken != "" {
		chatIDStr := os.Getenv("NOTIFY_CHAT_ID")
		if chatIDStr == "" {
			return nil, fmt.Errorf("NOTIFY_CHAT_ID is not set (required with TELEGRAM_TOKEN)")
		}
		cfg.NotifyChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid NOTIFY_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	if cfg.NotifySilent, err = parseBool("NOTIFY_SILENT"); err != nil {
		return nil, err
	}
	if cfg.LogReportCaller, err = parseBool("LOG_REPORT_CALLER"); err != nil {
		return nil, err
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecClosingCheck = os.Getenv("CRON_SPEC_CLOSING_CHECK")
	if cfg.CronSpecClosingCheck == "" {
		cfg.CronSpecClosingCheck = "0 18 * * 1-5" // Default: 6 PM on business days
	}

	cfg.TriggerJobs, err = ParseJobs(os.Getenv("TRIGGER_JOBS"))
	if err != nil {
		return nil, err
	}

	if cfg.BackfillFrom, err = parseDate("BACKFILL_FROM"); err != nil {
		return nil, err
	}
	if cfg.BackfillTo, err = parseDate("BACKFILL_TO"); err != nil {
		return nil, err
	}

	cfg.BackfillStep = 1
	if stepStr := os.Getenv("BACKFILL_STEP"); stepStr != "" {
		cfg.BackfillStep, err = strconv.Atoi(stepStr)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKFILL_STEP: %w", err)
		}
	}

	cfg.CheckpointDir = os.Getenv("CHECKPOINT_DIR")
	if cfg.CheckpointDir == "" {
		cfg.CheckpointDir = "./pending_work"
	}

	return cfg, nil
}

// ParseJobs splits "name=anchor;name=anchor". Anchors are validated later by
// the recurrence package; only the shape is checked here.
func ParseJobs(raw string) ([]JobSpec, error) {
	var jobs []JobSpec
	seen := make(map[string]bool)
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, anchor, ok := strings.Cut(entry, "=")
		name, anchor = strings.TrimSpace(name), strings.TrimSpace(anchor)
		if !ok || name == "" || anchor == "" {
			return nil, fmt.Errorf("invalid TRIGGER_JOBS entry %q, expected name=anchor", entry)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate TRIGGER_JOBS name %q", name)
		}
		seen[name] = true
		jobs = append(jobs, JobSpec{Name: name, Anchor: anchor})
	}
	return jobs, nil
}

func parseDate(key string) (time.Time, error) {
	value := os.Getenv(key)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}

func parseBool(key string) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
