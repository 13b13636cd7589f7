package config

import (
	"testing"
	"time"
)

// setEnv clears every variable Load reads, then applies overrides.
func setEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	t.Chdir(t.TempDir()) // keep a developer's .env out of the test
	for _, key := range []string{
		"DATABASE_URL", "TELEGRAM_TOKEN", "NOTIFY_CHAT_ID", "LOG_LEVEL", "ENVIRONMENT",
		"CRON_SPEC_CLOSING_CHECK", "TRIGGER_JOBS", "BACKFILL_FROM", "BACKFILL_TO",
		"BACKFILL_STEP", "CHECKPOINT_DIR", "NOTIFY_SILENT", "LOG_REPORT_CALLER",
	} {
		t.Setenv(key, overrides[key])
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{"DATABASE_URL": "postgres://localhost/periods"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "info" || cfg.Environment != "development" {
		t.Errorf("LogLevel=%q Environment=%q", cfg.LogLevel, cfg.Environment)
	}
	if cfg.CronSpecClosingCheck != "0 18 * * 1-5" {
		t.Errorf("CronSpecClosingCheck = %q", cfg.CronSpecClosingCheck)
	}
	if cfg.BackfillStep != 1 || cfg.CheckpointDir != "./pending_work" {
		t.Errorf("BackfillStep=%d CheckpointDir=%q", cfg.BackfillStep, cfg.CheckpointDir)
	}
	if cfg.TelegramToken != "" || cfg.BackfillEnabled() || len(cfg.TriggerJobs) != 0 || cfg.NotifySilent || cfg.LogReportCaller {
		t.Errorf("unexpected optional settings: %+v", cfg)
	}
}

func TestLoad_Full(t *testing.T) {
	setEnv(t, map[string]string{
		"DATABASE_URL":      "postgres://localhost/periods",
		"TELEGRAM_TOKEN":    "token",
		"NOTIFY_CHAT_ID":    "-100123",
		"LOG_LEVEL":         "DEBUG",
		"ENVIRONMENT":       "Production",
		"TRIGGER_JOBS":      "report=monthly:23@08:30; sync=daily@06:00",
		"BACKFILL_FROM":     "2021-01-01",
		"BACKFILL_STEP":     "7",
		"CHECKPOINT_DIR":    "/var/lib/periods",
		"NOTIFY_SILENT":     "true",
		"LOG_REPORT_CALLER": "1",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.NotifyChatID != -100123 || cfg.LogLevel != "debug" || cfg.Environment != "production" {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.TriggerJobs) != 2 || cfg.TriggerJobs[1] != (JobSpec{Name: "sync", Anchor: "daily@06:00"}) {
		t.Errorf("TriggerJobs = %+v", cfg.TriggerJobs)
	}
	wantFrom := time.Date(2021, 1, 1, 0, 0, 0, 0, time.Local)
	if !cfg.BackfillFrom.Equal(wantFrom) || !cfg.BackfillTo.IsZero() || !cfg.BackfillEnabled() {
		t.Errorf("BackfillFrom=%v BackfillTo=%v", cfg.BackfillFrom, cfg.BackfillTo)
	}
	if !cfg.NotifySilent || !cfg.LogReportCaller {
		t.Errorf("NotifySilent=%v LogReportCaller=%v", cfg.NotifySilent, cfg.LogReportCaller)
	}
	if cfg.BackfillStep != 7 || cfg.CheckpointDir != "/var/lib/periods" {
		t.Errorf("BackfillStep=%d CheckpointDir=%q", cfg.BackfillStep, cfg.CheckpointDir)
	}
}

func TestLoad_Errors(t *testing.T) {
	base := map[string]string{"DATABASE_URL": "postgres://localhost/periods"}
	with := func(key, value string) map[string]string {
		m := map[string]string{}
		for k, v := range base {
			m[k] = v
		}
		m[key] = value
		return m
	}
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database url", map[string]string{}},
		{"token without chat", with("TELEGRAM_TOKEN", "token")},
		{"bad backfill date", with("BACKFILL_TO", "2021-02-30")},
		{"bad backfill step", with("BACKFILL_STEP", "weekly")},
		{"bad job entry", with("TRIGGER_JOBS", "report")},
		{"bad silent flag", with("NOTIFY_SILENT", "sometimes")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			if cfg, err := Load(); err == nil {
				t.Errorf("Load() = %+v, want error", cfg)
			}
		})
	}
}

func TestParseJobs(t *testing.T) {
	jobs, err := ParseJobs(" a=never ;; b = weekly:1@09:00 ;")
	if err != nil {
		t.Fatal(err)
	}
	want := []JobSpec{{"a", "never"}, {"b", "weekly:1@09:00"}}
	if len(jobs) != len(want) || jobs[0] != want[0] || jobs[1] != want[1] {
		t.Errorf("ParseJobs = %+v, want %+v", jobs, want)
	}

	for _, bad := range []string{"=daily@06:00", "a=", "a=never;a=daily@06:00"} {
		if _, err := ParseJobs(bad); err == nil {
			t.Errorf("ParseJobs(%q) succeeded, want error", bad)
		}
	}
}
