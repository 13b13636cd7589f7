package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"period_scheduler/internal/infra/config"

	"github.com/sirupsen/logrus"
)

func newLogger(t *testing.T, cfg *config.AppConfig) (*logrus.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	Configure(l, cfg)
	buf.Reset()
	return l, &buf
}

func TestConfigure_ProductionJSON(t *testing.T) {
	l, buf := newLogger(t, &config.AppConfig{LogLevel: "debug", Environment: "production", LogReportCaller: true})

	l.WithField("component", "closings").Debug("Period closing recorded")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	for key, want := range map[string]string{
		"service":   ServiceName,
		"env":       "production",
		"component": "closings",
		"level":     "debug",
	} {
		if entry[key] != want {
			t.Errorf("%s = %v, want %q", key, entry[key], want)
		}
	}
	file, _ := entry["file"].(string)
	if !strings.HasPrefix(file, "logger_test.go:") {
		t.Errorf("file = %q, want logger_test.go:<line>", file)
	}
	if fn, ok := entry["func"]; ok && fn != "" {
		t.Errorf("func = %v, want it omitted", fn)
	}
}

func TestConfigure_DevelopmentText(t *testing.T) {
	l, buf := newLogger(t, &config.AppConfig{LogLevel: "info", Environment: "development"})

	l.Debug("hidden")
	l.WithField("service", "periodctl").Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug entry written at info level: %s", out)
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, "env=development") || !strings.Contains(out, "service=periodctl") {
		t.Errorf("text output = %q", out)
	}
	if strings.Contains(out, "file=") {
		t.Errorf("caller reported without LogReportCaller: %q", out)
	}
}

func TestConfigure_InvalidLevel(t *testing.T) {
	l, _ := newLogger(t, &config.AppConfig{LogLevel: "chatty", Environment: "staging"})
	if l.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %s, want info", l.GetLevel())
	}
}

func TestConfigure_Repeated(t *testing.T) {
	l, _ := newLogger(t, &config.AppConfig{LogLevel: "info"})
	Configure(l, &config.AppConfig{LogLevel: "info", Environment: "staging"})
	if n := len(l.Hooks[logrus.InfoLevel]); n != 1 {
		t.Errorf("%d hooks after reconfiguring, want 1", n)
	}
}
