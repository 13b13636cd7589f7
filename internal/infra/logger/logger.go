// internal/infra/logger/logger.go
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"period_scheduler/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// ServiceName is attached to every entry as the "service" field.
const ServiceName = "period_scheduler"

// Log is the global logger instance
var Log = logrus.New()

// Init initializes the global logger based on application configuration.
func Init(cfg *config.AppConfig) {
	Log.SetOutput(os.Stdout) // Default output
	Configure(Log, cfg)

	Log.Info("Logger initialized successfully.")
	Log.Debugf("Log level set to: %s", Log.GetLevel().String())
	Log.Debugf("Log format set for environment: %s", cfg.Environment)
}

// Configure applies level, formatter, caller reporting and the service
// fields to l. The output is left alone.
func Configure(l *logrus.Logger, cfg *config.AppConfig) {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		l.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	l.SetReportCaller(cfg.LogReportCaller)
	if isStructured(cfg.Environment) {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat:  "2006-01-02T15:04:05.000Z07:00", // ISO8601
			CallerPrettyfier: shortCaller,
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:    true,
			TimestampFormat:  "2006-01-02 15:04:05",
			CallerPrettyfier: shortCaller,
		})
	}

	l.ReplaceHooks(make(logrus.LevelHooks))
	l.AddHook(serviceHook{environment: cfg.Environment})
}

// Component returns an entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

func isStructured(environment string) bool {
	switch strings.ToLower(environment) {
	case "production", "staging":
		return true
	}
	return false
}

// serviceHook stamps service and environment on every entry so that lines
// from several deployments can share one log sink.
type serviceHook struct {
	environment string
}

func (serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	if _, ok := e.Data["service"]; !ok {
		e.Data["service"] = ServiceName
	}
	if _, ok := e.Data["env"]; !ok {
		e.Data["env"] = h.environment
	}
	return nil
}

// shortCaller renders the caller as "file.go:line" with no function name.
func shortCaller(f *runtime.Frame) (function string, file string) {
	return "", fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
}
