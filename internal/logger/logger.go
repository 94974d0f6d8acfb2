package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"eventhub/config"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	once     sync.Once
	cfg      *config.Config
)

// Init stores the configuration the logger is built from. Must be
// called before Get; otherwise a plain text logger is used.
func Init(c *config.Config) {
	cfg = c
}

func Get() *slog.Logger {
	once.Do(func() {
		if cfg == nil {
			instance = slog.New(slog.NewTextHandler(os.Stdout, nil))
			return
		}

		opts := &slog.HandlerOptions{
			AddSource: cfg.Mode == "release",
			Level:     parseLevel(cfg.LogLevel),
		}

		var handler slog.Handler
		if cfg.Mode == "release" && cfg.LogFilePath != "" {
			handler = slog.NewJSONHandler(&lumberjack.Logger{
				Filename:   cfg.LogFilePath,
				MaxSize:    cfg.LogMaxSizeMB,
				MaxBackups: cfg.LogMaxBackups,
				MaxAge:     cfg.LogMaxAgeDays,
			}, opts)
		} else {
			handler = slog.NewTextHandler(os.Stdout, opts)
		}

		instance = slog.New(handler).With("app_name", "eventhub")
	})
	return instance
}

// New returns a logger tagged with a module name.
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
