package blockchainwallet

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

var logLevel slog.LevelVar

// Attribute keys whose values never reach the log output.
var secretLogKeys = map[string]struct{}{
	"password":        {},
	"second_password": {},
}

func parseLogLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

func validLogFormat(format string) bool {
	return format == "text" || format == "json"
}

// InitLogger installs the default slog logger on stderr; stdout carries
// command output.
func InitLogger(cfg LoggingConfig) {
	initLogger(os.Stderr, cfg)
}

func initLogger(w io.Writer, cfg LoggingConfig) {
	lvl, ok := parseLogLevel(cfg.Level)
	if !ok {
		lvl = slog.LevelInfo
	}
	logLevel.Set(lvl)

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		// JSON lines go to collectors; keep full RFC 3339 timestamps there.
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       &logLevel,
			ReplaceAttr: maskSecrets,
		})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:       &logLevel,
			ReplaceAttr: textAttrs,
		})
	}

	slog.SetDefault(slog.New(handler))
	slog.Debug("logger initialized", "level", strings.ToUpper(lvl.String()), "format", cfg.Format)
}

func maskSecrets(_ []string, a slog.Attr) slog.Attr {
	if _, ok := secretLogKeys[strings.ToLower(a.Key)]; ok {
		return slog.String(a.Key, "REDACTED")
	}
	return a
}

func textAttrs(groups []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if len(groups) == 0 {
			return slog.String(slog.TimeKey, a.Value.Time().Format(time.TimeOnly))
		}
	case slog.LevelKey:
		if lvl, ok := a.Value.Any().(slog.Level); ok && len(groups) == 0 {
			return slog.String(slog.LevelKey, strings.ToUpper(lvl.String()))
		}
	}
	return maskSecrets(groups, a)
}
