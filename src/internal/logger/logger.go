package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"pin":         {},
	"pinconfirm":  {},
	"pin_confirm": {},
	"pinhash":     {},
	"pin_hash":    {},
}

var current atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	current.Store(&l)
}

// Configure replaces the output and minimum level of the package logger.
func Configure(w io.Writer, level string) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	current.Store(&l)
	return nil
}

func Debug(message string, fields Fields) {
	current.Load().Debug().Fields(sanitizeFields(fields)).Msg(message)
}

func Info(message string, fields Fields) {
	current.Load().Info().Fields(sanitizeFields(fields)).Msg(message)
}

func Warn(message string, fields Fields) {
	current.Load().Warn().Fields(sanitizeFields(fields)).Msg(message)
}

func Error(message string, err error, fields Fields) {
	current.Load().Error().Err(err).Fields(sanitizeFields(fields)).Msg(message)
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func sanitizeFields(fields Fields) map[string]any {
	if fields == nil {
		return map[string]any{}
	}

	sanitized, ok := SanitizePayload(fields).(map[string]any)
	if !ok {
		return map[string]any{"fields": "<unavailable>"}
	}

	return sanitized
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
