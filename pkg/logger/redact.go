package logger

import (
	"log/slog"
	"strings"
)

const redactedValue = "***REDACTED***"

var sensitiveKeyPatterns = []string{
	"secret",
	"password",
	"authorization",
	"key",
}

// redact hides secrets by key name and strips signatures from token-shaped
// values. slog invokes it for nested group members individually.
func redact(a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString {
		return a
	}
	v := a.Value.String()
	if v == "" {
		return a
	}
	key := strings.ToLower(a.Key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(key, pattern) {
			return slog.String(a.Key, redactedValue)
		}
	}
	if masked, ok := maskToken(v); ok {
		return slog.String(a.Key, masked)
	}
	return a
}

// maskToken replaces the signature segment of a header.payload.signature
// value. Other strings are returned unchanged with ok == false.
func maskToken(v string) (string, bool) {
	if strings.ContainsAny(v, " \t\n") || strings.Count(v, ".") != 2 {
		return v, false
	}
	i := strings.LastIndexByte(v, '.')
	if i == 0 || i == len(v)-1 || !strings.HasPrefix(v, "eyJ") {
		return v, false
	}
	return v[:i+1] + "***", true
}
