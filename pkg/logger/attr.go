package logger

import (
	"log/slog"
	"strconv"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

func Component(name string) slog.Attr {
	return slog.String("component", name)
}

func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}

// Token logs a token with its signature masked.
func Token(token string) slog.Attr {
	return slog.String("token", token)
}

func TokenType(t string) slog.Attr {
	return slog.String("token_type", t)
}

// RecordID records a history record identifier under the key "record_id".
func RecordID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("record_id", id)
}

func Scheme(name string) slog.Attr {
	return slog.String("scheme", name)
}

func Backend(name string) slog.Attr {
	return slog.String("backend", name)
}
