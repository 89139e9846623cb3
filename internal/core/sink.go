package core

import (
	"context"
	"log/slog"
	"time"
)

// Level is the severity attached to a reporting Record.
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Record is a single structured entry sent to the reporting sink.
// Attachment is an optional path to a file that should accompany the entry.
type Record struct {
	Message    string
	Level      Level
	Time       time.Time
	Attachment string
}

// Sink accepts report records. Implementations must not retain r.Attachment
// as an open handle; the file may be rotated after Emit returns.
type Sink interface {
	Emit(ctx context.Context, r Record) error
}

// LogSink is a Sink that writes records to a slog.Logger only. It is the
// fallback when a run has no reporting backend.
type LogSink struct {
	Logger *slog.Logger
}

var _ Sink = LogSink{}

// Emit logs r and never fails.
func (s LogSink) Emit(ctx context.Context, r Record) error {
	l := s.Logger
	if l == nil {
		l = Logger()
	}
	attrs := []any{"level_reported", string(r.Level), "time_reported", r.Time}
	if r.Attachment != "" {
		attrs = append(attrs, "attachment", r.Attachment)
	}
	l.Log(ctx, slogLevel(r.Level), r.Message, attrs...)
	return nil
}

func slogLevel(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
