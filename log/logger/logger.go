package logger

import (
	"context"
	"log/slog"
)

// Logger 日志接口
//
// 绑定期日志大多是 debug 级别，调用方可以先用 Enabled 判断，避免拼装无用的字段。
type Logger interface {
	Enabled(ctx context.Context, level slog.Level) bool

	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	With(args ...any) Logger
	WithGroup(name string) Logger
}
