package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/hatlonely/gqlmodel/log/writer"
	"github.com/hatlonely/gqlmodel/ref"
	"github.com/pkg/errors"
)

// SLogOptions 日志初始化选项
type SLogOptions struct {
	// 日志级别：debug, info, warn, error
	Level string `cfg:"level" def:"info" validate:"omitempty,oneof=debug info warn error"`

	// 输出格式：text, json
	Format string `cfg:"format" def:"text" validate:"omitempty,oneof=text json"`

	// 输出目标，为空时输出到 stdout
	Output *ref.TypeOptions `cfg:"output"`

	// 时间格式
	TimeFormat string `cfg:"timeFormat"`

	// 是否显示调用者信息
	AddSource bool `cfg:"addSource"`

	// 附加在每条日志上的字段
	Fields map[string]any `cfg:"fields"`
}

type SLog struct {
	slogger *slog.Logger
}

func NewSLogWithOptions(options *SLogOptions) (*SLog, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}

	level, err := parseLevel(options.Level)
	if err != nil {
		return nil, err
	}

	var w io.Writer
	if options.Output != nil && options.Output.Type != "" {
		w, err = ref.NewWithOptions[writer.Writer](options.Output)
		if err != nil {
			return nil, errors.WithMessage(err, "create writer failed")
		}
	} else {
		w, err = writer.NewConsoleWriterWithOptions(&writer.ConsoleWriterOptions{Target: "stdout"})
		if err != nil {
			return nil, errors.WithMessage(err, "create console writer failed")
		}
	}

	return NewSLog(w, level, options)
}

// NewSLog 基于任意 io.Writer 创建日志器，测试中常用于写入 bytes.Buffer
func NewSLog(w io.Writer, level slog.Level, options *SLogOptions) (*SLog, error) {
	if options == nil {
		options = &SLogOptions{}
	}

	handler, err := newHandler(w, level, options)
	if err != nil {
		return nil, err
	}

	fields := make([]any, 0, len(options.Fields)*2)
	for k, v := range options.Fields {
		fields = append(fields, k, v)
	}
	return &SLog{slogger: slog.New(handler).With(fields...)}, nil
}

func newHandler(w io.Writer, level slog.Level, options *SLogOptions) (slog.Handler, error) {
	handlerOptions := &slog.HandlerOptions{Level: level, AddSource: options.AddSource}
	if layout := options.TimeFormat; layout != "" && layout != time.RFC3339 {
		handlerOptions.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) != 0 || a.Key != slog.TimeKey {
				return a
			}
			return slog.String(slog.TimeKey, a.Value.Time().Format(layout))
		}
	}

	switch strings.ToLower(options.Format) {
	case "", "text":
		return slog.NewTextHandler(w, handlerOptions), nil
	case "json":
		return slog.NewJSONHandler(w, handlerOptions), nil
	}
	return nil, errors.Errorf("unsupported format: %s", options.Format)
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, errors.Errorf("unknown level: %s", level)
	}
}

// Discard 丢弃所有输出，用于不关心日志的测试和嵌入场景
func Discard() *SLog {
	return &SLog{slogger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))}
}

func (l *SLog) Enabled(ctx context.Context, level slog.Level) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.slogger.Enabled(ctx, level)
}

func (l *SLog) log(ctx context.Context, level slog.Level, msg string, args []any) {
	if ctx == nil {
		ctx = context.Background()
	}
	l.slogger.Log(ctx, level, msg, args...)
}

func (l *SLog) Debug(msg string, args ...any) {
	l.log(context.Background(), slog.LevelDebug, msg, args)
}

func (l *SLog) Info(msg string, args ...any) {
	l.log(context.Background(), slog.LevelInfo, msg, args)
}

func (l *SLog) Warn(msg string, args ...any) {
	l.log(context.Background(), slog.LevelWarn, msg, args)
}

func (l *SLog) Error(msg string, args ...any) {
	l.log(context.Background(), slog.LevelError, msg, args)
}

func (l *SLog) DebugContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelDebug, msg, args)
}

func (l *SLog) InfoContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelInfo, msg, args)
}

func (l *SLog) WarnContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelWarn, msg, args)
}

func (l *SLog) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, slog.LevelError, msg, args)
}

func (l *SLog) With(args ...any) Logger {
	return &SLog{slogger: l.slogger.With(args...)}
}

func (l *SLog) WithGroup(name string) Logger {
	return &SLog{slogger: l.slogger.WithGroup(name)}
}
