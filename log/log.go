package log

import (
	"log/slog"

	"github.com/hatlonely/gqlmodel/log/logger"
)

type Logger = logger.Logger

type Options = logger.SLogOptions

const LevelDebug = slog.LevelDebug

var defaultLogger Logger

func init() {
	l, err := logger.NewSLogWithOptions(&Options{Level: "info", Format: "text"})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger = l
}

// Default 返回包级默认日志器
func Default() Logger {
	return defaultLogger
}

// NewLogWithOptions 根据配置创建日志器，options 为 nil 时返回默认日志器
func NewLogWithOptions(options *Options) (Logger, error) {
	if options == nil {
		return defaultLogger, nil
	}
	return logger.NewSLogWithOptions(options)
}

// Discard 返回丢弃所有输出的日志器
func Discard() Logger {
	return logger.Discard()
}
