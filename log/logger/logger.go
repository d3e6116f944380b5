package logger

import (
	"context"
)

// Logger 日志接口，由 SLog 实现
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// 携带 ctx 中的 trace 信息
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)

	// With 返回附加了固定字段的日志器，与原日志器共用输出
	With(args ...any) Logger
}
