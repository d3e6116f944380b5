package log

import (
	"sync/atomic"

	"github.com/hatlonely/uidx/log/logger"
	"github.com/hatlonely/uidx/ref"
	"github.com/pkg/errors"
)

var defaultLogger atomic.Pointer[logger.Logger]

func init() {
	// 默认向 stdout 输出 text 格式
	l, err := logger.NewSLogWithOptions(&logger.SLogOptions{
		Level:  "info",
		Format: "text",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	SetDefault(l)
}

func Default() logger.Logger {
	return *defaultLogger.Load()
}

// SetDefault l 为空时忽略
func SetDefault(l logger.Logger) {
	if l != nil {
		defaultLogger.Store(&l)
	}
}

// NewLoggerWithOptions 通过 ref 创建日志器，options 为空时返回 Default()
func NewLoggerWithOptions(options *ref.TypeOptions) (logger.Logger, error) {
	if options == nil || options.Type == "" {
		return Default(), nil
	}

	obj, err := ref.New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	l, ok := obj.(logger.Logger)
	if !ok {
		return nil, errors.Errorf("%T does not implement Logger", obj)
	}
	return l, nil
}
