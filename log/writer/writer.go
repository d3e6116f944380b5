package writer

import (
	"io"

	"github.com/hatlonely/uidx/ref"
	"github.com/pkg/errors"
)

func init() {
	ref.MustRegisterT[ConsoleWriter](NewConsoleWriterWithOptions)
	ref.MustRegisterT[FileWriter](NewFileWriterWithOptions)
	ref.MustRegisterT[MultiWriter](NewMultiWriterWithOptions)
}

// Writer 日志输出器接口
type Writer interface {
	io.Writer
	io.Closer
}

// NewWriterWithOptions 通过 ref 创建输出器
func NewWriterWithOptions(options *ref.TypeOptions) (Writer, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	obj, err := ref.New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	w, ok := obj.(Writer)
	if !ok {
		return nil, errors.Errorf("%T does not implement Writer", obj)
	}
	return w, nil
}
