package intgen

import (
	"github.com/hatlonely/uidx/ref"
	"github.com/pkg/errors"
)

func init() {
	ref.MustRegisterT[SnowflakeGenerator](NewSnowflakeGeneratorWithOptions)
	ref.MustRegisterT[ObservableGenerator](NewObservableGeneratorWithOptions)
}

// IntGenerator 生成64位整数UID的接口
type IntGenerator interface {
	// Generate 生成一个64位整数UID，失败时不消耗序列号
	Generate() (int64, error)
}

// NewIntGeneratorWithOptions 创建整数生成器
func NewIntGeneratorWithOptions(options *ref.TypeOptions) (IntGenerator, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	generator, err := ref.New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	if generator == nil {
		return nil, errors.New("generator is nil")
	}
	g, ok := generator.(IntGenerator)
	if !ok {
		return nil, errors.Errorf("%T is not an IntGenerator", generator)
	}

	return g, nil
}
