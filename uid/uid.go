package uid

import (
	"github.com/hatlonely/uidx/ref"
	"github.com/hatlonely/uidx/uid/intgen"
)

// NewIntGeneratorWithOptions 创建整数生成器
func NewIntGeneratorWithOptions(options *ref.TypeOptions) (intgen.IntGenerator, error) {
	return intgen.NewIntGeneratorWithOptions(options)
}

// NewIntGenerator 使用默认配置创建并发安全的 Snowflake 生成器，实例ID从本机 IP 获取
func NewIntGenerator() (intgen.IntGenerator, error) {
	return intgen.NewSnowflakeGeneratorWithOptions(nil)
}
