package cfg

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Load 读取配置文件，按扩展名解码后绑定到 object
// 绑定之后设置 def 默认值并执行 validate 校验
func Load(filename string, object any) error {
	storage, err := ReadFile(filename)
	if err != nil {
		return err
	}
	return storage.ConvertTo(object)
}

// LoadWithEnv 与 Load 相同，但以 prefix_ 开头的环境变量会覆盖文件中的值
// 例如 prefix 为 SNOWFLAKE 时，SNOWFLAKE_GENERATOR__OPTIONS__INSTANCE=3 覆盖 generator.options.instance
// filename 为空时只使用环境变量
func LoadWithEnv(filename string, prefix string, object any) error {
	data := map[string]any{}
	if filename != "" {
		storage, err := ReadFile(filename)
		if err != nil {
			return err
		}
		m, ok := storage.Data().(map[string]any)
		if !ok {
			return errors.Errorf("config file %s is not an object", filename)
		}
		data = m
	}

	merge(data, Environ(prefix, os.Environ()))
	return NewMapStorage(data).ConvertTo(object)
}

// ReadFile 读取并解码配置文件
func ReadFile(filename string) (*MapStorage, error) {
	decoder, err := NewDecoderByExt(filename)
	if err != nil {
		return nil, err
	}
	buf, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	storage, err := decoder.Decode(buf)
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to decode %s", filename)
	}
	return storage, nil
}

// Environ 从 KEY=VALUE 列表中挑出 prefix_ 开头的变量，去掉前缀后按 "__" 展开为嵌套 map
func Environ(prefix string, environ []string) map[string]any {
	result := map[string]any{}
	prefix = strings.ToUpper(prefix) + "_"
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(strings.ToUpper(key), prefix) {
			continue
		}
		setEnv(result, key[len(prefix):], value)
	}
	return result
}

// merge 把 src 合并到 dst，键名按 normalizeKey 比较
func merge(dst, src map[string]any) {
	for k, v := range src {
		key, ok := lookupKey(dst, k)
		if !ok {
			dst[k] = v
			continue
		}
		srcMap, srcOk := v.(map[string]any)
		dstMap, dstOk := dst[key].(map[string]any)
		if srcOk && dstOk {
			merge(dstMap, srcMap)
			continue
		}
		dst[key] = v
	}
}
