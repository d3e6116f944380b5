package cfg

import (
	"bufio"
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hatlonely/uidx/ref"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

func init() {
	ref.MustRegisterT[JsonDecoder](NewJsonDecoder)
	ref.MustRegisterT[YamlDecoder](NewYamlDecoder)
	ref.MustRegisterT[TomlDecoder](NewTomlDecoder)
	ref.MustRegisterT[IniDecoder](NewIniDecoder)
	ref.MustRegisterT[EnvDecoder](NewEnvDecoder)
}

// Decoder 把配置文件内容解码为 MapStorage
type Decoder interface {
	Decode(data []byte) (*MapStorage, error)
}

// NewDecoderWithOptions 通过 ref 创建解码器
func NewDecoderWithOptions(options *ref.TypeOptions) (Decoder, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}
	obj, err := ref.New(options.Namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	decoder, ok := obj.(Decoder)
	if !ok {
		return nil, errors.Errorf("%T is not a Decoder", obj)
	}
	return decoder, nil
}

// NewDecoderByExt 按文件扩展名选择解码器
func NewDecoderByExt(filename string) (Decoder, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" && strings.HasPrefix(filepath.Base(filename), ".env") {
		ext = ".env"
	}

	switch ext {
	case ".json":
		return NewJsonDecoder(), nil
	case ".yaml", ".yml":
		return NewYamlDecoder(), nil
	case ".toml":
		return NewTomlDecoder(), nil
	case ".ini":
		return NewIniDecoder(), nil
	case ".env":
		return NewEnvDecoder(), nil
	}
	return nil, errors.Errorf("unsupported config file extension %q", ext)
}

// JsonDecoder JSON 格式
type JsonDecoder struct{}

func NewJsonDecoder() *JsonDecoder { return &JsonDecoder{} }

func (d *JsonDecoder) Decode(data []byte) (*MapStorage, error) {
	var result any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode JSON")
	}
	return NewMapStorage(result), nil
}

// YamlDecoder YAML 格式
type YamlDecoder struct{}

func NewYamlDecoder() *YamlDecoder { return &YamlDecoder{} }

func (d *YamlDecoder) Decode(data []byte) (*MapStorage, error) {
	var result any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode YAML")
	}
	return NewMapStorage(result), nil
}

// TomlDecoder TOML 格式
type TomlDecoder struct{}

func NewTomlDecoder() *TomlDecoder { return &TomlDecoder{} }

func (d *TomlDecoder) Decode(data []byte) (*MapStorage, error) {
	var result map[string]any
	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode TOML")
	}
	return NewMapStorage(result), nil
}

// IniDecoder INI 格式，section 名中的 "." 表示嵌套，例如 [generator.options]
type IniDecoder struct{}

func NewIniDecoder() *IniDecoder { return &IniDecoder{} }

func (d *IniDecoder) Decode(data []byte) (*MapStorage, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:         true,
		SpaceBeforeInlineComment: true,
	}, data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode INI")
	}

	result := map[string]any{}
	for _, section := range file.Sections() {
		target := result
		if name := section.Name(); name != ini.DefaultSection {
			target = nested(result, strings.Split(name, "."))
		}
		for _, key := range section.Keys() {
			target[key.Name()] = key.String()
		}
	}
	return NewMapStorage(result), nil
}

// EnvDecoder .env 格式，KEY=VALUE，键名中的 "__" 表示嵌套，例如 GENERATOR__OPTIONS__INSTANCE=1
type EnvDecoder struct{}

func NewEnvDecoder() *EnvDecoder { return &EnvDecoder{} }

func (d *EnvDecoder) Decode(data []byte) (*MapStorage, error) {
	result := map[string]any{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, errors.Errorf("invalid line %d: %q", lineNum, line)
		}
		setEnv(result, strings.TrimSpace(key), unquote(strings.TrimSpace(value)))
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to scan .env data")
	}

	return NewMapStorage(result), nil
}

func setEnv(result map[string]any, key string, value string) {
	parts := strings.Split(strings.ToLower(key), "__")
	nested(result, parts[:len(parts)-1])[parts[len(parts)-1]] = value
}

func unquote(value string) string {
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// nested 返回 path 对应的子 map，不存在时创建
func nested(m map[string]any, path []string) map[string]any {
	for _, part := range path {
		child, ok := m[part].(map[string]any)
		if !ok {
			child = map[string]any{}
			m[part] = child
		}
		m = child
	}
	return m
}
