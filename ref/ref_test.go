package ref

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Value struct {
	Name string
}

type Options struct {
	Name string
}

func NewValue(options *Options) (*Value, error) {
	if options == nil {
		return nil, errors.New("options cannot be nil")
	}
	if options.Name == "" {
		return nil, errors.New("name cannot be empty")
	}
	return &Value{Name: options.Name}, nil
}

func NewDefaultValue() *Value {
	return &Value{Name: "default"}
}

func NewValueByCopy(options Options) *Value {
	return &Value{Name: options.Name}
}

// mapOptions 模拟配置文件中的一个子树
type mapOptions map[string]string

func (m mapOptions) ConvertTo(object any) error {
	switch o := object.(type) {
	case *Options:
		o.Name = m["name"]
		return nil
	default:
		return errors.New("unsupported target")
	}
}

func TestRegisterAndNew(t *testing.T) {
	require.NoError(t, Register("test", "Value", NewValue))
	require.NoError(t, Register("test", "DefaultValue", NewDefaultValue))
	require.NoError(t, Register("test", "ValueByCopy", NewValueByCopy))

	tests := []struct {
		name     string
		type_    string
		options  any
		wantErr  bool
		expected string
	}{
		{"options pointer", "Value", &Options{Name: "registered"}, false, "registered"},
		{"constructor error", "Value", &Options{}, true, ""},
		{"nil options passes typed nil", "Value", nil, true, ""},
		{"no options", "DefaultValue", nil, false, "default"},
		{"convertable to pointer", "Value", mapOptions{"name": "from-map"}, false, "from-map"},
		{"convertable to value", "ValueByCopy", mapOptions{"name": "by-copy"}, false, "by-copy"},
		{"wrong options type", "Value", "name", true, ""},
		{"unregistered", "Missing", nil, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := New("test", tt.type_, tt.options)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, obj.(*Value).Name)
		})
	}
}

func TestRegisterConflict(t *testing.T) {
	require.NoError(t, Register("conflict", "Value", NewDefaultValue))
	assert.NoError(t, Register("conflict", "Value", NewDefaultValue))
	assert.Error(t, Register("conflict", "Value", NewValue))
}

func TestRegisterInvalid(t *testing.T) {
	assert.Error(t, Register("invalid", "NotFunc", 1))
	assert.Error(t, Register("invalid", "TooManyArgs", func(a, b int) *Value { return nil }))
	assert.Error(t, Register("invalid", "NoReturn", func() {}))
	assert.Error(t, Register("invalid", "NotError", func() (*Value, int) { return nil, 0 }))
	assert.Panics(t, func() { MustRegister("invalid", "NotFunc", 1) })
}

func TestRegisterT(t *testing.T) {
	MustRegisterT[Value](NewValue)

	v, err := NewT[*Value](&Options{Name: "typed"})
	require.NoError(t, err)
	assert.Equal(t, "typed", v.Name)

	obj, err := New("github.com/hatlonely/uidx/ref", "Value", &Options{Name: "by-name"})
	require.NoError(t, err)
	assert.Equal(t, "by-name", obj.(*Value).Name)

	_, err = NewT[Value](&Options{Name: "typed"})
	assert.Error(t, err)

	_, err = NewT[int](nil)
	assert.Error(t, err)
}
