package cfg

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// MapStorage 解码后的配置树（map[string]any / []any / 标量）
// 通过 cfg tag 绑定到结构体，实现 ref.Convertable
type MapStorage struct {
	data any
}

func NewMapStorage(data any) *MapStorage {
	return &MapStorage{data: data}
}

// Data 返回原始数据
func (s *MapStorage) Data() any {
	return s.data
}

// Sub 按 "." 分隔的路径取子树，键名忽略大小写、下划线和中划线，不存在时返回 nil
func (s *MapStorage) Sub(key string) *MapStorage {
	if key == "" {
		return s
	}

	current := s.data
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		k, ok := lookupKey(m, part)
		if !ok {
			return nil
		}
		current = m[k]
	}
	return NewMapStorage(current)
}

// ConvertTo 先设置 def 默认值，再绑定到 object 指向的对象，最后执行 validate 校验
// 配置中显式给出的值（包括 false 和 0）覆盖默认值
func (s *MapStorage) ConvertTo(object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Errorf("object must be a non-nil pointer, got %T", object)
	}

	if err := SetDefaults(object); err != nil {
		return errors.WithMessage(err, "set defaults failed")
	}
	if err := convertValue(s.data, rv.Elem()); err != nil {
		return errors.WithMessage(err, "convert failed")
	}
	if err := ValidateStruct(object); err != nil {
		return errors.WithMessage(err, "validate failed")
	}
	return nil
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(key))
}

func lookupKey(m map[string]any, key string) (string, bool) {
	if _, ok := m[key]; ok {
		return key, true
	}
	normalized := normalizeKey(key)
	for k := range m {
		if normalizeKey(k) == normalized {
			return k, true
		}
	}
	return "", false
}

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

// 时间字符串支持的格式
var timeFormats = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func convertValue(src any, dst reflect.Value) error {
	if storage, ok := src.(*MapStorage); ok {
		src = storage.data
	}
	if src == nil {
		return nil
	}

	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
			if err := setDefaults(dst.Elem()); err != nil {
				return err
			}
		}
		return convertValue(src, dst.Elem())
	}

	sv := reflect.ValueOf(src)

	if dst.Kind() == reflect.Interface {
		if dst.Type().NumMethod() != 0 {
			if sv.Type().AssignableTo(dst.Type()) {
				dst.Set(sv)
				return nil
			}
			return errors.Errorf("cannot assign %v to %v", sv.Type(), dst.Type())
		}
		// 嵌套的对象保留为 MapStorage，由 ref 在构造时再转换成具体类型
		switch src.(type) {
		case map[string]any, []any:
			dst.Set(reflect.ValueOf(NewMapStorage(src)))
		default:
			dst.Set(sv)
		}
		return nil
	}

	switch dst.Type() {
	case durationType:
		return convertToDuration(sv, dst)
	case timeType:
		return convertToTime(sv, dst)
	}

	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}

	switch dst.Kind() {
	case reflect.Struct:
		return convertToStruct(sv, dst)
	case reflect.Map:
		return convertToMap(sv, dst)
	case reflect.Slice:
		return convertToSlice(sv, dst)
	case reflect.String:
		dst.SetString(fmt.Sprint(src))
		return nil
	}

	if sv.Kind() == reflect.String {
		return parseString(sv.String(), dst)
	}
	if isNumber(sv.Kind()) && isNumber(dst.Kind()) {
		dst.Set(sv.Convert(dst.Type()))
		return nil
	}

	return errors.Errorf("cannot convert %v to %v", sv.Type(), dst.Type())
}

func isNumber(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// parseString ini 和 env 中的值都是字符串
func parseString(s string, dst reflect.Value) error {
	s = strings.TrimSpace(s)
	switch dst.Kind() {
	case reflect.Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return errors.Wrapf(err, "invalid bool %q", s)
		}
		dst.SetBool(v)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := strconv.ParseInt(s, 0, dst.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid int %q", s)
		}
		dst.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseUint(s, 0, dst.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid uint %q", s)
		}
		dst.SetUint(v)
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(s, dst.Type().Bits())
		if err != nil {
			return errors.Wrapf(err, "invalid float %q", s)
		}
		dst.SetFloat(v)
	default:
		return errors.Errorf("cannot convert string to %v", dst.Type())
	}
	return nil
}

func convertToDuration(src, dst reflect.Value) error {
	switch {
	case src.Kind() == reflect.String:
		d, err := time.ParseDuration(src.String())
		if err != nil {
			return errors.Wrapf(err, "invalid duration %q", src.String())
		}
		dst.SetInt(int64(d))
	case src.Kind() == reflect.Float32 || src.Kind() == reflect.Float64:
		// 浮点数视为秒
		dst.SetInt(int64(src.Float() * float64(time.Second)))
	case isNumber(src.Kind()):
		// 整数视为纳秒
		dst.SetInt(src.Convert(durationType).Int())
	default:
		return errors.Errorf("cannot convert %v to time.Duration", src.Type())
	}
	return nil
}

func convertToTime(src, dst reflect.Value) error {
	switch {
	case src.Type() == timeType:
		dst.Set(src)
		return nil
	case src.Kind() == reflect.String:
		for _, format := range timeFormats {
			if t, err := time.Parse(format, src.String()); err == nil {
				dst.Set(reflect.ValueOf(t))
				return nil
			}
		}
		return errors.Errorf("invalid time %q", src.String())
	case isNumber(src.Kind()):
		// 数字视为 Unix 毫秒
		dst.Set(reflect.ValueOf(time.UnixMilli(src.Convert(reflect.TypeOf(int64(0))).Int()).UTC()))
		return nil
	}
	return errors.Errorf("cannot convert %v to time.Time", src.Type())
}

func convertToStruct(src, dst reflect.Value) error {
	m, ok := src.Interface().(map[string]any)
	if !ok {
		return errors.Errorf("cannot convert %v to struct %v", src.Type(), dst.Type())
	}

	dt := dst.Type()
	for i := 0; i < dt.NumField(); i++ {
		field := dt.Field(i)
		if !field.IsExported() {
			continue
		}

		name := field.Name
		if tag := field.Tag.Get("cfg"); tag != "" {
			if tag == "-" {
				continue
			}
			name = strings.Split(tag, ",")[0]
		}

		key, ok := lookupKey(m, name)
		if !ok {
			continue
		}
		if err := convertValue(m[key], dst.Field(i)); err != nil {
			return errors.WithMessagef(err, "field %s", name)
		}
	}
	return nil
}

func convertToMap(src, dst reflect.Value) error {
	if src.Kind() != reflect.Map {
		return errors.Errorf("cannot convert %v to map %v", src.Type(), dst.Type())
	}
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}

	iter := src.MapRange()
	for iter.Next() {
		key := reflect.New(dst.Type().Key()).Elem()
		if err := convertValue(iter.Key().Interface(), key); err != nil {
			return err
		}
		value := reflect.New(dst.Type().Elem()).Elem()
		if err := setDefaults(value); err != nil {
			return err
		}
		if err := convertValue(iter.Value().Interface(), value); err != nil {
			return errors.WithMessagef(err, "key %v", iter.Key().Interface())
		}
		dst.SetMapIndex(key, value)
	}
	return nil
}

func convertToSlice(src, dst reflect.Value) error {
	if src.Kind() == reflect.String {
		// 逗号分隔的字符串
		parts := strings.Split(src.String(), ",")
		items := make([]any, len(parts))
		for i, part := range parts {
			items[i] = strings.TrimSpace(part)
		}
		src = reflect.ValueOf(items)
	}
	if src.Kind() != reflect.Slice && src.Kind() != reflect.Array {
		return errors.Errorf("cannot convert %v to slice %v", src.Type(), dst.Type())
	}

	slice := reflect.MakeSlice(dst.Type(), src.Len(), src.Len())
	for i := 0; i < src.Len(); i++ {
		if err := setDefaults(slice.Index(i)); err != nil {
			return err
		}
		if err := convertValue(src.Index(i).Interface(), slice.Index(i)); err != nil {
			return errors.WithMessagef(err, "index %d", i)
		}
	}
	dst.Set(slice)
	return nil
}
