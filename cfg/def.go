package cfg

import (
	"reflect"

	"github.com/pkg/errors"
)

// SetDefaults 为零值字段设置 def tag 中的默认值，递归处理嵌套结构体
func SetDefaults(object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Errorf("object must be a non-nil pointer, got %T", object)
	}
	return setDefaults(rv.Elem())
}

func setDefaults(rv reflect.Value) error {
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct || rv.Type() == timeType {
		return nil
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		fv := rv.Field(i)
		if !field.IsExported() {
			continue
		}

		if def, ok := field.Tag.Lookup("def"); ok && fv.IsZero() {
			target := fv
			if fv.Kind() == reflect.Ptr {
				target = reflect.New(fv.Type().Elem())
			}
			if err := convertValue(def, target); err != nil {
				return errors.WithMessagef(err, "invalid default for field %s", field.Name)
			}
			if fv.Kind() == reflect.Ptr {
				fv.Set(target)
			}
			continue
		}

		if err := setDefaults(fv); err != nil {
			return errors.WithMessagef(err, "field %s", field.Name)
		}
	}
	return nil
}
