package ref

import (
	"fmt"
	"reflect"
	"sync"
)

// TypeOptions 通过名字描述一个待创建的对象
// Namespace 一般是包路径，Type 是类型名，Options 会传给注册的构造函数
type TypeOptions struct {
	Namespace string `cfg:"namespace"`
	Type      string `cfg:"type"`
	Options   any    `cfg:"options"`
}

// Convertable 可以转换成构造函数参数类型的配置数据，例如配置文件中的一个子树
type Convertable interface {
	// ConvertTo object 为指向目标对象的指针
	ConvertTo(object any) error
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type constructor struct {
	fn         reflect.Value
	paramType  reflect.Type // 无参构造函数为 nil
	returnsErr bool
}

func newConstructor(fn any) (*constructor, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %T", fn)
	}

	ft := fv.Type()
	if ft.NumIn() > 1 {
		return nil, fmt.Errorf("constructor must have 0 or 1 input parameters, got %d", ft.NumIn())
	}
	if ft.NumOut() != 1 && ft.NumOut() != 2 {
		return nil, fmt.Errorf("constructor must have 1 or 2 return values, got %d", ft.NumOut())
	}
	if ft.NumOut() == 2 && !ft.Out(1).Implements(errorType) {
		return nil, fmt.Errorf("second return value must be error, got %v", ft.Out(1))
	}

	c := &constructor{fn: fv, returnsErr: ft.NumOut() == 2}
	if ft.NumIn() == 1 {
		c.paramType = ft.In(0)
	}
	return c, nil
}

func (c *constructor) call(options any) (any, error) {
	var args []reflect.Value
	if c.paramType != nil {
		arg, err := c.argument(options)
		if err != nil {
			return nil, err
		}
		args = []reflect.Value{arg}
	}

	results := c.fn.Call(args)
	if c.returnsErr && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// argument 把 options 转换成构造函数的参数
// nil 传零值；Convertable 转换为参数类型；其它值要求可以直接赋值
func (c *constructor) argument(options any) (reflect.Value, error) {
	if options == nil {
		return reflect.Zero(c.paramType), nil
	}

	if convertable, ok := options.(Convertable); ok {
		if c.paramType.Kind() == reflect.Ptr {
			target := reflect.New(c.paramType.Elem())
			if err := convertable.ConvertTo(target.Interface()); err != nil {
				return reflect.Value{}, fmt.Errorf("failed to convert options to %v: %w", c.paramType, err)
			}
			return target, nil
		}
		target := reflect.New(c.paramType)
		if err := convertable.ConvertTo(target.Interface()); err != nil {
			return reflect.Value{}, fmt.Errorf("failed to convert options to %v: %w", c.paramType, err)
		}
		return target.Elem(), nil
	}

	value := reflect.ValueOf(options)
	if !value.Type().AssignableTo(c.paramType) {
		return reflect.Value{}, fmt.Errorf("options type %v is not assignable to %v", value.Type(), c.paramType)
	}
	return value, nil
}

var constructors sync.Map

// Register 注册构造函数，同一个名字重复注册同一个函数时忽略
func Register(namespace string, type_ string, newFunc any) error {
	key := namespace + ":" + type_

	c, err := newConstructor(newFunc)
	if err != nil {
		return fmt.Errorf("invalid constructor for %s: %w", key, err)
	}

	if existing, loaded := constructors.LoadOrStore(key, c); loaded {
		if existing.(*constructor).fn.Pointer() != c.fn.Pointer() {
			return fmt.Errorf("constructor for %s already registered with different function", key)
		}
	}
	return nil
}

// RegisterT 以 T 的包路径和类型名注册
func RegisterT[T any](newFunc any) error {
	namespace, type_, err := typeName[T]()
	if err != nil {
		return err
	}
	return Register(namespace, type_, newFunc)
}

func MustRegister(namespace string, type_ string, newFunc any) {
	if err := Register(namespace, type_, newFunc); err != nil {
		panic(err)
	}
}

func MustRegisterT[T any](newFunc any) {
	if err := RegisterT[T](newFunc); err != nil {
		panic(err)
	}
}

// New 使用注册的构造函数创建对象
func New(namespace string, type_ string, options any) (any, error) {
	key := namespace + ":" + type_
	value, ok := constructors.Load(key)
	if !ok {
		return nil, fmt.Errorf("constructor not found for %s", key)
	}
	return value.(*constructor).call(options)
}

// NewT 以 T 的包路径和类型名创建对象，并断言为 T
func NewT[T any](options any) (T, error) {
	var zero T
	namespace, type_, err := typeName[T]()
	if err != nil {
		return zero, err
	}

	obj, err := New(namespace, type_, options)
	if err != nil {
		return zero, err
	}
	result, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("created object %T is not of type %T", obj, zero)
	}
	return result, nil
}

func typeName[T any]() (string, string, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return "", "", fmt.Errorf("cannot determine package path or type name for %v", t)
	}
	return t.PkgPath(), t.Name(), nil
}
