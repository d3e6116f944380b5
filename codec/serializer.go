package codec

import (
	"reflect"

	"github.com/hatlonely/uidx/ref"
	"github.com/pkg/errors"
)

const namespace = "github.com/hatlonely/uidx/codec"

// Serializer 在 F 和 T 之间转换，F 一般是携带 snowflake.ID 的值
type Serializer[F, T any] interface {
	Serialize(from F) (T, error)
	Deserialize(to T) (F, error)
}

// NewByteSerializerWithOptions 通过 ref 创建字节序列化器
// options.Type 为 JSONSerializer, MsgPackSerializer 或 BSONSerializer，options 为空时使用 MsgPackSerializer
func NewByteSerializerWithOptions[T any](options *ref.TypeOptions) (Serializer[T, []byte], error) {
	suffix := "[" + reflect.TypeOf((*T)(nil)).Elem().String() + "]"
	if err := registerByteSerializers[T](suffix); err != nil {
		return nil, err
	}

	ns, type_ := namespace, "MsgPackSerializer"
	var opts any
	if options != nil {
		ns, type_, opts = options.Namespace, options.Type, options.Options
	}

	serializer, err := ref.New(ns, type_+suffix, opts)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	s, ok := serializer.(Serializer[T, []byte])
	if !ok {
		return nil, errors.Errorf("%T is not a Serializer", serializer)
	}
	return s, nil
}

func registerByteSerializers[T any](suffix string) error {
	for type_, fn := range map[string]any{
		"JSONSerializer":    NewJSONSerializer[T],
		"MsgPackSerializer": NewMsgPackSerializer[T],
		"BSONSerializer":    NewBSONSerializer[T],
	} {
		if err := ref.Register(namespace, type_+suffix, fn); err != nil {
			return err
		}
	}
	return nil
}
