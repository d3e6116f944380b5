package codec

import (
	"github.com/hatlonely/uidx/ref"
	"github.com/hatlonely/uidx/snowflake"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

func init() {
	ref.MustRegister(namespace, "IDProtoSerializer[snowflake.ID]", NewIDProtoSerializer)
}

// ProtobufSerializer 序列化任意 proto.Message，new 用于创建反序列化的目标
type ProtobufSerializer[T proto.Message] struct {
	new func() T
}

func NewProtobufSerializer[T proto.Message](new func() T) *ProtobufSerializer[T] {
	return &ProtobufSerializer[T]{new: new}
}

func (s *ProtobufSerializer[T]) Serialize(from T) ([]byte, error) {
	buf, err := proto.Marshal(from)
	return buf, errors.Wrap(err, "proto.Marshal failed")
}

func (s *ProtobufSerializer[T]) Deserialize(to []byte) (T, error) {
	result := s.new()
	if err := proto.Unmarshal(to, result); err != nil {
		var zero T
		return zero, errors.Wrap(err, "proto.Unmarshal failed")
	}
	return result, nil
}

// IDProtoSerializer 把 ID 编码为 google.protobuf.UInt64Value，按默认纪元解码
type IDProtoSerializer struct {
	serializer *ProtobufSerializer[*wrapperspb.UInt64Value]
}

func NewIDProtoSerializer() *IDProtoSerializer {
	return &IDProtoSerializer{
		serializer: NewProtobufSerializer(func() *wrapperspb.UInt64Value { return &wrapperspb.UInt64Value{} }),
	}
}

func (s *IDProtoSerializer) Serialize(from snowflake.ID) ([]byte, error) {
	return s.serializer.Serialize(wrapperspb.UInt64(from.Uint64()))
}

func (s *IDProtoSerializer) Deserialize(to []byte) (snowflake.ID, error) {
	value, err := s.serializer.Deserialize(to)
	if err != nil {
		return snowflake.ID{}, err
	}
	return snowflake.ParseID(value.GetValue())
}
