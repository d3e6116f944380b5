package codec

import (
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// MsgPackSerializer snowflake.ID 编码为 uint64
type MsgPackSerializer[T any] struct{}

func NewMsgPackSerializer[T any]() *MsgPackSerializer[T] {
	return &MsgPackSerializer[T]{}
}

func (s *MsgPackSerializer[T]) Serialize(from T) ([]byte, error) {
	buf, err := msgpack.Marshal(from)
	return buf, errors.Wrap(err, "msgpack.Marshal failed")
}

func (s *MsgPackSerializer[T]) Deserialize(to []byte) (T, error) {
	var result T
	err := msgpack.Unmarshal(to, &result)
	return result, errors.Wrap(err, "msgpack.Unmarshal failed")
}
