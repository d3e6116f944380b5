package codec

import (
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

// BSONSerializer T 必须是文档类型（结构体或 map），snowflake.ID 字段编码为 int64
type BSONSerializer[T any] struct{}

func NewBSONSerializer[T any]() *BSONSerializer[T] {
	return &BSONSerializer[T]{}
}

func (s *BSONSerializer[T]) Serialize(from T) ([]byte, error) {
	buf, err := bson.Marshal(from)
	return buf, errors.Wrap(err, "bson.Marshal failed")
}

func (s *BSONSerializer[T]) Deserialize(to []byte) (T, error) {
	var result T
	err := bson.Unmarshal(to, &result)
	return result, errors.Wrap(err, "bson.Unmarshal failed")
}
