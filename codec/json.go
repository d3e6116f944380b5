package codec

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// JSONSerializer snowflake.ID 编码为十进制字符串，避免超过 2^53 的值在 JavaScript 中丢失精度
type JSONSerializer[T any] struct{}

func NewJSONSerializer[T any]() *JSONSerializer[T] {
	return &JSONSerializer[T]{}
}

func (s *JSONSerializer[T]) Serialize(from T) ([]byte, error) {
	buf, err := json.Marshal(from)
	return buf, errors.Wrap(err, "json.Marshal failed")
}

func (s *JSONSerializer[T]) Deserialize(to []byte) (T, error) {
	var result T
	err := json.Unmarshal(to, &result)
	return result, errors.Wrap(err, "json.Unmarshal failed")
}
