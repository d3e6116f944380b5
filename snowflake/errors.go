package snowflake

import (
	"fmt"

	"github.com/pkg/errors"
)

// 字段名，用于 RangeError
const (
	FieldTimestamp = "timestamp"
	FieldInstance  = "instance"
	FieldSequence  = "sequence"
)

// RangeError 字段为负数或超出位宽上限
type RangeError struct {
	Field string
	Value int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("snowflake: %s %d out of range [0, %d]", e.Field, e.Value, e.Max)
}

// OverflowError 41位时间戳已用尽，当前纪元下无法再生成 ID
// 时间只会前进，因此对同一个纪元重试没有意义
type OverflowError struct {
	Epoch   Epoch
	Elapsed int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("snowflake: %d ms elapsed since epoch %s exceeds %d, no more ids can be generated",
		e.Elapsed, e.Epoch, int64(MaxTimestamp))
}

var (
	// ErrExhausted 本次调用无可用 ID，调用方可以稍后重试
	ErrExhausted = errors.New("snowflake: exhausted")

	// ErrSequenceExhausted 同一毫秒内序列号已用尽（reject 策略）
	ErrSequenceExhausted = errors.WithMessage(ErrExhausted, "sequence overflow within millisecond")

	// ErrClockBackwards 时钟回拨
	ErrClockBackwards = errors.WithMessage(ErrExhausted, "clock moved backwards")

	// ErrEpochInFuture 纪元晚于时钟当前时间
	ErrEpochInFuture = errors.New("snowflake: epoch is after current time")
)

func checkRange(field string, value, max int64) error {
	if value < 0 || value > max {
		return &RangeError{Field: field, Value: value, Max: max}
	}
	return nil
}
