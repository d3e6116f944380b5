package snowflake

import "time"

// 64位结构：1位符号位(0) + 41位时间戳 + 10位实例ID + 12位序列号
const (
	TimestampBits = 41
	InstanceBits  = 10
	SequenceBits  = 12

	MaxTimestamp = (1 << TimestampBits) - 1 // 2199023255551
	MaxInstance  = (1 << InstanceBits) - 1  // 1023
	MaxSequence  = (1 << SequenceBits) - 1  // 4095

	InstanceShift  = SequenceBits
	TimestampShift = SequenceBits + InstanceBits
)

// Epoch 起始纪元（Unix 毫秒时间戳），ID 中的时间戳是相对它的毫秒偏移
type Epoch int64

// DefaultEpoch 默认起始纪元 2023-01-01 00:00:00 UTC
const DefaultEpoch Epoch = 1672531200000

// NewEpoch 以指定时刻（截断到毫秒）作为起始纪元
func NewEpoch(t time.Time) Epoch {
	return Epoch(t.UnixMilli())
}

// Milliseconds 返回纪元的 Unix 毫秒时间戳
func (e Epoch) Milliseconds() int64 {
	return int64(e)
}

// Time 返回纪元对应的 UTC 时间
func (e Epoch) Time() time.Time {
	return time.UnixMilli(int64(e)).UTC()
}

// Since 返回 t 相对纪元的毫秒偏移，t 早于纪元时为负数
func (e Epoch) Since(t time.Time) int64 {
	return t.UnixMilli() - int64(e)
}

func (e Epoch) String() string {
	return e.Time().Format(time.RFC3339Nano)
}
