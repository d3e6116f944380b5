package snowflake

import (
	"strconv"
	"time"
)

// ID 解析后的 Snowflake ID，创建后不可修改
// 零值与 NewID(0, 0, 0) 相同，即默认纪元下的 0 号 ID
type ID struct {
	timestamp int64
	instance  int64
	sequence  int64
	epochDiff int64 // 纪元相对 DefaultEpoch 的毫秒差
}

// NewID 在默认纪元下创建 ID，任一字段越界时返回 *RangeError
func NewID(timestamp, instance, sequence int64) (ID, error) {
	return DefaultEpoch.NewID(timestamp, instance, sequence)
}

// ParseID 在默认纪元下解析 64 位整数
func ParseID(raw uint64) (ID, error) {
	return DefaultEpoch.ParseID(raw)
}

// NewID 在纪元 e 下创建 ID
func (e Epoch) NewID(timestamp, instance, sequence int64) (ID, error) {
	if err := checkRange(FieldTimestamp, timestamp, MaxTimestamp); err != nil {
		return ID{}, err
	}
	if err := checkRange(FieldInstance, instance, MaxInstance); err != nil {
		return ID{}, err
	}
	if err := checkRange(FieldSequence, sequence, MaxSequence); err != nil {
		return ID{}, err
	}

	return ID{
		timestamp: timestamp,
		instance:  instance,
		sequence:  sequence,
		epochDiff: int64(e - DefaultEpoch),
	}, nil
}

// ParseID 按位拆分 raw，是 Uint64 的逆运算
// 使用了第 63 位的输入会让时间戳超出 41 位，返回 *RangeError
func (e Epoch) ParseID(raw uint64) (ID, error) {
	return e.NewID(
		int64(raw>>TimestampShift),
		int64(raw>>InstanceShift&MaxInstance),
		int64(raw&MaxSequence),
	)
}

// Timestamp 相对纪元的毫秒偏移
func (id ID) Timestamp() int64 { return id.timestamp }

// Instance 实例ID
func (id ID) Instance() int64 { return id.instance }

// Sequence 毫秒内序列号
func (id ID) Sequence() int64 { return id.sequence }

// Epoch 解析该 ID 时使用的纪元
func (id ID) Epoch() Epoch { return DefaultEpoch + Epoch(id.epochDiff) }

// Uint64 组装为 64 位整数
func (id ID) Uint64() uint64 {
	return uint64(id.timestamp)<<TimestampShift | uint64(id.instance)<<InstanceShift | uint64(id.sequence)
}

// Int64 第 63 位恒为 0，因此总是非负数
func (id ID) Int64() int64 {
	return int64(id.Uint64())
}

// Milliseconds 绝对 Unix 毫秒时间戳
func (id ID) Milliseconds() int64 {
	return id.timestamp + id.Epoch().Milliseconds()
}

// Seconds 绝对 Unix 秒，带小数
func (id ID) Seconds() float64 {
	return float64(id.Milliseconds()) / 1000
}

// Time 生成时间（UTC）
func (id ID) Time() time.Time {
	return time.UnixMilli(id.Milliseconds()).UTC()
}

// In 生成时间（指定时区），loc 为 nil 时使用本地时区
func (id ID) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(id.Milliseconds()).In(loc)
}

// Elapsed 该 ID 距离纪元的时长
func (id ID) Elapsed() time.Duration {
	return time.Duration(id.timestamp) * time.Millisecond
}

// String 十进制表示
func (id ID) String() string {
	return strconv.FormatUint(id.Uint64(), 10)
}
