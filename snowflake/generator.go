package snowflake

import (
	"iter"
	"time"

	"github.com/pkg/errors"
)

// 序列号溢出策略
const (
	// PolicyWait 等待时钟进入下一毫秒后从序列号 0 继续，总能返回 ID
	PolicyWait = "wait"
	// PolicyReject 立即返回 ErrSequenceExhausted，不修改生成器状态
	PolicyReject = "reject"
)

// 等待下一毫秒时的轮询间隔
const spinInterval = 100 * time.Microsecond

// Options 生成器配置
type Options struct {
	// 实例ID，0-1023
	Instance int64 `cfg:"instance"`

	// 起始序列号，0-4095
	Sequence int64 `cfg:"sequence"`

	// 起始时间（Unix 毫秒），为空时使用当前时间，不能晚于当前时间
	Timestamp *int64 `cfg:"timestamp"`

	// 起始纪元，零值使用 DefaultEpoch
	Epoch time.Time `cfg:"epoch"`

	// 序列号溢出策略：wait, reject
	OverflowPolicy string `cfg:"overflowPolicy" def:"wait" validate:"omitempty,oneof=wait reject"`

	// 时钟，为空时使用系统时钟
	Clock Clock `cfg:"-"`
}

// Generator Snowflake ID 生成器
// 内部状态没有加锁，同一个生成器不能被多个 goroutine 同时调用；
// 需要并发时在外部加锁，或者每个 goroutine 使用不同实例ID的生成器
type Generator struct {
	clock        Clock
	epoch        Epoch
	policy       string
	instance     int64
	instanceBits uint64 // 预先移位的实例ID

	timestamp int64 // 上一次发号使用的时间戳（相对纪元）
	sequence  int64
}

// NewGenerator 创建生成器
// 纪元已用尽时返回 *OverflowError；起始时间、实例ID、序列号越界时返回 *RangeError
func NewGenerator(options *Options) (*Generator, error) {
	if options == nil {
		options = &Options{}
	}

	clock := options.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	epoch := DefaultEpoch
	if !options.Epoch.IsZero() {
		epoch = NewEpoch(options.Epoch)
	}

	policy := options.OverflowPolicy
	switch policy {
	case "":
		policy = PolicyWait
	case PolicyWait, PolicyReject:
	default:
		return nil, errors.Errorf("snowflake: unknown overflow policy %q", policy)
	}

	now := clock.Now()
	current := epoch.Since(now)
	if current < 0 {
		return nil, errors.WithMessagef(ErrEpochInFuture, "epoch %s, now %s", epoch, now.UTC().Format(time.RFC3339Nano))
	}
	if current >= MaxTimestamp {
		return nil, &OverflowError{Epoch: epoch, Elapsed: current}
	}

	start := current
	if options.Timestamp != nil {
		start = *options.Timestamp - int64(epoch)
	}
	if start < 0 || start > current {
		return nil, &RangeError{Field: FieldTimestamp, Value: start, Max: current}
	}

	if err := checkRange(FieldInstance, options.Instance, MaxInstance); err != nil {
		return nil, err
	}
	if err := checkRange(FieldSequence, options.Sequence, MaxSequence); err != nil {
		return nil, err
	}

	return &Generator{
		clock:        clock,
		epoch:        epoch,
		policy:       policy,
		instance:     options.Instance,
		instanceBits: uint64(options.Instance) << InstanceShift,
		timestamp:    start,
		sequence:     options.Sequence,
	}, nil
}

// NewGeneratorFromID 从一个已发出的 ID 继续发号
// 实例ID、序列号、纪元和起始时间都取自 id，options 只提供策略和时钟
func NewGeneratorFromID(id ID, options *Options) (*Generator, error) {
	var opts Options
	if options != nil {
		opts = *options
	}

	timestamp := id.Milliseconds()
	opts.Instance = id.instance
	opts.Sequence = id.sequence
	opts.Timestamp = &timestamp
	opts.Epoch = id.Epoch().Time()

	return NewGenerator(&opts)
}

// Next 生成下一个 ID
//
// 同一毫秒内序列号递增；进入新的毫秒序列号归零。
// 序列号用尽时按策略等待下一毫秒或返回 ErrSequenceExhausted；
// 时钟回拨时返回 ErrClockBackwards；纪元用尽时返回 *OverflowError。
// 出错时生成器状态保持不变
func (g *Generator) Next() (uint64, error) {
	current := g.epoch.Since(g.clock.Now())
	if current >= MaxTimestamp {
		return 0, &OverflowError{Epoch: g.epoch, Elapsed: current}
	}

	var sequence int64
	switch {
	case current < g.timestamp:
		return 0, errors.WithMessagef(ErrClockBackwards, "last timestamp %d, current %d", g.timestamp, current)
	case current == g.timestamp:
		if g.sequence < MaxSequence {
			sequence = g.sequence + 1
			break
		}
		if g.policy == PolicyReject {
			return 0, ErrSequenceExhausted
		}
		next, err := g.waitNextMillisecond(g.timestamp)
		if err != nil {
			return 0, err
		}
		current = next
	}

	g.timestamp = current
	g.sequence = sequence

	return uint64(current)<<TimestampShift | g.instanceBits | uint64(sequence), nil
}

// NextID 与 Next 相同，返回解析后的 ID
func (g *Generator) NextID() (ID, error) {
	if _, err := g.Next(); err != nil {
		return ID{}, err
	}
	return g.Last(), nil
}

// All 无限序列，每次迭代调用一次 Next
// 纪元用尽后序列结束，其它错误交给调用方决定是否继续
func (g *Generator) All() iter.Seq2[uint64, error] {
	return func(yield func(uint64, error) bool) {
		for {
			id, err := g.Next()
			if !yield(id, err) {
				return
			}
			var overflow *OverflowError
			if errors.As(err, &overflow) {
				return
			}
		}
	}
}

// Last 最近一次发出的 ID；尚未发号时为起始状态，可用于 NewGeneratorFromID
func (g *Generator) Last() ID {
	return ID{
		timestamp: g.timestamp,
		instance:  g.instance,
		sequence:  g.sequence,
		epochDiff: int64(g.epoch - DefaultEpoch),
	}
}

func (g *Generator) Instance() int64 { return g.instance }

func (g *Generator) Epoch() Epoch { return g.epoch }

func (g *Generator) Policy() string { return g.policy }

// waitNextMillisecond 轮询时钟直到时间戳严格大于 last
func (g *Generator) waitNextMillisecond(last int64) (int64, error) {
	for {
		g.clock.Sleep(spinInterval)
		current := g.epoch.Since(g.clock.Now())
		if current <= last {
			continue
		}
		if current >= MaxTimestamp {
			return 0, &OverflowError{Epoch: g.epoch, Elapsed: current}
		}
		return current, nil
	}
}
