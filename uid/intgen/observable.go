package intgen

import (
	"context"
	"fmt"
	"time"

	"github.com/hatlonely/uidx/log"
	"github.com/hatlonely/uidx/log/logger"
	"github.com/hatlonely/uidx/ref"
	"github.com/hatlonely/uidx/snowflake"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ObservableOptions struct {
	// Generator 被包装的生成器配置
	Generator *ref.TypeOptions `cfg:"generator" validate:"required"`

	// Logger 日志记录器配置，为空时使用 log.Default()
	Logger *ref.TypeOptions `cfg:"logger"`

	EnableMetrics bool `cfg:"enableMetrics" def:"true"`
	EnableLogging bool `cfg:"enableLogging" def:"true"`
	EnableTracing bool `cfg:"enableTracing" def:"false"`

	// Name 指标名前缀，同时作为日志和 span 的 component
	Name string `cfg:"name" def:"snowflake"`

	// Registerer 指标注册位置，为空时使用 prometheus.DefaultRegisterer
	Registerer prometheus.Registerer `cfg:"-"`
}

// 发号结果，作为 status 标签
const (
	statusSuccess   = "success"
	statusExhausted = "exhausted"
	statusBackwards = "backwards"
	statusOverflow  = "overflow"
	statusError     = "error"
)

// ObservableMetrics 封装 prometheus 指标
type ObservableMetrics struct {
	generateCounter  *prometheus.CounterVec
	generateDuration prometheus.Histogram
}

// NewObservableMetrics 创建并注册指标，同名指标已注册时复用已有的收集器
func NewObservableMetrics(name string, registerer prometheus.Registerer) (*ObservableMetrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	counter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: name + "_generate_total",
			Help: "Total number of generated ids by status",
		},
		[]string{"status"},
	)
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name + "_generate_duration_seconds",
		Help:    "Duration of id generation in seconds",
		Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
	})

	if err := registerer.Register(counter); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, errors.Wrap(err, "failed to register counter")
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, errors.Errorf("collector %s_generate_total has unexpected type %T", name, are.ExistingCollector)
		}
		counter = existing
	}
	if err := registerer.Register(duration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, errors.Wrap(err, "failed to register histogram")
		}
		existing, ok := are.ExistingCollector.(prometheus.Histogram)
		if !ok {
			return nil, errors.Errorf("collector %s_generate_duration_seconds has unexpected type %T", name, are.ExistingCollector)
		}
		duration = existing
	}

	return &ObservableMetrics{generateCounter: counter, generateDuration: duration}, nil
}

// ObservableGenerator 装饰器，为任何 IntGenerator 添加观测能力
type ObservableGenerator struct {
	generator IntGenerator

	logger  logger.Logger
	metrics *ObservableMetrics
	tracer  trace.Tracer
	name    string
}

func NewObservableGeneratorWithOptions(options *ObservableOptions) (*ObservableGenerator, error) {
	if options == nil {
		return nil, errors.New("options is nil")
	}

	generator, err := NewIntGeneratorWithOptions(options.Generator)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create underlying generator")
	}

	return NewObservableGenerator(generator, options)
}

// NewObservableGenerator 包装已有的生成器，options 中的 Generator 被忽略
func NewObservableGenerator(generator IntGenerator, options *ObservableOptions) (*ObservableGenerator, error) {
	if generator == nil {
		return nil, errors.New("generator is nil")
	}
	if options == nil {
		options = &ObservableOptions{EnableMetrics: true, EnableLogging: true}
	}

	name := options.Name
	if name == "" {
		name = "snowflake"
	}
	obs := &ObservableGenerator{generator: generator, name: name}

	if options.EnableLogging {
		l, err := log.NewLoggerWithOptions(options.Logger)
		if err != nil {
			return nil, errors.WithMessage(err, "failed to create logger")
		}
		obs.logger = l.With("component", name)
	}

	if options.EnableMetrics {
		metrics, err := NewObservableMetrics(name, options.Registerer)
		if err != nil {
			return nil, err
		}
		obs.metrics = metrics
	}

	if options.EnableTracing {
		obs.tracer = otel.Tracer(fmt.Sprintf("uid.%s", name))
	}

	return obs, nil
}

func (obs *ObservableGenerator) Generate() (int64, error) {
	return obs.GenerateContext(context.Background())
}

// GenerateContext 与 Generate 相同，span 挂在 ctx 的 trace 上
func (obs *ObservableGenerator) GenerateContext(ctx context.Context) (int64, error) {
	start := time.Now()

	var span trace.Span
	if obs.tracer != nil {
		ctx, span = obs.tracer.Start(ctx, "uid.generate",
			trace.WithAttributes(attribute.String("component", obs.name)),
		)
		defer span.End()
	}

	id, err := obs.generator.Generate()
	duration := time.Since(start)
	status := statusOf(err)

	if span != nil {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		} else {
			span.SetAttributes(attribute.Int64("id", id))
			span.SetStatus(codes.Ok, "")
		}
	}

	if obs.metrics != nil {
		obs.metrics.generateCounter.WithLabelValues(status).Inc()
		obs.metrics.generateDuration.Observe(duration.Seconds())
	}

	if obs.logger != nil && err != nil {
		args := []any{"status", status, "duration", duration, "error", err.Error()}
		// 纪元用尽或未知错误重试无效
		if status == statusOverflow || status == statusError {
			obs.logger.ErrorContext(ctx, "generate failed", args...)
		} else {
			obs.logger.WarnContext(ctx, "generate failed", args...)
		}
	}

	return id, err
}

func statusOf(err error) string {
	var overflow *snowflake.OverflowError
	switch {
	case err == nil:
		return statusSuccess
	case errors.Is(err, snowflake.ErrClockBackwards):
		return statusBackwards
	case errors.Is(err, snowflake.ErrSequenceExhausted):
		return statusExhausted
	case errors.As(err, &overflow):
		return statusOverflow
	}
	return statusError
}
