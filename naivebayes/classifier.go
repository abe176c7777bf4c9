package naivebayes

import (
	"context"
	"errors"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wyfcoding/probkit/dataset"
	"github.com/wyfcoding/probkit/logging"
	"github.com/wyfcoding/probkit/metrics"
	"github.com/wyfcoding/probkit/xerrors"
)

const tracerName = "github.com/wyfcoding/probkit/naivebayes"

// Result 是单条查询的分类结果。
type Result struct {
	Query       Query
	Evaluations []Evaluation // 参与归一化的类别，顺序与 Posterior 一致
	Posterior   Posterior
	Skipped     []string // 训练支持数为零而被跳过的类别
	Err         error    // 非空时为 ErrZeroMarginal，Posterior 为空
	Precision   int32    // Posterior 中 Rounded 的小数位数
}

// Option 定义分类器的配置选项。
type Option func(*options)

type options struct {
	logger    *logging.Logger
	metrics   *metrics.Metrics
	workers   int
	precision int32
	load      dataset.Options
}

// WithLogger 设置日志记录器。
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics 设置指标采集器，为空则不记录指标。
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithWorkers 设置并发处理查询的协程数，小于 1 时按 1 处理。
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = max(n, 1)
	}
}

// WithPrecision 设置后验展示值的小数位数。
func WithPrecision(digits int32) Option {
	return func(o *options) {
		o.precision = digits
	}
}

// WithLoadOptions 设置读取数据文件时的选项。
func WithLoadOptions(lo dataset.Options) Option {
	return func(o *options) {
		o.load = lo
	}
}

// Classifier 按固定的 Schema 对数据集中的每条查询计算后验分布。
// 训练集在一次运行内只读，多个查询可以安全地并发计算。
type Classifier struct {
	schema Schema
	opts   options
	tracer trace.Tracer
}

// NewClassifier 创建分类器。
func NewClassifier(schema Schema, opts ...Option) *Classifier {
	o := options{workers: 1, precision: DefaultPrecision}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.Default().Named("naivebayes")
	}
	return &Classifier{schema: schema, opts: o, tracer: otel.Tracer(tracerName)}
}

// Classify 读取 path 指向的数据文件，以 targetColumn 为目标列、"n" 为计数列完成分类。
func Classify(ctx context.Context, path, targetColumn string) ([]Result, error) {
	return NewClassifier(Schema{TargetColumn: targetColumn}).ClassifyFile(ctx, path)
}

// ClassifyFile 读取数据文件并分类。
func (c *Classifier) ClassifyFile(ctx context.Context, path string) ([]Result, error) {
	ctx, span := c.tracer.Start(ctx, "naivebayes.ClassifyFile", trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	table, err := dataset.Load(ctx, path, c.opts.load)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return c.ClassifyRows(ctx, table.Rows)
}

// ClassifyRows 对已解析的行执行一次完整的分类运行，结果按查询顺序返回。
// 输入畸形或没有训练行时整个运行失败；单条查询的边缘概率为零只记录在该条结果中。
func (c *Classifier) ClassifyRows(ctx context.Context, rows []dataset.Row) ([]Result, error) {
	ctx, span := c.tracer.Start(ctx, "naivebayes.Classify")
	defer span.End()
	done := c.opts.logger.LogDuration(ctx, "classification", "rows", len(rows))

	part, err := Split(rows, c.schema)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("training_rows", len(part.Training)),
		attribute.Int("queries", len(part.Queries)),
		attribute.Int("categories", len(part.Categories)),
	)
	c.opts.logger.DebugContext(ctx, "dataset partitioned",
		"training_rows", len(part.Training),
		"queries", len(part.Queries),
		"categories", part.Categories,
	)

	results := make([]Result, len(part.Queries))
	if c.opts.workers <= 1 || len(part.Queries) <= 1 {
		for i, q := range part.Queries {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = c.classifyQuery(ctx, part, q)
		}
	} else {
		p := pool.New().WithMaxGoroutines(c.opts.workers)
		for i, q := range part.Queries {
			p.Go(func() {
				if ctx.Err() != nil {
					return
				}
				results[i] = c.classifyQuery(ctx, part, q)
			})
		}
		p.Wait()
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	c.record(part, results, done())
	return results, nil
}

func (c *Classifier) classifyQuery(ctx context.Context, part *Partition, q Query) Result {
	res := Result{Query: q, Precision: c.opts.precision}
	summaries := make([]Summary, 0, len(part.Categories))

	for _, category := range part.Categories {
		ev, err := Evaluate(part.Training, q, category)
		if errors.Is(err, xerrors.ErrEmptyCategory) {
			c.opts.logger.DebugContext(ctx, "category skipped", "query", q.Index, "category", category)
			res.Skipped = append(res.Skipped, category)
			continue
		}
		if err != nil {
			res.Err = err
			return res
		}
		res.Evaluations = append(res.Evaluations, ev)
		summaries = append(summaries, ev.Summary)
	}

	post, err := Normalize(summaries, c.opts.precision)
	if err != nil {
		if e, ok := xerrors.FromError(err); ok {
			err = e.WithContext("query", q.Index)
		}
		c.opts.logger.WarnContext(ctx, "posterior undefined", "query", q.Index, "error", err)
		res.Err = err
		return res
	}
	res.Posterior = post
	return res
}

func (c *Classifier) record(part *Partition, results []Result, elapsed time.Duration) {
	m := c.opts.metrics
	if m == nil {
		return
	}
	m.TrainingRows.Set(float64(len(part.Training)))
	m.RunDuration.Observe(elapsed.Seconds())
	for _, r := range results {
		m.SkippedCategories.Add(float64(len(r.Skipped)))
		if r.Err != nil {
			m.QueriesTotal.WithLabelValues("zero_marginal").Inc()
		} else {
			m.QueriesTotal.WithLabelValues("classified").Inc()
		}
	}
}
