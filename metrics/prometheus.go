// Package metrics 封装了基于 Prometheus 的指标注册表及分类流程的预定义计数器。
// 本项目没有网络暴露面，指标通过 textfile 格式写出，供 node_exporter 之类的采集器读取。
package metrics

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wyfcoding/probkit/xerrors"
)

// Metrics 封装了独立的 Prometheus 注册表与分类流程的标准指标。
type Metrics struct {
	registry *prometheus.Registry // 内部独立的 Prometheus 注册中心

	QueriesTotal      *prometheus.CounterVec // 已处理的查询行 (维度: outcome=classified|zero_marginal)
	SkippedCategories prometheus.Counter     // 因训练支持数为零而被跳过的 (查询, 类别) 组合
	TrainingRows      prometheus.Gauge       // 最近一次运行的训练行数
	RunDuration       prometheus.Histogram   // 单次分类运行耗时
	BuildInfo         *prometheus.GaugeVec   // 构建信息
}

// NewMetrics 初始化并返回一个新的指标采集器。
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.QueriesTotal = m.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "naivebayes_queries_total",
		Help:      "Number of query rows processed by the classifier",
	}, []string{"outcome"})

	m.SkippedCategories = m.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "naivebayes_skipped_categories_total",
		Help:      "Number of query/category pairs skipped for zero training support",
	})

	m.TrainingRows = m.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "naivebayes_training_rows",
		Help:      "Number of labeled rows in the most recent run",
	})

	m.RunDuration = m.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "naivebayes_run_duration_seconds",
		Help:      "Duration of a classification run in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	slog.Debug("metrics registry initialized", "namespace", namespace)
	return m
}

// NewCounterVec 创建并注册一个新的计数器向量。
func (m *Metrics) NewCounterVec(opts prometheus.CounterOpts, labelNames []string) *prometheus.CounterVec {
	cv := prometheus.NewCounterVec(opts, labelNames)
	m.registry.MustRegister(cv)
	return cv
}

// NewCounter 创建并注册一个新的计数器。
func (m *Metrics) NewCounter(opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	m.registry.MustRegister(c)
	return c
}

// NewGauge 创建并注册一个新的仪表盘指标。
func (m *Metrics) NewGauge(opts prometheus.GaugeOpts) prometheus.Gauge {
	g := prometheus.NewGauge(opts)
	m.registry.MustRegister(g)
	return g
}

// NewHistogram 创建并注册一个新的直方图指标。
func (m *Metrics) NewHistogram(opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	m.registry.MustRegister(h)
	return h
}

// RegisterBuildInfo 注册构建信息指标，重复调用无效果。
func (m *Metrics) RegisterBuildInfo(version string) {
	if m == nil || m.BuildInfo != nil {
		return
	}
	if version == "" {
		version = "unknown"
	}
	m.BuildInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "probkit_build_info",
		Help: "Build information",
	}, []string{"version"})
	m.registry.MustRegister(m.BuildInfo)
	m.BuildInfo.WithLabelValues(version).Set(1)
}

// WriteTextfile 以 Prometheus 文本格式原子地写出当前全部指标。
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return xerrors.WrapInternal(err, "write metrics textfile")
	}
	return nil
}
