package prometheus

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

// MetricsCollector defines the interface for metrics collection.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
	MustRegister(collectors ...prometheus.Collector)
	Unregister(collector prometheus.Collector) bool
}

// CounterVec wraps prometheus.CounterVec.
type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
	With(labels map[string]string) Counter
}

// Counter wraps prometheus.Counter.
type Counter interface {
	Inc()
	Add(delta float64)
}

// GaugeVec wraps prometheus.GaugeVec.
type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
	With(labels map[string]string) Gauge
}

// Gauge wraps prometheus.Gauge.
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
	Sub(delta float64)
}

// HistogramVec wraps prometheus.HistogramVec.
type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
	With(labels map[string]string) Histogram
}

// Histogram wraps prometheus.Histogram.
type Histogram interface {
	Observe(value float64)
}

// CollectorConfig is the monitoring configuration section.
type CollectorConfig struct {
	Enabled                 bool              `mapstructure:"enabled" yaml:"enabled"`
	Path                    string            `mapstructure:"path" yaml:"path"`
	Namespace               string            `mapstructure:"namespace" yaml:"namespace"`
	Subsystem               string            `mapstructure:"subsystem" yaml:"subsystem"`
	EnableProcessMetrics    bool              `mapstructure:"enable_process_metrics" yaml:"enable_process_metrics"`
	EnableGoMetrics         bool              `mapstructure:"enable_go_metrics" yaml:"enable_go_metrics"`
	DefaultHistogramBuckets []float64         `mapstructure:"default_histogram_buckets" yaml:"default_histogram_buckets"`
	ConstLabels             map[string]string `mapstructure:"const_labels" yaml:"const_labels"`
}

var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

type prometheusCollector struct {
	registry *prometheus.Registry
	cfg      CollectorConfig
	logger   logging.Logger

	mu   sync.Mutex
	vecs map[string]prometheus.Collector // keyed by fully qualified name
}

// NewMetricsCollector creates a collector backed by its own registry, so
// tests and multiple binaries never collide on the global default registry.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, errors.New(errors.ErrCodeValidation, "metrics namespace is required")
	}
	if len(cfg.DefaultHistogramBuckets) == 0 {
		cfg.DefaultHistogramBuckets = defaultBuckets
	}

	reg := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		reg.MustRegister(collectors.NewGoCollector())
	}

	return &prometheusCollector{
		registry: reg,
		cfg:      cfg,
		logger:   logger,
		vecs:     make(map[string]prometheus.Collector),
	}, nil
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

func (c *prometheusCollector) MustRegister(cs ...prometheus.Collector) { c.registry.MustRegister(cs...) }

func (c *prometheusCollector) Unregister(pc prometheus.Collector) bool { return c.registry.Unregister(pc) }

func (c *prometheusCollector) opts(name, help string) prometheus.Opts {
	return prometheus.Opts{
		Namespace:   c.cfg.Namespace,
		Subsystem:   c.cfg.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.cfg.ConstLabels,
	}
}

// registerVec registers vec under name, or returns the vector already
// registered there. ok is false when registration fails or the existing
// vector has a different type.
func registerVec[V prometheus.Collector](c *prometheusCollector, kind, name string, vec V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fq := prometheus.BuildFQName(c.cfg.Namespace, c.cfg.Subsystem, name)
	if existing, found := c.vecs[fq]; found {
		if v, same := existing.(V); same {
			return v, true
		}
		c.logger.Warn("Metric already registered with another type", logging.String("name", fq), logging.String("kind", kind))
		return vec, false
	}
	if err := c.registry.Register(vec); err != nil {
		c.logger.Error("Metric registration failed", logging.String("name", fq), logging.String("kind", kind), logging.Err(err))
		return vec, false
	}
	c.vecs[fq] = vec
	return vec, true
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec, ok := registerVec(c, "counter", name, prometheus.NewCounterVec(prometheus.CounterOpts(c.opts(name, help)), labels))
	if !ok {
		return nopCounterVec{}
	}
	return counterVec{vec}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec, ok := registerVec(c, "gauge", name, prometheus.NewGaugeVec(prometheus.GaugeOpts(c.opts(name, help)), labels))
	if !ok {
		return nopGaugeVec{}
	}
	return gaugeVec{vec}
}

func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if len(buckets) == 0 {
		buckets = c.cfg.DefaultHistogramBuckets
	}
	o := c.opts(name, help)
	vec, ok := registerVec(c, "histogram", name, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   o.Namespace,
		Subsystem:   o.Subsystem,
		Name:        o.Name,
		Help:        o.Help,
		ConstLabels: o.ConstLabels,
		Buckets:     buckets,
	}, labels))
	if !ok {
		return nopHistogramVec{}
	}
	return histogramVec{vec}
}

// The client_golang children already satisfy Counter, Gauge and Histogram,
// so the vectors only need to narrow the return types.

type counterVec struct{ v *prometheus.CounterVec }

func (cv counterVec) WithLabelValues(lvs ...string) Counter { return cv.v.WithLabelValues(lvs...) }
func (cv counterVec) With(labels map[string]string) Counter { return cv.v.With(labels) }

type gaugeVec struct{ v *prometheus.GaugeVec }

func (gv gaugeVec) WithLabelValues(lvs ...string) Gauge { return gv.v.WithLabelValues(lvs...) }
func (gv gaugeVec) With(labels map[string]string) Gauge { return gv.v.With(labels) }

type histogramVec struct{ v *prometheus.HistogramVec }

func (hv histogramVec) WithLabelValues(lvs ...string) Histogram { return hv.v.WithLabelValues(lvs...) }
func (hv histogramVec) With(labels map[string]string) Histogram { return hv.v.With(labels) }

// nopMetric satisfies Counter, Gauge and Histogram.
type nopMetric struct{}

func (nopMetric) Inc()            {}
func (nopMetric) Dec()            {}
func (nopMetric) Add(float64)     {}
func (nopMetric) Sub(float64)     {}
func (nopMetric) Set(float64)     {}
func (nopMetric) Observe(float64) {}

type nopCounterVec struct{}

func (nopCounterVec) WithLabelValues(...string) Counter { return nopMetric{} }
func (nopCounterVec) With(map[string]string) Counter    { return nopMetric{} }

type nopGaugeVec struct{}

func (nopGaugeVec) WithLabelValues(...string) Gauge { return nopMetric{} }
func (nopGaugeVec) With(map[string]string) Gauge    { return nopMetric{} }

type nopHistogramVec struct{}

func (nopHistogramVec) WithLabelValues(...string) Histogram { return nopMetric{} }
func (nopHistogramVec) With(map[string]string) Histogram    { return nopMetric{} }

// nopCollector hands out no-op metrics. It backs AppMetrics when monitoring
// is disabled so call sites never branch on configuration.
type nopCollector struct{}

func NewNopCollector() MetricsCollector { return nopCollector{} }

func (nopCollector) RegisterCounter(string, string, ...string) CounterVec { return nopCounterVec{} }
func (nopCollector) RegisterGauge(string, string, ...string) GaugeVec     { return nopGaugeVec{} }
func (nopCollector) RegisterHistogram(string, string, []float64, ...string) HistogramVec {
	return nopHistogramVec{}
}
func (nopCollector) Handler() http.Handler                { return http.NotFoundHandler() }
func (nopCollector) MustRegister(...prometheus.Collector) {}
func (nopCollector) Unregister(prometheus.Collector) bool { return false }

// Timer observes elapsed wall time into a histogram.
type Timer struct {
	histogram Histogram
	start     time.Time
}

func NewTimer(h Histogram) *Timer {
	return &Timer{histogram: h, start: time.Now()}
}

func (t *Timer) ObserveDuration() {
	if t.histogram != nil {
		t.histogram.Observe(time.Since(t.start).Seconds())
	}
}

//Personal.AI order the ending
