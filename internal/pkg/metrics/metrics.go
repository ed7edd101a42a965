package metrics

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cnctd"

// Metrics метрики сервиса. Каждый экземпляр держит свой реестр
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	WSSessions      prometheus.Gauge
	ChatMessages    *prometheus.CounterVec
	PhotoOutcomes   *prometheus.CounterVec
	ImagesSent      *prometheus.CounterVec
	QuotaRejections *prometheus.CounterVec
	ReplyDuration   prometheus.Histogram
	ReplyErrors     prometheus.Counter
	KafkaMessages   *prometheus.CounterVec
	JobRuns         *prometheus.CounterVec
	LibrarySize     *prometheus.GaugeVec
	ReceivedImages  *prometheus.GaugeVec
	DBConnPool      *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help: "HTTP request duration in seconds", Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		WSSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "chat", Name: "sessions_open",
			Help: "Open WebSocket chat sessions",
		}),
		ChatMessages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "chat", Name: "messages_total",
			Help: "Chat messages processed by role",
		}, []string{"role"}),
		PhotoOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "photo", Name: "outcomes_total",
			Help: "Photo request outcomes by selection pool",
		}, []string{"outcome", "pool"}),
		ImagesSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "photo", Name: "images_sent_total",
			Help: "Images sent by avatar and category",
		}, []string{"avatar_id", "category"}),
		QuotaRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "quota", Name: "rejections_total",
			Help: "Requests rejected by daily quota",
		}, []string{"kind"}),
		ReplyDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "llm", Name: "reply_duration_seconds",
			Help: "Reply generation latency", Buckets: []float64{.25, .5, 1, 2, 4, 8, 16, 32},
		}),
		ReplyErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "llm", Name: "errors_total",
			Help: "Failed reply generations",
		}),
		KafkaMessages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "kafka", Name: "messages_total",
			Help: "Kafka messages by topic and result",
		}, []string{"topic", "result"}),
		JobRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "jobs", Name: "runs_total",
			Help: "Scheduled job runs by result",
		}, []string{"job", "result"}),
		LibrarySize: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "photo", Name: "library_size",
			Help: "Images in the library per avatar",
		}, []string{"avatar_id"}),
		ReceivedImages: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "photo", Name: "received_images_rows",
			Help: "Rows in the received images log per avatar",
		}, []string{"avatar_id"}),
		DBConnPool: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "db", Name: "connection_pool",
			Help: "Database connection pool statistics",
		}, []string{"stat"}),
	}
}

// Handler отдаёт метрики реестра в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry нужен тестам для чтения значений
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// GinMiddleware считает запросы и латентность по шаблону маршрута
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RecordDBPoolStats(stats sql.DBStats) {
	m.DBConnPool.WithLabelValues("open").Set(float64(stats.OpenConnections))
	m.DBConnPool.WithLabelValues("in_use").Set(float64(stats.InUse))
	m.DBConnPool.WithLabelValues("idle").Set(float64(stats.Idle))
	m.DBConnPool.WithLabelValues("wait_count").Set(float64(stats.WaitCount))
	m.DBConnPool.WithLabelValues("wait_duration_ms").Set(float64(stats.WaitDuration.Milliseconds()))
}
