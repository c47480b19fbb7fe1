package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	SamplesCreated prometheus.Counter
	VideosUploaded prometheus.Counter
	VideoBytes     prometheus.Counter
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New builds the collectors on a private registry so tests can create as
// many as they like.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SamplesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sampling_samples_created_total",
			Help: "Samples stored",
		}),
		VideosUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sampling_videos_uploaded_total",
			Help: "Videos stored",
		}),
		VideoBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sampling_video_bytes_uploaded_total",
			Help: "Bytes of video content stored",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sampling_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sampling_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SamplesCreated, m.VideosUploaded, m.VideoBytes, m.requests, m.latency,
	)
	return m
}

// Handler returns an http.Handler for Prometheus scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		// route pattern, not the raw path, to keep label cardinality bounded
		route := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		m.requests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}
