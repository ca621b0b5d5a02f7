// Package metrics exposes Prometheus counters for publishing and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is what services and middleware report to.
type Recorder interface {
	RecordPostPublished(postType string)
	RecordScheduledPublished(count int64)
	RecordImageUploaded()
	RecordHTTPRequest(method string, statusCode int, duration time.Duration)
}

type Collector struct {
	postsPublished     *prometheus.CounterVec
	scheduledPublished prometheus.Counter
	imagesUploaded     prometheus.Counter
	httpRequests       *prometheus.CounterVec
	httpLatency        prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		postsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogcms_posts_published_total",
			Help: "Posts moved into the publish status, by post type",
		}, []string{"post_type"}),
		scheduledPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogcms_scheduled_published_total",
			Help: "Scheduled drafts published by the sweep",
		}),
		imagesUploaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogcms_images_uploaded_total",
			Help: "Images processed and stored",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogcms_http_requests_total",
			Help: "HTTP responses by method and status code",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "blogcms_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(
		c.postsPublished,
		c.scheduledPublished,
		c.imagesUploaded,
		c.httpRequests,
		c.httpLatency,
	)

	return c
}

func (c *Collector) RecordPostPublished(postType string) {
	c.postsPublished.WithLabelValues(postType).Inc()
}

func (c *Collector) RecordScheduledPublished(count int64) {
	c.scheduledPublished.Add(float64(count))
}

func (c *Collector) RecordImageUploaded() {
	c.imagesUploaded.Inc()
}

func (c *Collector) RecordHTTPRequest(method string, statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything. Used by commands that run outside the server.
type Nop struct{}

func (Nop) RecordPostPublished(string)                   {}
func (Nop) RecordScheduledPublished(int64)               {}
func (Nop) RecordImageUploaded()                         {}
func (Nop) RecordHTTPRequest(string, int, time.Duration) {}
