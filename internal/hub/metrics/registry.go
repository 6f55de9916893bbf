package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry encapsulates all hub metrics and provides a clean interface
// for recording them without global state
type Registry struct {
	registry *prometheus.Registry

	// Publish metrics
	publishTotal    *prometheus.CounterVec
	publishDuration *prometheus.HistogramVec
	deliveriesTotal *prometheus.CounterVec
	skippedTotal    *prometheus.CounterVec
	subscribers     *prometheus.GaugeVec

	// System health metrics
	systemInfo *prometheus.GaugeVec
	startTime  prometheus.Gauge
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	registry := prometheus.NewRegistry()

	r := &Registry{
		registry: registry,

		publishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hub_publish_total",
				Help: "Total number of publish operations",
			},
			[]string{"event_type", "status"}, // status: success, error, empty
		),

		publishDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hub_publish_duration_seconds",
				Help:    "Time spent delivering a published event to all subscribers",
				Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"event_type"},
		),

		deliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hub_deliveries_total",
				Help: "Total number of events delivered to subscribers",
			},
			[]string{"event_type"},
		),

		skippedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hub_skipped_handles_total",
				Help: "Total number of subscriber handles skipped during delivery",
			},
			[]string{"event_type"},
		),

		subscribers: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hub_subscribers",
				Help: "Number of subscribers registered for an event type at the last publish",
			},
			[]string{"event_type"},
		),

		systemInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "hub_system_info",
				Help: "System information (value is always 1, labels contain info)",
			},
			[]string{"version", "build_time"},
		),

		startTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hub_start_time_seconds",
				Help: "Unix timestamp when the application started",
			},
		),
	}

	// add default Go metrics (memory, GC, goroutines, etc.)
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registry.MustRegister(
		r.publishTotal,
		r.publishDuration,
		r.deliveriesTotal,
		r.skippedTotal,
		r.subscribers,
		r.systemInfo,
		r.startTime,
	)

	r.startTime.SetToCurrentTime()

	return r
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		Registry:          r.registry,
	})
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordPublish records one publish call. Subscribers that were not delivered to are
// counted as skipped.
func (r *Registry) RecordPublish(eventType string, subscribers, delivered int, duration time.Duration, err error) {
	status := "success"
	switch {
	case err != nil:
		status = "error"
	case subscribers == 0:
		status = "empty"
	}

	r.publishTotal.WithLabelValues(eventType, status).Inc()
	r.publishDuration.WithLabelValues(eventType).Observe(duration.Seconds())
	r.subscribers.WithLabelValues(eventType).Set(float64(subscribers))
	if delivered > 0 {
		r.deliveriesTotal.WithLabelValues(eventType).Add(float64(delivered))
	}
	if skipped := subscribers - delivered; skipped > 0 {
		r.skippedTotal.WithLabelValues(eventType).Add(float64(skipped))
	}
}

// SetSystemInfo sets system information metrics
func (r *Registry) SetSystemInfo(version, buildTime string) {
	r.systemInfo.WithLabelValues(version, buildTime).Set(1)
}
