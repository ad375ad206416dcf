// Package metrics exposes Prometheus collectors for the HTTP API and the
// Fresnel zone pipeline.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector bundles the API metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	Requests     *prometheus.CounterVec
	Durations    *prometheus.HistogramVec
	ZoneComputes *prometheus.CounterVec
	ZoneRadius   prometheus.Histogram
}

// Counts reports the current registry size for the gauges.
type Counts func() (towers, links int)

// New registers the collectors against reg, defaulting to the global
// registry when nil. counts may be nil.
func New(reg prometheus.Registerer, counts Counts) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{
		gatherer: gatherer,
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rflink_http_requests_total",
			Help: "Handled HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
		Durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rflink_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),
		ZoneComputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rflink_zone_computations_total",
			Help: "Fresnel zone computations by result.",
		}, []string{"result"}),
		ZoneRadius: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rflink_zone_radius_meters",
			Help:    "First Fresnel zone midpoint radius of computed zones.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
	}

	collectors := []prometheus.Collector{c.Requests, c.Durations, c.ZoneComputes, c.ZoneRadius}
	if counts != nil {
		collectors = append(collectors,
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "rflink_towers",
				Help: "Towers currently registered.",
			}, func() float64 {
				towers, _ := counts()
				return float64(towers)
			}),
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Name: "rflink_links",
				Help: "Links currently registered.",
			}, func() float64 {
				_, links := counts()
				return float64(links)
			}),
		)
	}

	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return c, nil
}

// ObserveRequest records one served request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	c.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.Durations.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveZone records a zone computation. err == nil counts as success.
func (c *Collector) ObserveZone(radius float64, err error) {
	if c == nil {
		return
	}
	if err != nil {
		c.ZoneComputes.WithLabelValues("error").Inc()
		return
	}
	c.ZoneComputes.WithLabelValues("ok").Inc()
	c.ZoneRadius.Observe(radius)
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
