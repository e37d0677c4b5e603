// Package metrics holds the Prometheus collectors for pricing runs and the HTTP API.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"jewelry-pricer/internal/domain/model"
)

const namespace = "jewelry_pricer"

type Recorder struct {
	registry *prometheus.Registry

	changesDetected     prometheus.Gauge
	variantsUpdated     prometheus.Counter
	productBatches      *prometheus.CounterVec
	batchDuration       prometheus.Histogram
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		changesDetected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "price_changes_detected",
			Help:      "Variants eligible for a price update in the last pricing pass",
		}),
		variantsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variants_updated_total",
			Help:      "Variants whose price was written to the catalog",
		}),
		productBatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_batches_total",
			Help:      "Per-product bulk update calls by outcome",
		}, []string{"outcome"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "Wall time of one Apply call",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	r.registry.MustRegister(
		r.changesDetected,
		r.variantsUpdated,
		r.productBatches,
		r.batchDuration,
		r.httpRequestsTotal,
		r.httpRequestDuration,
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) ObserveChanges(count int) {
	if r == nil {
		return
	}
	r.changesDetected.Set(float64(count))
}

func (r *Recorder) ObserveProductBatch(ok bool) {
	if r == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	r.productBatches.WithLabelValues(outcome).Inc()
}

// ObserveResult records a finished Apply call.
func (r *Recorder) ObserveResult(result model.BatchResult, started time.Time) {
	if r == nil {
		return
	}
	r.variantsUpdated.Add(float64(result.Updated))
	r.batchDuration.Observe(time.Since(started).Seconds())
}

// Middleware tracks request counts and latency per route.
func (r *Recorder) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}
		labels := []string{c.Request().Method, c.Path(), strconv.Itoa(status)}
		r.httpRequestsTotal.WithLabelValues(labels...).Inc()
		r.httpRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Push sends the registry to a Pushgateway. CLI runs are short lived and would never be
// scraped.
func (r *Recorder) Push(ctx context.Context, url, job string) error {
	if r == nil || url == "" {
		return nil
	}
	return push.New(url, job).Gatherer(r.registry).PushContext(ctx)
}
