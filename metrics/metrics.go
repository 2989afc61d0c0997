package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
)

// Metrics records HTTP request counts and latencies and serves them in the
// Prometheus text format.
type Metrics struct {
	exporter *prometheus.Exporter
	requests metric.Int64Counter
	latency  metric.Float64ValueRecorder
}

func New(serviceName string) (*Metrics, error) {
	config := prometheus.Config{
		DefaultHistogramBoundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
	)
	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, fmt.Errorf("initialize prometheus exporter: %w", err)
	}

	meter := exporter.MeterProvider().Meter(serviceName)
	m := &Metrics{exporter: exporter}
	m.requests = metric.Must(meter).NewInt64Counter(
		"http.server.requests",
		metric.WithDescription("Count of completed requests, by method, route and status"),
	)
	m.latency = metric.Must(meter).NewFloat64ValueRecorder(
		"http.server.duration",
		metric.WithDescription("Request latency in seconds, by method and route"),
	)
	return m, nil
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		attrs := []attribute.KeyValue{
			attribute.String("method", c.Request.Method),
			attribute.String("route", route),
		}
		ctx := c.Request.Context()
		m.latency.Record(ctx, time.Since(start).Seconds(), attrs...)
		m.requests.Add(ctx, 1, append(attrs, attribute.String("status", strconv.Itoa(c.Writer.Status())))...)
	}
}

// Handler exposes the exporter on a gin route.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapF(m.exporter.ServeHTTP)
}
