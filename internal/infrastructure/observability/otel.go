package observability

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/zatekoja/medicalnetwork"

// Metrics holds the HTTP metrics recorded by the observability middleware
type Metrics struct {
	RequestCount    metric.Int64Counter
	RequestDuration metric.Float64Histogram
	CacheHitCount   metric.Int64Counter
	CacheMissCount  metric.Int64Counter
}

// Setup initializes OpenTelemetry tracing and metrics export
func Setup(ctx context.Context, serviceName, serviceVersion, endpoint string) (func(context.Context) error, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	// Set up trace exporter
	traceExporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Set up metric exporter
	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(30*time.Second))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)

	if err := runtime.Start(runtime.WithMeterProvider(meterProvider)); err != nil {
		_ = meterProvider.Shutdown(ctx)
		_ = tracerProvider.Shutdown(ctx)
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(
			meterProvider.Shutdown(ctx),
			tracerProvider.Shutdown(ctx),
		)
	}

	return shutdown, nil
}

// InitMetrics initializes application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	requestCount, err := meter.Int64Counter(
		"http.server.request.count",
		metric.WithDescription("Number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	cacheHitCount, err := meter.Int64Counter(
		"cache.hit.count",
		metric.WithDescription("Number of cache hits"),
	)
	if err != nil {
		return nil, err
	}

	cacheMissCount, err := meter.Int64Counter(
		"cache.miss.count",
		metric.WithDescription("Number of cache misses"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		RequestCount:    requestCount,
		RequestDuration: requestDuration,
		CacheHitCount:   cacheHitCount,
		CacheMissCount:  cacheMissCount,
	}, nil
}

// StartSpan starts a new trace span
func StartSpan(ctx context.Context, spanName string) (context.Context, trace.Span) {
	tracer := otel.Tracer(instrumentationName)
	return tracer.Start(ctx, spanName)
}

// SetSpanAttributes sets attributes on span
func SetSpanAttributes(span trace.Span, attrs ...attribute.KeyValue) {
	span.SetAttributes(attrs...)
}

// RecordError records an error in the current span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
	}
}

// RecordRequestMetric records a metric with attributes
func RecordRequestMetric(ctx context.Context, metrics *Metrics, method, path string, statusCode int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.route", path),
		attribute.Int("http.status_code", statusCode),
	}

	if metrics == nil {
		return
	}
	metrics.RequestCount.Add(ctx, 1, metric.WithAttributes(attrs...))
	metrics.RequestDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}

// RecordCacheHit records a cache hit
func RecordCacheHit(ctx context.Context, metrics *Metrics, key string) {
	if metrics == nil {
		return
	}
	metrics.CacheHitCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.key", key)))
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss(ctx context.Context, metrics *Metrics, key string) {
	if metrics == nil {
		return
	}
	metrics.CacheMissCount.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.key", key)))
}

type domainInstruments struct {
	directoryReloads  metric.Int64Counter
	directoryRecords  metric.Int64Gauge
	directoryDuration metric.Float64Histogram
	llmRequests       metric.Int64Counter
	llmDuration       metric.Float64Histogram
	llmErrors         metric.Int64Counter
}

var (
	domainOnce sync.Once
	domain     *domainInstruments
)

// domainMetrics lazily creates the directory and LLM instruments on the
// global meter provider. It returns nil if any instrument fails to register.
func domainMetrics() *domainInstruments {
	domainOnce.Do(func() {
		meter := otel.Meter(instrumentationName)
		var d domainInstruments
		var errs []error
		var err error

		d.directoryReloads, err = meter.Int64Counter("directory.reload.count",
			metric.WithDescription("Number of directory source loads"))
		errs = append(errs, err)
		d.directoryRecords, err = meter.Int64Gauge("directory.records",
			metric.WithDescription("Records in the current directory snapshot"))
		errs = append(errs, err)
		d.directoryDuration, err = meter.Float64Histogram("directory.reload.duration",
			metric.WithDescription("Directory load duration in milliseconds"), metric.WithUnit("ms"))
		errs = append(errs, err)
		d.llmRequests, err = meter.Int64Counter("ai.request.count",
			metric.WithDescription("Number of text generation requests"))
		errs = append(errs, err)
		d.llmDuration, err = meter.Float64Histogram("ai.request.duration",
			metric.WithDescription("Text generation duration in milliseconds"), metric.WithUnit("ms"))
		errs = append(errs, err)
		d.llmErrors, err = meter.Int64Counter("ai.request.errors",
			metric.WithDescription("Number of failed text generation requests"))
		errs = append(errs, err)

		if errors.Join(errs...) == nil {
			domain = &d
		}
	})
	return domain
}

// RecordDirectoryReload records one load of the directory source
func RecordDirectoryReload(ctx context.Context, records int, duration time.Duration, err error) {
	d := domainMetrics()
	if d == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	d.directoryReloads.Add(ctx, 1, attrs)
	d.directoryDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err == nil {
		d.directoryRecords.Record(ctx, int64(records))
	}
}

// RecordLLMRequest records one call to a text generation provider
func RecordLLMRequest(ctx context.Context, provider, model string, statusCode int, duration time.Duration, err error) {
	d := domainMetrics()
	if d == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("ai.provider", provider),
		attribute.String("ai.model", model),
	}
	if statusCode > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", statusCode))
	}
	d.llmRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
	d.llmDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
	if err != nil {
		d.llmErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
