package obs

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/config"
)

// TracerName names the tracer used by the machine and the publishers.
const TracerName = "github.com/fairyhunter13/coffee-maker-simulator"

// SetupTracing installs a global TracerProvider and the W3C propagators.
// Spans are exported over OTLP/HTTP when cfg.OtelEndpoint is set and are
// otherwise only available to in-process processors.
func SetupTracing(ctx context.Context, cfg config.Config) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	res := resource.NewSchemaless(
		semconv.ServiceName(config.ServiceName),
		semconv.ServiceVersion(config.ServiceVersion),
	)

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
	}
	if cfg.OtelEndpoint != "" {
		exp, err := otlptracehttp.New(ctx, exporterOptions(cfg)...)
		if err != nil {
			return nil, nil, fmt.Errorf("otlp trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return tp, tp.Shutdown, nil
}

func exporterOptions(cfg config.Config) []otlptracehttp.Option {
	var opts []otlptracehttp.Option
	if strings.Contains(cfg.OtelEndpoint, "://") {
		opts = append(opts, otlptracehttp.WithEndpointURL(cfg.OtelEndpoint))
	} else {
		opts = append(opts, otlptracehttp.WithEndpoint(cfg.OtelEndpoint))
	}
	if cfg.OtelAuthHeader != "" {
		opts = append(opts, otlptracehttp.WithHeaders(map[string]string{"Authorization": cfg.OtelAuthHeader}))
	}
	return opts
}
