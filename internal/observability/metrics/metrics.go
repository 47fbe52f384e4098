package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	statsRequests    metric.Int64Counter
	degradedSources  metric.Int64Counter
	fetchErrors      metric.Int64Counter
	assembleDuration metric.Float64Histogram
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "fixlane"
	}
	meter := provider.Meter(name)

	statsRequests, err := meter.Int64Counter("fixlane_dashboard_stats_requests_total")
	if err != nil {
		return nil, err
	}
	degradedSources, err := meter.Int64Counter("fixlane_dashboard_degraded_sources_total")
	if err != nil {
		return nil, err
	}
	fetchErrors, err := meter.Int64Counter("fixlane_dashboard_fetch_errors_total")
	if err != nil {
		return nil, err
	}
	assembleDuration, err := meter.Float64Histogram("fixlane_dashboard_assemble_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		statsRequests:    statsRequests,
		degradedSources:  degradedSources,
		fetchErrors:      fetchErrors,
		assembleDuration: assembleDuration,
	}, nil
}

// RecordStatsRequest increments dashboard stats request counts.
func (m *Metrics) RecordStatsRequest(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.statsRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordDegradedSource increments degraded source counts for a record kind.
func (m *Metrics) RecordDegradedSource(ctx context.Context, sourceKind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("source_kind", strings.TrimSpace(sourceKind)))
	m.degradedSources.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordFetchError increments fetch error counts for a record kind.
func (m *Metrics) RecordFetchError(ctx context.Context, sourceKind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("source_kind", strings.TrimSpace(sourceKind)))
	m.fetchErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordAssembleDuration records how long a dashboard assembly took.
func (m *Metrics) RecordAssembleDuration(ctx context.Context, d time.Duration, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.assembleDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"outcome":     {},
	"source_kind": {},
	"endpoint":    {},
	"status_code": {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
