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
	calculations   metric.Int64Counter
	invalidSales   metric.Int64Counter
	packageGaps    metric.Int64Counter
	catalogReloads metric.Int64Counter
	httpRequests   metric.Int64Counter
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

// New configures the commission metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "salesops"
	}
	meter := provider.Meter(name)

	calculations, err := meter.Int64Counter("salesops_commission_calculations_total")
	if err != nil {
		return nil, err
	}
	invalidSales, err := meter.Int64Counter("salesops_commission_invalid_sales_total")
	if err != nil {
		return nil, err
	}
	packageGaps, err := meter.Int64Counter("salesops_package_config_gaps_total")
	if err != nil {
		return nil, err
	}
	catalogReloads, err := meter.Int64Counter("salesops_rate_catalog_reloads_total")
	if err != nil {
		return nil, err
	}
	httpRequests, err := meter.Int64Counter("salesops_http_requests_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		calculations:   calculations,
		invalidSales:   invalidSales,
		packageGaps:    packageGaps,
		catalogReloads: catalogReloads,
		httpRequests:   httpRequests,
	}, nil
}

// RecordCalculation counts one engine run by resulting eligibility state.
func (m *Metrics) RecordCalculation(ctx context.Context, eligibility string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("eligibility", strings.TrimSpace(eligibility)))
	m.calculations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInvalidSale counts a sale rejected as contradictory input.
func (m *Metrics) RecordInvalidSale(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("reason", strings.TrimSpace(reason)))
	m.invalidSales.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordPackageConfigGap counts a package code missing from the rate catalog.
// The code itself is logged, not labelled.
func (m *Metrics) RecordPackageConfigGap(ctx context.Context) {
	if m == nil {
		return
	}
	m.packageGaps.Add(ctx, 1)
}

func (m *Metrics) RecordCatalogReload(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.catalogReloads.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (m *Metrics) RecordHTTPRequest(ctx context.Context, route string, statusCode int) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("endpoint", strings.TrimSpace(route)),
		attribute.Int("status_code", statusCode),
	)
	m.httpRequests.Add(ctx, 1, metric.WithAttributes(attrs...))
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
	"eligibility": {},
	"reason":      {},
	"outcome":     {},
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
