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
	customerMutations metric.Int64Counter
	authEvents        metric.Int64Counter
	listingFetches    metric.Int64Counter
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
		name = "crm-dashboard"
	}
	meter := provider.Meter(name)

	customerMutations, err := meter.Int64Counter("crm_customer_mutations_total",
		metric.WithDescription("Customer inserts, updates and deletes by outcome."))
	if err != nil {
		return nil, err
	}
	authEvents, err := meter.Int64Counter("crm_auth_events_total",
		metric.WithDescription("Sign-up, sign-in and sign-out attempts by outcome."))
	if err != nil {
		return nil, err
	}
	listingFetches, err := meter.Int64Counter("crm_listing_fetches_total",
		metric.WithDescription("Customer page queries by sort key."))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		customerMutations: customerMutations,
		authEvents:        authEvents,
		listingFetches:    listingFetches,
	}, nil
}

// RecordCustomerMutation counts one insert, update or delete.
func (m *Metrics) RecordCustomerMutation(ctx context.Context, operation string, err error) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("operation", strings.TrimSpace(operation)),
		attribute.String("outcome", outcome(err)),
	)
	m.customerMutations.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordAuthEvent counts one sign-up, sign-in or sign-out attempt.
func (m *Metrics) RecordAuthEvent(ctx context.Context, event string, err error) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(
		attribute.String("event_type", strings.TrimSpace(event)),
		attribute.String("outcome", outcome(err)),
	)
	m.authEvents.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordListingFetch counts one page query.
func (m *Metrics) RecordListingFetch(ctx context.Context, sort string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("sort", strings.TrimSpace(sort)))
	m.listingFetches.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
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
	"operation":   {},
	"outcome":     {},
	"event_type":  {},
	"sort":        {},
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
