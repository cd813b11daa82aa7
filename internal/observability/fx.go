package observability

import (
	"github.com/Henok-Haile/crm-dashboard/internal/observability/logger"
	"github.com/Henok-Haile/crm-dashboard/internal/observability/metrics"
	"github.com/Henok-Haile/crm-dashboard/internal/observability/tracing"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		LoadConfig,
		componentConfigs,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewRegisterer,
		metrics.NewHTTPMetrics,
	),
	// Nothing else depends on the tracer provider, but it must install the
	// global propagator before the first request.
	fx.Invoke(func(trace.TracerProvider) {}),
)

// componentConfigs derives the logger, tracing and metrics settings from
// the one observability config.
func componentConfigs(cfg Config) (logger.Config, tracing.Config, metrics.Config) {
	debug := cfg.Debug()
	exportEnabled := cfg.OtelEnabled && cfg.OtelExporterEndpoint != ""

	logCfg := logger.Config{
		ServiceName:         cfg.ServiceName,
		Environment:         cfg.Environment,
		Version:             cfg.Version,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		Debug:               debug,
		IncludeCaller:       true,
		IncludeStackOnError: debug,
	}
	traceCfg := tracing.Config{
		Enabled:          exportEnabled,
		ServiceName:      cfg.ServiceName,
		ServiceVersion:   cfg.Version,
		Environment:      cfg.Environment,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		SamplingRatio:    cfg.OtelSamplingRatio,
	}
	metricCfg := metrics.Config{
		Enabled:          exportEnabled,
		ExporterEndpoint: cfg.OtelExporterEndpoint,
		ExporterProtocol: cfg.OtelExporterProtocol,
		ServiceName:      cfg.ServiceName,
		Environment:      cfg.Environment,
	}
	return logCfg, traceCfg, metricCfg
}
