package logger

import (
	"context"
	"fmt"
	"strings"
	"time"

	obscontext "github.com/Henok-Haile/crm-dashboard/internal/observability/context"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures the zap logger.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	Level       string
	Format      string
	Debug       bool
	// Output is a zap sink such as "stdout" or "stderr"; defaults to stdout.
	Output string

	SamplingInitial     int
	SamplingThereafter  int
	SamplingWindow      time.Duration
	IncludeCaller       bool
	IncludeStackOnError bool
}

// New builds the process logger, installs it as the zap global and syncs it on shutdown.
func New(lc fx.Lifecycle, cfg Config) (*zap.Logger, error) {
	logger, err := Build(cfg)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				_ = logger.Sync()
				return nil
			},
		})
	}
	return logger, nil
}

// Build constructs a logger without touching globals or lifecycles.
func Build(cfg Config) (*zap.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if cfg.Debug {
		zapCfg.Development = true
	}
	zapCfg.Encoding = normalizeFormat(cfg.Format)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if zapCfg.Encoding == "console" {
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	output := strings.TrimSpace(cfg.Output)
	if output == "" {
		output = "stdout"
	}
	zapCfg.OutputPaths = []string{output}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	zapCfg.Sampling = nil

	level := strings.TrimSpace(cfg.Level)
	if level == "" {
		level = "info"
	}
	if err := zapCfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	options := []zap.Option{}
	if cfg.IncludeCaller {
		options = append(options, zap.AddCaller())
	}
	if cfg.IncludeStackOnError {
		options = append(options, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	if !cfg.Debug {
		options = append(options, zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewSamplerWithOptions(core, samplingWindow(cfg), samplingInitial(cfg), samplingThereafter(cfg))
		}))
	}

	logger, err := zapCfg.Build(options...)
	if err != nil {
		return nil, err
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "crm-dashboard"
	}
	return logger.With(
		zap.String("service", serviceName),
		zap.String("env", strings.TrimSpace(cfg.Environment)),
		zap.String("version", strings.TrimSpace(cfg.Version)),
	), nil
}

func samplingInitial(cfg Config) int {
	if cfg.SamplingInitial == 0 {
		return 100
	}
	return cfg.SamplingInitial
}

func samplingThereafter(cfg Config) int {
	if cfg.SamplingThereafter == 0 {
		return 100
	}
	return cfg.SamplingThereafter
}

func samplingWindow(cfg Config) time.Duration {
	if cfg.SamplingWindow == 0 {
		return time.Second
	}
	return cfg.SamplingWindow
}

func normalizeFormat(format string) string {
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		return "console"
	}
	return "json"
}

// FromContext returns the global logger enriched with request-scoped fields.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext enriches base with request, correlation, user and trace identifiers
// present on ctx. Absent values are omitted.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}

	fields := make([]zap.Field, 0, 5)
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if correlationID := obscontext.CorrelationIDFromContext(ctx); correlationID != "" {
		fields = append(fields, zap.String("correlation_id", correlationID))
	}
	if userID := obscontext.UserIDFromContext(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
