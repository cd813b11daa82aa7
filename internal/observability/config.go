package observability

import (
	"strconv"
	"strings"

	"github.com/Henok-Haile/crm-dashboard/internal/config"
	"github.com/spf13/viper"
)

// Config holds observability settings. Values come from the environment and
// fall back to the application config.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel  string
	LogFormat string

	OtelEnabled          bool
	OtelExporterEndpoint string
	OtelExporterProtocol string
	OtelSamplingRatio    float64
}

const defaultSamplingRatio = 0.1

func LoadConfig(cfg config.Config) Config {
	v := viper.New()
	v.AutomaticEnv()

	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = "crm-dashboard"
	}
	v.SetDefault("DEPLOYMENT_ENV", cfg.Environment)
	v.SetDefault("SERVICE_VERSION", cfg.AppVersion)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)
	v.SetDefault("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc")
	v.SetDefault("OTEL_ENABLED", false)

	environment := strings.TrimSpace(v.GetString("DEPLOYMENT_ENV"))
	format := "json"
	if isDevEnv(environment) {
		format = "console"
	}
	v.SetDefault("LOG_FORMAT", format)

	protocol := lower(v.GetString("OTEL_EXPORTER_OTLP_PROTOCOL"))
	if traces := lower(v.GetString("OTEL_EXPORTER_OTLP_TRACES_PROTOCOL")); traces != "" {
		protocol = traces
	}

	return Config{
		ServiceName:          serviceName,
		Environment:          environment,
		Version:              strings.TrimSpace(v.GetString("SERVICE_VERSION")),
		LogLevel:             lower(v.GetString("LOG_LEVEL")),
		LogFormat:            lower(v.GetString("LOG_FORMAT")),
		OtelEnabled:          v.GetBool("OTEL_ENABLED"),
		OtelExporterEndpoint: strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OtelExporterProtocol: protocol,
		OtelSamplingRatio:    samplingRatio(v.GetString("OTEL_SAMPLING_RATIO")),
	}
}

// Debug reports whether verbose logging and gin debug mode apply.
func (c Config) Debug() bool {
	return lower(c.LogLevel) == "debug" || isDevEnv(c.Environment)
}

func isDevEnv(env string) bool {
	switch lower(env) {
	case "dev", "development", "local", "test":
		return true
	default:
		return false
	}
}

// samplingRatio parses a ratio in [0, 1]; anything else yields the default.
func samplingRatio(raw string) float64 {
	ratio, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return defaultSamplingRatio
	}
	return ratio
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
