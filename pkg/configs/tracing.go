package configs

import (
	"time"

	"github.com/spf13/viper"
)

// 追踪导出器.
const (
	TracingExporterOTLPHTTP = "otlp-http"
	TracingExporterOTLPGRPC = "otlp-grpc"
	TracingExporterZipkin   = "zipkin"
)

// TracingConfig OpenTelemetry 追踪配置，请求、流水线步骤与报告渲染都会产生 span.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name" rule:"required_if=Enabled true"`
	Exporter    string `mapstructure:"exporter"     rule:"oneof=otlp-http otlp-grpc zipkin"`
	// Endpoint otlp-http/zipkin 为完整 URL，otlp-grpc 为 host:port.
	Endpoint string `mapstructure:"endpoint"`
	// Insecure 仅对 otlp-grpc 生效.
	Insecure     bool          `mapstructure:"insecure"`
	SampleRatio  float64       `mapstructure:"sample_ratio" rule:"min=0,max=1"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	MaxBatchSize int           `mapstructure:"max_batch_size" rule:"min=1"`
	MaxQueueSize int           `mapstructure:"max_queue_size" rule:"gtefield=MaxBatchSize"`
	// Attributes 附加到 resource 上，例如 deployment.environment.
	Attributes map[string]string `mapstructure:"attributes"`
}

func (c *TracingConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", AppName)
	v.SetDefault("tracing.exporter", TracingExporterOTLPHTTP)
	v.SetDefault("tracing.endpoint", "http://localhost:4318")
	v.SetDefault("tracing.insecure", true)
	v.SetDefault("tracing.sample_ratio", 1.0)
	v.SetDefault("tracing.batch_timeout", 5*time.Second)
	v.SetDefault("tracing.max_batch_size", 512)
	v.SetDefault("tracing.max_queue_size", 2048)
}
