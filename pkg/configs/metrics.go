package configs

import "github.com/spf13/viper"

// MetricsConfig Prometheus 指标配置.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Path 指标暴露路径，挂在主 HTTP 服务上.
	Path string `mapstructure:"path" rule:"startswith=/"`
	// Runtime 注册 Go runtime 与进程指标.
	Runtime bool `mapstructure:"runtime"`
	// Pprof 同时在 /debug/pprof 暴露性能分析端点.
	Pprof bool `mapstructure:"pprof"`
	// ConstLabels 附加到本服务注册的所有指标上.
	ConstLabels map[string]string `mapstructure:"const_labels"`
}

func (c *MetricsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("metrics.runtime", true)
	v.SetDefault("metrics.pprof", false)
	v.SetDefault("metrics.const_labels", map[string]string{})
}
