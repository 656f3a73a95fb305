package configs

import (
	"time"

	"github.com/spf13/viper"
)

// RateLimitConfig 请求限流配置，令牌桶按 key 维度独立计数.
type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"     rule:"min=0"`
	Burst   int     `mapstructure:"burst"   rule:"min=0"`
	// Key 限流维度：global、ip、header:<Header-Name>（请求头缺失时回退到 ip）.
	Key string `mapstructure:"key"`
}

// CircuitBreakerConfig HTTP 熔断配置，5xx 计为失败.
type CircuitBreakerConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	FailureRatio float64 `mapstructure:"failure_ratio" rule:"min=0,max=1"`
	// MinRequests 统计窗口内请求数达到该值后才判断是否打开.
	MinRequests uint32        `mapstructure:"min_requests"`
	Interval    time.Duration `mapstructure:"interval"`
	// OpenTimeout 打开状态持续时间，之后进入半开.
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`
	HalfOpenRequests uint32        `mapstructure:"half_open_requests" rule:"min=1"`
}

func (c *RateLimitConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.rps", 20.0)
	v.SetDefault("rate_limit.burst", 40)
	v.SetDefault("rate_limit.key", "ip")
}

func (c *CircuitBreakerConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.failure_ratio", 0.5)
	v.SetDefault("circuit_breaker.min_requests", 20)
	v.SetDefault("circuit_breaker.interval", time.Minute)
	v.SetDefault("circuit_breaker.open_timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.half_open_requests", 5)
}
