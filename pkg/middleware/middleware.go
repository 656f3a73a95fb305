// Package middleware 提供 HTTP 中间件：请求日志、追踪、监控、跨域、压缩、限流、熔断以及存储注入.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/storage"
)

// Chain 按配置组装全局中间件，返回顺序即执行顺序.
func Chain(cfg *configs.AppConfig, mgr *storage.Manager) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		RecoveryMiddleware(),
		TracingMiddleware(),
		GinLoggerMiddleware(),
	}

	if cfg.Metrics.Enabled {
		chain = append(chain, PrometheusMiddleware())
	}

	chain = append(chain,
		CORSMiddleware(cfg.Server),
		RateLimitMiddleware(cfg.RateLimit),
		CircuitBreakerMiddleware(cfg.CircuitBreaker),
		GzipMiddleware(),
		StorageMiddleware(mgr),
	)

	return chain
}
