package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hazopvault/pkg/internal/handle"
)

// RegisterHealthCheckRoute 每个后端一个探针，失败时返回 503.
//
//	GET /health/db    -> HealthDB
//	GET /health/blob  -> HealthBlob
//	GET /health/mq    -> HealthMQ
func RegisterHealthCheckRoute(g *gin.RouterGroup) {
	probes := map[string]gin.HandlerFunc{
		"/db":   handle.HealthDB,
		"/blob": handle.HealthBlob,
		"/mq":   handle.HealthMQ,
	}

	health := g.Group("/health")
	for path, h := range probes {
		health.GET(path, h)
	}
}
