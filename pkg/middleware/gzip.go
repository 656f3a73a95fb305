package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// binaryRoutes 直接透传存储对象的路由，PDF 与 PNG/JPEG 已压缩，不再 gzip.
var binaryRoutes = []string{
	`^/api/upload/[^/?]+`,
	`^/api/reports/[^/?]+/download`,
	`^/metrics`,
}

// GzipMiddleware 对 JSON 响应启用 gzip.
func GzipMiddleware() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPathsRegexs(binaryRoutes))
}
