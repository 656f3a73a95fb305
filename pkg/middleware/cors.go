package middleware

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hazopvault/pkg/configs"
)

// CORSMiddleware 允许浏览器跨域调用上传、分析与报告接口.
// 下载报告时前端需要读取 Content-Disposition 中的文件名.
func CORSMiddleware(cfg configs.ServerConfig) gin.HandlerFunc {
	c := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "traceparent", "tracestate"},
		ExposeHeaders:   []string{"Content-Disposition", "Content-Length", "Content-Type"},
		MaxAge:          12 * time.Hour,
	}

	if cfg.Debug {
		c.MaxAge = 0
	}

	return cors.New(c)
}
