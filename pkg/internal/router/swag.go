package router

import (
	"net"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/yeisme/hazopvault/docs"
	"github.com/yeisme/hazopvault/pkg/configs"
)

// RegisterSwaggerRoute 仅在 debug 模式下暴露 /swagger 文档.
func RegisterSwaggerRoute(r *gin.Engine, server configs.ServerConfig) {
	if !server.Debug {
		return
	}

	docs.SwaggerInfo.Host = net.JoinHostPort(server.Host, strconv.Itoa(server.Port))
	docs.SwaggerInfo.Version = configs.AppVersion
	docs.SwaggerInfo.BasePath = "/"

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.DocExpansion("none")))
}
