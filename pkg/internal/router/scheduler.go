package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hazopvault/pkg/internal/handle"
)

// RegisterSchedulerRoutes 注册调度器管理路由.
func RegisterSchedulerRoutes(g *gin.RouterGroup) {
	g.GET("/jobs", handle.SchedulerJobs)
	g.POST("/jobs/:name/run", handle.SchedulerRunJob)
	g.DELETE("/jobs/:id", handle.SchedulerRemoveJob)
}
