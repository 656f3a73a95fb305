package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/storage"
	"github.com/yeisme/hazopvault/pkg/scheduler"
)

// StorageMiddleware 将进程共享的存储 Manager 注入请求上下文，服务层从上下文取用.
func StorageMiddleware(manager *storage.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithStorageManager(c.Request.Context(), manager))
		c.Next()
	}
}

// SchedulerMiddleware 注入调度器，供 /api/admin/jobs 使用.
func SchedulerMiddleware(sched *scheduler.Scheduler) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(context.WithScheduler(c.Request.Context(), sched))
		c.Next()
	}
}
