package handle

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/types"
)

const timeout = 2 * time.Second

func unhealthy(c *gin.Context, component, reason string) {
	c.JSON(http.StatusServiceUnavailable, types.HealthResponse{Component: component, Status: types.StatusUnhealthy, Error: reason})
}

// HealthDB 数据库健康检查.
func HealthDB(c *gin.Context) {
	dbc := ctxPkg.GetDBClient(c.Request.Context())
	if dbc == nil {
		unhealthy(c, "db", "db client not initialized")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := dbc.Ping(ctx); err != nil {
		unhealthy(c, "db", err.Error())
		return
	}

	c.JSON(http.StatusOK, types.HealthResponse{Component: "db", Status: types.StatusOK})
}

// HealthBlob 对象存储健康检查.
func HealthBlob(c *gin.Context) {
	store := ctxPkg.GetBlobStore(c.Request.Context())
	if store == nil {
		unhealthy(c, "blob", "blob store not initialized")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		unhealthy(c, "blob", err.Error())
		return
	}

	c.JSON(http.StatusOK, types.HealthResponse{Component: "blob", Status: types.StatusOK})
}

// HealthMQ 消息队列健康检查.
func HealthMQ(c *gin.Context) {
	if ctxPkg.GetMQClient(c.Request.Context()) == nil {
		unhealthy(c, "mq", "mq client not initialized")
		return
	}

	c.JSON(http.StatusOK, types.HealthResponse{Component: "mq", Status: types.StatusOK})
}
