// Package handle 提供 HTTP 请求处理器，负责参数解析、调用 service 与错误映射.
package handle

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/service"
	"github.com/yeisme/hazopvault/pkg/internal/types"
)

// statusOf 按错误分类返回 HTTP 状态码.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError 记录原因并返回稳定的错误信息，5xx 一律使用 fallback.
func writeError(c *gin.Context, err error, fallback string) {
	status := statusOf(err)
	l := ctxPkg.Logger(c.Request.Context())

	msg, ok := service.Message(err)

	switch {
	case status >= http.StatusInternalServerError:
		l.Error().Err(err).Str("path", c.FullPath()).Msg(fallback)

		msg = fallback
	case !ok:
		l.Warn().Err(err).Str("path", c.FullPath()).Msg("rejected request")

		msg = types.MsgInvalidRequest
	default:
		l.Debug().Err(err).Str("path", c.FullPath()).Msg("client error")
	}

	c.AbortWithStatusJSON(status, types.ErrorResponse{Error: msg})
}
