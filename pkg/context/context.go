// Package context 在请求上下文中传递进程级资源（存储 Manager、调度器）并提供带 trace 的 logger.
package context

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/hazopvault/pkg/internal/storage"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/hazopvault/pkg/internal/storage/db"
	mqc "github.com/yeisme/hazopvault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/hazopvault/pkg/log"
	"github.com/yeisme/hazopvault/pkg/scheduler"
)

type (
	managerKey   struct{}
	schedulerKey struct{}
)

// WithStorageManager 挂载存储 Manager.
func WithStorageManager(ctx context.Context, mgr *storage.Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, mgr)
}

// GetManager 未挂载时返回 nil.
func GetManager(ctx context.Context) *storage.Manager {
	mgr, _ := ctx.Value(managerKey{}).(*storage.Manager)
	return mgr
}

// WithScheduler 挂载调度器.
func WithScheduler(ctx context.Context, s *scheduler.Scheduler) context.Context {
	return context.WithValue(ctx, schedulerKey{}, s)
}

// GetScheduler 未挂载时返回 nil，管理接口据此返回 503.
func GetScheduler(ctx context.Context) *scheduler.Scheduler {
	s, _ := ctx.Value(schedulerKey{}).(*scheduler.Scheduler)
	return s
}

func GetBlobStore(ctx context.Context) blob.Store {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetBlobStore()
	}

	return nil
}

func GetDBClient(ctx context.Context) *dbc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetDBClient()
	}

	return nil
}

func GetMQClient(ctx context.Context) *mqc.Client {
	if mgr := GetManager(ctx); mgr != nil {
		return mgr.GetMQClient()
	}

	return nil
}

// Logger 返回全局 logger，ctx 中有采样的 span 时附带 trace_id 与 span_id.
func Logger(ctx context.Context) *zerolog.Logger {
	l := *nlog.Logger()

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() && sc.IsSampled() {
		l = l.With().
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String()).
			Logger()
	}

	return &l
}
