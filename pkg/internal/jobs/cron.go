// Package jobs 负责注册与实现业务定时任务（基于 scheduler）.
package jobs

import (
	"context"
	"errors"

	"github.com/yeisme/hazopvault/pkg/configs"
	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/service"
	"github.com/yeisme/hazopvault/pkg/internal/storage"
	"github.com/yeisme/hazopvault/pkg/log"
	"github.com/yeisme/hazopvault/pkg/scheduler"
)

// RegisterCronJobs 配置业务定时任务：
//   - 按 sweep.cron 清理没有报告记录引用的 PDF 对象（sweep.enabled 为 false 时不注册）
func RegisterCronJobs(sched *scheduler.Scheduler, mgr *storage.Manager, cfg configs.SweepConfig) error {
	if sched == nil {
		return errors.New("scheduler is nil")
	}

	if mgr == nil {
		return errors.New("storage manager is nil")
	}

	if !cfg.Enabled {
		return nil
	}

	// 将 storage manager 注入到 context，便于 service 使用
	baseCtx := ctxPkg.WithStorageManager(context.Background(), mgr)

	return sched.AddCron(baseCtx, JobOrphanSweep, cfg.Cron, RunOrphanSweep)
}

// RunOrphanSweep 执行一次孤立对象清理，ctx 中需要有 storage manager.
func RunOrphanSweep(ctx context.Context) error {
	l := log.Component("jobs").With().Str("job", JobOrphanSweep).Logger()

	svc, err := service.NewSweepService(ctx)
	if err != nil {
		return err
	}

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}

	if len(res.Removed) > 0 {
		l.Info().Strs("file_ids", res.Removed).Msg("removed orphaned report blobs")
	}

	if res.Failed > 0 {
		return errors.New("some orphaned blobs could not be removed")
	}

	return nil
}
