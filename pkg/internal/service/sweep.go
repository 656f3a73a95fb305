package service

import (
	"context"
	"errors"
	"time"

	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/model"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	"github.com/yeisme/hazopvault/pkg/metrics"
	"github.com/yeisme/hazopvault/pkg/queue"
)

// SweepService 清理没有报告记录引用的 PDF 对象.
type SweepService struct {
	deps
	clock func() time.Time
}

// SweepResult 一次清理的统计.
type SweepResult struct {
	Scanned int      `json:"scanned"`
	Removed []string `json:"removed"`
	Failed  int      `json:"failed"`
}

// NewSweepService 从上下文中的存储句柄创建服务.
func NewSweepService(ctx context.Context) (*SweepService, error) {
	d, err := depsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return &SweepService{deps: d, clock: time.Now}, nil
}

// Run 删除超过宽限期且没有报告记录引用的报告对象.
// 宽限期用于跳过正在生成、记录尚未写入的报告.
func (s *SweepService) Run(ctx context.Context) (res SweepResult, err error) {
	defer func() { metrics.PipelineOps.WithLabelValues("sweep", metrics.Result(err)).Inc() }()

	logger := ctxPkg.Logger(ctx)
	cutoff := s.clock().Add(-s.cfg.Sweep.Grace)

	// 先收集候选，遍历过程中不修改存储
	var candidates []blob.Info

	err = s.blob.List(ctx, func(info blob.Info) error {
		if info.Kind != blob.KindReport {
			return nil
		}

		res.Scanned++

		if info.CreatedAt.Before(cutoff) {
			candidates = append(candidates, info)
		}

		return nil
	})
	if err != nil {
		return res, storeErr("list blobs", err)
	}

	if len(candidates) == 0 {
		return res, nil
	}

	var referenced []string
	if err := s.db.WithContext(ctx).Model(&model.Report{}).Pluck("file_id", &referenced).Error; err != nil {
		return res, storeErr("list report files", err)
	}

	inUse := make(map[string]struct{}, len(referenced))
	for _, id := range referenced {
		inUse[id] = struct{}{}
	}

	for _, info := range candidates {
		if _, ok := inUse[info.ID]; ok {
			continue
		}

		if derr := s.blob.Delete(ctx, info.ID); derr != nil && !errors.Is(derr, blob.ErrNotFound) {
			res.Failed++

			logger.Warn().Err(derr).Str("file_id", info.ID).Msg("remove orphaned report blob failed")

			continue
		}

		res.Removed = append(res.Removed, info.ID)
		metrics.OrphansRemoved.Inc()

		s.events.blobOrphaned(ctx, queue.BlobOrphanedPayload{
			Blob: blobRef(info),
			Age:  s.clock().Sub(info.CreatedAt),
		})
	}

	logger.Info().
		Int("scanned", res.Scanned).
		Int("removed", len(res.Removed)).
		Int("failed", res.Failed).
		Msg("orphan sweep finished")

	return res, nil
}
