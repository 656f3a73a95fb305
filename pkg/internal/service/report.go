package service

import (
	"bytes"
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/ids"
	"github.com/yeisme/hazopvault/pkg/internal/model"
	"github.com/yeisme/hazopvault/pkg/internal/render"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	"github.com/yeisme/hazopvault/pkg/metrics"
	"github.com/yeisme/hazopvault/pkg/queue"
	"github.com/yeisme/hazopvault/pkg/tracing"
)

// ContentTypePDF 报告对象的内容类型.
const ContentTypePDF = "application/pdf"

// joinConcurrency 列表关联分析结果时的并发上限.
const joinConcurrency = 8

// ReportService 生成、查询与删除 HAZOP 报告.
type ReportService struct {
	deps
	analyses *AnalysisService
	renderer *render.Renderer
}

// NewReportService 从上下文中的存储句柄创建服务.
func NewReportService(ctx context.Context) (*ReportService, error) {
	d, err := depsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return newReportService(d), nil
}

func newReportService(d deps) *ReportService {
	return &ReportService{
		deps:     d,
		analyses: newAnalysisService(d),
		renderer: render.New(render.Options{
			Compress: d.cfg.Report.Compress,
			Author:   d.cfg.Report.Author,
		}),
	}
}

// Generate 渲染分析结果，写入 PDF 后创建报告记录.
// 记录写入失败时删除刚写入的对象，删除失败则留给清理任务.
func (s *ReportService) Generate(ctx context.Context, analysisID string) (r *model.Report, err error) {
	ctx, span := tracing.StartSpan(ctx, "report.generate", trace.WithAttributes(attribute.String("analysis_id", analysisID)))
	defer func() {
		tracing.EndSpan(span, err)
		metrics.PipelineOps.WithLabelValues("report", metrics.Result(err)).Inc()
	}()

	a, err := s.analyses.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.Render(*a)
	if err != nil {
		return nil, err
	}

	metrics.ReportBytes.Observe(float64(len(pdf)))

	filename := model.ReportFilename(a.ID)

	info, err := s.blob.Put(ctx, bytes.NewReader(pdf), int64(len(pdf)), blob.Meta{
		Filename:    filename,
		ContentType: ContentTypePDF,
		Kind:        blob.KindReport,
		Checksum:    checksum(pdf),
	})
	if err != nil {
		return nil, storeErr("put report", err)
	}

	created := now()
	r = &model.Report{
		ID:         ids.NewAt(created),
		AnalysisID: a.ID,
		FileID:     info.ID,
		Filename:   filename,
		CreatedAt:  created,
	}

	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		if derr := s.blob.Delete(context.WithoutCancel(ctx), info.ID); derr != nil {
			ctxPkg.Logger(ctx).Warn().Err(derr).Str("file_id", info.ID).Msg("report blob left orphaned")
		}

		return nil, storeErr("create report", err)
	}

	r.Analysis = a

	s.events.reportGenerated(ctx, queue.ReportGeneratedPayload{
		ReportID:   r.ID,
		AnalysisID: r.AnalysisID,
		File:       blobRef(info),
	})

	return r, nil
}

// List 返回全部报告，按创建时间倒序，并关联对应的分析结果.
// 分析结果缺失时 Analysis 为 nil.
func (s *ReportService) List(ctx context.Context) ([]model.Report, error) {
	reports := make([]model.Report, 0)

	if err := s.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&reports).Error; err != nil {
		return nil, storeErr("list reports", err)
	}

	unique := make(map[string]*model.Analysis)
	for _, r := range reports {
		unique[r.AnalysisID] = nil
	}

	keys := make([]string, 0, len(unique))
	for id := range unique {
		keys = append(keys, id)
	}

	found := make([]*model.Analysis, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(joinConcurrency)

	for i, id := range keys {
		g.Go(func() error {
			a, err := s.analyses.GetByID(gctx, id)
			if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
				return nil
			}

			if err != nil {
				return err
			}

			found[i] = a

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, id := range keys {
		unique[id] = found[i]
	}

	for i := range reports {
		reports[i].Analysis = unique[reports[i].AnalysisID]
	}

	return reports, nil
}

// GetByID 读取报告并关联分析结果.
func (s *ReportService) GetByID(ctx context.Context, id string) (*model.Report, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	a, err := s.analyses.GetByID(ctx, r.AnalysisID)

	switch {
	case err == nil:
		r.Analysis = a
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrValidation):
	default:
		return nil, err
	}

	return r, nil
}

// Open 打开报告的 PDF 对象用于流式下载，调用方负责关闭.
func (s *ReportService) Open(ctx context.Context, id string) (*model.Report, *blob.Object, error) {
	r, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	obj, err := s.blob.Get(ctx, r.FileID)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			return nil, nil, notFound("Report not found")
		}

		return nil, nil, storeErr("get report file", err)
	}

	return r, obj, nil
}

// Delete 删除报告对象与记录，不影响分析结果.
// 对象已不存在视为成功，其他对象删除失败只记录告警，记录仍会删除.
func (s *ReportService) Delete(ctx context.Context, id string) (err error) {
	defer func() { metrics.PipelineOps.WithLabelValues("delete", metrics.Result(err)).Inc() }()

	r, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	missing := false

	if derr := s.blob.Delete(ctx, r.FileID); derr != nil {
		if errors.Is(derr, blob.ErrNotFound) {
			missing = true
		} else {
			ctxPkg.Logger(ctx).Warn().Err(derr).
				Str("report_id", r.ID).
				Str("file_id", r.FileID).
				Msg("delete report blob failed")
		}
	}

	res := s.db.WithContext(ctx).Where("id = ?", r.ID).Delete(&model.Report{})
	if res.Error != nil {
		return storeErr("delete report", res.Error)
	}

	if res.RowsAffected == 0 {
		return notFound("Report not found")
	}

	s.events.reportDeleted(ctx, queue.ReportDeletedPayload{
		ReportID:    r.ID,
		FileID:      r.FileID,
		BlobMissing: missing,
	})

	return nil
}

func (s *ReportService) find(ctx context.Context, id string) (*model.Report, error) {
	if !ids.Valid(id) {
		return nil, invalid("Invalid report ID")
	}

	var r model.Report

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("Report not found")
	}

	if err != nil {
		return nil, storeErr("get report", err)
	}

	return &r, nil
}
