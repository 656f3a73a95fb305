package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/yeisme/hazopvault/pkg/cache"
	"github.com/yeisme/hazopvault/pkg/internal/detect"
	"github.com/yeisme/hazopvault/pkg/internal/ids"
	"github.com/yeisme/hazopvault/pkg/internal/model"
	"github.com/yeisme/hazopvault/pkg/metrics"
	"github.com/yeisme/hazopvault/pkg/queue"
	"github.com/yeisme/hazopvault/pkg/tracing"
)

// analysisCacheTTL 分析结果创建后不再修改，缓存只受容量约束.
const analysisCacheTTL = 6 * time.Hour

// AnalysisService 运行识别并持久化分析结果.
type AnalysisService struct {
	deps
	detector detect.Detector
	cache    *cache.Cache
}

// AnalysisOption 配置 AnalysisService.
type AnalysisOption func(*AnalysisService)

// WithDetector 替换默认的识别实现.
func WithDetector(d detect.Detector) AnalysisOption {
	return func(s *AnalysisService) { s.detector = d }
}

// NewAnalysisService 从上下文中的存储句柄创建服务，默认使用 detect.Mock.
func NewAnalysisService(ctx context.Context, opts ...AnalysisOption) (*AnalysisService, error) {
	d, err := depsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	return newAnalysisService(d, opts...), nil
}

func newAnalysisService(d deps, opts ...AnalysisOption) *AnalysisService {
	s := &AnalysisService{deps: d, detector: detect.Mock{}}
	if d.kv != nil {
		s.cache = cache.NewCache(d.kv, "analysis")
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Analyze 对 fileID 运行识别并保存结果.
// 不校验文件是否存在，同一文件多次分析产生相互独立的记录.
func (s *AnalysisService) Analyze(ctx context.Context, fileID string) (a *model.Analysis, err error) {
	ctx, span := tracing.StartSpan(ctx, "analysis.detect", trace.WithAttributes(attribute.String("file_id", fileID)))
	defer func() {
		tracing.EndSpan(span, err)
		metrics.PipelineOps.WithLabelValues("analyze", metrics.Result(err)).Inc()
	}()

	if !ids.Valid(fileID) {
		return nil, invalid("Invalid file ID")
	}

	out, err := detect.Run(ctx, s.detector, fileID)
	if err != nil {
		return nil, err
	}

	return s.Create(ctx, fileID, out)
}

// Create 以新的标识持久化一次识别结果.
func (s *AnalysisService) Create(ctx context.Context, fileID string, out detect.Detection) (*model.Analysis, error) {
	created := now()

	a := &model.Analysis{
		ID:           ids.NewAt(created),
		FileID:       fileID,
		Components:   out.Components,
		SafetyIssues: out.SafetyIssues,
		CreatedAt:    created,
	}

	if a.Components == nil {
		a.Components = []model.Component{}
	}

	if a.SafetyIssues == nil {
		a.SafetyIssues = []model.SafetyIssue{}
	}

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, storeErr("create analysis", err)
	}

	s.events.analysisCreated(ctx, queue.AnalysisCreatedPayload{
		AnalysisID:   a.ID,
		FileID:       a.FileID,
		Components:   len(a.Components),
		SafetyIssues: len(a.SafetyIssues),
	})

	return a, nil
}

// GetByID 读取分析结果，命中缓存时不访问数据库.
func (s *AnalysisService) GetByID(ctx context.Context, id string) (*model.Analysis, error) {
	if !ids.Valid(id) {
		return nil, invalid("Invalid analysis ID")
	}

	load := func(ctx context.Context) (model.Analysis, error) {
		var a model.Analysis

		err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return a, notFound("Analysis not found")
		}

		if err != nil {
			return a, storeErr("get analysis", err)
		}

		return a, nil
	}

	var (
		a   model.Analysis
		err error
	)

	if s.cache != nil {
		a, err = cache.GetOrSet(ctx, s.cache, id, load, analysisCacheTTL)
	} else {
		a, err = load(ctx)
	}

	if err != nil {
		return nil, err
	}

	return &a, nil
}
