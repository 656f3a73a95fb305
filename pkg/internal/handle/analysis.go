package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/service"
	"github.com/yeisme/hazopvault/pkg/internal/types"
)

// AnalyzeFile 对已上传的图像运行识别.
//
//	@Summary		分析 P&ID
//	@Description	对图像运行元件识别并保存结果，同一文件可重复分析
//	@Tags			分析
//	@Produce		json
//	@Param			fileId	path		string				true	"文件 ID"
//	@Success		200		{object}	model.Analysis		"分析结果"
//	@Failure		400		{object}	types.ErrorResponse	"文件 ID 格式错误"
//	@Failure		500		{object}	types.ErrorResponse	"识别或存储错误"
//	@Router			/api/analysis/analyze/{fileId} [post]
func AnalyzeFile(c *gin.Context) {
	ctx := c.Request.Context()

	svc, err := service.NewAnalysisService(ctx)
	if err != nil {
		writeError(c, err, types.MsgAnalyzeFailed)
		return
	}

	a, err := svc.Analyze(ctx, c.Param("fileId"))
	if err != nil {
		writeError(c, err, types.MsgAnalyzeFailed)
		return
	}

	ctxPkg.Logger(ctx).Info().
		Str("analysis_id", a.ID).
		Str("file_id", a.FileID).
		Int("components", len(a.Components)).
		Msg("analysis created")

	c.JSON(http.StatusOK, a)
}

// GetAnalysis 读取分析结果.
//
//	@Summary		读取分析结果
//	@Tags			分析
//	@Produce		json
//	@Param			analysisId	path		string				true	"分析 ID"
//	@Success		200			{object}	model.Analysis		"分析结果"
//	@Failure		400			{object}	types.ErrorResponse	"分析 ID 格式错误"
//	@Failure		404			{object}	types.ErrorResponse	"分析不存在"
//	@Router			/api/analysis/{analysisId} [get]
func GetAnalysis(c *gin.Context) {
	ctx := c.Request.Context()

	svc, err := service.NewAnalysisService(ctx)
	if err != nil {
		writeError(c, err, types.MsgGetAnalysis)
		return
	}

	a, err := svc.GetByID(ctx, c.Param("analysisId"))
	if err != nil {
		writeError(c, err, types.MsgGetAnalysis)
		return
	}

	c.JSON(http.StatusOK, a)
}

// GenerateReport 根据分析结果生成 HAZOP 报告.
//
//	@Summary		生成 HAZOP 报告
//	@Description	渲染 PDF 并保存，每次调用都会生成新的报告
//	@Tags			分析
//	@Produce		json
//	@Param			analysisId	path		string							true	"分析 ID"
//	@Success		200			{object}	types.ReportGeneratedResponse	"生成成功"
//	@Failure		400			{object}	types.ErrorResponse				"分析 ID 格式错误"
//	@Failure		404			{object}	types.ErrorResponse				"分析不存在"
//	@Failure		500			{object}	types.ErrorResponse				"渲染或存储错误"
//	@Router			/api/analysis/report/{analysisId} [get]
func GenerateReport(c *gin.Context) {
	ctx := c.Request.Context()

	svc, err := service.NewReportService(ctx)
	if err != nil {
		writeError(c, err, types.MsgGenerateFailed)
		return
	}

	r, err := svc.Generate(ctx, c.Param("analysisId"))
	if err != nil {
		writeError(c, err, types.MsgGenerateFailed)
		return
	}

	ctxPkg.Logger(ctx).Info().
		Str("report_id", r.ID).
		Str("analysis_id", r.AnalysisID).
		Msg("report generated")

	c.JSON(http.StatusOK, types.ReportGeneratedResponse{
		Message:  types.MsgReportGenerated,
		ReportID: r.ID,
	})
}
