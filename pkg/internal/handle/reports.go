package handle

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/service"
	"github.com/yeisme/hazopvault/pkg/internal/types"
)

// ListReports 列出全部报告.
//
//	@Summary		报告列表
//	@Description	按创建时间倒序返回报告，并附带对应的分析结果
//	@Tags			报告
//	@Produce		json
//	@Success		200	{array}		model.Report		"报告列表"
//	@Failure		500	{object}	types.ErrorResponse	"存储错误"
//	@Router			/api/reports [get]
func ListReports(c *gin.Context) {
	ctx := c.Request.Context()

	svc, err := service.NewReportService(ctx)
	if err != nil {
		writeError(c, err, types.MsgListReports)
		return
	}

	reports, err := svc.List(ctx)
	if err != nil {
		writeError(c, err, types.MsgListReports)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// GetReport 读取单个报告.
//
//	@Summary		读取报告
//	@Tags			报告
//	@Produce		json
//	@Param			reportId	path		string				true	"报告 ID"
//	@Success		200			{object}	model.Report		"报告"
//	@Failure		400			{object}	types.ErrorResponse	"报告 ID 格式错误"
//	@Failure		404			{object}	types.ErrorResponse	"报告不存在"
//	@Router			/api/reports/{reportId} [get]
func GetReport(c *gin.Context) {
	ctx := c.Request.Context()

	svc, err := service.NewReportService(ctx)
	if err != nil {
		writeError(c, err, types.MsgGetReport)
		return
	}

	r, err := svc.GetByID(ctx, c.Param("reportId"))
	if err != nil {
		writeError(c, err, types.MsgGetReport)
		return
	}

	c.JSON(http.StatusOK, r)
}

// DownloadReport 下载报告 PDF.
//
//	@Summary		下载报告
//	@Tags			报告
//	@Produce		application/pdf
//	@Param			reportId	path		string				true	"报告 ID"
//	@Success		200			{file}		file				"PDF 文件"
//	@Failure		400			{object}	types.ErrorResponse	"报告 ID 格式错误"
//	@Failure		404			{object}	types.ErrorResponse	"报告或文件不存在"
//	@Router			/api/reports/{reportId}/download [get]
func DownloadReport(c *gin.Context) {
	ctx := c.Request.Context()

	svc, err := service.NewReportService(ctx)
	if err != nil {
		writeError(c, err, types.MsgDownloadFailed)
		return
	}

	r, obj, err := svc.Open(ctx, c.Param("reportId"))
	if err != nil {
		writeError(c, err, types.MsgDownloadFailed)
		return
	}
	defer obj.Close()

	c.DataFromReader(http.StatusOK, obj.Info.Size, service.ContentTypePDF, obj, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", r.Filename),
	})
}

// DeleteReport 删除报告及其 PDF，分析结果保留.
//
//	@Summary		删除报告
//	@Tags			报告
//	@Produce		json
//	@Param			reportId	path		string					true	"报告 ID"
//	@Success		200			{object}	types.MessageResponse	"删除成功"
//	@Failure		400			{object}	types.ErrorResponse		"报告 ID 格式错误"
//	@Failure		404			{object}	types.ErrorResponse		"报告不存在"
//	@Router			/api/reports/{reportId} [delete]
func DeleteReport(c *gin.Context) {
	ctx := c.Request.Context()

	svc, err := service.NewReportService(ctx)
	if err != nil {
		writeError(c, err, types.MsgDeleteFailed)
		return
	}

	id := c.Param("reportId")
	if err := svc.Delete(ctx, id); err != nil {
		writeError(c, err, types.MsgDeleteFailed)
		return
	}

	ctxPkg.Logger(ctx).Info().Str("report_id", id).Msg("report deleted")

	c.JSON(http.StatusOK, types.MessageResponse{Message: types.MsgReportDeleted})
}
