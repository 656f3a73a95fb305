// Package router 管理路由配置，将 HTTP 路径绑定到 pkg/internal/handle 中的处理器.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/handle"
)

// RegisterRoutes 注册全部业务路由：
//
//	POST   /api/upload                       -> UploadImage
//	GET    /api/upload/:fileId               -> GetUpload
//	POST   /api/analysis/analyze/:fileId     -> AnalyzeFile
//	GET    /api/analysis/report/:analysisId  -> GenerateReport
//	GET    /api/analysis/:analysisId         -> GetAnalysis
//	GET    /api/reports                      -> ListReports
//	GET    /api/reports/:reportId            -> GetReport
//	GET    /api/reports/:reportId/download   -> DownloadReport
//	DELETE /api/reports/:reportId            -> DeleteReport
func RegisterRoutes(e *gin.Engine) {
	api := e.Group("/api")

	RegisterUploadRoutes(api.Group("/upload"))
	RegisterAnalysisRoutes(api.Group("/analysis"))
	RegisterReportRoutes(api.Group("/reports"))
	RegisterSchedulerRoutes(api.Group("/admin"))

	RegisterHealthCheckRoute(&e.RouterGroup)
	RegisterSwaggerRoute(e, configs.GetConfig().Server)
}

// RegisterUploadRoutes 注册图纸上传与读取路由.
func RegisterUploadRoutes(g *gin.RouterGroup) {
	g.POST("", handle.UploadImage)
	g.GET("/:fileId", handle.GetUpload)
}

// RegisterAnalysisRoutes 注册分析与报告生成路由.
func RegisterAnalysisRoutes(g *gin.RouterGroup) {
	g.POST("/analyze/:fileId", handle.AnalyzeFile)
	g.GET("/report/:analysisId", handle.GenerateReport)
	g.GET("/:analysisId", handle.GetAnalysis)
}

// RegisterReportRoutes 注册报告管理路由.
func RegisterReportRoutes(g *gin.RouterGroup) {
	g.GET("", handle.ListReports)
	g.GET("/:reportId", handle.GetReport)
	g.GET("/:reportId/download", handle.DownloadReport)
	g.DELETE("/:reportId", handle.DeleteReport)
}
