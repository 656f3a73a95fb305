// Package types 定义 HTTP 接口的请求与响应结构.
package types

// UploadResponse 上传成功响应.
type UploadResponse struct {
	Message  string `json:"message"`
	FileID   string `json:"fileId"`
	Filename string `json:"filename"`
	// 规范化后的尺寸
	Width   int  `json:"width"`
	Height  int  `json:"height"`
	Resized bool `json:"resized"`
}

// ReportGeneratedResponse 报告生成成功响应.
type ReportGeneratedResponse struct {
	Message  string `json:"message"`
	ReportID string `json:"reportId"`
}

// MessageResponse 只包含提示信息的响应.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse 错误响应，Error 为稳定的提示信息，不包含内部细节.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse 健康检查响应.
type HealthResponse struct {
	Component string `json:"component"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// 客户端可见的提示信息.
const (
	MsgFileUploaded    = "File uploaded successfully"
	MsgReportGenerated = "HAZOP report generated successfully"
	MsgReportDeleted   = "Report deleted successfully"
	MsgNoFile          = "No file uploaded"
	MsgFileTooLarge    = "File too large"
	MsgInvalidRequest  = "Invalid request"
	MsgUploadFailed    = "Error uploading file"
	MsgReadFileFailed  = "Error reading file"
	MsgAnalyzeFailed   = "Error analyzing P&ID"
	MsgGetAnalysis     = "Error fetching analysis"
	MsgGenerateFailed  = "Error generating HAZOP report"
	MsgListReports     = "Error fetching reports"
	MsgGetReport       = "Error fetching report"
	MsgDownloadFailed  = "Error downloading report"
	MsgDeleteFailed    = "Error deleting report"
	StatusOK           = "ok"
	StatusUnhealthy    = "unhealthy"
)
