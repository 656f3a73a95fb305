package queue

import "time"

// EventHeader 定义所有事件的通用头部元数据.
type EventHeader struct {
	// Topic 冗余记录消息主题，便于离线处理或转储后定位来源主题.
	Topic string `json:"topic"`
	// TraceID 分布式追踪 ID，通常来自请求的 span.
	TraceID string `json:"trace_id,omitempty"`
	// Producer 生产者服务名或节点标识.
	Producer string `json:"producer,omitempty"`
	// OccurredAt 事件发生时间（UTC，RFC3339）.
	OccurredAt time.Time `json:"occurred_at"`
	// Version 事件负载版本.
	Version string `json:"version,omitempty"`
}

// Message 是统一的消息封装，Header + Payload.
type Message[T any] struct {
	Header  EventHeader `json:"header"`
	Payload T           `json:"payload"`
}

// BlobRef 标识对象存储中的一个对象.
type BlobRef struct {
	ID          string `json:"id"`
	Filename    string `json:"filename,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Kind        string `json:"kind,omitempty"`
	Size        int64  `json:"size,omitempty"`
	Checksum    string `json:"checksum,omitempty"`
}

// FileUploadedPayload 上传的图像已规范化并存储.
type FileUploadedPayload struct {
	File   BlobRef `json:"file"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	// Resized 是否因超出尺寸上限被缩放.
	Resized bool `json:"resized,omitempty"`
}

// AnalysisCreatedPayload 识别结果已持久化.
type AnalysisCreatedPayload struct {
	AnalysisID   string `json:"analysis_id"`
	FileID       string `json:"file_id"`
	Components   int    `json:"components"`
	SafetyIssues int    `json:"safety_issues"`
}

// ReportGeneratedPayload 报告已生成.
type ReportGeneratedPayload struct {
	ReportID   string  `json:"report_id"`
	AnalysisID string  `json:"analysis_id"`
	File       BlobRef `json:"file"`
}

// ReportDeletedPayload 报告已删除.
type ReportDeletedPayload struct {
	ReportID string `json:"report_id"`
	FileID   string `json:"file_id"`
	// BlobMissing 删除时对象已不存在.
	BlobMissing bool `json:"blob_missing,omitempty"`
}

// BlobOrphanedPayload 清理任务删除的孤立对象.
type BlobOrphanedPayload struct {
	Blob BlobRef       `json:"blob"`
	Age  time.Duration `json:"age"`
}
