package model

import (
	"fmt"
	"time"
)

// ReportFilename 返回报告的展示文件名，同一分析多次生成时文件名相同.
func ReportFilename(analysisID string) string {
	return fmt.Sprintf("hazop-report-%s.pdf", analysisID)
}

// Report 已生成的 HAZOP 报告，FileID 指向存放 PDF 的对象.
type Report struct {
	ID         string    `gorm:"primaryKey;size:26"  json:"id"`
	AnalysisID string    `gorm:"size:26;index;not null" json:"analysisId"`
	FileID     string    `gorm:"size:26;uniqueIndex;not null" json:"fileId"`
	Filename   string    `gorm:"size:512"            json:"filename"`
	CreatedAt  time.Time `gorm:"index;autoCreateTime:false" json:"createdAt"`

	// Analysis 查询时填充，不持久化.
	Analysis *Analysis `gorm:"-" json:"analysis,omitempty"`
}

// TableName 指定表名.
func (Report) TableName() string { return "reports" }

// All 返回需要迁移的全部模型.
func All() []any {
	return []any{&Analysis{}, &Report{}}
}
