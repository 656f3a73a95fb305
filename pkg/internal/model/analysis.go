// Package model 定义持久化到数据库的实体.
package model

import (
	"time"
)

// Severity 安全问题的严重程度.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// BBox 像素坐标系下的矩形框.
type BBox struct {
	X      int `json:"x"      rule:"min=0"`
	Y      int `json:"y"      rule:"min=0"`
	Width  int `json:"width"  rule:"min=0"`
	Height int `json:"height" rule:"min=0"`
}

// Component 在图纸中识别出的设备或元件，例如阀门、泵.
type Component struct {
	Type       string  `json:"type"       rule:"required"`
	Confidence float64 `json:"confidence" rule:"min=0,max=1"`
	BBox       BBox    `json:"bbox"`
}

// SafetyIssue 由识别结果推导出的安全问题.
type SafetyIssue struct {
	Type        string   `json:"type"        rule:"required"`
	Severity    Severity `json:"severity"    rule:"oneof=low medium high"`
	Description string   `json:"description"`
	// Components 引用的元件标识，例如 "pump-1".
	Components []string `json:"components"`
}

// Analysis 一次识别运行的结果，创建后不再修改.
type Analysis struct {
	ID           string        `gorm:"primaryKey;size:26"          json:"id"`
	FileID       string        `gorm:"size:26;index;not null"      json:"fileId"`
	Components   []Component   `gorm:"serializer:json;type:text"   json:"components"   rule:"dive"`
	SafetyIssues []SafetyIssue `gorm:"serializer:json;type:text"   json:"safetyIssues" rule:"dive"`
	CreatedAt    time.Time     `gorm:"index;autoCreateTime:false" json:"createdAt"`
}

// TableName 指定表名.
func (Analysis) TableName() string { return "analyses" }
