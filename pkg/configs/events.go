package configs

import "github.com/spf13/viper"

// EventsConfig 控制流水线事件发布的开关（全局与分主题）。
type EventsConfig struct {
	Enabled bool                 `mapstructure:"enabled"` // 总开关
	Topics  PipelineEventsConfig `mapstructure:"topics"`
}

// PipelineEventsConfig 针对上传、分析、报告各阶段的事件开关。
type PipelineEventsConfig struct {
	FileUploaded    bool `mapstructure:"file_uploaded"`
	AnalysisCreated bool `mapstructure:"analysis_created"`
	ReportGenerated bool `mapstructure:"report_generated"`
	ReportDeleted   bool `mapstructure:"report_deleted"`
	BlobOrphaned    bool `mapstructure:"blob_orphaned"`
}

func (c *EventsConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("events.enabled", true)

	v.SetDefault("events.topics.file_uploaded", true)
	v.SetDefault("events.topics.analysis_created", true)
	v.SetDefault("events.topics.report_generated", true)
	v.SetDefault("events.topics.report_deleted", true)
	// 清理任务产生的事件量与孤立对象数量成正比
	v.SetDefault("events.topics.blob_orphaned", true)
}
