package configs

import "github.com/spf13/viper"

// ReportConfig HAZOP PDF 报告配置.
type ReportConfig struct {
	// Compress 是否压缩 PDF 内容流.
	Compress bool `mapstructure:"compress"`
	// Author 写入 PDF 元数据的作者字段.
	Author string `mapstructure:"author"`
}

func (c *ReportConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("report.compress", true)
	v.SetDefault("report.author", AppName)
}
