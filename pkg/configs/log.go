package configs

import "github.com/spf13/viper"

// LogConfig 日志配置，终端输出与滚动文件可同时开启.
type LogConfig struct {
	Level string `mapstructure:"level"  rule:"oneof=trace debug info warn error disabled"`
	// Format console 为人类可读格式，json 便于采集.
	Format string `mapstructure:"format" rule:"oneof=console json"`
	// Output 终端输出目标，none 表示只写文件.
	Output string        `mapstructure:"output" rule:"oneof=stderr stdout none"`
	File   LogFileConfig `mapstructure:"file"`
}

// LogFileConfig lumberjack 滚动文件，始终写 JSON.
type LogFileConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Path       string `mapstructure:"path"        rule:"required_if=Enabled true"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" rule:"min=1"`
	MaxBackups int    `mapstructure:"max_backups" rule:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" rule:"min=0"`
	Compress   bool   `mapstructure:"compress"`
}

func (l *LogConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")

	v.SetDefault("log.file.enabled", false)
	v.SetDefault("log.file.path", "logs/"+AppName+".log")
	v.SetDefault("log.file.max_size_mb", 100)
	v.SetDefault("log.file.max_backups", 7)
	v.SetDefault("log.file.max_age_days", 28)
	v.SetDefault("log.file.compress", true)
}
