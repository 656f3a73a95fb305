package configs

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultSweepCron  = "17 3 * * *"   // 每天 03:17
	DefaultSweepGrace = 24 * time.Hour // 新写入的对象在宽限期内不会被清理
)

// SweepConfig 孤立报告对象清理任务配置.
type SweepConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Cron    string        `mapstructure:"cron"    rule:"required"`
	Grace   time.Duration `mapstructure:"grace"   rule:"min=0"`
}

func (c *SweepConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.cron", DefaultSweepCron)
	v.SetDefault("sweep.grace", DefaultSweepGrace)
}
