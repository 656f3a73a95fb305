// Package configs 管理应用程序配置，包括数据库、对象存储、缓存、消息队列与报告生成的配置信息.
// configs 包支持多种配置格式（YAML、JSON、TOML、dotenv）并启用热重载.
//
// Example:
//
//	import "github.com/yeisme/hazopvault/pkg/configs"
//
//	err := configs.InitConfig("./")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	config := configs.GetConfig()
//	fmt.Println(config.Server.Port)
//
// Example accessing Blob config:
//
//	config := configs.GetConfig()
//	blobConfig := config.Blob
//	fmt.Println("Blob backend:", blobConfig.Type)
//
// Example accessing Image config:
//
//	config := configs.GetConfig()
//	fmt.Println("Max dimension:", config.Image.MaxDimension)
package configs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// AppName 应用名称，用于 S3 AppInfo、tracing 等.
const AppName = "hazopvault"

// AppVersion 应用版本.
const AppVersion = "0.1.0"

type (
	// AppConfig 全局应用程序配置.
	AppConfig struct {
		Server         ServerConfig         `mapstructure:"server"`          // ServerConfig 服务器配置，端口、超时等
		DB             DBConfig             `mapstructure:"db"`              // DBConfig 数据库配置（分析结果、报告元数据）
		Blob           BlobConfig           `mapstructure:"blob"`            // BlobConfig 二进制对象存储配置
		KV             KVConfig             `mapstructure:"kv"`              // KVConfig 缓存配置
		MQ             MQConfig             `mapstructure:"mq"`              // MQConfig 消息队列配置
		Events         EventsConfig         `mapstructure:"events"`          // EventsConfig 事件发布开关
		Log            LogConfig            `mapstructure:"log"`             // LogConfig 日志相关配置
		Metrics        MetricsConfig        `mapstructure:"metrics"`         // MetricsConfig 监控配置
		Tracing        TracingConfig        `mapstructure:"tracing"`         // TracingConfig 追踪配置
		RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`      // RateLimitConfig 限流配置
		CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"` // CircuitBreakerConfig 熔断配置
		Image          ImageConfig          `mapstructure:"image"`           // ImageConfig 上传图像规范化配置
		Report         ReportConfig         `mapstructure:"report"`          // ReportConfig PDF 报告配置
		Sweep          SweepConfig          `mapstructure:"sweep"`           // SweepConfig 孤立对象清理任务配置
	}
)

var (
	// globalConfig 全局配置实例.
	globalConfig AppConfig
	// appViper 全局 Viper 实例.
	appViper *viper.Viper
	// cfgMu 保护热重载时的并发读写.
	cfgMu sync.RWMutex
)

// configExts 目录模式下按顺序查找 config.<ext>.
var configExts = []string{"yaml", "yml", "json", "toml", "env", "dotenv"}

// InitConfig 加载应用程序配置，支持多种格式(yaml、json、toml、dotenv)并启用热重载.
// path 可以是文件或目录；找不到配置文件时使用默认值与环境变量.
// 校验失败时全局配置保持不变.
func InitConfig(path string) error {
	v := viper.New()
	setAllDefaults(v)

	if file := locate(path); file != "" {
		v.SetConfigFile(file)
	}

	v.SetEnvPrefix("HAZOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	next, err := decode(v)
	if err != nil {
		return err
	}

	cfgMu.Lock()
	appViper, globalConfig = v, next
	cfgMu.Unlock()

	reloadConfigs(v, next.Server.ReloadConfig)

	return nil
}

// locate 返回要读取的配置文件，没有则返回空串.
func locate(path string) string {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path
	}

	for _, dir := range []string{path, filepath.Join(path, "configs")} {
		for _, ext := range configExts {
			file := filepath.Join(dir, "config."+ext)
			if _, err := os.Stat(file); err == nil {
				return file
			}
		}
	}

	return ""
}

func decode(v *viper.Viper) (AppConfig, error) {
	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return c, Validate(&c)
}

// setAllDefaults 设置所有配置的默认值.
func setAllDefaults(v *viper.Viper) {
	var c AppConfig

	c.Server.setDefaults(v)
	c.DB.setDefaults(v)
	c.Blob.setDefaults(v)
	c.KV.setDefaults(v)
	c.MQ.setDefaults(v)
	c.Events.setDefaults(v)
	c.Log.setDefaults(v)
	c.Metrics.setDefaults(v)
	c.Tracing.setDefaults(v)
	c.RateLimit.setDefaults(v)
	c.CircuitBreaker.setDefaults(v)
	c.Image.setDefaults(v)
	c.Report.setDefaults(v)
	c.Sweep.setDefaults(v)
}

func reloadConfigs(v *viper.Viper, enabled bool) {
	if !enabled || v.ConfigFileUsed() == "" {
		return
	}

	// 日志包依赖本包，这里只能写 stderr
	v.OnConfigChange(func(e fsnotify.Event) {
		next, err := decode(v)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config %s changed but was rejected: %v\n", e.Name, err)
			return
		}

		cfgMu.Lock()
		globalConfig = next
		cfgMu.Unlock()

		fmt.Fprintf(os.Stderr, "config %s reloaded\n", e.Name)
	})
	v.WatchConfig()
}

// GetConfig 返回全局配置实例.
func GetConfig() *AppConfig {
	cfgMu.RLock()
	defer cfgMu.RUnlock()

	return &globalConfig
}

// GetViper 返回最近一次 InitConfig 使用的 Viper 实例.
func GetViper() *viper.Viper {
	cfgMu.RLock()
	defer cfgMu.RUnlock()

	return appViper
}

// SetConfig 直接替换全局配置，主要用于测试与嵌入场景.
func SetConfig(c AppConfig) {
	cfgMu.Lock()
	defer cfgMu.Unlock()

	globalConfig = c
}

// Defaults 返回仅包含默认值的配置.
func Defaults() AppConfig {
	v := viper.New()
	setAllDefaults(v)

	var c AppConfig
	_ = v.Unmarshal(&c)

	return c
}
