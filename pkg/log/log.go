// Package log 提供进程级 zerolog logger，终端输出与 lumberjack 滚动文件可同时开启.
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yeisme/hazopvault/pkg/configs"
)

var (
	logger   zerolog.Logger
	initOnce sync.Once
)

// Init 按当前配置初始化，只生效一次；配置加载前调用 Logger 会使用默认配置.
func Init() {
	initOnce.Do(setup)
}

func setup() {
	cfg := configs.GetConfig()

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	zc := zerolog.New(sink(cfg.Log)).With().Timestamp().Str("service", configs.AppName)

	if cfg.Server.Debug {
		zc = zc.Caller()

		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger = zc.Logger()
	log.Logger = logger
}

// sink 组合终端与文件输出.
func sink(c configs.LogConfig) io.Writer {
	var ws []io.Writer

	var term io.Writer

	switch c.Output {
	case "none":
	case "stdout":
		term = os.Stdout
	default:
		term = os.Stderr
	}

	if term != nil {
		if c.Format == "json" {
			ws = append(ws, term)
		} else {
			ws = append(ws, zerolog.ConsoleWriter{Out: term, TimeFormat: time.TimeOnly})
		}
	}

	if c.File.Enabled {
		ws = append(ws, &lumberjack.Logger{
			Filename:   c.File.Path,
			MaxSize:    c.File.MaxSizeMB,
			MaxBackups: c.File.MaxBackups,
			MaxAge:     c.File.MaxAgeDays,
			Compress:   c.File.Compress,
		})
	}

	switch len(ws) {
	case 0:
		return io.Discard
	case 1:
		return ws[0]
	default:
		return zerolog.MultiLevelWriter(ws...)
	}
}

// Logger 返回进程级 logger.
func Logger() *zerolog.Logger {
	initOnce.Do(setup)

	return &logger
}

// Component 返回带 component 字段的子 logger.
func Component(name string) zerolog.Logger {
	return Logger().With().Str("component", name).Logger()
}

// GinWriter 将 gin 的文本输出转成日志事件，[WARNING]/[ERROR] 前缀提升级别.
type GinWriter struct {
	logger *zerolog.Logger
	level  zerolog.Level
}

func NewGinWriter(l *zerolog.Logger, level zerolog.Level) *GinWriter {
	return &GinWriter{logger: l, level: level}
}

func (w *GinWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg == "" {
		return len(p), nil
	}

	lvl := w.level

	switch {
	case strings.HasPrefix(msg, "[WARNING]"):
		lvl = zerolog.WarnLevel
	case strings.HasPrefix(msg, "[ERROR]"):
		lvl = zerolog.ErrorLevel
	}

	w.logger.WithLevel(lvl).Msg(msg)

	return len(p), nil
}
