// Package db 打开 GORM 连接并维护分析结果、报告元数据表.
package db

import (
	"context"
	"fmt"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormPrometheus "gorm.io/plugin/prometheus"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/model"
	nlog "github.com/yeisme/hazopvault/pkg/log"
)

// metricsRefreshInterval 连接池指标刷新间隔（秒）.
const metricsRefreshInterval = 15

// Opener 按 DSN 构造 dialector.
type Opener func(dsn string) gorm.Dialector

var openers = map[configs.DBType]Opener{}

// register 驱动文件在 init 中调用，同一驱动可注册多个别名.
func register(open Opener, types ...configs.DBType) {
	for _, t := range types {
		openers[t] = open
	}
}

// Types 返回已编译进来的数据库类型.
func Types() []configs.DBType {
	ts := make([]configs.DBType, 0, len(openers))
	for t := range openers {
		ts = append(ts, t)
	}

	slices.Sort(ts)

	return ts
}

// Client GORM 连接.
type Client struct {
	*gorm.DB
}

// GetDB 返回底层 *gorm.DB.
func (c *Client) GetDB() *gorm.DB {
	return c.DB
}

// New 打开连接、配置连接池并确认可达.
func New(ctx context.Context, cfg *configs.DBConfig) (*Client, error) {
	open, ok := openers[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported database type: %q", cfg.Type)
	}

	dsn := cfg.GetDSN()
	if dsn == "" {
		return nil, fmt.Errorf("empty dsn for database type %q", cfg.Type)
	}

	level := logger.Warn
	if configs.GetConfig().Server.Debug {
		level = logger.Info
	}

	l := nlog.Component("db")

	gdb, err := gorm.Open(open(dsn), &gorm.Config{
		Logger: logger.New(&l, logger.Config{
			SlowThreshold:             cfg.SlowQuery,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.GetDBType(), err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.GetDBType(), err)
	}

	c := &Client{DB: gdb}

	if configs.GetConfig().Metrics.Enabled {
		// 指标由主服务的 /metrics 统一暴露
		plugin := gormPrometheus.New(gormPrometheus.Config{
			DBName:          cfg.Database,
			RefreshInterval: metricsRefreshInterval,
		})
		if err := c.Use(plugin); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("gorm prometheus plugin: %w", err)
		}
	}

	l.Info().Str("type", cfg.GetDBType()).Str("database", cfg.Database).Msg("database connected")

	return c, nil
}

// Migrate 创建或更新分析结果与报告表.
func (c *Client) Migrate(ctx context.Context) error {
	if err := c.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	return nil
}

// Ping 健康检查用.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
