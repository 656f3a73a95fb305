// Package storage 聚合进程内共享的存储资源：数据库、对象存储、KV 缓存与消息队列.
//
// 资源在启动时初始化一次，所有请求共享同一组句柄，关闭时统一释放.
//
// Example:
//
//	mgr, err := storage.Init(ctx, configs.GetConfig())
//	if err != nil {
//		// 处理错误
//	}
//	defer mgr.Close()
//
//	blobStore := mgr.GetBlobStore()
//	dbClient := mgr.GetDBClient()
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	dbc "github.com/yeisme/hazopvault/pkg/internal/storage/db"
	kvc "github.com/yeisme/hazopvault/pkg/internal/storage/kv"
	mqc "github.com/yeisme/hazopvault/pkg/internal/storage/mq"
	nlog "github.com/yeisme/hazopvault/pkg/log"
)

// Manager 聚合所有存储资源.
type Manager struct {
	DB   *dbc.Client
	Blob blob.Store
	KV   *kvc.Client
	MQ   *mqc.Client

	closeOnce sync.Once
	closeErr  error
}

// Init 按配置并行初始化全部存储并执行数据库迁移.
// 任一资源初始化失败时，已成功打开的资源会被关闭.
func Init(ctx context.Context, cfg *configs.AppConfig) (*Manager, error) {
	m := &Manager{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		dbi, err := dbc.New(gctx, &cfg.DB)
		if err != nil {
			return fmt.Errorf("init db: %w", err)
		}

		m.DB = dbi

		return dbi.Migrate(gctx)
	})

	g.Go(func() error {
		store, err := blob.New(gctx, &cfg.Blob)
		if err != nil {
			return fmt.Errorf("init blob store (%s): %w", cfg.Blob.Type, err)
		}

		m.Blob = store

		return nil
	})

	g.Go(func() error {
		kvi, err := kvc.New(gctx, &cfg.KV)
		if err != nil {
			return fmt.Errorf("init kv (%s): %w", cfg.KV.Type, err)
		}

		m.KV = kvi

		return nil
	})

	g.Go(func() error {
		mqi, err := mqc.New(ctx, &cfg.MQ)
		if err != nil {
			return fmt.Errorf("init mq: %w", err)
		}

		m.MQ = mqi

		return nil
	})

	if err := g.Wait(); err != nil {
		_ = m.Close()
		return nil, err
	}

	nlog.Logger().Info().
		Str("db", cfg.DB.GetDBType()).
		Str("blob", string(cfg.Blob.Type)).
		Str("kv", string(cfg.KV.Type)).
		Str("mq", string(cfg.MQ.Type)).
		Msg("storage manager initialized")

	return m, nil
}

// GetBlobStore 获取对象存储.
func (m *Manager) GetBlobStore() blob.Store {
	return m.Blob
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 释放全部资源，只执行一次.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		var errs []error

		if m.MQ != nil {
			errs = append(errs, m.MQ.Close())
		}

		if m.KV != nil {
			errs = append(errs, m.KV.Close())
		}

		if m.Blob != nil {
			errs = append(errs, m.Blob.Close())
		}

		if m.DB != nil {
			errs = append(errs, m.DB.Close())
		}

		m.closeErr = errors.Join(errs...)
	})

	return m.closeErr
}
