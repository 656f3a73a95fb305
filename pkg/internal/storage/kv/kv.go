// Package kv 提供分析结果读缓存所用的键值存储，后端由 kv.type 选择.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"time"

	"github.com/yeisme/hazopvault/pkg/configs"
)

// ErrKeyNotFound 键不存在或已过期.
var ErrKeyNotFound = errors.New("key not found")

// KVStore 键值存储.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set 写入值，ttl<=0 表示不过期.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// Keys 返回匹配 glob 模式的键，空模式匹配全部.
	Keys(ctx context.Context, pattern string) ([]string, error)
	Close() error
}

// Client 带后端类型的 KVStore.
type Client struct {
	KVStore
	Type configs.KVType
}

// Factory 按配置创建后端.
type Factory func(ctx context.Context, cfg *configs.KVConfig) (KVStore, error)

var factories = map[configs.KVType]Factory{}

// Register 注册后端，同名覆盖.
func Register(t configs.KVType, f Factory) {
	factories[t] = f
}

// Types 返回已注册的后端类型，按名称排序.
func Types() []configs.KVType {
	ts := make([]configs.KVType, 0, len(factories))
	for t := range factories {
		ts = append(ts, t)
	}

	slices.Sort(ts)

	return ts
}

// New 按 cfg.Type 创建客户端.
func New(ctx context.Context, cfg *configs.KVConfig) (*Client, error) {
	f, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported kv type: %q", cfg.Type)
	}

	store, err := f(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &Client{KVStore: store, Type: cfg.Type}, nil
}

func matchPattern(pattern, key string) bool {
	if pattern == "" || pattern == "*" {
		return true
	}

	ok, err := path.Match(pattern, key)

	return err == nil && ok
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
}
