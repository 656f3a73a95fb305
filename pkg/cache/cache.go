// Package cache 提供基于键值存储的泛型缓存实现.
//
// 缓存值使用 sonic 编码，所有键都带命名空间前缀，Clear 只清理本命名空间.
// 并发的同键加载会被合并为一次.
//
// 基本用法:
//
//	c := cache.NewCache(kvStore, "analysis")
//
//	a, err := cache.GetOrSet(ctx, c, id, func(ctx context.Context) (model.Analysis, error) {
//	    return loadFromDB(ctx, id)
//	}, time.Hour)
//
// 错误处理:
//   - 未命中返回 ErrMiss（包装 kv.ErrKeyNotFound）
//   - 编解码错误会被包装并返回
//   - GetOrSet 中写缓存失败不影响返回值
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/sync/singleflight"

	"github.com/yeisme/hazopvault/pkg/internal/storage/kv"
)

// ErrMiss 缓存未命中.
var ErrMiss = fmt.Errorf("cache miss: %w", kv.ErrKeyNotFound)

// Cache 基于KV存储的缓存实现.
type Cache struct {
	kvStore   kv.KVStore
	namespace string
	group     singleflight.Group
}

// NewCache 创建缓存实例，namespace 为空时不加前缀.
func NewCache(kvStore kv.KVStore, namespace string) *Cache {
	return &Cache{
		kvStore:   kvStore,
		namespace: namespace,
	}
}

func (c *Cache) key(k string) string {
	if c.namespace == "" {
		return k
	}

	return c.namespace + ":" + k
}

// Get 泛型获取缓存值.
func Get[T any](ctx context.Context, c *Cache, key string) (T, error) {
	var zero T

	data, err := c.kvStore.Get(ctx, c.key(key))
	if err != nil {
		if errors.Is(err, kv.ErrKeyNotFound) {
			return zero, ErrMiss
		}

		return zero, err
	}

	var value T
	if err := sonic.Unmarshal(data, &value); err != nil {
		return zero, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return value, nil
}

// Set 泛型设置缓存值，ttl 为 0 表示不过期.
func Set[T any](ctx context.Context, c *Cache, key string, value T, ttl time.Duration) error {
	data, err := sonic.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return c.kvStore.Set(ctx, c.key(key), data, ttl)
}

// Delete 删除缓存键.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.kvStore.Delete(ctx, c.key(key))
}

// Exists 检查缓存键是否存在.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	return c.kvStore.Exists(ctx, c.key(key))
}

// GetOrSet 获取缓存值，未命中或读取失败时调用 getter 并回填.
// 同键的并发加载共享一次 getter 调用，getter 收到的 ctx 不随任何调用方取消；
// 调用方自身的 ctx 结束时立即返回 ctx.Err()，加载继续为其他调用方进行.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, getter func(ctx context.Context) (T, error), ttl time.Duration) (T, error) {
	if value, err := Get[T](ctx, c, key); err == nil {
		return value, nil
	}

	var zero T

	ch := c.group.DoChan(c.key(key), func() (any, error) {
		shared := context.WithoutCancel(ctx)

		value, err := getter(shared)
		if err != nil {
			return value, err
		}

		// 回填失败仍返回值
		_ = Set(shared, c, key, value, ttl)

		return value, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}

		return res.Val.(T), nil
	}
}

// Clear 清空当前命名空间下的键.
func (c *Cache) Clear(ctx context.Context) error {
	pattern := "*"
	if c.namespace != "" {
		pattern = c.namespace + ":*"
	}

	keys, err := c.kvStore.Keys(ctx, pattern)
	if err != nil {
		return err
	}

	for _, key := range keys {
		if delErr := c.kvStore.Delete(ctx, key); delErr != nil && !errors.Is(delErr, kv.ErrKeyNotFound) {
			return delErr
		}
	}

	return nil
}
