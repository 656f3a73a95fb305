package kv

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yeisme/hazopvault/pkg/configs"
)

func init() {
	Register(configs.KVTypeMemory, func(context.Context, *configs.KVConfig) (KVStore, error) {
		return NewMemoryKV(), nil
	})
}

// MemoryKV 进程内实现，过期键在访问时删除.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV 创建空的内存存储.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// lookup 调用方需持有读锁.
func (m *MemoryKV) lookup(key string, now time.Time) ([]byte, bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}

	return open(raw, now)
}

func (m *MemoryKV) evict(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if raw, ok := m.data[key]; ok {
		if _, live, _ := open(raw, time.Now()); !live {
			delete(m.data, key)
		}
	}
}

// Get 返回值的副本.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	v, live, err := m.lookup(key, time.Now())
	_, present := m.data[key]
	m.mu.RUnlock()

	if err != nil {
		return nil, err
	}

	if !live {
		if present {
			m.evict(key)
		}

		return nil, notFound(key)
	}

	return bytes.Clone(v), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	sealed, err := seal(value, ttl, time.Now())
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data[key] = sealed
	m.mu.Unlock()

	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	return nil
}

func (m *MemoryKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.Get(ctx, key)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (m *MemoryKV) Keys(_ context.Context, pattern string) ([]string, error) {
	now := time.Now()

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))

	for k := range m.data {
		if !matchPattern(pattern, k) {
			continue
		}

		if _, live, err := m.lookup(k, now); err == nil && live {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

// Len 返回包括未清理过期键在内的条目数.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.data)
}

func (m *MemoryKV) Close() error { return nil }
