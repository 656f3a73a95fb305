package kv

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang/groupcache"

	"github.com/yeisme/hazopvault/pkg/configs"
)

// GroupcachePeerPath groupcache 节点间通信的路由前缀.
const GroupcachePeerPath = "/_groupcache/"

func init() {
	Register(configs.KVTypeGroupcache, newGroupcacheKV)
}

// GroupcacheKV 本机写入的值作为数据源，读取经 groupcache 分发与缓存.
// groupcache 不支持失效，已被缓存的值在删除后仍可能被读到，直到被 LRU 淘汰；
// 过期时间随值一起缓存，过期后读取返回未命中.
type GroupcacheKV struct {
	group *groupcache.Group
	pool  *groupcache.HTTPPool

	mu     sync.RWMutex
	origin map[string][]byte
}

var errOriginMiss = errors.New("groupcache origin miss")

func newGroupcacheKV(_ context.Context, cfg *configs.KVConfig) (KVStore, error) {
	gc := cfg.Groupcache

	if groupcache.GetGroup(gc.Group) != nil {
		return nil, fmt.Errorf("groupcache group %q already registered", gc.Group)
	}

	g := &GroupcacheKV{origin: make(map[string][]byte)}

	g.group = groupcache.NewGroup(gc.Group, gc.CacheBytes, groupcache.GetterFunc(
		func(_ context.Context, key string, dest groupcache.Sink) error {
			g.mu.RLock()
			raw, ok := g.origin[key]
			g.mu.RUnlock()

			if !ok {
				return errOriginMiss
			}

			return dest.SetBytes(raw)
		}))

	if gc.Self != "" && len(gc.Peers) > 0 {
		g.pool = groupcache.NewHTTPPoolOpts(gc.Self, &groupcache.HTTPPoolOptions{BasePath: GroupcachePeerPath})
		g.pool.Set(gc.Peers...)
	}

	return g, nil
}

// PeerHandler 返回节点间通信的 handler，未配置 peers 时为 nil.
func (g *GroupcacheKV) PeerHandler() http.Handler {
	if g.pool == nil {
		return nil
	}

	return g.pool
}

func (g *GroupcacheKV) Get(ctx context.Context, key string) ([]byte, error) {
	var raw []byte

	if err := g.group.Get(ctx, key, groupcache.AllocatingByteSliceSink(&raw)); err != nil {
		if errors.Is(err, errOriginMiss) {
			return nil, notFound(key)
		}

		return nil, fmt.Errorf("groupcache get %s: %w", key, err)
	}

	v, live, err := open(raw, time.Now())
	if err != nil {
		return nil, err
	}

	if !live {
		return nil, notFound(key)
	}

	return v, nil
}

func (g *GroupcacheKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	sealed, err := seal(value, ttl, time.Now())
	if err != nil {
		return err
	}

	g.mu.Lock()
	g.origin[key] = sealed
	g.mu.Unlock()

	return nil
}

func (g *GroupcacheKV) Delete(_ context.Context, key string) error {
	g.mu.Lock()
	delete(g.origin, key)
	g.mu.Unlock()

	return nil
}

// Exists 只看本机数据源.
func (g *GroupcacheKV) Exists(_ context.Context, key string) (bool, error) {
	g.mu.RLock()
	raw, ok := g.origin[key]
	g.mu.RUnlock()

	if !ok {
		return false, nil
	}

	_, live, err := open(raw, time.Now())

	return live, err
}

func (g *GroupcacheKV) Keys(_ context.Context, pattern string) ([]string, error) {
	now := time.Now()

	g.mu.RLock()
	defer g.mu.RUnlock()

	keys := make([]string, 0, len(g.origin))

	for k, raw := range g.origin {
		if !matchPattern(pattern, k) {
			continue
		}

		if _, live, err := open(raw, now); err == nil && live {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

// Close groupcache 的 group 无法注销，这里只释放本机数据.
func (g *GroupcacheKV) Close() error {
	g.mu.Lock()
	clear(g.origin)
	g.mu.Unlock()

	return nil
}
