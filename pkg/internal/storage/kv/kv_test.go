package kv

import (
	"context"
	"fmt"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/configs"
)

func TestSealOpen(t *testing.T) {
	now := time.Now()

	plain, err := seal([]byte("a"), 0, now)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), plain)

	sealed, err := seal([]byte("b"), time.Minute, now)
	require.NoError(t, err)

	v, live, err := open(sealed, now)
	require.NoError(t, err)
	assert.True(t, live)
	assert.Equal(t, []byte("b"), v)

	_, live, err = open(sealed, now.Add(2*time.Minute))
	require.NoError(t, err)
	assert.False(t, live)

	_, _, err = open(append(append([]byte{}, envelopePrefix...), '{'), now)
	assert.Error(t, err)
}

// storeContract 所有后端共享的行为.
func storeContract(t *testing.T, store KVStore) {
	t.Helper()

	ctx := context.Background()

	_, err := store.Get(ctx, "analysis:missing")
	require.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "analysis:1", []byte("one"), 0))
	require.NoError(t, store.Set(ctx, "analysis:2", []byte("two"), time.Hour))
	require.NoError(t, store.Set(ctx, "report:1", []byte("r"), 0))

	got, err := store.Get(ctx, "analysis:2")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), got)

	ok, err := store.Exists(ctx, "analysis:1")
	require.NoError(t, err)
	assert.True(t, ok)

	keys, err := store.Keys(ctx, "analysis:*")
	require.NoError(t, err)
	slices.Sort(keys)
	assert.Equal(t, []string{"analysis:1", "analysis:2"}, keys)

	require.NoError(t, store.Delete(ctx, "report:1"))

	ok, err = store.Exists(ctx, "report:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryKV(t *testing.T) {
	storeContract(t, NewMemoryKV())
}

func TestMemoryKVExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryKV()

	require.NoError(t, m.Set(ctx, "short", []byte("x"), 20*time.Millisecond))
	require.NoError(t, m.Set(ctx, "long", []byte("y"), 0))

	require.Eventually(t, func() bool {
		_, err := m.Get(ctx, "short")
		return err != nil
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, m.Len())

	keys, err := m.Keys(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"long"}, keys)
}

func TestMemoryKVReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryKV()

	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in, 0))
	in[0] = 'z'

	out, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)

	out[1] = 'z'

	again, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestGroupcacheKV(t *testing.T) {
	cfg := configs.KVConfig{
		Type: configs.KVTypeGroupcache,
		Groupcache: configs.GroupcacheKVConfig{
			Group:      fmt.Sprintf("test-%d", time.Now().UnixNano()),
			CacheBytes: 1 << 20,
		},
	}

	c, err := New(context.Background(), &cfg)
	require.NoError(t, err)
	assert.Equal(t, configs.KVTypeGroupcache, c.Type)

	gk, ok := c.KVStore.(*GroupcacheKV)
	require.True(t, ok)
	assert.Nil(t, gk.PeerHandler())

	storeContract(t, c)

	_, err = New(context.Background(), &cfg)
	assert.Error(t, err, "same group name must not be registered twice")
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(context.Background(), &configs.KVConfig{Type: "etcd"})
	assert.ErrorContains(t, err, "unsupported kv type")
}

func TestTypesSorted(t *testing.T) {
	assert.Equal(t, []configs.KVType{
		configs.KVTypeGroupcache, configs.KVTypeMemory, configs.KVTypeNATS, configs.KVTypeRedis,
	}, Types())
}

// 需要本地 Redis，设置 HAZOP_TEST_REDIS=host:port 后运行.
func TestRedisKV(t *testing.T) {
	addr := os.Getenv("HAZOP_TEST_REDIS")
	if addr == "" {
		t.Skip("HAZOP_TEST_REDIS not set")
	}

	cfg := configs.Defaults().KV
	cfg.Type = configs.KVTypeRedis
	cfg.Redis.Addr = addr
	cfg.Redis.KeyPrefix = fmt.Sprintf("hztest-%d:", time.Now().UnixNano())

	c, err := New(context.Background(), &cfg)
	require.NoError(t, err)

	t.Cleanup(func() { _ = c.Close() })

	storeContract(t, c)
}

func BenchmarkMemoryKV(b *testing.B) {
	ctx := context.Background()
	m := NewMemoryKV()
	payload := make([]byte, 4096)

	b.ReportAllocs()

	for i := 0; b.Loop(); i++ {
		key := fmt.Sprintf("analysis:%d", i%1024)
		if err := m.Set(ctx, key, payload, time.Hour); err != nil {
			b.Fatal(err)
		}

		if _, err := m.Get(ctx, key); err != nil {
			b.Fatal(err)
		}
	}
}
