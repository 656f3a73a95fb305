package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/yeisme/hazopvault/pkg/configs"
)

func init() {
	Register(configs.KVTypeNATS, newNATSKV)
}

// NATSKV 基于 JetStream KeyValue，bucket 不存在时创建.
type NATSKV struct {
	nc *nats.Conn
	kv jetstream.KeyValue
}

func newNATSKV(ctx context.Context, cfg *configs.KVConfig) (KVStore, error) {
	nc := cfg.NATS

	opts := []nats.Option{nats.Name(configs.AppName + "-kv")}
	if nc.User != "" {
		opts = append(opts, nats.UserInfo(nc.User, nc.Password))
	}

	conn, err := nats.Connect(nc.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", nc.URL, err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	bucket, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      nc.Bucket,
		Description: "hazopvault analysis cache",
		TTL:         nc.MaxAge,
		Replicas:    nc.Replicas,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("kv bucket %s: %w", nc.Bucket, err)
	}

	return &NATSKV{nc: conn, kv: bucket}, nil
}

func (n *NATSKV) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := n.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, notFound(key)
	}

	if err != nil {
		return nil, fmt.Errorf("nats kv get %s: %w", key, err)
	}

	v, live, err := open(entry.Value(), time.Now())
	if err != nil {
		return nil, err
	}

	if !live {
		_ = n.kv.Delete(ctx, key)
		return nil, notFound(key)
	}

	return v, nil
}

func (n *NATSKV) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	sealed, err := seal(value, ttl, time.Now())
	if err != nil {
		return err
	}

	if _, err := n.kv.Put(ctx, key, sealed); err != nil {
		return fmt.Errorf("nats kv put %s: %w", key, err)
	}

	return nil
}

func (n *NATSKV) Delete(ctx context.Context, key string) error {
	if err := n.kv.Delete(ctx, key); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("nats kv delete %s: %w", key, err)
	}

	return nil
}

func (n *NATSKV) Exists(ctx context.Context, key string) (bool, error) {
	_, err := n.Get(ctx, key)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrKeyNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Keys 只按名称过滤，不检查过期；读取时会惰性删除过期键.
func (n *NATSKV) Keys(ctx context.Context, pattern string) ([]string, error) {
	lister, err := n.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("nats kv list: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	var keys []string

	for k := range lister.Keys() {
		if matchPattern(pattern, k) {
			keys = append(keys, k)
		}
	}

	return keys, nil
}

func (n *NATSKV) Close() error {
	return n.nc.Drain()
}
