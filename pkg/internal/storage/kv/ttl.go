package kv

import (
	"bytes"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
)

// envelopePrefix 标记带过期时间的值，没有前缀的值永不过期.
var envelopePrefix = []byte("hzkv1\x00")

// envelope 为不支持单键 TTL 的后端（memory、nats、groupcache）记录过期时间.
type envelope struct {
	Value     []byte `json:"v"`
	ExpiresAt int64  `json:"x"` // unix 毫秒
}

func seal(value []byte, ttl time.Duration, now time.Time) ([]byte, error) {
	if ttl <= 0 {
		return bytes.Clone(value), nil
	}

	b, err := sonic.Marshal(envelope{Value: value, ExpiresAt: now.Add(ttl).UnixMilli()})
	if err != nil {
		return nil, fmt.Errorf("encode kv envelope: %w", err)
	}

	return append(bytes.Clone(envelopePrefix), b...), nil
}

// open 解出原值，过期时 live 为 false.
func open(raw []byte, now time.Time) (value []byte, live bool, err error) {
	body, ok := bytes.CutPrefix(raw, envelopePrefix)
	if !ok {
		return raw, true, nil
	}

	var e envelope
	if err := sonic.Unmarshal(body, &e); err != nil {
		return nil, false, fmt.Errorf("decode kv envelope: %w", err)
	}

	if now.UnixMilli() >= e.ExpiresAt {
		return nil, false, nil
	}

	return e.Value, true, nil
}
