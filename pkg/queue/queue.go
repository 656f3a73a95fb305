// Package queue 定义流水线事件：主题、信封与各主题负载.
//
// 上传、分析、报告生成与删除、孤立对象清理各发布一条事件.
// 消息体是 JSON 信封：
//
//	{
//	  "header": {"topic": "hz.report.generated", "trace_id": "...", "producer": "hazopvault",
//	             "occurred_at": "2025-01-02T03:04:05.123456Z", "version": "v1"},
//	  "payload": {...}
//	}
//
// 头部同时写入 watermill metadata，trace id 作为 correlation id，便于不解码消息体就能路由或关联.
// 消费者应忽略未知字段；消息 UUID 每次投递不同，幂等请使用负载中的业务 ID.
package queue

import (
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/bytedance/sonic"
)

// PayloadVersionV1 当前信封版本.
const PayloadVersionV1 = "v1"

// metadata 键.
const (
	MetaTopic      = "topic"
	MetaProducer   = "producer"
	MetaOccurredAt = "occurred_at"
	MetaVersion    = "version"
)

// Option 调整事件头.
type Option func(*EventHeader)

// WithTraceID 关联请求的 trace.
func WithTraceID(id string) Option { return func(h *EventHeader) { h.TraceID = id } }

// WithProducer 标记发布方.
func WithProducer(p string) Option { return func(h *EventHeader) { h.Producer = p } }

// NewWatermillMessage 封装负载并填充 metadata.
func NewWatermillMessage[T any](topic string, payload T, opts ...Option) (*message.Message, error) {
	h := EventHeader{Topic: topic, OccurredAt: time.Now().UTC(), Version: PayloadVersionV1}
	for _, o := range opts {
		o(&h)
	}

	body, err := sonic.Marshal(Message[T]{Header: h, Payload: payload})
	if err != nil {
		return nil, fmt.Errorf("encode %s event: %w", topic, err)
	}

	msg := message.NewMessage(watermill.NewUUID(), body)
	msg.Metadata.Set(MetaTopic, topic)
	msg.Metadata.Set(MetaOccurredAt, h.OccurredAt.Format(time.RFC3339Nano))
	msg.Metadata.Set(MetaVersion, h.Version)

	if h.Producer != "" {
		msg.Metadata.Set(MetaProducer, h.Producer)
	}

	if h.TraceID != "" {
		middleware.SetCorrelationID(h.TraceID, msg)
	}

	return msg, nil
}

// ParseWatermillMessage 解出信封，版本不识别时返回错误.
func ParseWatermillMessage[T any](msg *message.Message) (Message[T], error) {
	var m Message[T]
	if err := sonic.Unmarshal(msg.Payload, &m); err != nil {
		return m, fmt.Errorf("decode event %s: %w", msg.UUID, err)
	}

	if m.Header.Version != "" && m.Header.Version != PayloadVersionV1 {
		return m, fmt.Errorf("event %s: unsupported version %q", msg.UUID, m.Header.Version)
	}

	return m, nil
}
