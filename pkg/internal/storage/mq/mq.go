// Package mq 承载流水线事件的发布订阅，底层为 watermill，后端由 mq.type 选择：
// memory（gochannel，进程内）、nats（可选 JetStream 持久化）、redis（Pub/Sub）.
//
//	client, err := mq.New(ctx, &cfg.MQ)
//	...
//	err = queue.PublishReportGenerated(client.Publisher(), payload)
package mq

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	watermill "github.com/ThreeDotsLabs/watermill"
	wmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/yeisme/hazopvault/pkg/configs"
	nlog "github.com/yeisme/hazopvault/pkg/log"
	"github.com/yeisme/hazopvault/pkg/metrics"
)

// Factory 定义创建 Publisher + Subscriber 的工厂函数.
type Factory func(ctx context.Context, cfg *configs.MQConfig, logger watermill.LoggerAdapter) (message.Publisher, message.Subscriber, error)

var factories = map[configs.MQType]Factory{}

// RegisterFactory 注册指定 MQType 的工厂.
func RegisterFactory(t configs.MQType, f Factory) {
	factories[t] = f
}

// Types 返回已注册的 MQ 类型列表.
func Types() []configs.MQType {
	types := make([]configs.MQType, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}

// Client 封装 watermill Publisher 与 Subscriber.
type Client struct {
	Type       configs.MQType
	publisher  message.Publisher
	subscriber message.Subscriber
	closeOnce  sync.Once
	closeErr   error
}

// Publish 便捷发布.
func (c *Client) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	if c == nil || c.publisher == nil {
		return fmt.Errorf("mq publisher not initialized")
	}

	for _, m := range msgs {
		m.SetContext(ctx)

		if err := c.publisher.Publish(topic, m); err != nil {
			return err
		}
	}

	return nil
}

// Subscribe 便捷订阅.
func (c *Client) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	if c == nil || c.subscriber == nil {
		return nil, fmt.Errorf("mq subscriber not initialized")
	}

	return c.subscriber.Subscribe(ctx, topic)
}

// Publisher 返回底层 Publisher.
func (c *Client) Publisher() message.Publisher { return c.publisher }

// Close 先关订阅再关发布，可重复调用.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		var errs []error

		if c.subscriber != nil {
			errs = append(errs, c.subscriber.Close())
		}

		if c.publisher != nil {
			errs = append(errs, c.publisher.Close())
		}

		c.closeErr = errors.Join(errs...)
	})

	return c.closeErr
}

// New 按配置创建消息队列客户端.
func New(ctx context.Context, cfg *configs.MQConfig) (*Client, error) {
	factory, ok := factories[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("unsupported mq type: %s", cfg.Type)
	}

	logger := newLoggerAdapter(*nlog.Logger())

	pub, sub, err := factory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init mq (%s): %w", cfg.Type, err)
	}

	if cfg.Metrics && configs.GetConfig().Metrics.Enabled {
		// 与 HTTP 指标共用 registry，由 /metrics 暴露
		builder := wmetrics.NewPrometheusMetricsBuilder(metrics.GetRegistry(), configs.AppName, "mq")

		if pub, err = builder.DecoratePublisher(pub); err != nil {
			return nil, fmt.Errorf("decorate publisher with metrics: %w", err)
		}

		if sub, err = builder.DecorateSubscriber(sub); err != nil {
			return nil, fmt.Errorf("decorate subscriber with metrics: %w", err)
		}

	}

	l := nlog.Component("mq")
	l.Info().Str("type", string(cfg.Type)).Bool("metrics", cfg.Metrics).Msg("event transport ready")

	return &Client{Type: cfg.Type, publisher: pub, subscriber: sub}, nil
}
