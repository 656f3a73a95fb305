package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/redis/go-redis/v9"

	"github.com/yeisme/hazopvault/pkg/configs"
)

// errClosed 发布或订阅时连接已关闭.
var errClosed = errors.New("redis pubsub closed")

func init() {
	RegisterFactory(configs.MQTypeRedis, redisFactory)
}

// redisPubSub 基于 Redis Pub/Sub 的 Publisher 与 Subscriber，共用一个连接.
// Redis 不持久化消息，没有订阅者时事件直接丢弃，与 memory 语义一致.
type redisPubSub struct {
	rdb    *redis.Client
	buffer int
	logger watermill.LoggerAdapter

	mu      sync.Mutex
	closed  bool
	closeCh chan struct{}
	subs    []*redis.PubSub
	wg      sync.WaitGroup
}

func redisFactory(
	ctx context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	ps := &redisPubSub{
		rdb:     rdb,
		buffer:  cfg.BufferSize,
		logger:  logger.With(watermill.LogFields{"transport": "redis"}),
		closeCh: make(chan struct{}),
	}

	return ps, ps, nil
}

// Publish 将消息负载发布到同名频道.
func (p *redisPubSub) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()

	if closed {
		return errClosed
	}

	for _, msg := range msgs {
		if err := p.rdb.Publish(msg.Context(), topic, msg.Payload).Err(); err != nil {
			return fmt.Errorf("publish %s: %w", topic, err)
		}
	}

	return nil
}

// Subscribe 每次调用建立独立的订阅，消息被 Ack 或 Nack 后才投递下一条.
func (p *redisPubSub) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, errClosed
	}

	sub := p.rdb.Subscribe(ctx, topic)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	p.subs = append(p.subs, sub)

	out := make(chan *message.Message, p.buffer)

	p.wg.Add(1)

	go func() {
		defer p.wg.Done()
		defer close(out)

		in := sub.Channel()

		for {
			select {
			case <-p.closeCh:
				return
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}

				if !p.deliver(ctx, out, topic, m.Payload) {
					return
				}
			}
		}
	}()

	return out, nil
}

// deliver 投递一条消息并等待确认，返回 false 表示订阅应结束.
func (p *redisPubSub) deliver(ctx context.Context, out chan<- *message.Message, topic, payload string) bool {
	msg := message.NewMessage(watermill.NewUUID(), []byte(payload))
	msg.Metadata.Set("topic", topic)

	msgCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	msg.SetContext(msgCtx)

	select {
	case out <- msg:
	case <-p.closeCh:
		return false
	case <-ctx.Done():
		return false
	}

	select {
	case <-msg.Acked():
	case <-msg.Nacked():
		// Pub/Sub 无法重投，记录后继续
		p.logger.Info("message nacked, dropped", watermill.LogFields{"topic": topic, "uuid": msg.UUID})
	case <-p.closeCh:
		return false
	case <-ctx.Done():
		return false
	}

	return true
}

// Close 关闭所有订阅并释放连接，可重复调用.
func (p *redisPubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}

	p.closed = true
	close(p.closeCh)

	var errs []error
	for _, s := range p.subs {
		errs = append(errs, s.Close())
	}
	p.mu.Unlock()

	p.wg.Wait()

	errs = append(errs, p.rdb.Close())

	return errors.Join(errs...)
}
