package mq

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/yeisme/hazopvault/pkg/configs"
)

func init() {
	RegisterFactory(configs.MQTypeMemory, memoryFactory)
}

// memoryFactory 进程内发布订阅，没有订阅者时消息直接丢弃.
func memoryFactory(
	_ context.Context,
	cfg *configs.MQConfig,
	logger watermill.LoggerAdapter) (
	message.Publisher, message.Subscriber, error) {
	buffer := int64(cfg.BufferSize)
	if buffer <= 0 {
		buffer = configs.DefaultMQBufferSize
	}

	ps := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: buffer}, logger)

	return ps, ps, nil
}
