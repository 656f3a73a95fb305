package mq_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/internal/storage/mq"
)

func TestMemoryPublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mq.New(ctx, &configs.MQConfig{Type: configs.MQTypeMemory})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	ch, err := client.Subscribe(ctx, "hz.test")
	require.NoError(t, err)

	require.NoError(t, client.Publish(ctx, "hz.test", message.NewMessage(watermill.NewUUID(), []byte("ping"))))

	select {
	case msg := <-ch:
		assert.Equal(t, "ping", string(msg.Payload))
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	client, err := mq.New(context.Background(), &configs.MQConfig{Type: configs.MQTypeMemory})
	require.NoError(t, err)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}

func TestUnknownType(t *testing.T) {
	_, err := mq.New(context.Background(), &configs.MQConfig{Type: "kafka"})
	assert.Error(t, err)

	types := mq.Types()
	assert.Contains(t, types, configs.MQTypeMemory)
	assert.Contains(t, types, configs.MQTypeNATS)
	assert.Contains(t, types, configs.MQTypeRedis)
}
