package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/queue"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	msg, err := queue.NewWatermillMessage(queue.TopicReportDeleted,
		queue.ReportDeletedPayload{ReportID: "r1", FileID: "f1", BlobMissing: true},
		queue.WithTraceID("trace-1"), queue.WithProducer("hazopvault"))
	require.NoError(t, err)

	assert.Equal(t, queue.TopicReportDeleted, msg.Metadata.Get("topic"))
	assert.Equal(t, "trace-1", middleware.MessageCorrelationID(msg))
	assert.Equal(t, queue.PayloadVersionV1, msg.Metadata.Get("version"))

	env, err := queue.ParseReportDeleted(msg)
	require.NoError(t, err)

	assert.Equal(t, queue.TopicReportDeleted, env.Header.Topic)
	assert.Equal(t, "hazopvault", env.Header.Producer)
	assert.Equal(t, "r1", env.Payload.ReportID)
	assert.True(t, env.Payload.BlobMissing)
}

func TestPublishOverGoChannel(t *testing.T) {
	ps := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer ps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := ps.Subscribe(ctx, queue.TopicFileUploaded)
	require.NoError(t, err)

	err = queue.PublishFileUploaded(ps, queue.FileUploadedPayload{
		File:   queue.BlobRef{ID: "f1", Filename: "plant.png", Kind: "upload"},
		Width:  2000,
		Height: 1500,
	})
	require.NoError(t, err)

	select {
	case m := <-ch:
		env, err := queue.ParseFileUploaded(m)
		require.NoError(t, err)
		m.Ack()

		assert.Equal(t, "plant.png", env.Payload.File.Filename)
		assert.Equal(t, 2000, env.Payload.Width)
	case <-ctx.Done():
		t.Fatal("no message received")
	}
}

func TestTopicsArePrefixed(t *testing.T) {
	for _, topic := range queue.Topics() {
		assert.Regexp(t, `^hz\.[a-z]+\.[a-z]+$`, topic)
	}
}

func TestParseRejectsUnknownVersion(t *testing.T) {
	msg := message.NewMessage(watermill.NewUUID(),
		[]byte(`{"header":{"topic":"hz.report.deleted","version":"v9"},"payload":{"report_id":"r1"}}`))

	_, err := queue.ParseReportDeleted(msg)
	assert.ErrorContains(t, err, "unsupported version")

	_, err = queue.ParseReportDeleted(message.NewMessage(watermill.NewUUID(), []byte("{")))
	assert.Error(t, err)
}
