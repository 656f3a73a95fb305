package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	"github.com/yeisme/hazopvault/pkg/configs"
	ctxPkg "github.com/yeisme/hazopvault/pkg/context"
	"github.com/yeisme/hazopvault/pkg/internal/storage/blob"
	"github.com/yeisme/hazopvault/pkg/internal/storage/mq"
	"github.com/yeisme/hazopvault/pkg/queue"
)

// Events 发布流水线事件，失败只记录告警，不影响主流程.
type Events struct {
	pub message.Publisher
	cfg configs.EventsConfig
}

func newEvents(client *mq.Client, cfg configs.EventsConfig) *Events {
	e := &Events{cfg: cfg}
	if client != nil {
		e.pub = client.Publisher()
	}

	return e
}

type publishFunc func(pub message.Publisher, opts ...queue.Option) error

func (e *Events) emit(ctx context.Context, topic string, enabled bool, fn publishFunc) {
	if e == nil || e.pub == nil || !e.cfg.Enabled || !enabled {
		return
	}

	opts := []queue.Option{queue.WithProducer(configs.AppName)}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		opts = append(opts, queue.WithTraceID(sc.TraceID().String()))
	}

	if err := fn(e.pub, opts...); err != nil {
		ctxPkg.Logger(ctx).Warn().Err(err).Str("topic", topic).Msg("publish event failed")
	}
}

func blobRef(info blob.Info) queue.BlobRef {
	return queue.BlobRef{
		ID:          info.ID,
		Filename:    info.Filename,
		ContentType: info.ContentType,
		Kind:        string(info.Kind),
		Size:        info.Size,
		Checksum:    info.Checksum,
	}
}

func (e *Events) fileUploaded(ctx context.Context, p queue.FileUploadedPayload) {
	e.emit(ctx, queue.TopicFileUploaded, e.cfg.Topics.FileUploaded,
		func(pub message.Publisher, opts ...queue.Option) error {
			return queue.PublishFileUploaded(pub, p, opts...)
		})
}

func (e *Events) analysisCreated(ctx context.Context, p queue.AnalysisCreatedPayload) {
	e.emit(ctx, queue.TopicAnalysisCreated, e.cfg.Topics.AnalysisCreated,
		func(pub message.Publisher, opts ...queue.Option) error {
			return queue.PublishAnalysisCreated(pub, p, opts...)
		})
}

func (e *Events) reportGenerated(ctx context.Context, p queue.ReportGeneratedPayload) {
	e.emit(ctx, queue.TopicReportGenerated, e.cfg.Topics.ReportGenerated,
		func(pub message.Publisher, opts ...queue.Option) error {
			return queue.PublishReportGenerated(pub, p, opts...)
		})
}

func (e *Events) reportDeleted(ctx context.Context, p queue.ReportDeletedPayload) {
	e.emit(ctx, queue.TopicReportDeleted, e.cfg.Topics.ReportDeleted,
		func(pub message.Publisher, opts ...queue.Option) error {
			return queue.PublishReportDeleted(pub, p, opts...)
		})
}

func (e *Events) blobOrphaned(ctx context.Context, p queue.BlobOrphanedPayload) {
	e.emit(ctx, queue.TopicBlobOrphaned, e.cfg.Topics.BlobOrphaned,
		func(pub message.Publisher, opts ...queue.Option) error {
			return queue.PublishBlobOrphaned(pub, p, opts...)
		})
}
