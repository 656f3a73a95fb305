package queue

import "github.com/ThreeDotsLabs/watermill/message"

// publish 构造并发布指定主题的消息.
func publish[T any](pub message.Publisher, topic string, payload T, opts ...Option) error {
	msg, err := NewWatermillMessage(topic, payload, opts...)
	if err != nil {
		return err
	}

	return pub.Publish(topic, msg)
}

// PublishFileUploaded 发布 hz.file.uploaded 事件.
func PublishFileUploaded(pub message.Publisher, payload FileUploadedPayload, opts ...Option) error {
	return publish(pub, TopicFileUploaded, payload, opts...)
}

// PublishAnalysisCreated 发布 hz.analysis.created 事件.
func PublishAnalysisCreated(pub message.Publisher, payload AnalysisCreatedPayload, opts ...Option) error {
	return publish(pub, TopicAnalysisCreated, payload, opts...)
}

// PublishReportGenerated 发布 hz.report.generated 事件.
func PublishReportGenerated(pub message.Publisher, payload ReportGeneratedPayload, opts ...Option) error {
	return publish(pub, TopicReportGenerated, payload, opts...)
}

// PublishReportDeleted 发布 hz.report.deleted 事件.
func PublishReportDeleted(pub message.Publisher, payload ReportDeletedPayload, opts ...Option) error {
	return publish(pub, TopicReportDeleted, payload, opts...)
}

// PublishBlobOrphaned 发布 hz.blob.orphaned 事件.
func PublishBlobOrphaned(pub message.Publisher, payload BlobOrphanedPayload, opts ...Option) error {
	return publish(pub, TopicBlobOrphaned, payload, opts...)
}

// ParseFileUploaded 解析 hz.file.uploaded 消息.
func ParseFileUploaded(msg *message.Message) (Message[FileUploadedPayload], error) {
	return ParseWatermillMessage[FileUploadedPayload](msg)
}

// ParseReportGenerated 解析 hz.report.generated 消息.
func ParseReportGenerated(msg *message.Message) (Message[ReportGeneratedPayload], error) {
	return ParseWatermillMessage[ReportGeneratedPayload](msg)
}

// ParseReportDeleted 解析 hz.report.deleted 消息.
func ParseReportDeleted(msg *message.Message) (Message[ReportDeletedPayload], error) {
	return ParseWatermillMessage[ReportDeletedPayload](msg)
}
