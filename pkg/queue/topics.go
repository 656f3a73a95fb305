package queue

// 主题命名规范：hz.<域>.<动作>，发布后不再改名.
// 域：file(上传图像)、analysis(识别结果)、report(PDF 报告)、blob(对象存储维护)

const (
	// 上传领域.
	TopicFileUploaded = "hz.file.uploaded" // 图像规范化并写入对象存储后

	// 分析领域.
	TopicAnalysisCreated = "hz.analysis.created" // 识别结果持久化后

	// 报告领域.
	TopicReportGenerated = "hz.report.generated" // PDF 写入对象存储且记录创建后
	TopicReportDeleted   = "hz.report.deleted"   // 报告记录删除后，无论对象是否已不存在

	// 对象存储维护.
	TopicBlobOrphaned = "hz.blob.orphaned" // 清理任务删除了无记录引用的对象
)

// 通配模式（NATS 风格），用于订阅整个域.
const (
	PatternAll      = "hz.>"
	PatternReport   = "hz.report.*"
	PatternAnalysis = "hz.analysis.*"
)

// Topics 返回全部主题，顺序固定.
func Topics() []string {
	return []string{
		TopicFileUploaded,
		TopicAnalysisCreated,
		TopicReportGenerated,
		TopicReportDeleted,
		TopicBlobOrphaned,
	}
}
