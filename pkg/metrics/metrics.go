// Package metrics 提供监控指标功能.
// 支持Prometheus标准，收集 HTTP 请求与上传、分析、报告流水线的指标.
//
// Example:
//
//	import "github.com/yeisme/hazopvault/pkg/metrics"
//
//	err := metrics.InitMetrics(config.Metrics)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// 记录指标
//	metrics.RequestCounter.WithLabelValues("GET", "/api/reports").Inc()
//	metrics.PipelineOps.WithLabelValues("report", "ok").Inc()
package metrics

import (
	"fmt"
	"net/http"
	_ "net/http/pprof" // 自动注册pprof端点
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yeisme/hazopvault/pkg/configs"
)

const namespace = "hazop"

// 全局指标变量.
var (
	// RequestCounter HTTP请求计数器，endpoint 为路由模板.
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// RequestDuration HTTP请求持续时间.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// ActiveConnections 活跃连接数.
	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	// PipelineOps 流水线各步骤结果计数，step: upload/analyze/report/delete/sweep.
	PipelineOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_operations_total",
			Help:      "Pipeline operations by step and result",
		},
		[]string{"step", "result"},
	)

	// ImagesResized 上传时被缩放的图像数量.
	ImagesResized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_resized_total",
			Help:      "Uploaded images that exceeded the maximum dimension and were scaled down",
		},
	)

	// ReportBytes 生成的 PDF 大小分布.
	ReportBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_size_bytes",
			Help:      "Size of rendered HAZOP reports",
			Buckets:   prometheus.ExponentialBuckets(1024, 2, 12),
		},
	)

	// OrphansRemoved 清理任务删除的孤立报告对象数量.
	OrphansRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphan_blobs_removed_total",
			Help:      "Report blobs without a report record removed by the sweep job",
		},
	)

	// registry Prometheus注册表.
	registry = prometheus.NewRegistry()
	initOnce sync.Once
)

// InitMetrics 注册指标，重复调用只注册一次.
// ConstLabels 通过包装的 Registerer 附加，指标变量本身不携带常量标签.
func InitMetrics(config configs.MetricsConfig) error {
	if !config.Enabled {
		return nil
	}

	var err error

	initOnce.Do(func() {
		reg := prometheus.WrapRegistererWith(prometheus.Labels(config.ConstLabels), registry)

		cs := []prometheus.Collector{RequestCounter, RequestDuration, ActiveConnections,
			PipelineOps, ImagesResized, ReportBytes, OrphansRemoved}
		if config.Runtime {
			cs = append(cs,
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
		}

		for _, c := range cs {
			if rerr := reg.Register(c); rerr != nil {
				err = fmt.Errorf("register metric: %w", rerr)
				return
			}
		}
	})

	return err
}

// RegisterRoutes 在引擎上注册指标路径，同时汇总默认 registry（GORM 插件注册在那里）.
// 未启用时不注册任何路由.
func RegisterRoutes(config configs.MetricsConfig, engine *gin.Engine) {
	if !config.Enabled {
		return
	}

	p := config.Path
	if p == "" {
		p = "/metrics"
	}

	gatherers := prometheus.Gatherers{registry, prometheus.DefaultGatherer}
	engine.GET(p, gin.WrapH(promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})))

	if config.Pprof {
		engine.GET("/debug/pprof/*any", gin.WrapH(http.DefaultServeMux))
	}
}

// GetRegistry 获取Prometheus注册表.
func GetRegistry() *prometheus.Registry {
	return registry
}

// Result 将错误折算为指标标签.
func Result(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
