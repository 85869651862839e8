// Package metrics 提供 Prometheus helper，覆盖 CDC、缓冲、文档组装、索引写入与搜索指标
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wyfcoding/productsearch/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// CDC 事件计数（按来源表/操作）
	CDCEventsTotal *prometheus.CounterVec
	// CDC 解码失败计数
	CDCDecodeErrorsTotal *prometheus.CounterVec

	// 缓冲刷新计数
	BufferFlushTotal prometheus.Counter
	// 刷新后实际发布的事件数
	BufferPublishedTotal prometheus.Counter
	// 刷新时单条发布失败数
	BufferPublishFailuresTotal prometheus.Counter
	// 等待队列长度
	BufferQueueLength prometheus.Gauge

	// 文档组装耗时
	AssemblyDuration prometheus.Histogram
	// 组装结果为 absent 的次数（按原因）
	AssemblyAbsentTotal *prometheus.CounterVec

	// 索引写入计数（按操作 upsert/delete）
	IndexWritesTotal *prometheus.CounterVec

	// 搜索请求计数
	SearchRequestsTotal prometheus.Counter
	// 搜索请求耗时
	SearchRequestDuration prometheus.Histogram
}

// New 创建并注册指标实例
func New(serviceName string) *Metrics {
	m := &Metrics{
		CDCEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "cdc_events_total",
			Help:      "Total CDC change events consumed",
		}, []string{"table", "op"}),
		CDCDecodeErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "cdc_decode_errors_total",
			Help:      "Total CDC payloads that failed to decode",
		}, []string{"table"}),
		BufferFlushTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "buffer_flush_total",
			Help:      "Total buffer flush cycles",
		}),
		BufferPublishedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "buffer_published_total",
			Help:      "Total product.updated events published by the flusher",
		}),
		BufferPublishFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "buffer_publish_failures_total",
			Help:      "Total per-item publish failures during flush",
		}),
		BufferQueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "buffer_queue_length",
			Help:      "Current length of the reindex work queue",
		}),
		AssemblyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "assembly_duration_seconds",
			Help:      "Product document assembly duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		AssemblyAbsentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "assembly_absent_total",
			Help:      "Total assembly runs that resolved to index removal",
		}, []string{"reason"}),
		IndexWritesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "index_writes_total",
			Help:      "Total search index writes",
		}, []string{"op"}),
		SearchRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "search_requests_total",
			Help:      "Total search API requests",
		}),
		SearchRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "productsearch",
			Subsystem: serviceName,
			Name:      "search_request_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	prometheus.MustRegister(
		m.CDCEventsTotal,
		m.CDCDecodeErrorsTotal,
		m.BufferFlushTotal,
		m.BufferPublishedTotal,
		m.BufferPublishFailuresTotal,
		m.BufferQueueLength,
		m.AssemblyDuration,
		m.AssemblyAbsentTotal,
		m.IndexWritesTotal,
		m.SearchRequestsTotal,
		m.SearchRequestDuration,
	)

	return m
}

// ExposeHTTP 在指定端口暴露 /metrics
func (m *Metrics) ExposeHTTP(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Metrics server starting", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error(context.Background(), "Metrics server failed", "error", err)
	}
}
