package application

import (
	"context"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/pkg/logger"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

// EventBuffer 重建索引事件缓冲。写入端原样追加（允许重复），
// 刷新端批量弹出、去重后逐条发布 product.updated，把上游突发写入
// 收敛为有界、去重的重建流。
type EventBuffer struct {
	queue     domain.WorkQueue
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
}

// NewEventBuffer 创建事件缓冲
func NewEventBuffer(queue domain.WorkQueue, publisher domain.EventPublisher, m *metrics.Metrics) *EventBuffer {
	return &EventBuffer{queue: queue, publisher: publisher, metrics: m}
}

// Add 追加商品 ID 到队列尾部。不去重、不排序，空输入为 no-op。
func (b *EventBuffer) Add(ctx context.Context, productIDs []int64) error {
	if len(productIDs) == 0 {
		return nil
	}
	return b.queue.Push(ctx, productIDs)
}

// Flush 从队列头部弹出至多 count 条，去重后每个唯一 ID 发布一条 product.updated。
// 单条发布失败只记录日志与指标，不中断本批其余发布。
func (b *EventBuffer) Flush(ctx context.Context, count int) error {
	popped, err := b.queue.Pop(ctx, count)
	if err != nil {
		return err
	}
	if len(popped) == 0 {
		return nil
	}

	if b.metrics != nil {
		b.metrics.BufferFlushTotal.Inc()
	}

	seen := make(map[int64]struct{}, len(popped))
	published := 0
	for _, id := range popped {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if err := b.publisher.PublishProductUpdated(ctx, id); err != nil {
			logger.Error(ctx, "Failed to publish product.updated during flush", "product_id", id, "error", err)
			if b.metrics != nil {
				b.metrics.BufferPublishFailuresTotal.Inc()
			}
			continue
		}
		published++
	}

	if b.metrics != nil {
		b.metrics.BufferPublishedTotal.Add(float64(published))
		if n, err := b.queue.Len(ctx); err == nil {
			b.metrics.BufferQueueLength.Set(float64(n))
		}
	}

	logger.Debug(ctx, "Buffer flushed", "popped", len(popped), "published", published)
	return nil
}
