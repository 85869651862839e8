package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/productsearch/internal/indexing/application"
	"github.com/wyfcoding/productsearch/internal/indexing/domain"
)

// ProductEventHandler 消费事件总线上的商品事件，驱动索引写入。
// 处理失败返回 error，整条消息作为一个单元重投递重试。
type ProductEventHandler struct {
	indexer *application.IndexerService
}

func NewProductEventHandler(indexer *application.IndexerService) *ProductEventHandler {
	return &ProductEventHandler{indexer: indexer}
}

func (h *ProductEventHandler) HandleProductUpdated(ctx context.Context, msg kafka.Message) error {
	var event domain.ProductUpdatedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("decode product.updated event: %w", err)
	}
	return h.indexer.ReindexProduct(ctx, event.ProductID)
}

func (h *ProductEventHandler) HandleProductDeleted(ctx context.Context, msg kafka.Message) error {
	var event domain.ProductDeletedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("decode product.deleted event: %w", err)
	}
	return h.indexer.RemoveProduct(ctx, event.ProductID)
}
