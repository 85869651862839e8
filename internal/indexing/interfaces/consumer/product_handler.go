package consumer

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/productsearch/internal/indexing/application"
	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

// ProductCDCHandler 商品主表变更处理。删除操作直接发布 product.deleted
// 以保证低延迟，其余操作入队等待重建。
type ProductCDCHandler struct {
	reconciler *application.ReconcileService
	metrics    *metrics.Metrics
}

func NewProductCDCHandler(reconciler *application.ReconcileService, m *metrics.Metrics) *ProductCDCHandler {
	return &ProductCDCHandler{reconciler: reconciler, metrics: m}
}

func (h *ProductCDCHandler) HandleProduct(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[productRow](h.metrics, "products", msg)
	if err != nil {
		return err
	}

	if event.Op == domain.OpDelete {
		return h.reconciler.ProductDeleted(ctx, event.Before.ID)
	}
	return h.reconciler.EnqueueProducts(ctx, event.After.ID)
}
