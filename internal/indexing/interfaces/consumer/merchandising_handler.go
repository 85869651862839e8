package consumer

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/productsearch/internal/indexing/application"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

// MerchandisingCDCHandler 聚合统计、关联商品、权益、类目关系与展示分组等
// 直接携带商品 ID 的表的变更处理。
type MerchandisingCDCHandler struct {
	reconciler *application.ReconcileService
	metrics    *metrics.Metrics
}

func NewMerchandisingCDCHandler(reconciler *application.ReconcileService, m *metrics.Metrics) *MerchandisingCDCHandler {
	return &MerchandisingCDCHandler{reconciler: reconciler, metrics: m}
}

func (h *MerchandisingCDCHandler) HandleBestOrderStat(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[bestOrderStatRow](h.metrics, "best_order_stats", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueProducts(ctx, event.Row().ProductID)
}

func (h *MerchandisingCDCHandler) HandleRelatedProduct(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[relatedProductRow](h.metrics, "related_products", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueProducts(ctx, event.Row().ProductID)
}

func (h *MerchandisingCDCHandler) HandleBenefitSet(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[benefitSetRow](h.metrics, "benefit_sets", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueProducts(ctx, event.Row().ProductID)
}

func (h *MerchandisingCDCHandler) HandleProductCategory(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[productCategoryRow](h.metrics, "product_categories", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueProducts(ctx, event.Row().ProductID)
}

func (h *MerchandisingCDCHandler) HandleDisplayGroupProduct(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[displayGroupProductRow](h.metrics, "display_group_products", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueProducts(ctx, event.Row().ProductID)
}
