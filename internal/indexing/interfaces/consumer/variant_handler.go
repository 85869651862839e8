package consumer

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/productsearch/internal/indexing/application"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

// VariantCDCHandler 变体相关表的变更处理。变体主表直接携带商品 ID；
// 选项组与库存只携带变体 ID，需要反查一次。
type VariantCDCHandler struct {
	reconciler *application.ReconcileService
	metrics    *metrics.Metrics
}

func NewVariantCDCHandler(reconciler *application.ReconcileService, m *metrics.Metrics) *VariantCDCHandler {
	return &VariantCDCHandler{reconciler: reconciler, metrics: m}
}

func (h *VariantCDCHandler) HandleVariant(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[variantRow](h.metrics, "product_variants", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueProducts(ctx, event.Row().ProductID)
}

func (h *VariantCDCHandler) HandleVariantOptionSet(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[variantOptionSetRow](h.metrics, "variant_option_sets", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueByVariant(ctx, event.Row().VariantID)
}

func (h *VariantCDCHandler) HandleStock(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[stockRow](h.metrics, "product_stocks", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueByVariant(ctx, event.Row().VariantID)
}

func (h *VariantCDCHandler) HandleOption(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[optionRow](h.metrics, "product_options", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueProducts(ctx, event.Row().ProductID)
}
