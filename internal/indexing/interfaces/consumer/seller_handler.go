package consumer

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/productsearch/internal/indexing/application"
	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

// SellerCDCHandler 卖家身份表变更处理：发布卖家级事件（卖家自身的索引
// 在别处维护），同时把该卖家全部商品入队重建内嵌的卖家快照。
type SellerCDCHandler struct {
	reconciler *application.ReconcileService
	metrics    *metrics.Metrics
}

func NewSellerCDCHandler(reconciler *application.ReconcileService, m *metrics.Metrics) *SellerCDCHandler {
	return &SellerCDCHandler{reconciler: reconciler, metrics: m}
}

func (h *SellerCDCHandler) HandleSeller(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[sellerRow](h.metrics, "sellers", msg)
	if err != nil {
		return err
	}
	return h.reconciler.SellerChanged(ctx, event.Row().ID, event.Op == domain.OpDelete)
}
