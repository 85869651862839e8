package consumer

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/productsearch/internal/indexing/application"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

// ImageCDCHandler 图片相关表的变更处理。尺码指南图不携带商品 ID，
// 需要反查引用它的商品；查不到按 no-op 处理。
type ImageCDCHandler struct {
	reconciler *application.ReconcileService
	metrics    *metrics.Metrics
}

func NewImageCDCHandler(reconciler *application.ReconcileService, m *metrics.Metrics) *ImageCDCHandler {
	return &ImageCDCHandler{reconciler: reconciler, metrics: m}
}

func (h *ImageCDCHandler) HandleImage(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[imageRow](h.metrics, "product_images", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueProducts(ctx, event.Row().ProductID)
}

func (h *ImageCDCHandler) HandleImageSet(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[imageSetRow](h.metrics, "product_image_sets", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueProducts(ctx, event.Row().ProductID)
}

func (h *ImageCDCHandler) HandleGuideImage(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[guideImageRow](h.metrics, "guide_images", msg)
	if err != nil {
		return err
	}
	return h.reconciler.EnqueueByGuideImage(ctx, event.Row().ID)
}
