package consumer

import (
	"context"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/productsearch/internal/indexing/application"
	"github.com/wyfcoding/productsearch/pkg/logger"
	"github.com/wyfcoding/productsearch/pkg/metrics"
)

// CategoryReloader 类目缓存的失效入口
type CategoryReloader interface {
	LoadCache(ctx context.Context) error
}

// CategoryCDCHandler 类目表变更处理：刷新类目缓存，并把该类目下全部商品
// 分页入队重建（类目名/路径已反规范化进商品文档）。
type CategoryCDCHandler struct {
	reconciler *application.ReconcileService
	reloader   CategoryReloader
	metrics    *metrics.Metrics
}

func NewCategoryCDCHandler(reconciler *application.ReconcileService, reloader CategoryReloader, m *metrics.Metrics) *CategoryCDCHandler {
	return &CategoryCDCHandler{reconciler: reconciler, reloader: reloader, metrics: m}
}

func (h *CategoryCDCHandler) HandleCategory(ctx context.Context, msg kafka.Message) error {
	event, err := decodeEvent[categoryRow](h.metrics, "categories", msg)
	if err != nil {
		return err
	}

	if err := h.reloader.LoadCache(ctx); err != nil {
		// 缓存刷新失败不阻断扇出，下一次变更或定时加载会补上
		logger.Error(ctx, "Failed to reload category cache", "error", err)
	}

	return h.reconciler.FanoutCategory(ctx, event.Row().ID)
}
