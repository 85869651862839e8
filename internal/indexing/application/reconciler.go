package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
	"github.com/wyfcoding/productsearch/pkg/logger"
)

// ReconcileService 把行级变更换算为受影响的商品 ID 并送入等待队列，
// 或在需要时直接发布商品/卖家事件。查找未命中一律按 no-op 处理。
type ReconcileService struct {
	buffer         *EventBuffer
	source         domain.SourceRepository
	publisher      domain.EventPublisher
	fanoutPageSize int
}

// NewReconcileService 创建变更换算服务
func NewReconcileService(buffer *EventBuffer, source domain.SourceRepository, publisher domain.EventPublisher, fanoutPageSize int) *ReconcileService {
	if fanoutPageSize <= 0 {
		fanoutPageSize = 1000
	}
	return &ReconcileService{
		buffer:         buffer,
		source:         source,
		publisher:      publisher,
		fanoutPageSize: fanoutPageSize,
	}
}

// EnqueueProducts 把商品 ID 推入等待队列
func (s *ReconcileService) EnqueueProducts(ctx context.Context, productIDs ...int64) error {
	return s.buffer.Add(ctx, productIDs)
}

// EnqueueByVariant 通过变体 ID 反查商品后入队。变体已不可解析时记录日志并跳过。
func (s *ReconcileService) EnqueueByVariant(ctx context.Context, variantID int64) error {
	productID, err := s.source.ProductIDByVariant(ctx, variantID)
	if err != nil {
		return fmt.Errorf("resolve variant %d: %w", variantID, err)
	}
	if productID == 0 {
		logger.Warn(ctx, "Variant no longer resolves to a product, skipping", "variant_id", variantID)
		return nil
	}
	return s.buffer.Add(ctx, []int64{productID})
}

// EnqueueByGuideImage 通过尺码指南图反查引用商品后入队。无引用商品时为 no-op。
func (s *ReconcileService) EnqueueByGuideImage(ctx context.Context, guideImageID int64) error {
	productIDs, err := s.source.ProductIDsByGuideImage(ctx, guideImageID)
	if err != nil {
		return fmt.Errorf("resolve guide image %d: %w", guideImageID, err)
	}
	if len(productIDs) == 0 {
		logger.Warn(ctx, "Guide image has no owning product, skipping", "guide_image_id", guideImageID)
		return nil
	}
	return s.buffer.Add(ctx, productIDs)
}

// FanoutCategory 把类目下全部商品分页入队。页不满即最后一页。
func (s *ReconcileService) FanoutCategory(ctx context.Context, categoryID int64) error {
	return s.fanout(ctx, func(afterID int64) ([]int64, error) {
		return s.source.ProductIDsByCategory(ctx, categoryID, afterID, s.fanoutPageSize)
	})
}

// FanoutSeller 把卖家下全部商品分页入队
func (s *ReconcileService) FanoutSeller(ctx context.Context, sellerID int64) error {
	return s.fanout(ctx, func(afterID int64) ([]int64, error) {
		return s.source.ProductIDsBySeller(ctx, sellerID, afterID, s.fanoutPageSize)
	})
}

func (s *ReconcileService) fanout(ctx context.Context, page func(afterID int64) ([]int64, error)) error {
	var afterID int64
	for {
		ids, err := page(afterID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := s.buffer.Add(ctx, ids); err != nil {
			return err
		}
		if len(ids) < s.fanoutPageSize {
			return nil
		}
		afterID = ids[len(ids)-1]
	}
}

// ProductDeleted 商品删除走低延迟直达路径：直接发布 product.deleted，不经过队列
func (s *ReconcileService) ProductDeleted(ctx context.Context, productID int64) error {
	return s.publisher.PublishProductDeleted(ctx, productID)
}

// SellerChanged 卖家身份变更：发布卖家级事件并把该卖家全部商品入队重建
func (s *ReconcileService) SellerChanged(ctx context.Context, sellerID int64, deleted bool) error {
	if deleted {
		if err := s.publisher.PublishSellerDeleted(ctx, sellerID); err != nil {
			return err
		}
	} else {
		if err := s.publisher.PublishSellerUpdated(ctx, sellerID); err != nil {
			return err
		}
	}
	return s.FanoutSeller(ctx, sellerID)
}
