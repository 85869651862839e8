package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
)

// 组装管线的同步阶段。每个阶段只写构建器中属于自己的字段。

// baseRecordStage 加载商品基础记录并承担大部分短路判断
type baseRecordStage struct {
	source   domain.SourceRepository
	denylist map[string]struct{}
}

func (s *baseRecordStage) Name() string { return "base_record" }

func (s *baseRecordStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	product, err := s.source.FindProduct(ctx, ic.ProductID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("base record stage: %w", err)
	}

	switch {
	case product == nil:
		return domain.Absent("not_found"), nil
	case product.DeletedAt != nil:
		return domain.Absent("deleted"), nil
	case product.Code == nil || *product.Code == "":
		return domain.Absent("missing_code"), nil
	case product.SalePrice == nil:
		return domain.Absent("missing_price"), nil
	}
	if _, denied := s.denylist[*product.Code]; denied {
		return domain.Absent("denylisted_code"), nil
	}

	ic.Builder.SetBase(product)
	ic.Metadata[metaKeyProduct] = product

	return next(ctx)
}

// sellerStage 加载卖家快照；风格标签在后台读取，与下游阶段并行
type sellerStage struct {
	source domain.SourceRepository
}

func (s *sellerStage) Name() string { return "seller" }

func (s *sellerStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	product := ic.Metadata[metaKeyProduct].(*domain.Product)
	if product.SellerID == nil {
		return domain.Absent("missing_seller_ref"), nil
	}

	seller, err := s.source.FindSeller(ctx, *product.SellerID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("seller stage: %w", err)
	}
	if seller == nil {
		return domain.Absent("seller_not_found"), nil
	}

	ic.Builder.SetSeller(domain.SellerDocument{
		ID:       seller.ID,
		Name:     seller.Name,
		Slug:     seller.Slug,
		ImageURL: seller.ImageURL,
	})

	tags := fetchAsync(ctx, func(ctx context.Context) ([]string, error) {
		return s.source.FindSellerStyleTags(ctx, seller.ID)
	})

	out, err := next(ctx)
	if err != nil || out.Absent {
		return out, err
	}

	r := <-tags
	if r.err != nil {
		return domain.Outcome{}, fmt.Errorf("seller stage: style tags: %w", r.err)
	}
	ic.Builder.SetSellerStyleTags(r.val)
	return out, nil
}

// variantsStage 加载变体列表。必须位于 stockStage 之前。
type variantsStage struct {
	source domain.SourceRepository
}

func (s *variantsStage) Name() string { return "variants" }

func (s *variantsStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	variants, err := s.source.FindVariants(ctx, ic.ProductID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("variants stage: %w", err)
	}

	docs := make([]domain.VariantDocument, 0, len(variants))
	ids := make([]int64, 0, len(variants))
	for _, v := range variants {
		docs = append(docs, domain.VariantDocument{
			ID:       v.ID,
			Name:     v.Name,
			SoldOut:  v.SoldOut,
			Quantity: v.Quantity,
			Options:  v.Options,
		})
		ids = append(ids, v.ID)
	}

	ic.Builder.SetVariants(docs)
	ic.Metadata[metaKeyVariantIDs] = ids

	return next(ctx)
}

// categoriesStage 加载类目并通过类目缓存补全路径
type categoriesStage struct {
	source     domain.SourceRepository
	categories CategoryResolver
}

func (s *categoriesStage) Name() string { return "categories" }

func (s *categoriesStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	ids, err := s.source.FindCategoryIDs(ctx, ic.ProductID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("categories stage: %w", err)
	}

	docs, err := s.categories.Resolve(ctx, ids)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("categories stage: %w", err)
	}
	ic.Builder.SetCategories(docs)

	return next(ctx)
}

// displayGroupsStage 加载展示分组成员关系
type displayGroupsStage struct {
	source domain.SourceRepository
}

func (s *displayGroupsStage) Name() string { return "display_groups" }

func (s *displayGroupsStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	ids, err := s.source.FindDisplayGroupIDs(ctx, ic.ProductID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("display groups stage: %w", err)
	}
	ic.Builder.SetDisplayGroupIDs(ids)

	return next(ctx)
}

// primaryImageStage 加载主图
type primaryImageStage struct {
	source domain.SourceRepository
}

func (s *primaryImageStage) Name() string { return "primary_image" }

func (s *primaryImageStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	img, err := s.source.FindPrimaryImage(ctx, ic.ProductID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("primary image stage: %w", err)
	}
	if img != nil {
		ic.Builder.SetPrimaryImageURL(img.URL)
	}

	return next(ctx)
}

// bestOrderStatsStage 加载订单/点赞/评价聚合，缺失时保持零值
type bestOrderStatsStage struct {
	source domain.SourceRepository
}

func (s *bestOrderStatsStage) Name() string { return "best_order_stats" }

func (s *bestOrderStatsStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	stat, err := s.source.FindBestOrderStat(ctx, ic.ProductID)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("best order stats stage: %w", err)
	}
	if stat != nil {
		ic.Builder.SetBestOrder(domain.BestOrderDocument{
			OrderCount:  stat.OrderCount,
			LikeCount:   stat.LikeCount,
			ReviewCount: stat.ReviewCount,
			ReviewScore: stat.ReviewScore,
		})
	}

	return next(ctx)
}
