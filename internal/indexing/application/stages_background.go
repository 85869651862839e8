package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
)

// 后台读取阶段：先发起自身读取，再同步调用下游，下游返回后等待读取结果写入构建器。
// 每个阶段的 I/O 因此与所有下游阶段的执行重叠。

// imageGalleryStage 加载图片列表
type imageGalleryStage struct {
	source domain.SourceRepository
}

func (s *imageGalleryStage) Name() string { return "image_gallery" }

func (s *imageGalleryStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	images := fetchAsync(ctx, func(ctx context.Context) ([]domain.ProductImage, error) {
		return s.source.FindImages(ctx, ic.ProductID)
	})

	out, err := next(ctx)
	if err != nil || out.Absent {
		return out, err
	}

	r := <-images
	if r.err != nil {
		return domain.Outcome{}, fmt.Errorf("image gallery stage: %w", r.err)
	}

	docs := make([]domain.ImageDocument, 0, len(r.val))
	for _, img := range r.val {
		docs = append(docs, domain.ImageDocument{URL: img.URL, Position: img.Position})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Position < docs[j].Position })
	ic.Builder.SetImages(docs)
	return out, nil
}

// labelsStage 加载商品标签
type labelsStage struct {
	source domain.SourceRepository
}

func (s *labelsStage) Name() string { return "labels" }

func (s *labelsStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	labels := fetchAsync(ctx, func(ctx context.Context) ([]string, error) {
		return s.source.FindLabels(ctx, ic.ProductID)
	})

	out, err := next(ctx)
	if err != nil || out.Absent {
		return out, err
	}

	r := <-labels
	if r.err != nil {
		return domain.Outcome{}, fmt.Errorf("labels stage: %w", r.err)
	}
	ic.Builder.SetLabels(r.val)
	return out, nil
}

// guideImageStage 加载尺码指南图；商品未引用时跳过
type guideImageStage struct {
	source domain.SourceRepository
}

func (s *guideImageStage) Name() string { return "guide_image" }

func (s *guideImageStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	product := ic.Metadata[metaKeyProduct].(*domain.Product)
	if product.GuideImageID == nil {
		return next(ctx)
	}
	guideImageID := *product.GuideImageID

	guide := fetchAsync(ctx, func(ctx context.Context) (*domain.GuideImage, error) {
		return s.source.FindGuideImage(ctx, guideImageID)
	})

	out, err := next(ctx)
	if err != nil || out.Absent {
		return out, err
	}

	r := <-guide
	if r.err != nil {
		return domain.Outcome{}, fmt.Errorf("guide image stage: %w", r.err)
	}
	if r.val != nil {
		ic.Builder.SetGuideImage(&domain.GuideImageEntry{Title: r.val.Title, URL: r.val.URL})
	}
	return out, nil
}

// relatedProductsStage 加载关联商品 ID
type relatedProductsStage struct {
	source domain.SourceRepository
}

func (s *relatedProductsStage) Name() string { return "related_products" }

func (s *relatedProductsStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	related := fetchAsync(ctx, func(ctx context.Context) ([]int64, error) {
		return s.source.FindRelatedProductIDs(ctx, ic.ProductID)
	})

	out, err := next(ctx)
	if err != nil || out.Absent {
		return out, err
	}

	r := <-related
	if r.err != nil {
		return domain.Outcome{}, fmt.Errorf("related products stage: %w", r.err)
	}
	ic.Builder.SetRelatedProductIDs(r.val)
	return out, nil
}

// optionsStage 加载购买选项
type optionsStage struct {
	source domain.SourceRepository
}

func (s *optionsStage) Name() string { return "options" }

func (s *optionsStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	options := fetchAsync(ctx, func(ctx context.Context) ([]domain.ProductOption, error) {
		return s.source.FindOptions(ctx, ic.ProductID)
	})

	out, err := next(ctx)
	if err != nil || out.Absent {
		return out, err
	}

	r := <-options
	if r.err != nil {
		return domain.Outcome{}, fmt.Errorf("options stage: %w", r.err)
	}

	docs := make([]domain.OptionDocument, 0, len(r.val))
	for _, o := range r.val {
		docs = append(docs, domain.OptionDocument{Name: o.Name, Required: o.Required, Values: o.Values})
	}
	ic.Builder.SetOptions(docs)
	return out, nil
}

// stockStage 加载库存并把快速配送可用性合并进变体字段。
// 这是阶段间字段互斥规则的唯一例外，依赖 variantsStage 已经执行。
type stockStage struct {
	source domain.SourceRepository
}

func (s *stockStage) Name() string { return "stock" }

func (s *stockStage) Handle(ctx context.Context, ic *domain.IndexContext, next domain.Next) (domain.Outcome, error) {
	variantIDs, _ := ic.Metadata[metaKeyVariantIDs].([]int64)

	stocks := fetchAsync(ctx, func(ctx context.Context) ([]domain.ProductStock, error) {
		if len(variantIDs) == 0 {
			return nil, nil
		}
		return s.source.FindStocks(ctx, variantIDs)
	})

	out, err := next(ctx)
	if err != nil || out.Absent {
		return out, err
	}

	r := <-stocks
	if r.err != nil {
		return domain.Outcome{}, fmt.Errorf("stock stage: %w", r.err)
	}

	docs := make([]domain.StockDocument, 0, len(r.val))
	for _, st := range r.val {
		docs = append(docs, domain.StockDocument{
			VariantID:     st.VariantID,
			Quantity:      st.Quantity,
			QuickDelivery: st.QuickDelivery,
		})
	}
	ic.Builder.SetStocks(docs)
	return out, nil
}
