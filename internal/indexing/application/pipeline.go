package application

import (
	"context"

	"github.com/wyfcoding/productsearch/internal/indexing/domain"
)

// IndexContext 元数据键。基础阶段写入，后续阶段读取。
const (
	metaKeyProduct    = "product"
	metaKeyVariantIDs = "variant_ids"
)

// CategoryResolver 把类目 ID 解析为带路径的类目文档（由类目缓存实现）
type CategoryResolver interface {
	Resolve(ctx context.Context, ids []int64) ([]domain.CategoryDocument, error)
}

// AssemblyPipeline 商品文档组装管线。阶段顺序固定：
// BaseRecord → Seller → Variants → Categories → DisplayGroups → PrimaryImage →
// ImageGallery → Labels → GuideImage → BestOrderStats → RelatedProducts → Options → Stock。
// Variants 必须先于 Stock：库存阶段会把快速配送可用性合并进变体字段。
type AssemblyPipeline struct {
	chain *domain.Chain
}

// NewAssemblyPipeline 按固定顺序注册全部阶段
func NewAssemblyPipeline(source domain.SourceRepository, categories CategoryResolver, codeDenylist []string) *AssemblyPipeline {
	denylist := make(map[string]struct{}, len(codeDenylist))
	for _, code := range codeDenylist {
		denylist[code] = struct{}{}
	}

	chain := domain.NewChain(
		&baseRecordStage{source: source, denylist: denylist},
		&sellerStage{source: source},
		&variantsStage{source: source},
		&categoriesStage{source: source, categories: categories},
		&displayGroupsStage{source: source},
		&primaryImageStage{source: source},
		&imageGalleryStage{source: source},
		&labelsStage{source: source},
		&guideImageStage{source: source},
		&bestOrderStatsStage{source: source},
		&relatedProductsStage{source: source},
		&optionsStage{source: source},
		&stockStage{source: source},
	)

	return &AssemblyPipeline{chain: chain}
}

// Assemble 组装一篇商品文档。outcome.Absent 为真时文档为 nil，调用方应将该 ID 从索引删除。
func (p *AssemblyPipeline) Assemble(ctx context.Context, productID int64) (*domain.ProductDocument, domain.Outcome, error) {
	ic := domain.NewIndexContext(productID)

	outcome, err := p.chain.Run(ctx, ic)
	if err != nil {
		return nil, domain.Outcome{}, err
	}
	if outcome.Absent {
		return nil, outcome, nil
	}
	return ic.Builder.Build(), outcome, nil
}

// StageNames 暴露阶段注册顺序
func (p *AssemblyPipeline) StageNames() []string {
	return p.chain.StageNames()
}

type fetchResult[T any] struct {
	val T
	err error
}

// fetchAsync 在后台发起读取并返回带缓冲的结果通道。
// 通道缓冲为 1，链提前终止时 goroutine 也能退出。
func fetchAsync[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan fetchResult[T] {
	ch := make(chan fetchResult[T], 1)
	go func() {
		val, err := fn(ctx)
		ch <- fetchResult[T]{val: val, err: err}
	}()
	return ch
}
