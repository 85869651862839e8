package domain

import "context"

// SourceRepository 源库只读访问。点查不存在时返回 nil 而非错误。
type SourceRepository interface {
	FindProduct(ctx context.Context, id int64) (*Product, error)
	FindSeller(ctx context.Context, id int64) (*Seller, error)
	FindSellerStyleTags(ctx context.Context, sellerID int64) ([]string, error)
	FindVariants(ctx context.Context, productID int64) ([]ProductVariant, error)
	FindCategoryIDs(ctx context.Context, productID int64) ([]int64, error)
	FindDisplayGroupIDs(ctx context.Context, productID int64) ([]int64, error)
	FindPrimaryImage(ctx context.Context, productID int64) (*ProductImage, error)
	FindImages(ctx context.Context, productID int64) ([]ProductImage, error)
	FindLabels(ctx context.Context, productID int64) ([]string, error)
	FindGuideImage(ctx context.Context, id int64) (*GuideImage, error)
	FindBestOrderStat(ctx context.Context, productID int64) (*BestOrderStat, error)
	FindRelatedProductIDs(ctx context.Context, productID int64) ([]int64, error)
	FindOptions(ctx context.Context, productID int64) ([]ProductOption, error)
	FindStocks(ctx context.Context, variantIDs []int64) ([]ProductStock, error)

	// ProductIDByVariant 变体到商品的点查，未命中返回 0
	ProductIDByVariant(ctx context.Context, variantID int64) (int64, error)
	// ProductIDsByGuideImage 引用某尺码指南图的商品
	ProductIDsByGuideImage(ctx context.Context, guideImageID int64) ([]int64, error)

	// 游标分页 ID 扫描，返回少于 limit 即为最后一页
	ProductIDsByCategory(ctx context.Context, categoryID, afterID int64, limit int) ([]int64, error)
	ProductIDsBySeller(ctx context.Context, sellerID, afterID int64, limit int) ([]int64, error)
	ProductIDsAfter(ctx context.Context, afterID int64, limit int) ([]int64, error)
}

// WorkQueue 重建索引等待队列。Push 原样追加（允许重复），Pop 原子弹出至多 count 条。
type WorkQueue interface {
	Push(ctx context.Context, productIDs []int64) error
	Pop(ctx context.Context, count int) ([]int64, error)
	Len(ctx context.Context) (int64, error)
}

// EventPublisher 事件总线发布端
type EventPublisher interface {
	PublishProductUpdated(ctx context.Context, productID int64) error
	PublishProductDeleted(ctx context.Context, productID int64) error
	PublishSellerUpdated(ctx context.Context, sellerID int64) error
	PublishSellerDeleted(ctx context.Context, sellerID int64) error
}

// DocumentRepository 搜索索引写入端
type DocumentRepository interface {
	Save(ctx context.Context, doc *ProductDocument) error
	Delete(ctx context.Context, productID int64) error
}
