package domain

import (
	"encoding/json"
	"time"
)

// ProductDocument 商品搜索文档，按商品 ID 作为索引主键的反规范化聚合。
// 文档存在即意味着源商品未删除、有编码、有卖家、有售价。
type ProductDocument struct {
	ID          int64   `json:"id"`
	Code        string  `json:"code"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Description string  `json:"description"`
	SalePrice   float64 `json:"sale_price"`

	PrimaryImageURL string           `json:"primary_image_url"`
	Images          []ImageDocument  `json:"images"`
	GuideImage      *GuideImageEntry `json:"guide_image,omitempty"`
	Labels          []string         `json:"labels"`

	// info 为源库中的动态 JSON 字段，原样透传
	Info json.RawMessage `json:"info,omitempty"`

	Options  []OptionDocument  `json:"options"`
	Variants []VariantDocument `json:"variants"`
	Stocks   []StockDocument   `json:"stocks"`

	Categories        []CategoryDocument `json:"categories"`
	DisplayGroupIDs   []int64            `json:"display_group_ids"`
	RelatedProductIDs []int64            `json:"related_product_ids"`

	Seller    SellerDocument    `json:"seller"`
	BestOrder BestOrderDocument `json:"best_order"`

	ReleasedAt time.Time `json:"released_at"`
}

// SellerDocument 嵌入商品文档的卖家快照
type SellerDocument struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	ImageURL  string   `json:"image_url"`
	StyleTags []string `json:"style_tags"`
}

// BestOrderDocument 订单/点赞/评价聚合计数
type BestOrderDocument struct {
	OrderCount  int64   `json:"order_count"`
	LikeCount   int64   `json:"like_count"`
	ReviewCount int64   `json:"review_count"`
	ReviewScore float64 `json:"review_score"`
}

type ImageDocument struct {
	URL      string `json:"url"`
	Position int    `json:"position"`
}

type GuideImageEntry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type OptionDocument struct {
	Name     string          `json:"name"`
	Required bool            `json:"required"`
	Values   json.RawMessage `json:"values,omitempty"`
}

type VariantDocument struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	SoldOut  bool            `json:"sold_out"`
	Quantity int             `json:"quantity"`
	Options  json.RawMessage `json:"options,omitempty"`
	// 快速配送可用性由库存阶段在变体写入之后合并进来
	QuickDelivery bool `json:"quick_delivery"`
}

type StockDocument struct {
	VariantID     int64 `json:"variant_id"`
	Quantity      int   `json:"quantity"`
	QuickDelivery bool  `json:"quick_delivery"`
}

type CategoryDocument struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// ProductDocumentBuilder 单次组装运行专属的可变聚合。
// 各阶段写入互不重叠的字段（库存阶段对变体字段的合并是唯一例外），
// 因此并发阶段无需加锁；新增阶段时必须保持字段互斥。
type ProductDocumentBuilder struct {
	doc ProductDocument
}

// NewProductDocumentBuilder 创建构建器
func NewProductDocumentBuilder(productID int64) *ProductDocumentBuilder {
	return &ProductDocumentBuilder{doc: ProductDocument{ID: productID}}
}

// SetBase 写入基础字段（BaseRecord 阶段）
func (b *ProductDocumentBuilder) SetBase(p *Product) {
	b.doc.Slug = p.Slug
	b.doc.Name = p.Name
	b.doc.DisplayName = p.DisplayName
	b.doc.Description = p.Description
	b.doc.Info = p.Info
	b.doc.ReleasedAt = p.ReleasedAt
	if p.Code != nil {
		b.doc.Code = *p.Code
	}
	if p.SalePrice != nil {
		b.doc.SalePrice = p.SalePrice.InexactFloat64()
	}
}

// SetSeller 写入卖家快照（Seller 阶段）
func (b *ProductDocumentBuilder) SetSeller(s SellerDocument) {
	b.doc.Seller = s
}

// SetSellerStyleTags 写入卖家风格标签（Seller 阶段的后台读取）
func (b *ProductDocumentBuilder) SetSellerStyleTags(tags []string) {
	b.doc.Seller.StyleTags = tags
}

// SetVariants 写入变体列表（Variants 阶段）
func (b *ProductDocumentBuilder) SetVariants(vs []VariantDocument) {
	b.doc.Variants = vs
}

// SetCategories 写入类目列表（Categories 阶段）
func (b *ProductDocumentBuilder) SetCategories(cs []CategoryDocument) {
	b.doc.Categories = cs
}

// SetDisplayGroupIDs 写入展示分组（DisplayGroups 阶段）
func (b *ProductDocumentBuilder) SetDisplayGroupIDs(ids []int64) {
	b.doc.DisplayGroupIDs = ids
}

// SetPrimaryImageURL 写入主图（PrimaryImage 阶段）
func (b *ProductDocumentBuilder) SetPrimaryImageURL(url string) {
	b.doc.PrimaryImageURL = url
}

// SetImages 写入图片列表（ImageGallery 阶段）
func (b *ProductDocumentBuilder) SetImages(imgs []ImageDocument) {
	b.doc.Images = imgs
}

// SetLabels 写入标签（Labels 阶段）
func (b *ProductDocumentBuilder) SetLabels(labels []string) {
	b.doc.Labels = labels
}

// SetGuideImage 写入尺码指南图（GuideImage 阶段）
func (b *ProductDocumentBuilder) SetGuideImage(g *GuideImageEntry) {
	b.doc.GuideImage = g
}

// SetBestOrder 写入订单聚合（BestOrderStats 阶段）
func (b *ProductDocumentBuilder) SetBestOrder(bo BestOrderDocument) {
	b.doc.BestOrder = bo
}

// SetRelatedProductIDs 写入关联商品（RelatedProducts 阶段）
func (b *ProductDocumentBuilder) SetRelatedProductIDs(ids []int64) {
	b.doc.RelatedProductIDs = ids
}

// SetOptions 写入购买选项（Options 阶段）
func (b *ProductDocumentBuilder) SetOptions(opts []OptionDocument) {
	b.doc.Options = opts
}

// SetStocks 写入库存列表并把快速配送可用性合并进已有变体。
// 这是唯一跨阶段写同一字段的地方：依赖 Variants 阶段先于 Stock 阶段执行。
func (b *ProductDocumentBuilder) SetStocks(stocks []StockDocument) {
	b.doc.Stocks = stocks

	byVariant := make(map[int64]StockDocument, len(stocks))
	for _, s := range stocks {
		byVariant[s.VariantID] = s
	}
	for i := range b.doc.Variants {
		s, ok := byVariant[b.doc.Variants[i].ID]
		if !ok {
			continue
		}
		b.doc.Variants[i].QuickDelivery = s.QuickDelivery
		b.doc.Variants[i].Quantity = s.Quantity
		b.doc.Variants[i].SoldOut = s.Quantity <= 0
	}
}

// Build 返回组装完成的文档
func (b *ProductDocumentBuilder) Build() *ProductDocument {
	doc := b.doc
	return &doc
}
