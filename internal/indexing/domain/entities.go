package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// 源库实体，只读。索引侧不持有这些表的写路径。

type Product struct {
	ID           int64            `gorm:"column:id;primaryKey"`
	SellerID     *int64           `gorm:"column:seller_id"`
	Code         *string          `gorm:"column:code;type:varchar(64)"`
	Slug         string           `gorm:"column:slug;type:varchar(255)"`
	Name         string           `gorm:"column:name;type:varchar(255);not null"`
	DisplayName  string           `gorm:"column:display_name;type:varchar(255)"`
	Description  string           `gorm:"column:description;type:text"`
	SalePrice    *decimal.Decimal `gorm:"column:sale_price;type:decimal(20,2)"`
	GuideImageID *int64           `gorm:"column:guide_image_id"`
	Info         json.RawMessage  `gorm:"column:info;type:json"`
	ReleasedAt   time.Time        `gorm:"column:released_at"`
	DeletedAt    *time.Time       `gorm:"column:deleted_at"`
	CreatedAt    time.Time        `gorm:"column:created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at"`
}

func (Product) TableName() string { return "products" }

type Seller struct {
	ID        int64      `gorm:"column:id;primaryKey"`
	Name      string     `gorm:"column:name;type:varchar(255);not null"`
	Slug      string     `gorm:"column:slug;type:varchar(255)"`
	ImageURL  string     `gorm:"column:image_url;type:varchar(1024)"`
	DeletedAt *time.Time `gorm:"column:deleted_at"`
}

func (Seller) TableName() string { return "sellers" }

type SellerStyleTag struct {
	ID       int64  `gorm:"column:id;primaryKey"`
	SellerID int64  `gorm:"column:seller_id;index"`
	Tag      string `gorm:"column:tag;type:varchar(64)"`
}

func (SellerStyleTag) TableName() string { return "seller_style_tags" }

type ProductVariant struct {
	ID        int64           `gorm:"column:id;primaryKey"`
	ProductID int64           `gorm:"column:product_id;index"`
	Name      string          `gorm:"column:name;type:varchar(255)"`
	SoldOut   bool            `gorm:"column:sold_out"`
	Quantity  int             `gorm:"column:quantity"`
	Options   json.RawMessage `gorm:"column:options;type:json"`
}

func (ProductVariant) TableName() string { return "product_variants" }

type VariantOptionSet struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	VariantID int64  `gorm:"column:variant_id;index"`
	Name      string `gorm:"column:name;type:varchar(64)"`
	Value     string `gorm:"column:value;type:varchar(255)"`
}

func (VariantOptionSet) TableName() string { return "variant_option_sets" }

type ProductOption struct {
	ID        int64           `gorm:"column:id;primaryKey"`
	ProductID int64           `gorm:"column:product_id;index"`
	Name      string          `gorm:"column:name;type:varchar(255)"`
	Required  bool            `gorm:"column:required"`
	Values    json.RawMessage `gorm:"column:option_values;type:json"`
}

func (ProductOption) TableName() string { return "product_options" }

// ProductImage.Kind 取值
const (
	ImageKindPrimary = "primary"
	ImageKindGallery = "gallery"
)

type ProductImage struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	ProductID int64  `gorm:"column:product_id;index"`
	URL       string `gorm:"column:url;type:varchar(1024);not null"`
	Kind      string `gorm:"column:kind;type:varchar(16);index"`
	Position  int    `gorm:"column:position"`
}

func (ProductImage) TableName() string { return "product_images" }

type ProductImageSet struct {
	ID        int64 `gorm:"column:id;primaryKey"`
	ProductID int64 `gorm:"column:product_id;index"`
	ImageID   int64 `gorm:"column:image_id"`
}

func (ProductImageSet) TableName() string { return "product_image_sets" }

type GuideImage struct {
	ID    int64  `gorm:"column:id;primaryKey"`
	Title string `gorm:"column:title;type:varchar(255)"`
	URL   string `gorm:"column:url;type:varchar(1024);not null"`
}

func (GuideImage) TableName() string { return "guide_images" }

type ProductLabel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	ProductID int64  `gorm:"column:product_id;index"`
	Name      string `gorm:"column:name;type:varchar(64)"`
}

func (ProductLabel) TableName() string { return "product_labels" }

type ProductStock struct {
	ID            int64 `gorm:"column:id;primaryKey"`
	VariantID     int64 `gorm:"column:variant_id;index"`
	Quantity      int   `gorm:"column:quantity"`
	QuickDelivery bool  `gorm:"column:quick_delivery"`
}

func (ProductStock) TableName() string { return "product_stocks" }

type BestOrderStat struct {
	ProductID   int64   `gorm:"column:product_id;primaryKey"`
	OrderCount  int64   `gorm:"column:order_count"`
	LikeCount   int64   `gorm:"column:like_count"`
	ReviewCount int64   `gorm:"column:review_count"`
	ReviewScore float64 `gorm:"column:review_score"`
}

func (BestOrderStat) TableName() string { return "best_order_stats" }

type RelatedProduct struct {
	ID               int64 `gorm:"column:id;primaryKey"`
	ProductID        int64 `gorm:"column:product_id;index"`
	RelatedProductID int64 `gorm:"column:related_product_id"`
}

func (RelatedProduct) TableName() string { return "related_products" }

type BenefitSet struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	ProductID int64  `gorm:"column:product_id;index"`
	Kind      string `gorm:"column:kind;type:varchar(32)"`
	Value     string `gorm:"column:value;type:varchar(255)"`
}

func (BenefitSet) TableName() string { return "benefit_sets" }

type ProductCategory struct {
	ID         int64 `gorm:"column:id;primaryKey"`
	ProductID  int64 `gorm:"column:product_id;index"`
	CategoryID int64 `gorm:"column:category_id;index"`
}

func (ProductCategory) TableName() string { return "product_categories" }

type DisplayGroupProduct struct {
	ID             int64 `gorm:"column:id;primaryKey"`
	DisplayGroupID int64 `gorm:"column:display_group_id;index"`
	ProductID      int64 `gorm:"column:product_id;index"`
}

func (DisplayGroupProduct) TableName() string { return "display_group_products" }
