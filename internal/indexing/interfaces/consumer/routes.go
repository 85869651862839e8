package consumer

import (
	"github.com/wyfcoding/productsearch/pkg/mq"
)

// Route 一个订阅 topic 与其处理函数
type Route struct {
	Topic   string
	Handler mq.Handler
}

// CDCRoutes 返回全部 CDC 订阅。topic 为前缀加源表名，一表一 topic。
func CDCRoutes(
	prefix string,
	product *ProductCDCHandler,
	variant *VariantCDCHandler,
	image *ImageCDCHandler,
	merchandising *MerchandisingCDCHandler,
	category *CategoryCDCHandler,
	seller *SellerCDCHandler,
) []Route {
	return []Route{
		{Topic: prefix + "products", Handler: product.HandleProduct},
		{Topic: prefix + "product_variants", Handler: variant.HandleVariant},
		{Topic: prefix + "variant_option_sets", Handler: variant.HandleVariantOptionSet},
		{Topic: prefix + "product_stocks", Handler: variant.HandleStock},
		{Topic: prefix + "product_options", Handler: variant.HandleOption},
		{Topic: prefix + "product_images", Handler: image.HandleImage},
		{Topic: prefix + "product_image_sets", Handler: image.HandleImageSet},
		{Topic: prefix + "guide_images", Handler: image.HandleGuideImage},
		{Topic: prefix + "best_order_stats", Handler: merchandising.HandleBestOrderStat},
		{Topic: prefix + "related_products", Handler: merchandising.HandleRelatedProduct},
		{Topic: prefix + "benefit_sets", Handler: merchandising.HandleBenefitSet},
		{Topic: prefix + "product_categories", Handler: merchandising.HandleProductCategory},
		{Topic: prefix + "display_group_products", Handler: merchandising.HandleDisplayGroupProduct},
		{Topic: prefix + "categories", Handler: category.HandleCategory},
		{Topic: prefix + "sellers", Handler: seller.HandleSeller},
	}
}
